package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalText(t *testing.T) {
	tests := []struct {
		text     string
		expected Format
		ext      string
	}{
		{"html", HTML, ".html"},
		{"png", Png, ".png"},
		{"csv", Csv, ".csv"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := UnmarshalText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.ext, got.Ext())
		})
	}

	_, err := UnmarshalText("gif")
	assert.Error(t, err)
}

func TestRoundTripString(t *testing.T) {
	for _, f := range []Format{HTML, Png, Csv} {
		got, err := UnmarshalText(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}
