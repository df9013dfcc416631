package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalText(t *testing.T) {
	tests := []struct {
		text     string
		expected Regime
	}{
		{"general", General},
		{"g", General},
		{"inversion", Inversion},
		{"i", Inversion},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := UnmarshalText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := UnmarshalText("laser")
	assert.Error(t, err)
}

func TestRoundTripString(t *testing.T) {
	for _, r := range []Regime{General, Inversion} {
		got, err := UnmarshalText(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	assert.Equal(t, "Regime(7)", Regime(7).String())
}
