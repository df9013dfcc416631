package reduction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalText(t *testing.T) {
	tests := []struct {
		text     string
		expected Reduction
	}{
		{"lifetime", Lifetime},
		{"tau", Lifetime},
		{"amplitude", Amplitude},
		{"offset", Offset},
		{"decay_time", DecayTime},
		{"decay", DecayTime},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := UnmarshalText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := UnmarshalText("bogus")
	assert.Error(t, err)
}

func TestIsFit(t *testing.T) {
	assert.True(t, Lifetime.IsFit())
	assert.True(t, Amplitude.IsFit())
	assert.True(t, Offset.IsFit())
	assert.False(t, DecayTime.IsFit())
}

func TestRoundTripString(t *testing.T) {
	for _, r := range []Reduction{Lifetime, Amplitude, Offset, DecayTime} {
		got, err := UnmarshalText(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}
