package axis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalText(t *testing.T) {
	tests := []struct {
		text     string
		expected Axis
	}{
		{"reflectance", Reflectance},
		{"r", Reflectance},
		{"initial_fraction", InitialFraction},
		{"n20", InitialFraction},
		{"coupling", Coupling},
		{"alpha", Coupling},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := UnmarshalText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := UnmarshalText("thickness")
	assert.Error(t, err)
}

func TestRoundTripString(t *testing.T) {
	for _, a := range []Axis{Reflectance, InitialFraction, Coupling} {
		got, err := UnmarshalText(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "Axis(9)", Axis(9).String())
}

func TestScale(t *testing.T) {
	assert.Equal(t, 50.0, Reflectance.Scale(0.5))
	assert.Equal(t, 0.5, InitialFraction.Scale(0.5))
	assert.Equal(t, "Reflectance (%)", Reflectance.Label())
}
