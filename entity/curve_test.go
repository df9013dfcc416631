package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurve(t *testing.T) {
	_, err := NewCurve("", []float64{0}, []float64{1})
	assert.Error(t, err)

	_, err = NewCurve("r=0.5", []float64{0, 1}, []float64{1})
	assert.Error(t, err)

	c, err := NewCurve("r=0.5", []float64{0, 1, 2}, []float64{0.2, 0.1, 0.05})
	require.NoError(t, err)
	assert.Equal(t, "r=0.5", c.Name())
	assert.Len(t, c.Data(), 3)
	assert.Equal(t, 0.1, c.Data()[1].Value)
}

func TestCurveNormalized(t *testing.T) {
	c, err := NewCurve("n", []float64{0, 1, 2}, []float64{0.2, 0.1, 0.05})
	require.NoError(t, err)

	n := c.Normalized()
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25}, n.Values(), 1e-15)
	assert.Equal(t, []float64{0.2, 0.1, 0.05}, c.Values(), "original untouched")

	zero, err := NewCurve("z", []float64{0, 1}, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, zero.Normalized().Values())
}
