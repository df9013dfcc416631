package lambertw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestW0KnownValues(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"zero", 0, 0},
		{"branch point", BranchPoint, -1},
		{"omega constant", 1, 0.5671432904097838},
		{"e", math.E, 1},
		{"two e squared", 2 * math.E * math.E, 2},
		{"minus ln2 over 2", -math.Ln2 / 2, -math.Ln2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, W0(tt.x), 1e-12)
		})
	}
}

func TestW0Inverse(t *testing.T) {
	xs := []float64{
		BranchPoint + 1e-12, BranchPoint + 1e-7, BranchPoint + 1e-4,
		-0.3, -0.25, -0.1, -0.011636, -1e-9, 1e-9, 0.5, 2.9, 3, 10, 1e3, 1e10,
	}
	for _, x := range xs {
		w := W0(x)
		assert.False(t, math.IsNaN(w), "W0(%g) is NaN", x)
		assert.GreaterOrEqual(t, w, -1.0)
		assert.InDelta(t, x, w*math.Exp(w), 1e-9*math.Max(1, math.Abs(x)), "x=%g", x)
	}
}

func TestW0OutsideDomain(t *testing.T) {
	assert.True(t, math.IsNaN(W0(BranchPoint-1e-6)))
	assert.True(t, math.IsNaN(W0(-1)))
	assert.True(t, math.IsNaN(W0(math.NaN())))
}

func TestW0Monotone(t *testing.T) {
	prev := W0(BranchPoint)
	for x := BranchPoint + 1e-3; x < 5; x += 1e-3 {
		w := W0(x)
		assert.Greater(t, w, prev, "x=%g", x)
		prev = w
	}
}
