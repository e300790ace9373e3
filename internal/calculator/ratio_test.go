package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlooredRatio(t *testing.T) {
	assert.Equal(t, 1.875, FlooredRatio(1_500_000, 800_000))
	assert.Equal(t, 5.0, FlooredRatio(5, 0))
	assert.Equal(t, 5.0, FlooredRatio(5, 0.25))
	assert.Equal(t, 5.0, FlooredRatio(5, -10))
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		places   int32
		expected float64
	}{
		{2.7150000000000003, 3, 2.715},
		{0.1234, 3, 0.123},
		{0.1235, 3, 0.124},
		{-0.1235, 3, -0.124},
		{99.95, 1, 100.0},
		{1.875, 3, 1.875},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Round(tt.in, tt.places), "Round(%v, %d)", tt.in, tt.places)
	}
}

func TestRoundNonFinite(t *testing.T) {
	assert.True(t, math.IsInf(Round(math.Inf(1), 3), 1))
	assert.True(t, math.IsInf(Round3(math.Inf(-1)), -1))
	assert.True(t, math.IsNaN(Round(math.NaN(), 1)))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0))
	assert.True(t, Finite(-1e308))
	assert.False(t, Finite(math.Inf(1)))
	assert.False(t, Finite(math.Inf(-1)))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(Ratio(1e10, 1e-300)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 50.0, Clamp(120, -50, 50))
	assert.Equal(t, -50.0, Clamp(-3000, -50, 50))
	assert.Equal(t, 1.5, Clamp(1.5, -50, 50))
}

func TestLogistic(t *testing.T) {
	assert.Equal(t, 0.5, Logistic(0))
	assert.InDelta(t, 1.0, Logistic(50), 1e-12)
	assert.InDelta(t, 0.0, Logistic(-50), 1e-12)

	for _, x := range []float64{-50, -10, -1, 0, 1, 10, 50, 700, -700} {
		p := Logistic(x)
		assert.False(t, math.IsNaN(p))
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}
