package abtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZQuantile_StandardLevels(t *testing.T) {
	for _, tc := range []struct {
		p    float64
		want float64
	}{
		{0.95, 1.6449},  // 90% two-tailed / 95% one-tailed
		{0.975, 1.9600}, // 95% two-tailed
		{0.995, 2.5758}, // 99% two-tailed
		{0.80, 0.8416},  // 80% power
		{0.90, 1.2816},  // 90% power
	} {
		assert.InDelta(t, tc.want, zQuantile(tc.p), 1e-4, "p=%.3f", tc.p)
	}
}

func TestZQuantile_Symmetry(t *testing.T) {
	for _, p := range []float64{0.01, 0.1, 0.3, 0.45} {
		assert.InDelta(t, -zQuantile(1-p), zQuantile(p), 1e-9)
	}
	assert.InDelta(t, 0, zQuantile(0.5), 1e-9)
}

func TestZQuantile_Tails(t *testing.T) {
	// Tail region of the approximation, checked against reference values.
	assert.InDelta(t, -2.3263, zQuantile(0.01), 1e-4)
	assert.InDelta(t, 3.0902, zQuantile(0.999), 1e-4)
	assert.True(t, math.IsInf(zQuantile(0), -1))
	assert.True(t, math.IsInf(zQuantile(1), 1))
}

// The quantile function inverts the CDF across the whole working range.
func TestZQuantile_InvertsCDF(t *testing.T) {
	for p := 0.001; p < 1; p += 0.0417 {
		z := zQuantile(p)
		assert.InDelta(t, p, normalCDF(z), 1e-6, "p=%.4f", p)
	}
}

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-12)
	assert.InDelta(t, 0.8413, normalCDF(1), 1e-4)
	assert.InDelta(t, 0.9772, normalCDF(2), 1e-4)
	assert.InDelta(t, 0.0228, normalCDF(-2), 1e-4)
}
