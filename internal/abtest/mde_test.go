package abtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekjain24/pmkit/internal/model"
)

func TestMDE_KnownValue(t *testing.T) {
	// n=3835, p1=0.10: mde = 2.8016 * sqrt(2*0.09/3835) ~ 0.0192 -> ~1.92pp.
	result, err := MDE(3835, 10, 95, 80, model.TwoTailed)
	require.NoError(t, err)

	assert.InDelta(t, 1.92, result.AbsoluteMDE, 0.02)
	assert.InDelta(t, 19.2, result.RelativeMDE, 0.2)
	assert.InDelta(t, 10+result.AbsoluteMDE, result.VariantRate, 1e-9)
}

// More traffic means smaller detectable effects.
func TestMDE_ShrinksWithSampleSize(t *testing.T) {
	prev := 1e9
	for _, n := range []int{100, 1000, 10_000, 100_000} {
		result, err := MDE(n, 5, 95, 80, model.TwoTailed)
		require.NoError(t, err)
		assert.Less(t, result.AbsoluteMDE, prev)
		prev = result.AbsoluteMDE
	}
}

// MDE and SampleSize invert each other up to the p2~p1 variance approximation.
func TestMDE_RoundTripWithSampleSize(t *testing.T) {
	mde, err := MDE(5000, 10, 95, 80, model.TwoTailed)
	require.NoError(t, err)

	in := model.SampleSizeInput{
		BaselineRate: 10,
		Effect:       mde.AbsoluteMDE,
		EffectType:   model.EffectAbsolute,
		Power:        80,
		Confidence:   95,
		Direction:    model.TwoTailed,
		Treatments:   1,
	}
	ss, err := SampleSize(in)
	require.NoError(t, err)

	// Within 10%: SampleSize uses the exact p2 variance, MDE approximates.
	assert.InDelta(t, 5000, ss.PerVariation, 500)
}

func TestMDE_InvalidInputs(t *testing.T) {
	_, err := MDE(0, 10, 95, 80, model.TwoTailed)
	assert.Error(t, err)
	_, err = MDE(1000, 0, 95, 80, model.TwoTailed)
	assert.Error(t, err)
	_, err = MDE(1000, 10, 100, 80, model.TwoTailed)
	assert.Error(t, err)
	_, err = MDE(1000, 10, 95, 0, model.TwoTailed)
	assert.Error(t, err)
}
