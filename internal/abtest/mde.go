package abtest

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/prateekjain24/pmkit/internal/model"
)

// MDE inverts the sample-size formula: given a fixed per-variation sample
// size, it returns the smallest effect detectable at the stated alpha and
// power. The variant-rate variance term is approximated with the baseline
// variance (p2 ~ p1), the standard simplification when the effect is unknown.
func MDE(sampleSize int, baselineRate, confidence, power float64, direction model.TestDirection) (*model.MDEResult, error) {
	if sampleSize <= 0 {
		return nil, eris.New("abtest: sample size must be positive")
	}
	if baselineRate <= 0 || baselineRate >= 100 {
		return nil, eris.New("abtest: baseline rate must be inside (0,100)")
	}
	if power <= 0 || power >= 100 {
		return nil, eris.New("abtest: power must be inside (0,100)")
	}
	if confidence <= 0 || confidence >= 100 {
		return nil, eris.New("abtest: confidence must be inside (0,100)")
	}

	alpha := 1 - confidence/100
	var zAlpha float64
	if direction == model.OneTailed {
		zAlpha = zQuantile(1 - alpha)
	} else {
		zAlpha = zQuantile(1 - alpha/2)
	}
	zBeta := zQuantile(power / 100)

	p1 := baselineRate / 100
	absolute := (zAlpha + zBeta) * math.Sqrt(2*p1*(1-p1)/float64(sampleSize))

	return &model.MDEResult{
		AbsoluteMDE: absolute * 100,
		RelativeMDE: absolute / p1 * 100,
		VariantRate: (p1 + absolute) * 100,
	}, nil
}
