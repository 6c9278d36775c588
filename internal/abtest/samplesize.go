package abtest

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"

	"github.com/prateekjain24/pmkit/internal/model"
)

// longTestDays is the duration past which the result suggests relaxing the
// minimum detectable effect. Eight weeks is the usual patience limit for a
// product experiment.
const longTestDays = 56

// SampleSize computes the per-variation and total sample size for a
// two-proportion z-test at the requested power and confidence, plus a
// duration estimate when daily traffic is known. Validation failures are hard
// errors; questionable-but-computable inputs (allocations that do not sum to
// 100) produce warnings alongside a best-effort result.
func SampleSize(in model.SampleSizeInput) (*model.SampleSizeResult, error) {
	if in.BaselineRate <= 0 || in.BaselineRate >= 100 {
		return nil, eris.New("abtest: baseline rate must be inside (0,100)")
	}
	if in.Effect <= 0 {
		return nil, eris.New("abtest: effect size must be positive")
	}
	if in.Power <= 0 || in.Power >= 100 {
		return nil, eris.New("abtest: power must be inside (0,100)")
	}
	if in.Confidence <= 0 || in.Confidence >= 100 {
		return nil, eris.New("abtest: confidence must be inside (0,100)")
	}
	treatments := in.Treatments
	if treatments < 1 {
		treatments = 1
	}

	p1 := in.BaselineRate / 100
	var p2 float64
	switch in.EffectType {
	case model.EffectAbsolute:
		p2 = p1 + in.Effect/100
	default: // relative
		p2 = p1 * (1 + in.Effect/100)
	}
	if p2 <= 0 || p2 >= 1 {
		return nil, eris.Errorf("abtest: effect pushes variant rate to %.1f%%, outside (0,100)", p2*100)
	}

	alpha := 1 - in.Confidence/100
	if in.Correction && treatments > 1 {
		alpha /= float64(treatments)
	}

	var zAlpha float64
	if in.Direction == model.OneTailed {
		zAlpha = zQuantile(1 - alpha)
	} else {
		zAlpha = zQuantile(1 - alpha/2)
	}
	zBeta := zQuantile(in.Power / 100)

	diff := p2 - p1
	variance := p1*(1-p1) + p2*(1-p2)
	n := math.Pow(zAlpha+zBeta, 2) * variance / (diff * diff)
	perVariation := int(math.Ceil(n))

	result := &model.SampleSizeResult{
		PerVariation: perVariation,
		Total:        perVariation * (treatments + 1),
		VariantRate:  p2 * 100,
		Alpha:        alpha,
		ZAlpha:       zAlpha,
		ZBeta:        zBeta,
	}

	estimateDuration(in, treatments, result)
	return result, nil
}

// estimateDuration fills in the day estimates from daily traffic and the
// allocation split. The slowest-filling arm gates the whole test.
func estimateDuration(in model.SampleSizeInput, treatments int, result *model.SampleSizeResult) {
	if in.DailyTraffic <= 0 {
		return
	}

	arms := treatments + 1
	minShare := 100.0 / float64(arms)

	if len(in.Allocations) > 0 {
		if len(in.Allocations) != arms {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%d traffic allocations given for %d arms", len(in.Allocations), arms))
		}
		var sum float64
		minShare = math.MaxFloat64
		for _, a := range in.Allocations {
			sum += a
			if a < minShare {
				minShare = a
			}
		}
		// The engine computes with the raw values either way; the caller owns
		// fixing the split.
		if math.Abs(sum-100) > 1e-9 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("traffic allocations sum to %.1f%%, not 100%%", sum))
		}
		if minShare <= 0 {
			result.Warnings = append(result.Warnings, "an arm has zero traffic allocation; duration cannot be estimated")
			return
		}
	}

	perArmDaily := float64(in.DailyTraffic) * minShare / 100
	days := int(math.Ceil(float64(result.PerVariation) / perArmDaily))
	result.DurationDays = days
	result.DurationLowDays = int(math.Ceil(float64(days) * 0.8))
	result.DurationHiDays = int(math.Ceil(float64(days) * 1.2))

	if days > longTestDays {
		result.Notes = append(result.Notes,
			fmt.Sprintf("estimated duration of %d days is long; consider raising the minimum detectable effect or increasing traffic", days))
	}
}
