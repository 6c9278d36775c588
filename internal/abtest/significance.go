package abtest

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/prateekjain24/pmkit/internal/model"
)

// Evaluate runs a pooled two-proportion z-test of each treatment arm against
// the control, producing one TestResult per non-control variation. The
// p-value respects the configured direction; the confidence interval and the
// observed power use the unpooled standard error.
func Evaluate(cfg model.TestConfig) ([]model.TestResult, error) {
	var control *model.Variation
	var treatments []model.Variation
	for i := range cfg.Variations {
		v := cfg.Variations[i]
		if v.Visitors <= 0 {
			return nil, eris.Errorf("abtest: variation %q has no visitors", v.Name)
		}
		if v.Conversions < 0 || v.Conversions > v.Visitors {
			return nil, eris.Errorf("abtest: variation %q conversions outside [0, visitors]", v.Name)
		}
		if v.Control {
			if control != nil {
				return nil, eris.New("abtest: more than one control variation")
			}
			control = &cfg.Variations[i]
		} else {
			treatments = append(treatments, v)
		}
	}
	if control == nil {
		return nil, eris.New("abtest: a control variation is required")
	}
	if len(treatments) == 0 {
		return nil, eris.New("abtest: at least one treatment variation is required")
	}

	confidence := cfg.Confidence
	if confidence <= 0 || confidence >= 100 {
		return nil, eris.New("abtest: confidence must be inside (0,100)")
	}
	alpha := 1 - confidence/100

	results := make([]model.TestResult, 0, len(treatments))
	for _, v := range treatments {
		results = append(results, evaluateOne(*control, v, alpha, cfg.Direction))
	}
	return results, nil
}

func evaluateOne(control, variant model.Variation, alpha float64, direction model.TestDirection) model.TestResult {
	p1 := float64(control.Conversions) / float64(control.Visitors)
	p2 := float64(variant.Conversions) / float64(variant.Visitors)
	n1 := float64(control.Visitors)
	n2 := float64(variant.Visitors)
	diff := p2 - p1

	r := model.TestResult{
		Variation:   variant.Name,
		ControlRate: p1 * 100,
		VariantRate: p2 * 100,
		EffectSize:  diff * 100,
	}
	if p1 > 0 {
		r.Uplift = diff / p1 * 100
	}

	// Pooled SE for the hypothesis test.
	pooled := float64(control.Conversions+variant.Conversions) / (n1 + n2)
	sePooled := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if sePooled == 0 {
		r.PValue = 1
		r.Warnings = append(r.Warnings, "degenerate rates: no variance to test against")
		return r
	}

	z := diff / sePooled
	if direction == model.OneTailed {
		r.PValue = 1 - normalCDF(z)
	} else {
		r.PValue = 2 * (1 - normalCDF(math.Abs(z)))
	}
	r.Significant = r.PValue < alpha

	// Unpooled SE for the interval and the post-hoc power.
	seUnpooled := math.Sqrt(p1*(1-p1)/n1 + p2*(1-p2)/n2)
	var zAlpha float64
	if direction == model.OneTailed {
		zAlpha = zQuantile(1 - alpha)
	} else {
		zAlpha = zQuantile(1 - alpha/2)
	}
	if seUnpooled > 0 {
		r.ConfInterval = [2]float64{
			(diff - zAlpha*seUnpooled) * 100,
			(diff + zAlpha*seUnpooled) * 100,
		}
		r.Power = normalCDF(math.Abs(diff)/seUnpooled - zAlpha)
	}
	if r.Power < 0.8 && !r.Significant {
		r.Warnings = append(r.Warnings, "observed power is low; the test may be underpowered for this effect")
	}
	return r
}
