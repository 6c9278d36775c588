// Package market implements TAM/SAM/SOM market sizing: top-down percentage
// slicing, bottom-up segment aggregation, input-quality confidence scoring,
// and currency parse/format helpers.
package market

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/prateekjain24/pmkit/internal/model"
)

// periodDivisor normalizes annual figures to the requested reporting period.
func periodDivisor(p model.TimePeriod) float64 {
	switch p {
	case model.PeriodMonthly:
		return 12
	case model.PeriodQuarterly:
		return 4
	default:
		return 1
	}
}

// TopDown computes SAM and SOM by slicing a known TAM with serviceable and
// obtainable percentages, then normalizes all three to the reporting period.
func TopDown(tam, samPercentage, somPercentage float64, params model.MarketParams) (*model.TamCalculation, error) {
	if tam <= 0 {
		return nil, eris.New("market: tam must be positive")
	}
	if samPercentage < 0 || samPercentage > 100 {
		return nil, eris.Errorf("market: sam percentage %.1f outside [0,100]", samPercentage)
	}
	if somPercentage < 0 || somPercentage > 100 {
		return nil, eris.Errorf("market: som percentage %.1f outside [0,100]", somPercentage)
	}

	sam := tam * samPercentage / 100
	som := sam * somPercentage / 100

	// Algebraically guaranteed, re-checked so a future formula change cannot
	// silently break the tam >= sam >= som invariant.
	if sam > tam || som > sam {
		return nil, eris.New("market: size invariant violated (tam >= sam >= som)")
	}

	div := periodDivisor(params.TimePeriod)
	calc := &model.TamCalculation{
		TAM:        tam / div,
		SAM:        sam / div,
		SOM:        som / div,
		Method:     model.MethodTopDown,
		Confidence: Confidence(params, nil),
		Assumptions: []string{
			fmt.Sprintf("SAM assumed to be %.1f%% of TAM", samPercentage),
			fmt.Sprintf("SOM assumed to be %.1f%% of SAM", somPercentage),
			fmt.Sprintf("Figures normalized to a %s period", periodLabel(params.TimePeriod)),
		},
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}
	return calc, nil
}

func periodLabel(p model.TimePeriod) string {
	if p == "" {
		return string(model.PeriodAnnual)
	}
	return string(p)
}
