// Package finance implements the ROI engine: line-item aggregation, monthly
// cash-flow projection, and NPV/IRR/payback metrics with explicit handling of
// undefined IRR and unreached payback.
package finance

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/prateekjain24/pmkit/internal/model"
)

// probabilityWeight returns the risk weight for a benefit item. Unset
// probability means fully certain.
func probabilityWeight(item model.LineItem) float64 {
	if item.Probability == nil {
		return 1.0
	}
	return *item.Probability / 100
}

// ItemTotal is the lifetime contribution of one line item: amount x months
// when recurring, the bare amount otherwise. Benefit items are scaled by
// their probability weight.
func ItemTotal(item model.LineItem, benefit bool) float64 {
	total := item.Amount
	if item.Recurring {
		total = item.Amount * float64(item.Months)
	}
	if benefit {
		total *= probabilityWeight(item)
	}
	return total
}

// monthlyContribution is what one item adds in a given month: recurring items
// pay out every month inside [StartMonth, StartMonth+Months); one-time items
// pay out in StartMonth only.
func monthlyContribution(item model.LineItem, month int, benefit bool) float64 {
	var amount float64
	if item.Recurring {
		if month >= item.StartMonth && month < item.StartMonth+item.Months {
			amount = item.Amount
		}
	} else if month == item.StartMonth {
		amount = item.Amount
	}
	if benefit {
		amount *= probabilityWeight(item)
	}
	return amount
}

// validate applies the hard preconditions shared by Project and Calculate.
func validate(calc model.RoiCalculation) error {
	if calc.TimeHorizon <= 0 {
		return eris.New("finance: time horizon must be positive")
	}
	if calc.InitialCost < 0 {
		return eris.New("finance: initial cost must be non-negative")
	}
	if calc.DiscountRate < 0 {
		return eris.New("finance: discount rate must be non-negative")
	}
	for _, items := range [][]model.LineItem{calc.Costs, calc.Benefits} {
		for i, item := range items {
			if item.Amount < 0 {
				return eris.Errorf("finance: line item %d has negative amount", i)
			}
			if item.StartMonth < 1 {
				return eris.Errorf("finance: line item %d starts before month 1", i)
			}
			if item.Recurring && item.Months < 1 {
				return eris.Errorf("finance: recurring line item %d needs a duration", i)
			}
			if item.Probability != nil && (*item.Probability < 0 || *item.Probability > 100) {
				return eris.Errorf("finance: line item %d probability outside [0,100]", i)
			}
		}
	}
	return nil
}

// monthlyRate converts an annual percentage rate into the equivalent
// compounding monthly rate.
func monthlyRate(annualPct float64) float64 {
	return math.Pow(1+annualPct/100, 1.0/12) - 1
}
