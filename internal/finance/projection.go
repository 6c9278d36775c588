package finance

import (
	"math"

	"github.com/prateekjain24/pmkit/internal/model"
)

// Project builds the month-by-month cash-flow timeline for months
// 1..TimeHorizon. CumulativeCashFlow is the exact running sum of net cash
// flows; the initial cost enters only the discounted series (at t=0) and the
// payback computation, so the undiscounted cumulative column satisfies
// cumulative[t] = cumulative[t-1] + net[t] with no discounting drift.
func Project(calc model.RoiCalculation) ([]model.MonthlyProjection, error) {
	if err := validate(calc); err != nil {
		return nil, err
	}

	rate := monthlyRate(calc.DiscountRate)
	projection := make([]model.MonthlyProjection, calc.TimeHorizon)

	var cumulative float64
	cumulativeDiscounted := -calc.InitialCost

	for t := 1; t <= calc.TimeHorizon; t++ {
		var costs, benefits float64
		for _, item := range calc.Costs {
			costs += monthlyContribution(item, t, false)
		}
		for _, item := range calc.Benefits {
			benefits += monthlyContribution(item, t, true)
		}

		net := benefits - costs
		cumulative += net

		discounted := net / math.Pow(1+rate, float64(t))
		cumulativeDiscounted += discounted

		projection[t-1] = model.MonthlyProjection{
			Month:                t,
			Costs:                costs,
			Benefits:             benefits,
			NetCashFlow:          net,
			CumulativeCashFlow:   cumulative,
			DiscountedCashFlow:   discounted,
			CumulativeDiscounted: cumulativeDiscounted,
		}
	}
	return projection, nil
}

// payback finds the first fractional month where cumulative cash flow covers
// the initial cost, interpolating between the bracketing months. The second
// return is false when payback is never reached within the horizon.
func payback(initialCost float64, projection []model.MonthlyProjection) (float64, bool) {
	if initialCost <= 0 {
		return 0, true
	}
	prev := 0.0
	for _, p := range projection {
		if p.CumulativeCashFlow >= initialCost {
			needed := initialCost - prev
			if p.NetCashFlow <= 0 {
				// Crossing without positive inflow this month can only mean
				// we were already at the threshold.
				return float64(p.Month), true
			}
			return float64(p.Month-1) + needed/p.NetCashFlow, true
		}
		prev = p.CumulativeCashFlow
	}
	return 0, false
}

// breakEvenMonth is the first whole month at or past payback, 0 when none.
func breakEvenMonth(initialCost float64, projection []model.MonthlyProjection) int {
	if initialCost <= 0 {
		return 0
	}
	for _, p := range projection {
		if p.CumulativeCashFlow >= initialCost {
			return p.Month
		}
	}
	return 0
}
