package finance

import (
	"fmt"
	"math"

	"github.com/prateekjain24/pmkit/internal/model"
)

// IRROptions tunes the IRR root finder.
type IRROptions struct {
	Tolerance     float64 // convergence threshold on the monthly rate
	MaxIterations int
}

// DefaultIRROptions converges well inside the 0.01% accuracy the dashboard
// promises. Newton-Raphson usually lands in under ten iterations; the
// iteration budget covers the bisection fallback too.
func DefaultIRROptions() IRROptions {
	return IRROptions{Tolerance: 1e-6, MaxIterations: 100}
}

// Calculate runs the full ROI pipeline: projection, totals, NPV, IRR, and
// payback. Hard input errors fail; numerical soft conditions (undefined IRR,
// unreached payback, zero cost base) land in Metrics.Warnings.
func Calculate(calc model.RoiCalculation) (*model.RoiResult, error) {
	return CalculateWith(calc, DefaultIRROptions())
}

// CalculateWith is Calculate with explicit IRR tuning.
func CalculateWith(calc model.RoiCalculation, opts IRROptions) (*model.RoiResult, error) {
	projection, err := Project(calc)
	if err != nil {
		return nil, err
	}

	m := model.RoiMetrics{}

	m.TotalCosts = calc.InitialCost
	for _, item := range calc.Costs {
		m.TotalCosts += ItemTotal(item, false)
	}
	for _, item := range calc.Benefits {
		m.TotalBenefits += ItemTotal(item, true)
	}

	if m.TotalCosts > 0 {
		m.SimpleROI = (m.TotalBenefits - m.TotalCosts) / m.TotalCosts * 100
	} else {
		m.Warnings = append(m.Warnings, "no cost base: simple ROI reported as 0")
	}

	// NPV over the discounted series, initial cost at t=0.
	m.NPV = projection[len(projection)-1].CumulativeDiscounted

	cashflows := make([]float64, calc.TimeHorizon+1)
	cashflows[0] = -calc.InitialCost
	for _, p := range projection {
		cashflows[p.Month] = p.NetCashFlow
	}

	monthly, status := IRR(cashflows, opts)
	switch status {
	case IRRConverged:
		m.IRR = (math.Pow(1+monthly, 12) - 1) * 100
		m.IRRDefined = true
	case IRRSameSign:
		m.Warnings = append(m.Warnings, "IRR undefined: cash flows never change sign")
	case IRRNoConvergence:
		m.Warnings = append(m.Warnings, fmt.Sprintf("IRR did not converge within %d iterations", opts.MaxIterations))
	}

	m.PaybackMonths, m.PaybackReached = payback(calc.InitialCost, projection)
	if !m.PaybackReached {
		m.Warnings = append(m.Warnings, fmt.Sprintf("payback not reached within the %d-month horizon", calc.TimeHorizon))
	}
	m.BreakEvenMonth = breakEvenMonth(calc.InitialCost, projection)

	return &model.RoiResult{Metrics: m, Projection: projection}, nil
}

// IRRStatus reports the outcome of the IRR root finder.
type IRRStatus int

const (
	IRRConverged IRRStatus = iota
	IRRSameSign               // all cash flows share one sign; no root exists
	IRRNoConvergence
)

// IRR solves for the per-period rate that zeroes the NPV of the cash-flow
// series (index = period, cashflows[0] at t=0). Newton-Raphson from a 10%
// annual seed, with a bisection fallback over [-0.999, 10] when Newton
// diverges or walks out of the domain.
func IRR(cashflows []float64, opts IRROptions) (float64, IRRStatus) {
	var hasPos, hasNeg bool
	for _, cf := range cashflows {
		if cf > 0 {
			hasPos = true
		}
		if cf < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return 0, IRRSameSign
	}

	if opts.Tolerance <= 0 {
		opts.Tolerance = 1e-6
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 100
	}

	// Newton-Raphson seeded at the monthly equivalent of 10%/yr.
	rate := math.Pow(1.1, 1.0/12) - 1
	for i := 0; i < opts.MaxIterations; i++ {
		f, fPrime := npvAndDerivative(cashflows, rate)
		if fPrime == 0 {
			break
		}
		next := rate - f/fPrime
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		if math.Abs(next-rate) < opts.Tolerance {
			return next, IRRConverged
		}
		rate = next
	}

	return irrBisect(cashflows, opts)
}

// irrBisect brackets the root over [-0.999, 10] and halves until the interval
// shrinks below tolerance.
func irrBisect(cashflows []float64, opts IRROptions) (float64, IRRStatus) {
	lo, hi := -0.999, 10.0
	fLo, _ := npvAndDerivative(cashflows, lo)
	fHi, _ := npvAndDerivative(cashflows, hi)
	if fLo*fHi > 0 {
		return 0, IRRNoConvergence
	}

	for i := 0; i < opts.MaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid, _ := npvAndDerivative(cashflows, mid)
		if fMid == 0 || (hi-lo)/2 < opts.Tolerance {
			return mid, IRRConverged
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, IRRNoConvergence
}

func npvAndDerivative(cashflows []float64, rate float64) (float64, float64) {
	var npv, deriv float64
	for t, cf := range cashflows {
		ft := float64(t)
		disc := math.Pow(1+rate, ft)
		npv += cf / disc
		if t > 0 {
			deriv -= ft * cf / (disc * (1 + rate))
		}
	}
	return npv, deriv
}
