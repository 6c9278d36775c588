package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekjain24/pmkit/internal/model"
)

func TestCalculate_SimpleROIAndPayback(t *testing.T) {
	calc := model.RoiCalculation{
		InitialCost: 1000,
		TimeHorizon: 12,
		Benefits:    []model.LineItem{recurring(300, 1, 12)},
	}
	result, err := Calculate(calc)
	require.NoError(t, err)

	// Costs 1000, benefits 3600 -> (3600-1000)/1000 = 260%.
	assert.InDelta(t, 260, result.Metrics.SimpleROI, 1e-9)

	// Cumulative reaches 1000 during month 4: 3 + 100/300.
	assert.True(t, result.Metrics.PaybackReached)
	assert.InDelta(t, 3.3333, result.Metrics.PaybackMonths, 1e-3)
	assert.Equal(t, 4, result.Metrics.BreakEvenMonth)
}

func TestCalculate_PaybackNeverReached(t *testing.T) {
	calc := model.RoiCalculation{
		InitialCost: 10_000,
		TimeHorizon: 6,
		Benefits:    []model.LineItem{recurring(100, 1, 6)},
	}
	result, err := Calculate(calc)
	require.NoError(t, err)

	assert.False(t, result.Metrics.PaybackReached)
	assert.Equal(t, 0, result.Metrics.BreakEvenMonth)
	assert.NotEmpty(t, result.Metrics.Warnings)
}

func TestCalculate_NegativeNPVIsLegal(t *testing.T) {
	calc := model.RoiCalculation{
		InitialCost:  1000,
		TimeHorizon:  3,
		DiscountRate: 10,
		Benefits:     []model.LineItem{oneTime(500, 1)},
	}
	result, err := Calculate(calc)
	require.NoError(t, err)
	assert.Less(t, result.Metrics.NPV, 0.0)
}

func TestCalculate_ZeroInitialCostIsLegal(t *testing.T) {
	calc := model.RoiCalculation{
		TimeHorizon: 6,
		Costs:       []model.LineItem{recurring(50, 1, 6)},
		Benefits:    []model.LineItem{recurring(80, 1, 6)},
	}
	result, err := Calculate(calc)
	require.NoError(t, err)
	assert.True(t, result.Metrics.PaybackReached)
	assert.Equal(t, 0.0, result.Metrics.PaybackMonths)
	assert.Greater(t, result.Metrics.NPV, 0.0)
}

func TestCalculate_IRRUndefinedAllSameSign(t *testing.T) {
	calc := model.RoiCalculation{
		TimeHorizon: 6,
		Benefits:    []model.LineItem{recurring(100, 1, 6)},
	}
	result, err := Calculate(calc)
	require.NoError(t, err)

	assert.False(t, result.Metrics.IRRDefined)
	assert.Contains(t, result.Metrics.Warnings, "IRR undefined: cash flows never change sign")
}

func TestIRR_SinglePeriodKnownRoot(t *testing.T) {
	// -100 now, +110 next period: the root is exactly 10%.
	rate, status := IRR([]float64{-100, 110}, DefaultIRROptions())
	require.Equal(t, IRRConverged, status)
	assert.InDelta(t, 0.10, rate, 1e-6)
}

func TestIRR_AnnuityKnownRoot(t *testing.T) {
	// 1000 up front, 100/month for 12 months: monthly IRR ~ 2.923%.
	cashflows := make([]float64, 13)
	cashflows[0] = -1000
	for i := 1; i <= 12; i++ {
		cashflows[i] = 100
	}
	rate, status := IRR(cashflows, DefaultIRROptions())
	require.Equal(t, IRRConverged, status)
	assert.InDelta(t, 0.02923, rate, 1e-4)

	// The root actually zeroes the NPV.
	npv, _ := npvAndDerivative(cashflows, rate)
	assert.InDelta(t, 0, npv, 1e-3)
}

func TestIRR_SameSign(t *testing.T) {
	_, status := IRR([]float64{100, 100, 100}, DefaultIRROptions())
	assert.Equal(t, IRRSameSign, status)
	_, status = IRR([]float64{-100, -50}, DefaultIRROptions())
	assert.Equal(t, IRRSameSign, status)
}

func TestCalculate_AnnualizedIRR(t *testing.T) {
	calc := model.RoiCalculation{
		InitialCost: 100,
		TimeHorizon: 1,
		Benefits:    []model.LineItem{oneTime(110, 1)},
	}
	result, err := Calculate(calc)
	require.NoError(t, err)
	require.True(t, result.Metrics.IRRDefined)

	// 10% monthly annualizes to (1.1^12 - 1) * 100.
	want := (math.Pow(1.1, 12) - 1) * 100
	assert.InDelta(t, want, result.Metrics.IRR, 0.01)
}

func TestCalculate_NPVMatchesClosedForm(t *testing.T) {
	calc := model.RoiCalculation{
		InitialCost:  1000,
		TimeHorizon:  2,
		DiscountRate: 12.6825, // ~1% monthly: 1.01^12 - 1
		Benefits:     []model.LineItem{recurring(600, 1, 2)},
	}
	result, err := Calculate(calc)
	require.NoError(t, err)

	want := -1000 + 600/1.01 + 600/(1.01*1.01)
	assert.InDelta(t, want, result.Metrics.NPV, 0.01)
}
