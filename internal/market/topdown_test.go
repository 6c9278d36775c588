package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekjain24/pmkit/internal/model"
)

func annualParams() model.MarketParams {
	return model.MarketParams{
		TimePeriod: model.PeriodAnnual,
		Maturity:   model.MaturityMature,
		GeoScope:   model.GeoCountry,
		Currency:   "USD",
	}
}

func TestTopDown_KnownValues(t *testing.T) {
	calc, err := TopDown(1_000_000, 20, 10, annualParams())
	require.NoError(t, err)

	assert.Equal(t, 1_000_000.0, calc.TAM)
	assert.Equal(t, 200_000.0, calc.SAM)
	assert.Equal(t, 20_000.0, calc.SOM)
	assert.Equal(t, model.MethodTopDown, calc.Method)
	assert.NotEmpty(t, calc.Assumptions)
}

func TestTopDown_PeriodDivisor(t *testing.T) {
	params := annualParams()

	params.TimePeriod = model.PeriodQuarterly
	calc, err := TopDown(1_000_000, 20, 10, params)
	require.NoError(t, err)
	assert.Equal(t, 250_000.0, calc.TAM)
	assert.Equal(t, 50_000.0, calc.SAM)

	params.TimePeriod = model.PeriodMonthly
	calc, err = TopDown(1_200_000, 50, 10, params)
	require.NoError(t, err)
	assert.Equal(t, 100_000.0, calc.TAM)
	assert.Equal(t, 50_000.0, calc.SAM)
	assert.Equal(t, 5_000.0, calc.SOM)
}

func TestTopDown_InvalidInputs(t *testing.T) {
	for _, tc := range []struct {
		name          string
		tam, sam, som float64
	}{
		{"zero tam", 0, 20, 10},
		{"negative tam", -5, 20, 10},
		{"sam pct over 100", 100, 120, 10},
		{"sam pct negative", 100, -1, 10},
		{"som pct over 100", 100, 20, 101},
		{"som pct negative", 100, 20, -0.1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TopDown(tc.tam, tc.sam, tc.som, annualParams())
			assert.Error(t, err)
		})
	}
}

// Invariant: som <= sam <= tam for every valid percentage pair.
func TestTopDown_SizeInvariant(t *testing.T) {
	for samPct := 0.0; samPct <= 100; samPct += 12.5 {
		for somPct := 0.0; somPct <= 100; somPct += 12.5 {
			calc, err := TopDown(5_000_000, samPct, somPct, annualParams())
			require.NoError(t, err)
			assert.LessOrEqual(t, calc.SOM, calc.SAM)
			assert.LessOrEqual(t, calc.SAM, calc.TAM)
			assert.GreaterOrEqual(t, calc.SOM, 0.0)
		}
	}
}
