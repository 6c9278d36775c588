package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/prateekjain24/pmkit/internal/model"
)

func sampleScores() []model.RiceScore {
	return []model.RiceScore{
		{Name: "onboarding revamp", Reach: 1000, Impact: 2, Confidence: 80, Effort: 3, Score: 533.3},
		{Name: "dark mode", Reach: 200, Impact: 1, Confidence: 50, Effort: 5, Score: 20},
	}
}

func sampleRoiResult() *model.RoiResult {
	return &model.RoiResult{
		Metrics: model.RoiMetrics{
			SimpleROI:      25.5,
			NPV:            1200.75,
			IRR:            14.2,
			IRRDefined:     true,
			PaybackMonths:  8.5,
			PaybackReached: true,
			BreakEvenMonth: 9,
			TotalCosts:     10000,
			TotalBenefits:  12550,
		},
		Projection: []model.MonthlyProjection{
			{Month: 1, Costs: 500, Benefits: 1000, NetCashFlow: 500, CumulativeCashFlow: 500, DiscountedCashFlow: 496.05, CumulativeDiscounted: -9503.95},
			{Month: 2, Costs: 500, Benefits: 1000, NetCashFlow: 500, CumulativeCashFlow: 1000, DiscountedCashFlow: 492.13, CumulativeDiscounted: -9011.82},
		},
	}
}

func TestWriteRiceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rice.csv")
	require.NoError(t, WriteRiceCSV(sampleScores(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, riceColumns, rows[0])
	assert.Equal(t, "onboarding revamp", rows[1][0])
	assert.Equal(t, "533.30", rows[1][5])
	assert.Equal(t, "Must Do", rows[1][6])
	assert.Equal(t, "Should Do", rows[2][6])
}

func TestWriteProjectionsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roi.csv")
	require.NoError(t, WriteProjectionsCSV(sampleRoiResult(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, projectionColumns, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "500.00", rows[1][3])
	assert.Equal(t, "1000.00", rows[2][4])
}

func TestWriteRiceXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rice.xlsx")
	require.NoError(t, WriteRiceXLSX(sampleScores(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "RICE Scores", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "onboarding revamp", sheet.Rows[1].Cells[0].String())

	score, err := sheet.Rows[1].Cells[5].Float()
	require.NoError(t, err)
	assert.InDelta(t, 533.3, score, 0.001)
}

func TestWriteRoiXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roi.xlsx")
	require.NoError(t, WriteRoiXLSX(sampleRoiResult(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Equal(t, "Summary", f.Sheets[0].Name)
	assert.Equal(t, "Projection", f.Sheets[1].Name)

	// Projection sheet: header plus two months.
	require.Len(t, f.Sheets[1].Rows, 3)
}

func TestWriteRoiXLSX_UndefinedIRR(t *testing.T) {
	result := sampleRoiResult()
	result.Metrics.IRRDefined = false
	result.Metrics.PaybackReached = false
	result.Metrics.BreakEvenMonth = 0

	path := filepath.Join(t.TempDir(), "roi.xlsx")
	require.NoError(t, WriteRoiXLSX(result, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	var values []string
	for _, row := range f.Sheets[0].Rows {
		if len(row.Cells) > 1 {
			values = append(values, row.Cells[1].String())
		}
	}
	assert.Contains(t, values, "n/a")
	assert.Contains(t, values, "not reached")
	assert.Contains(t, values, "never")
}

func TestWriteMarketXLSX(t *testing.T) {
	calc := &model.TamCalculation{
		TAM:         1_000_000,
		SAM:         200_000,
		SOM:         20_000,
		Method:      model.MethodTopDown,
		Confidence:  75,
		Assumptions: []string{"SAM is 20% of TAM", "SOM is 10% of SAM"},
	}

	path := filepath.Join(t.TempDir(), "market.xlsx")
	require.NoError(t, WriteMarketXLSX(calc, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Market Sizing", sheet.Name)
	assert.Equal(t, "top_down", sheet.Rows[0].Cells[1].String())
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.yaml")
	require.NoError(t, WriteYAML(sampleRoiResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.RoiResult
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.InDelta(t, 25.5, got.Metrics.SimpleROI, 0.001)
	assert.Len(t, got.Projection, 2)
}
