package export

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/rice"
)

// WriteRiceXLSX writes scored features as a single-sheet workbook.
func WriteRiceXLSX(scores []model.RiceScore, outputPath string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("RICE Scores")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range riceColumns {
		header.AddCell().SetString(col)
	}

	for _, s := range scores {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Name)
		row.AddCell().SetFloat(s.Reach)
		row.AddCell().SetFloat(s.Impact)
		row.AddCell().SetFloat(s.Confidence)
		row.AddCell().SetFloat(s.Effort)
		row.AddCell().SetFloat(s.Score)
		row.AddCell().SetString(rice.Categorize(s.Score).Label)
	}

	return eris.Wrap(f.Save(outputPath), "export: save workbook")
}

// WriteRoiXLSX writes an ROI result as a two-sheet workbook: a summary
// of the derived metrics and the full monthly projection.
func WriteRoiXLSX(result *model.RoiResult, outputPath string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	m := result.Metrics
	addMetricRow(summary, "Simple ROI (%)", formatNum(m.SimpleROI))
	addMetricRow(summary, "NPV", formatNum(m.NPV))
	if m.IRRDefined {
		addMetricRow(summary, "IRR (%, annualized)", formatNum(m.IRR))
	} else {
		addMetricRow(summary, "IRR (%, annualized)", "n/a")
	}
	if m.PaybackReached {
		addMetricRow(summary, "Payback (months)", formatNum(m.PaybackMonths))
	} else {
		addMetricRow(summary, "Payback (months)", "not reached")
	}
	if m.BreakEvenMonth > 0 {
		addMetricRow(summary, "Break-even month", strconv.Itoa(m.BreakEvenMonth))
	} else {
		addMetricRow(summary, "Break-even month", "never")
	}
	addMetricRow(summary, "Total costs", formatNum(m.TotalCosts))
	addMetricRow(summary, "Total benefits", formatNum(m.TotalBenefits))
	for _, w := range m.Warnings {
		addMetricRow(summary, "Warning", w)
	}

	proj, err := f.AddSheet("Projection")
	if err != nil {
		return eris.Wrap(err, "export: add projection sheet")
	}
	header := proj.AddRow()
	for _, col := range projectionColumns {
		header.AddCell().SetString(col)
	}
	for _, p := range result.Projection {
		row := proj.AddRow()
		row.AddCell().SetInt(p.Month)
		row.AddCell().SetFloat(p.Costs)
		row.AddCell().SetFloat(p.Benefits)
		row.AddCell().SetFloat(p.NetCashFlow)
		row.AddCell().SetFloat(p.CumulativeCashFlow)
		row.AddCell().SetFloat(p.DiscountedCashFlow)
		row.AddCell().SetFloat(p.CumulativeDiscounted)
	}

	return eris.Wrap(f.Save(outputPath), "export: save workbook")
}

// WriteMarketXLSX writes a market sizing as a workbook with the funnel
// and the assumption list.
func WriteMarketXLSX(calc *model.TamCalculation, outputPath string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Market Sizing")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	addMetricRow(sheet, "Method", string(calc.Method))
	addMetricRow(sheet, "TAM", formatNum(calc.TAM))
	addMetricRow(sheet, "SAM", formatNum(calc.SAM))
	addMetricRow(sheet, "SOM", formatNum(calc.SOM))
	addMetricRow(sheet, "Confidence (%)", formatNum(calc.Confidence))

	sheet.AddRow() // spacer
	for _, a := range calc.Assumptions {
		addMetricRow(sheet, "Assumption", a)
	}

	return eris.Wrap(f.Save(outputPath), "export: save workbook")
}

func addMetricRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}
