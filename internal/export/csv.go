package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/rice"
)

// riceColumns defines the ordered RICE CSV output columns.
var riceColumns = []string{
	"Name",
	"Reach",
	"Impact",
	"Confidence",
	"Effort",
	"Score",
	"Category",
}

// projectionColumns defines the ordered monthly projection CSV columns.
var projectionColumns = []string{
	"Month",
	"Costs",
	"Benefits",
	"Net Cash Flow",
	"Cumulative Cash Flow",
	"Discounted Cash Flow",
	"Cumulative Discounted",
}

// WriteRiceCSV writes scored features as a CSV file.
func WriteRiceCSV(scores []model.RiceScore, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(riceColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, s := range scores {
		row := []string{
			s.Name,
			formatNum(s.Reach),
			formatNum(s.Impact),
			formatNum(s.Confidence),
			formatNum(s.Effort),
			formatNum(s.Score),
			rice.Categorize(s.Score).Label,
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	if err2 := w.Error(); err2 != nil {
		return eris.Wrap(err2, "export: flush")
	}
	return nil
}

// WriteProjectionsCSV writes an ROI monthly projection as a CSV file.
func WriteProjectionsCSV(result *model.RoiResult, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(projectionColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, p := range result.Projection {
		row := []string{
			strconv.Itoa(p.Month),
			formatNum(p.Costs),
			formatNum(p.Benefits),
			formatNum(p.NetCashFlow),
			formatNum(p.CumulativeCashFlow),
			formatNum(p.DiscountedCashFlow),
			formatNum(p.CumulativeDiscounted),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	if err2 := w.Error(); err2 != nil {
		return eris.Wrap(err2, "export: flush")
	}
	return nil
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
