package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prateekjain24/pmkit/internal/export"
	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved calculations to CSV, XLSX or YAML",
}

// outFormat picks the export format from the output file extension.
func outFormat(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

var exportRiceCmd = &cobra.Command{
	Use:   "rice",
	Short: "Export the saved RICE history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListCalculations(ctx, store.Filter{Kind: store.KindRice, Limit: historyKeep})
		if err != nil {
			return err
		}

		scores := make([]model.RiceScore, 0, len(records))
		for _, rec := range records {
			var s model.RiceScore
			if err := json.Unmarshal(rec.Payload, &s); err != nil {
				return eris.Wrapf(err, "decode record %s", rec.ID)
			}
			scores = append(scores, s)
		}

		switch outFormat(exportOut) {
		case "csv":
			err = export.WriteRiceCSV(scores, exportOut)
		case "xlsx":
			err = export.WriteRiceXLSX(scores, exportOut)
		case "yaml", "yml":
			err = export.WriteYAML(scores, exportOut)
		default:
			return eris.Errorf("unsupported output format %q (use .csv, .xlsx or .yaml)", filepath.Ext(exportOut))
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d scores to %s\n", len(scores), exportOut)
		return nil
	},
}

var exportRoiCmd = &cobra.Command{
	Use:   "roi <id>",
	Short: "Export a saved ROI calculation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetCalculation(ctx, args[0])
		if err != nil {
			return err
		}
		if rec.Kind != store.KindRoi {
			return eris.Errorf("record %s is a %s calculation, not roi", rec.ID, rec.Kind)
		}

		var result model.RoiResult
		if err := json.Unmarshal(rec.Payload, &result); err != nil {
			return eris.Wrapf(err, "decode record %s", rec.ID)
		}

		switch outFormat(exportOut) {
		case "csv":
			err = export.WriteProjectionsCSV(&result, exportOut)
		case "xlsx":
			err = export.WriteRoiXLSX(&result, exportOut)
		case "yaml", "yml":
			err = export.WriteYAML(result, exportOut)
		default:
			return eris.Errorf("unsupported output format %q (use .csv, .xlsx or .yaml)", filepath.Ext(exportOut))
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", exportOut)
		return nil
	},
}

var exportMarketCmd = &cobra.Command{
	Use:   "market <id>",
	Short: "Export a saved market sizing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetCalculation(ctx, args[0])
		if err != nil {
			return err
		}
		if rec.Kind != store.KindMarket {
			return eris.Errorf("record %s is a %s calculation, not market", rec.ID, rec.Kind)
		}

		var calc model.TamCalculation
		if err := json.Unmarshal(rec.Payload, &calc); err != nil {
			return eris.Wrapf(err, "decode record %s", rec.ID)
		}

		switch outFormat(exportOut) {
		case "xlsx":
			err = export.WriteMarketXLSX(&calc, exportOut)
		case "yaml", "yml":
			err = export.WriteYAML(calc, exportOut)
		default:
			return eris.Errorf("unsupported output format %q (use .xlsx or .yaml)", filepath.Ext(exportOut))
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", exportOut)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{exportRiceCmd, exportRoiCmd, exportMarketCmd} {
		c.Flags().StringVar(&exportOut, "out", "", "output file path (extension selects format)")
		c.MarkFlagRequired("out") //nolint:errcheck
	}

	exportCmd.AddCommand(exportRiceCmd, exportRoiCmd, exportMarketCmd)
	rootCmd.AddCommand(exportCmd)
}
