package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/prateekjain24/pmkit/internal/finance"
	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/store"
)

var (
	roiFile           string
	roiName           string
	roiSave           bool
	roiShowProjection bool
)

var roiCmd = &cobra.Command{
	Use:   "roi",
	Short: "Project ROI with simple ROI, NPV, IRR and payback",
	Long:  "Reads an ROI scenario from a YAML file: initial_cost, costs, benefits, time_horizon, discount_rate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(roiFile)
		if err != nil {
			return eris.Wrap(err, "read scenario file")
		}

		var calc model.RoiCalculation
		if err := yaml.Unmarshal(data, &calc); err != nil {
			return eris.Wrap(err, "parse scenario file")
		}
		if roiName != "" {
			calc.Name = roiName
		}
		if calc.DiscountRate == 0 {
			calc.DiscountRate = cfg.Finance.DiscountRate
		}

		result, err := finance.CalculateWith(calc, finance.IRROptions{
			Tolerance:     cfg.Finance.IRRTolerance,
			MaxIterations: cfg.Finance.IRRMaxIterations,
		})
		if err != nil {
			return err
		}

		m := result.Metrics
		fmt.Printf("Simple ROI:     %.1f%%\n", m.SimpleROI)
		fmt.Printf("NPV:            %.2f\n", m.NPV)
		if m.IRRDefined {
			fmt.Printf("IRR:            %.1f%% annualized\n", m.IRR)
		} else {
			fmt.Println("IRR:            not defined for this cash flow")
		}
		if m.PaybackReached {
			fmt.Printf("Payback:        %.1f months\n", m.PaybackMonths)
		} else {
			fmt.Println("Payback:        not reached within horizon")
		}
		if m.BreakEvenMonth > 0 {
			fmt.Printf("Break-even:     month %d\n", m.BreakEvenMonth)
		}
		fmt.Printf("Total costs:    %.2f\nTotal benefits: %.2f\n", m.TotalCosts, m.TotalBenefits)
		for _, warning := range m.Warnings {
			fmt.Printf("Warning: %s\n", warning)
		}

		if roiShowProjection {
			if err := printProjection(result.Projection); err != nil {
				return err
			}
		}

		if roiSave {
			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			rec, err := st.SaveCalculation(ctx, store.KindRoi, calc.Name, result)
			if err != nil {
				return err
			}
			if _, err := st.Prune(ctx, store.KindRoi, historyKeep); err != nil {
				return err
			}
			fmt.Printf("Saved as %s\n", rec.ID)
		}
		return nil
	},
}

func printProjection(projection []model.MonthlyProjection) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Month", "Costs", "Benefits", "Net", "Cumulative", "Discounted", "Cum. Discounted"})

	var data [][]string
	for _, p := range projection {
		data = append(data, []string{
			strconv.Itoa(p.Month),
			fmt.Sprintf("%.2f", p.Costs),
			fmt.Sprintf("%.2f", p.Benefits),
			fmt.Sprintf("%.2f", p.NetCashFlow),
			fmt.Sprintf("%.2f", p.CumulativeCashFlow),
			fmt.Sprintf("%.2f", p.DiscountedCashFlow),
			fmt.Sprintf("%.2f", p.CumulativeDiscounted),
		})
	}
	if err := table.Bulk(data); err != nil {
		return eris.Wrap(err, "build table")
	}
	return eris.Wrap(table.Render(), "render table")
}

func init() {
	roiCmd.Flags().StringVar(&roiFile, "file", "", "path to scenario YAML file")
	roiCmd.Flags().StringVar(&roiName, "name", "", "calculation name (overrides file)")
	roiCmd.Flags().BoolVar(&roiSave, "save", false, "persist the result to history")
	roiCmd.Flags().BoolVar(&roiShowProjection, "projection", false, "print the month-by-month projection")
	roiCmd.MarkFlagRequired("file") //nolint:errcheck

	rootCmd.AddCommand(roiCmd)
}
