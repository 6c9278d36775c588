package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/prateekjain24/pmkit/internal/abtest"
	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/store"
)

var (
	abBaseline    float64
	abEffect      float64
	abEffectType  string
	abPower       float64
	abConfidence  float64
	abDirection   string
	abTreatments  int
	abCorrection  bool
	abTraffic     int
	abAllocations []float64

	abSampleSize int

	abTestFile string
	abTestName string
	abTestSave bool
)

var (
	significantColor   = color.New(color.FgGreen, color.Bold)
	insignificantColor = color.New(color.FgHiBlack)
)

var abtestCmd = &cobra.Command{
	Use:   "abtest",
	Short: "A/B test planning and evaluation",
}

var abtestSampleSizeCmd = &cobra.Command{
	Use:   "samplesize",
	Short: "Required sample size for a conversion test",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := model.SampleSizeInput{
			BaselineRate: abBaseline,
			Effect:       abEffect,
			EffectType:   model.EffectType(abEffectType),
			Power:        defaultFloat(abPower, cfg.ABTest.Power),
			Confidence:   defaultFloat(abConfidence, cfg.ABTest.Confidence),
			Direction:    model.TestDirection(abDirection),
			Treatments:   abTreatments,
			Correction:   abCorrection,
			DailyTraffic: abTraffic,
			Allocations:  abAllocations,
		}

		result, err := abtest.SampleSize(in)
		if err != nil {
			return err
		}

		fmt.Printf("Per variation: %d\n", result.PerVariation)
		fmt.Printf("Total:         %d\n", result.Total)
		fmt.Printf("Variant rate:  %.2f%% (alpha %.4f)\n", result.VariantRate, result.Alpha)
		if result.DurationDays > 0 {
			fmt.Printf("Duration:      ~%d days (%d-%d)\n", result.DurationDays, result.DurationLowDays, result.DurationHiDays)
		}
		for _, note := range result.Notes {
			fmt.Printf("  - %s\n", note)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("Warning: %s\n", warning)
		}
		return nil
	},
}

var abtestMDECmd = &cobra.Command{
	Use:   "mde",
	Short: "Minimum detectable effect for a fixed sample size",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := abtest.MDE(
			abSampleSize,
			abBaseline,
			defaultFloat(abConfidence, cfg.ABTest.Confidence),
			defaultFloat(abPower, cfg.ABTest.Power),
			model.TestDirection(abDirection),
		)
		if err != nil {
			return err
		}

		fmt.Printf("Absolute MDE: %.2f pp\n", result.AbsoluteMDE)
		fmt.Printf("Relative MDE: %.1f%%\n", result.RelativeMDE)
		fmt.Printf("Detectable variant rate: %.2f%%\n", result.VariantRate)
		return nil
	},
}

var abtestEvalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate significance of a completed test",
	Long:  "Reads variations from a YAML file: a list of {name, visitors, conversions, control} entries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(abTestFile)
		if err != nil {
			return eris.Wrap(err, "read variations file")
		}

		var variations []model.Variation
		if err := yaml.Unmarshal(data, &variations); err != nil {
			return eris.Wrap(err, "parse variations file")
		}

		results, err := abtest.Evaluate(model.TestConfig{
			Name:       abTestName,
			Variations: variations,
			Confidence: defaultFloat(abConfidence, cfg.ABTest.Confidence),
			Direction:  model.TestDirection(abDirection),
		})
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Variation", "Control", "Variant", "Uplift", "P-Value", "Power", "Verdict"})

		var rows [][]string
		for _, r := range results {
			verdict := insignificantColor.Sprint("not significant")
			if r.Significant {
				verdict = significantColor.Sprint("significant")
			}
			rows = append(rows, []string{
				r.Variation,
				fmt.Sprintf("%.2f%%", r.ControlRate),
				fmt.Sprintf("%.2f%%", r.VariantRate),
				fmt.Sprintf("%+.1f%%", r.Uplift),
				fmt.Sprintf("%.4f", r.PValue),
				fmt.Sprintf("%.2f", r.Power),
				verdict,
			})
		}
		if err := table.Bulk(rows); err != nil {
			return eris.Wrap(err, "build table")
		}
		if err := table.Render(); err != nil {
			return eris.Wrap(err, "render table")
		}

		for _, r := range results {
			for _, warning := range r.Warnings {
				fmt.Printf("Warning (%s): %s\n", r.Variation, warning)
			}
		}

		if abTestSave {
			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			rec, err := st.SaveCalculation(ctx, store.KindABTest, abTestName, results)
			if err != nil {
				return err
			}
			if _, err := st.Prune(ctx, store.KindABTest, historyKeep); err != nil {
				return err
			}
			fmt.Printf("Saved as %s\n", rec.ID)
		}
		return nil
	},
}

func defaultFloat(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func init() {
	for _, c := range []*cobra.Command{abtestSampleSizeCmd, abtestMDECmd, abtestEvalCmd} {
		c.Flags().Float64Var(&abConfidence, "confidence", 0, "confidence level, % (default from config)")
		c.Flags().Float64Var(&abPower, "power", 0, "statistical power, % (default from config)")
		c.Flags().StringVar(&abDirection, "direction", "two_tailed", "one_tailed or two_tailed")
	}

	abtestSampleSizeCmd.Flags().Float64Var(&abBaseline, "baseline", 0, "baseline conversion rate, %")
	abtestSampleSizeCmd.Flags().Float64Var(&abEffect, "effect", 0, "minimum effect to detect")
	abtestSampleSizeCmd.Flags().StringVar(&abEffectType, "effect-type", "relative", "relative or absolute")
	abtestSampleSizeCmd.Flags().IntVar(&abTreatments, "treatments", 1, "number of non-control arms")
	abtestSampleSizeCmd.Flags().BoolVar(&abCorrection, "correction", false, "apply Bonferroni correction across treatments")
	abtestSampleSizeCmd.Flags().IntVar(&abTraffic, "daily-traffic", 0, "daily eligible visitors (enables duration estimate)")
	abtestSampleSizeCmd.Flags().Float64SliceVar(&abAllocations, "allocations", nil, "traffic split per arm incl. control, %")
	abtestSampleSizeCmd.MarkFlagRequired("baseline") //nolint:errcheck
	abtestSampleSizeCmd.MarkFlagRequired("effect")   //nolint:errcheck

	abtestMDECmd.Flags().Float64Var(&abBaseline, "baseline", 0, "baseline conversion rate, %")
	abtestMDECmd.Flags().IntVar(&abSampleSize, "sample-size", 0, "visitors per variation")
	abtestMDECmd.MarkFlagRequired("baseline")    //nolint:errcheck
	abtestMDECmd.MarkFlagRequired("sample-size") //nolint:errcheck

	abtestEvalCmd.Flags().StringVar(&abTestFile, "file", "", "path to variations YAML file")
	abtestEvalCmd.Flags().StringVar(&abTestName, "name", "", "test name")
	abtestEvalCmd.Flags().BoolVar(&abTestSave, "save", false, "persist the evaluation to history")
	abtestEvalCmd.MarkFlagRequired("file") //nolint:errcheck

	abtestCmd.AddCommand(abtestSampleSizeCmd, abtestMDECmd, abtestEvalCmd)
	rootCmd.AddCommand(abtestCmd)
}
