package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/rice"
	"github.com/prateekjain24/pmkit/internal/store"
)

var (
	riceName       string
	riceReach      float64
	riceImpact     float64
	riceConfidence float64
	riceEffort     float64
	riceSave       bool
)

// categoryColors maps band colors to console styles.
var categoryColors = map[string]*color.Color{
	"green":  color.New(color.FgGreen, color.Bold),
	"blue":   color.New(color.FgBlue),
	"yellow": color.New(color.FgYellow),
	"gray":   color.New(color.FgHiBlack),
}

func colorLabel(c rice.Category) string {
	if cc, ok := categoryColors[c.Color]; ok {
		return cc.Sprint(c.Label)
	}
	return c.Label
}

var riceCmd = &cobra.Command{
	Use:   "rice",
	Short: "RICE feature prioritization",
}

var riceScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a feature with the RICE formula",
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := rice.Calculate(riceReach, riceImpact, riceConfidence, riceEffort)
		if err != nil {
			return err
		}

		cat := rice.Categorize(score)
		fmt.Printf("Score: %.1f  (%s)\n%s\n", score, colorLabel(cat), cat.Description)

		for _, insight := range rice.Insights(riceReach, riceImpact, riceConfidence, riceEffort, score) {
			fmt.Printf("  - %s\n", insight)
		}

		if riceSave {
			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			rec, err := st.SaveCalculation(ctx, store.KindRice, riceName, model.RiceScore{
				Name:       riceName,
				Reach:      riceReach,
				Impact:     riceImpact,
				Confidence: riceConfidence,
				Effort:     riceEffort,
				Score:      score,
			})
			if err != nil {
				return err
			}
			if _, err := st.Prune(ctx, store.KindRice, historyKeep); err != nil {
				return err
			}
			fmt.Printf("Saved as %s\n", rec.ID)
		}
		return nil
	},
}

var riceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved RICE scores with summary stats",
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
		if len(records) == 0 {
			fmt.Println("No saved RICE scores.")
			return nil
		}

		scores := make([]model.RiceScore, 0, len(records))
		for _, rec := range records {
			var s model.RiceScore
			if err := json.Unmarshal(rec.Payload, &s); err != nil {
				return eris.Wrapf(err, "decode record %s", rec.ID)
			}
			scores = append(scores, s)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Rank", "Name", "Reach", "Impact", "Confidence", "Effort", "Score", "Category"})

		var data [][]string
		for i, s := range scores {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				s.Name,
				fmt.Sprintf("%.0f", s.Reach),
				fmt.Sprintf("%.1f", s.Impact),
				fmt.Sprintf("%.0f", s.Confidence),
				fmt.Sprintf("%.1f", s.Effort),
				fmt.Sprintf("%.1f", s.Score),
				colorLabel(rice.Categorize(s.Score)),
			})
		}
		if err := table.Bulk(data); err != nil {
			return eris.Wrap(err, "build table")
		}
		if err := table.Render(); err != nil {
			return eris.Wrap(err, "render table")
		}

		fmt.Printf("\nAverage score: %.1f\n", rice.AverageScore(scores))
		dist := rice.Distribution(scores)
		for _, label := range []string{"Must Do", "Should Do", "Could Do", "Won't Do"} {
			fmt.Printf("  %-10s %d\n", label, dist[label])
		}
		return nil
	},
}

var riceCompareCmd = &cobra.Command{
	Use:   "compare <id-a> <id-b>",
	Short: "Compare two saved RICE scores",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var scores [2]model.RiceScore
		for i, id := range args {
			rec, err := st.GetCalculation(ctx, id)
			if err != nil {
				return err
			}
			if rec.Kind != store.KindRice {
				return eris.Errorf("record %s is a %s calculation, not rice", id, rec.Kind)
			}
			if err := json.Unmarshal(rec.Payload, &scores[i]); err != nil {
				return eris.Wrapf(err, "decode record %s", id)
			}
		}

		cmp := rice.Compare(scores[0], scores[1])
		fmt.Printf("%q wins by %.1f points: %s\n", cmp.Winner.Name, cmp.Difference, cmp.Verdict)
		if cmp.Note != "" {
			fmt.Printf("  %s\n", cmp.Note)
		}
		return nil
	},
}

func init() {
	riceScoreCmd.Flags().StringVar(&riceName, "name", "", "feature name")
	riceScoreCmd.Flags().Float64Var(&riceReach, "reach", 0, "people reached per period")
	riceScoreCmd.Flags().Float64Var(&riceImpact, "impact", 0, "impact per person, 0-10")
	riceScoreCmd.Flags().Float64Var(&riceConfidence, "confidence", 0, "confidence percentage, 0-100")
	riceScoreCmd.Flags().Float64Var(&riceEffort, "effort", 0, "effort, 1-10")
	riceScoreCmd.Flags().BoolVar(&riceSave, "save", false, "persist the score to history")
	riceScoreCmd.MarkFlagRequired("reach")      //nolint:errcheck
	riceScoreCmd.MarkFlagRequired("impact")     //nolint:errcheck
	riceScoreCmd.MarkFlagRequired("confidence") //nolint:errcheck
	riceScoreCmd.MarkFlagRequired("effort")     //nolint:errcheck

	riceCmd.AddCommand(riceScoreCmd, riceListCmd, riceCompareCmd)
	rootCmd.AddCommand(riceCmd)
}
