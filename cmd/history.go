package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/rice"
	"github.com/prateekjain24/pmkit/internal/store"
)

// historyKeep caps saved records per calculator kind.
const historyKeep = 50

var historyKind string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved calculations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved calculations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListCalculations(ctx, store.Filter{Kind: store.Kind(historyKind)})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No saved calculations.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"ID", "Kind", "Name", "Created"})

		var rows [][]string
		for _, rec := range records {
			rows = append(rows, []string{
				rec.ID,
				string(rec.Kind),
				rec.Name,
				rec.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		if err := table.Bulk(rows); err != nil {
			return eris.Wrap(err, "build table")
		}
		return eris.Wrap(table.Render(), "render table")
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one saved calculation as JSON",
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

		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode record")
		}
		fmt.Println(string(out))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteCalculation(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

// historyRecomputeCmd re-derives the score of every saved RICE record from
// its stored inputs, repairing entries written by older builds with a
// different rounding rule.
var historyRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute saved RICE scores from their inputs",
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

		var updated atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)

		for _, rec := range records {
			g.Go(func() error {
				var s model.RiceScore
				if err := json.Unmarshal(rec.Payload, &s); err != nil {
					zap.L().Warn("skipping undecodable record", zap.String("id", rec.ID), zap.Error(err))
					return nil
				}

				score, err := rice.Calculate(s.Reach, s.Impact, s.Confidence, s.Effort)
				if err != nil {
					zap.L().Warn("skipping record with invalid inputs", zap.String("id", rec.ID), zap.Error(err))
					return nil
				}
				if score == s.Score {
					return nil
				}

				s.Score = score
				if err := st.UpdateCalculation(gctx, rec.ID, s); err != nil {
					return err
				}
				updated.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("Recomputed %d of %d records.\n", updated.Load(), len(records))
		return nil
	},
}

func init() {
	historyListCmd.Flags().StringVar(&historyKind, "kind", "", "filter by kind: rice, market, roi, abtest")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyRecomputeCmd)
	rootCmd.AddCommand(historyCmd)
}
