package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prateekjain24/pmkit/internal/migrate"
)

var (
	migrateIn  string
	migrateOut string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade stored data to the current schema versions",
}

// migrateRiceCmd upgrades an exported RICE history file. Legacy raw-value
// entries are remapped onto the 1-10 scales and their scores recomputed.
var migrateRiceCmd = &cobra.Command{
	Use:   "rice",
	Short: "Upgrade a RICE history JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(migrateIn)
		if err != nil {
			return eris.Wrap(err, "read input")
		}

		history := migrate.LoadRiceHistory(raw, time.Now().UTC())
		out, err := json.MarshalIndent(history, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode history")
		}
		if err := os.WriteFile(migrateOut, out, 0o644); err != nil {
			return eris.Wrap(err, "write output")
		}

		fmt.Printf("Wrote %d entries at schema v%d to %s\n", len(history.Scores), history.Version, migrateOut)
		return nil
	},
}

var migrateLayoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Upgrade a dashboard layout JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(migrateIn)
		if err != nil {
			return eris.Wrap(err, "read input")
		}

		layout := migrate.LoadLayout(raw)
		out, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode layout")
		}
		if err := os.WriteFile(migrateOut, out, 0o644); err != nil {
			return eris.Wrap(err, "write output")
		}

		fmt.Printf("Wrote %d widgets at schema v%d to %s\n", len(layout.Widgets), layout.Version, migrateOut)
		return nil
	},
}

// migrateDBCmd applies the store schema, useful before first serve on Postgres.
var migrateDBCmd = &cobra.Command{
	Use:   "db",
	Short: "Apply the database schema for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fmt.Println("Schema applied.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{migrateRiceCmd, migrateLayoutCmd} {
		c.Flags().StringVar(&migrateIn, "in", "", "input JSON file")
		c.Flags().StringVar(&migrateOut, "out", "", "output JSON file")
		c.MarkFlagRequired("in")  //nolint:errcheck
		c.MarkFlagRequired("out") //nolint:errcheck
	}

	migrateCmd.AddCommand(migrateRiceCmd, migrateLayoutCmd, migrateDBCmd)
	rootCmd.AddCommand(migrateCmd)
}
