package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prateekjain24/pmkit/internal/config"
	"github.com/prateekjain24/pmkit/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pmkit",
	Short: "Product management decision toolkit",
	Long:  "Prioritizes features with RICE, sizes markets top-down and bottom-up, projects ROI with NPV/IRR, and plans and evaluates A/B tests.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore creates the configured store backend with its schema applied.
func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		ps, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, err
		}
		st = ps
	default:
		ss, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = ss
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
