package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/prateekjain24/pmkit/internal/market"
	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/store"
)

var (
	marketName     string
	marketTam      string
	marketSamPct   float64
	marketSomPct   float64
	marketPeriod   string
	marketMaturity string
	marketGeo      string
	marketCurrency string
	marketSave     bool

	segmentsFile      string
	competitorCount   int
	marketShareTarget float64
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "TAM/SAM/SOM market sizing",
}

func marketParams() model.MarketParams {
	currency := marketCurrency
	if currency == "" {
		currency = cfg.Market.Currency
	}
	return model.MarketParams{
		TimePeriod: model.TimePeriod(marketPeriod),
		Maturity:   model.Maturity(marketMaturity),
		GeoScope:   model.GeoScope(marketGeo),
		Currency:   currency,
	}
}

func printFunnel(calc *model.TamCalculation) {
	code := calc.Params.Currency
	fmt.Printf("TAM: %s\n", market.FormatCurrency(calc.TAM, code, true))
	fmt.Printf("SAM: %s\n", market.FormatCurrency(calc.SAM, code, true))
	fmt.Printf("SOM: %s\n", market.FormatCurrency(calc.SOM, code, true))
	fmt.Printf("Confidence: %.0f%%\n", calc.Confidence)

	fmt.Println("Assumptions:")
	for _, a := range calc.Assumptions {
		fmt.Printf("  - %s\n", a)
	}
	for _, w := range market.ValidateMarketSizes(calc.TAM, calc.SAM, calc.SOM) {
		fmt.Printf("Warning: %s\n", w)
	}
}

func saveMarket(cmd *cobra.Command, calc *model.TamCalculation) error {
	if !marketSave {
		return nil
	}
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	rec, err := st.SaveCalculation(ctx, store.KindMarket, marketName, calc)
	if err != nil {
		return err
	}
	if _, err := st.Prune(ctx, store.KindMarket, historyKeep); err != nil {
		return err
	}
	fmt.Printf("Saved as %s\n", rec.ID)
	return nil
}

var marketTopDownCmd = &cobra.Command{
	Use:   "topdown",
	Short: "Size a market by slicing a known TAM",
	RunE: func(cmd *cobra.Command, args []string) error {
		tam, err := market.ParseCurrencyInput(marketTam)
		if err != nil {
			return err
		}

		calc, err := market.TopDown(tam, marketSamPct, marketSomPct, marketParams())
		if err != nil {
			return err
		}

		printFunnel(calc)
		return saveMarket(cmd, calc)
	},
}

var marketBottomUpCmd = &cobra.Command{
	Use:   "bottomup",
	Short: "Size a market from customer segments",
	Long:  "Reads segments from a YAML file: a list of {name, users, avg_price, growth_rate, penetration_rate} entries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(segmentsFile)
		if err != nil {
			return eris.Wrap(err, "read segments file")
		}

		var segments []model.MarketSegment
		if err := yaml.Unmarshal(data, &segments); err != nil {
			return eris.Wrap(err, "parse segments file")
		}

		calc, err := market.BottomUp(segments, marketParams(), competitorCount, marketShareTarget)
		if err != nil {
			return err
		}

		printFunnel(calc)
		return saveMarket(cmd, calc)
	},
}

func init() {
	for _, c := range []*cobra.Command{marketTopDownCmd, marketBottomUpCmd} {
		c.Flags().StringVar(&marketName, "name", "", "calculation name")
		c.Flags().StringVar(&marketPeriod, "period", "annual", "time period: annual, quarterly, monthly")
		c.Flags().StringVar(&marketMaturity, "maturity", "mature", "market maturity: emerging, growing, mature, declining")
		c.Flags().StringVar(&marketGeo, "geo", "global", "geographic scope: global, country, regional, local")
		c.Flags().StringVar(&marketCurrency, "currency", "", "ISO currency code (default from config)")
		c.Flags().BoolVar(&marketSave, "save", false, "persist the sizing to history")
	}

	marketTopDownCmd.Flags().StringVar(&marketTam, "tam", "", "total addressable market, e.g. 2.5b or 500m")
	marketTopDownCmd.Flags().Float64Var(&marketSamPct, "sam-pct", 0, "SAM as a percentage of TAM")
	marketTopDownCmd.Flags().Float64Var(&marketSomPct, "som-pct", 0, "SOM as a percentage of SAM")
	marketTopDownCmd.MarkFlagRequired("tam")     //nolint:errcheck
	marketTopDownCmd.MarkFlagRequired("sam-pct") //nolint:errcheck
	marketTopDownCmd.MarkFlagRequired("som-pct") //nolint:errcheck

	marketBottomUpCmd.Flags().StringVar(&segmentsFile, "segments", "", "path to segments YAML file")
	marketBottomUpCmd.Flags().IntVar(&competitorCount, "competitors", 0, "number of direct competitors")
	marketBottomUpCmd.Flags().Float64Var(&marketShareTarget, "share-target", 100, "target share of the obtainable market, %")
	marketBottomUpCmd.MarkFlagRequired("segments") //nolint:errcheck

	marketCmd.AddCommand(marketTopDownCmd, marketBottomUpCmd)
	rootCmd.AddCommand(marketCmd)
}
