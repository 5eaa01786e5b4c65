package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mmmmuhib/agentvault/analytics"
	"github.com/mmmmuhib/agentvault/chain"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <wallet>",
	Short: "Run behavioral and quant analytics over a wallet's trade history",
	Long: `Analyze fetches the wallet's recent trades (or reads the local cache with
--offline) and reports win rate, hallucination rate, tilt, revenge trading,
per-market accuracy and advisory directives. Nothing is applied anywhere;
directives are recommendations for the caller.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	anCapital     float64
	anOffline     bool
	anUpdateStats bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Float64Var(&anCapital, "capital", 0, "capital base in SOL (defaults to the vault's net deposits)")
	analyzeCmd.Flags().BoolVar(&anOffline, "offline", false, "use cached history instead of fetching")
	analyzeCmd.Flags().BoolVar(&anUpdateStats, "update-stats", false, "emit the unsigned update-stats transaction")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	wallet, err := parseWallet(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	capital, err := chain.FromSOL(anCapital)
	if err != nil {
		return fmt.Errorf("capital: %w", err)
	}
	if capital == 0 {
		vault, err := readVault(ctx, cfg, wallet)
		if err != nil {
			return err
		}
		if !vault.Exists {
			return fmt.Errorf("no vault for %s; pass --capital", wallet)
		}
		if vault.TotalDeposited <= vault.TotalWithdrawn {
			return fmt.Errorf("vault for %s holds nothing; pass --capital", wallet)
		}
		capital = vault.TotalDeposited - vault.TotalWithdrawn
	}

	records, fetchFailed, err := loadHistory(ctx, cfg, wallet, anOffline)
	if err != nil {
		return err
	}
	if fetchFailed && len(records) == 0 {
		fmt.Println("history unavailable: insufficient data")
		return nil
	}

	report := analytics.Analyze(records, capital, nil)

	fmt.Printf("Analysis for %s (%d trades, strategy %s)\n", wallet, report.TotalTrades, report.Strategy)
	if fetchFailed {
		fmt.Println("  warning: history fetch incomplete; metrics cover partial data")
	}
	fmt.Printf("  win rate:           %.2f%%\n", report.WinRate*100)
	fmt.Printf("  hallucination rate: %.2f%%\n", report.HallucinationRate*100)
	fmt.Printf("  overconfidence:     %.4f\n", report.Overconfidence)
	fmt.Printf("  Kelly fraction:     %.4f\n", report.Kelly)
	fmt.Printf("  profit factor:      %.2f\n", report.ProfitFactor)
	fmt.Printf("  max drawdown:       %.2f\n", report.MaxDrawdown)
	fmt.Printf("  Sharpe:             %.2f\n", report.Sharpe)

	if report.Tilt.Detected {
		fmt.Printf("  tilt: %s (%.0f%% baseline vs %.0f%% post-streak)\n",
			report.Tilt.Severity, report.Tilt.BaselineWinRate*100, report.Tilt.PostStreakWinRate*100)
	}
	if report.Revenge.Detected {
		fmt.Printf("  revenge trading: %.0f%% of trades inside the %s window\n",
			report.Revenge.Rate*100, report.Revenge.Window)
	}
	fmt.Printf("  trend: %s\n", report.Trend.Direction)

	if len(report.Markets) > 0 {
		fmt.Println("\nPer market:")
		names := make([]string, 0, len(report.Markets))
		for name := range report.Markets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			m := report.Markets[name]
			fmt.Printf("  %-12s %3d trades, %.0f%% wins\n", name, m.Trades, m.WinRate*100)
		}
	}

	if ds := analytics.Directives(report); len(ds) > 0 {
		fmt.Println("\nDirectives:")
		for _, d := range ds {
			fmt.Printf("  [%s] %s: %s\n", d.Severity, d.Action, d.Reason)
		}
	}

	if anUpdateStats {
		u, err := newBuilder(cfg).UpdateStatsFromReport(ctx, wallet, report, records)
		if err != nil {
			return err
		}
		printUnsigned(u)
	}
	return nil
}
