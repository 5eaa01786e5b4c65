package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmmmuhib/agentvault/analytics"
	"github.com/mmmmuhib/agentvault/calibrate"
	"github.com/mmmmuhib/agentvault/chain"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate <wallet>",
	Short: "Derive vault risk parameters from deposit size and trade history",
	Long: `Calibrate picks limits for a wallet using a three-tier algorithm: with no
usable history the limits come from the declared deposit alone; with enough
trades they are tightened by measured win rate, revenge trading, loss
streaks and tail risk.

Example:
  vaultguard calibrate <wallet> --deposit 5 --strategy day_trading --risk medium --emit-tx`,
	Args: cobra.ExactArgs(1),
	RunE: runCalibrate,
}

var (
	calDeposit  float64
	calStrategy string
	calRisk     string
	calOffline  bool
	calEmitTx   bool
)

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().Float64VarP(&calDeposit, "deposit", "d", 0, "declared deposit in SOL (required)")
	calibrateCmd.Flags().StringVarP(&calStrategy, "strategy", "s", "", "strategy (scalping, day_trading, swing, conservative; inferred when empty)")
	calibrateCmd.Flags().StringVarP(&calRisk, "risk", "r", "medium", "risk tolerance (low, medium, high)")
	calibrateCmd.Flags().BoolVar(&calOffline, "offline", false, "use cached history instead of fetching")
	calibrateCmd.Flags().BoolVar(&calEmitTx, "emit-tx", false, "emit the unsigned set-rules transaction")

	calibrateCmd.MarkFlagRequired("deposit")
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	wallet, err := parseWallet(args[0])
	if err != nil {
		return err
	}
	deposit, err := chain.FromSOL(calDeposit)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	ctx := cmd.Context()
	records, fetchFailed, err := loadHistory(ctx, cfg, wallet, calOffline)
	if err != nil {
		return err
	}

	out, err := calibrate.Calibrate(calibrate.Input{
		Deposit:     deposit,
		Strategy:    analytics.Strategy(calStrategy),
		Risk:        calibrate.RiskTolerance(calRisk),
		Records:     records,
		FetchFailed: fetchFailed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Tier %d calibration for %s (%s, %d trades)\n", out.Tier, wallet, out.Strategy, len(records))
	fmt.Printf("  daily loss limit: %s\n", out.Params.DailyLossLimit)
	fmt.Printf("  max trades/day:   %d\n", out.Params.MaxTradesPerDay)
	fmt.Printf("  cooldown:         %ds\n", out.Params.CooldownSeconds)
	fmt.Printf("  lockout:          %ds\n", out.Params.LockoutDuration)
	for _, note := range out.Notes {
		fmt.Printf("  note: %s\n", note)
	}
	if out.Stats != nil {
		fmt.Printf("\nMeasured over %d trading days:\n", out.Stats.TradingDays)
		fmt.Printf("  VaR95: %.4f  Sharpe: %.2f  max drawdown: %.2f\n",
			out.Stats.VaR95, out.Stats.Sharpe, out.Stats.MaxDrawdown)
		fmt.Printf("  Kelly: %.4f  profit factor: %.2f  win rate: %.2f\n",
			out.Stats.Kelly, out.Stats.ProfitFactor, out.Stats.WinRate)
	}

	if calEmitTx {
		u, err := newBuilder(cfg).SetRules(ctx, wallet, out.Params)
		if err != nil {
			return err
		}
		printUnsigned(u)
	}
	return nil
}
