package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmmmuhib/agentvault/chain"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <wallet>",
	Short: "Decode and print a wallet's vault and trader-profile accounts",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	wallet, err := parseWallet(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	now := time.Now()

	vaultAddr, vaultBump, err := chain.DeriveVaultAddress(wallet, cfg.ProgramID())
	if err != nil {
		return err
	}
	profileAddr, profileBump, err := chain.DeriveProfileAddress(wallet, cfg.ProgramID())
	if err != nil {
		return err
	}
	fmt.Printf("vault address:   %s (bump %d)\n", vaultAddr, vaultBump)
	fmt.Printf("profile address: %s (bump %d)\n", profileAddr, profileBump)

	vault, err := readVault(ctx, cfg, wallet)
	if err != nil {
		return err
	}
	if !vault.Exists {
		fmt.Println("\nvault: not initialized")
	} else {
		fmt.Println("\nVault:")
		fmt.Printf("  locked:           %v", vault.LockedAt(now))
		if vault.LockedAt(now) {
			fmt.Printf(" (until %s)", time.Unix(vault.LockoutUntil, 0).UTC().Format(time.RFC3339))
		}
		fmt.Println()
		fmt.Printf("  lockouts:         %d (duration %ds)\n", vault.LockoutCount, vault.LockoutDuration)
		fmt.Printf("  daily loss limit: %s\n", vault.DailyLossLimit)
		fmt.Printf("  trades today:     %d of %d\n", vault.TradesToday, vault.MaxTradesPerDay)
		fmt.Printf("  cooldown:         %ds (cooling down: %v)\n", vault.CooldownSeconds, vault.CoolingDownAt(now))
		fmt.Printf("  deposited:        %s (withdrawn %s)\n", vault.TotalDeposited, vault.TotalWithdrawn)
		if vault.Swap != nil && vault.Swap.InProgress {
			fmt.Printf("  swap in flight:   %s in, min %s out\n", vault.Swap.AmountIn, vault.Swap.MinOut)
		}
	}

	profile, err := readProfile(ctx, cfg, wallet)
	if err != nil {
		return err
	}
	if !profile.Exists {
		fmt.Println("\nprofile: not initialized")
		return nil
	}
	fmt.Println("\nTrader profile:")
	fmt.Printf("  rating:     %d (discipline %d, patience %d, consistency %d)\n",
		profile.Overall, profile.Discipline, profile.Patience, profile.Consistency)
	fmt.Printf("  timing %d, risk control %d, endurance %d\n",
		profile.Timing, profile.RiskControl, profile.Endurance)
	fmt.Printf("  trades:     %d (%d wins, %.0f%% win rate)\n",
		profile.TotalTrades, profile.TotalWins, profile.WinRate()*100)
	fmt.Printf("  total pnl:  %d lamports over %d trading days\n", profile.TotalPnl, profile.TradingDays)
	fmt.Printf("  updated:    %s\n", time.Unix(profile.LastUpdated, 0).UTC().Format(time.RFC3339))
	return nil
}
