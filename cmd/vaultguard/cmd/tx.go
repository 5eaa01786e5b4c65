package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/txbuilder"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Build unsigned vault and profile transactions",
	Long: `Each subcommand fetches a fresh recency anchor, compiles the instruction
and prints the serialized unsigned transaction for an external signer. No
keys are held and nothing is submitted.`,
}

var (
	txDepositSOL  float64
	txLimitSOL    float64
	txMaxTrades   uint8
	txLockoutSecs uint32
	txCooldown    uint32
	txLockFor     time.Duration
)

type txBuild func(ctx context.Context, b *txbuilder.Builder, wallet chain.Pubkey) (txbuilder.Unsigned, error)

// txSubcommand wraps the shared config/wallet/build/print plumbing every tx
// subcommand repeats.
func txSubcommand(use, short string, flags func(*cobra.Command), build txBuild) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			wallet, err := parseWallet(args[0])
			if err != nil {
				return err
			}
			u, err := build(cmd.Context(), newBuilder(cfg), wallet)
			if err != nil {
				return err
			}
			printUnsigned(u)
			return nil
		},
	}
	if flags != nil {
		flags(c)
	}
	return c
}

func init() {
	rootCmd.AddCommand(txCmd)

	txCmd.AddCommand(
		txSubcommand("init-vault <wallet>", "Initialize a vault for the wallet", nil,
			func(ctx context.Context, b *txbuilder.Builder, wallet chain.Pubkey) (txbuilder.Unsigned, error) {
				return b.InitializeVault(ctx, wallet)
			}),
		txSubcommand("deposit <wallet>", "Deposit SOL into the wallet's vault",
			func(cmd *cobra.Command) {
				cmd.Flags().Float64Var(&txDepositSOL, "sol", 0, "amount in SOL (required)")
				cmd.MarkFlagRequired("sol")
			},
			func(ctx context.Context, b *txbuilder.Builder, wallet chain.Pubkey) (txbuilder.Unsigned, error) {
				amount, err := chain.FromSOL(txDepositSOL)
				if err != nil {
					return txbuilder.Unsigned{}, fmt.Errorf("amount: %w", err)
				}
				return b.Deposit(ctx, wallet, amount)
			}),
		txSubcommand("set-rules <wallet>", "Set the vault's risk rules",
			func(cmd *cobra.Command) {
				cmd.Flags().Float64Var(&txLimitSOL, "limit", 0, "daily loss limit in SOL (required)")
				cmd.Flags().Uint8Var(&txMaxTrades, "max-trades", 20, "max trades per day")
				cmd.Flags().Uint32Var(&txLockoutSecs, "lockout", 43_200, "lockout duration seconds")
				cmd.Flags().Uint32Var(&txCooldown, "cooldown", 120, "post-loss cooldown seconds")
				cmd.MarkFlagRequired("limit")
			},
			func(ctx context.Context, b *txbuilder.Builder, wallet chain.Pubkey) (txbuilder.Unsigned, error) {
				limit, err := chain.FromSOL(txLimitSOL)
				if err != nil {
					return txbuilder.Unsigned{}, fmt.Errorf("limit: %w", err)
				}
				return b.SetRules(ctx, wallet, chain.VaultParameters{
					DailyLossLimit:  limit,
					MaxTradesPerDay: txMaxTrades,
					LockoutDuration: txLockoutSecs,
					CooldownSeconds: txCooldown,
				})
			}),
		txSubcommand("lock <wallet>", "Manually lock the vault",
			func(cmd *cobra.Command) {
				cmd.Flags().DurationVar(&txLockFor, "for", time.Hour, "lock duration")
			},
			func(ctx context.Context, b *txbuilder.Builder, wallet chain.Pubkey) (txbuilder.Unsigned, error) {
				return b.ManualLock(ctx, wallet, txLockFor)
			}),
		txSubcommand("unlock <wallet>", "Unlock the vault after its lockout expires", nil,
			func(ctx context.Context, b *txbuilder.Builder, wallet chain.Pubkey) (txbuilder.Unsigned, error) {
				return b.Unlock(ctx, wallet)
			}),
		txSubcommand("init-profile <wallet>", "Initialize the wallet's trader profile", nil,
			func(ctx context.Context, b *txbuilder.Builder, wallet chain.Pubkey) (txbuilder.Unsigned, error) {
				return b.InitializeProfile(ctx, wallet)
			}),
	)
}
