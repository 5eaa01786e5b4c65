package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/config"
	"github.com/mmmmuhib/agentvault/history"
	"github.com/mmmmuhib/agentvault/ledger"
	"github.com/mmmmuhib/agentvault/txbuilder"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vaultguard",
	Short: "Risk enforcement and behavioral analytics for agent trading vaults",
	Long: `Vaultguard reads on-chain vault and trader-profile accounts, fetches trade
history, and turns both into enforceable risk parameters, behavioral
analytics and unsigned transactions for an external signer.

It never holds a signing key and never submits a transaction.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLedger(cfg *config.Config) *ledger.Client {
	return ledger.New(cfg.Ledger.URL)
}

func newBuilder(cfg *config.Config) *txbuilder.Builder {
	return txbuilder.New(cfg.ProgramID(), newLedger(cfg))
}

func newHistory(cfg *config.Config) *history.Client {
	return history.NewClient(cfg.Provider.URL, cfg.Provider.Key,
		history.WithLookback(time.Duration(cfg.Provider.LookbackDays)*24*time.Hour),
		history.WithMaxPages(cfg.Provider.MaxPages),
	)
}

func parseWallet(arg string) (chain.Pubkey, error) {
	wallet, err := chain.PubkeyFromBase58(arg)
	if err != nil {
		return chain.Pubkey{}, fmt.Errorf("wallet address: %w", err)
	}
	return wallet, nil
}
