package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/config"
	"github.com/mmmmuhib/agentvault/trust"
)

var scoreCmd = &cobra.Command{
	Use:   "score [wallet]",
	Short: "Compute the trust score for a wallet, or for every vault with --all",
	Long: `Score applies a fixed additive rubric to the wallet's vault and trader
profile accounts. The rubric reads public account state only, so anyone can
re-derive the same score.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

var scoreAll bool

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "scan and score every vault under the program")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if scoreAll {
		return scoreEveryVault(cmd, cfg)
	}
	if len(args) != 1 {
		return fmt.Errorf("pass a wallet address or --all")
	}
	wallet, err := parseWallet(args[0])
	if err != nil {
		return err
	}

	vault, err := readVault(ctx, cfg, wallet)
	if err != nil {
		return err
	}
	profile, err := readProfile(ctx, cfg, wallet)
	if err != nil {
		return err
	}

	s := trust.Evaluate(vault, profile)
	fmt.Printf("Trust score for %s: %d (%s)\n", wallet, s.Value, s.Grade)
	for _, f := range s.Factors {
		fmt.Printf("  %+4d %s\n", f.Points, f.Name)
	}
	return nil
}

func scoreEveryVault(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	accounts, err := newLedger(cfg).ProgramAccounts(ctx, cfg.ProgramID(), chain.VaultTag)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("no vaults found")
		return nil
	}

	for _, acct := range accounts {
		vault, err := chain.DecodeVault(acct.Account.Data)
		if err != nil {
			fmt.Printf("%s  (undecodable vault: %v)\n", acct.Pubkey, err)
			continue
		}
		profile, err := readProfile(ctx, cfg, vault.Owner)
		if err != nil {
			return err
		}
		s := trust.Evaluate(vault, profile)
		fmt.Printf("%s  score %3d (%s)\n", vault.Owner, s.Value, s.Grade)
	}
	return nil
}
