package cmd

import (
	"context"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/config"
)

// readVault resolves and decodes the wallet's vault account. An absent
// account comes back as Exists=false, not an error.
func readVault(ctx context.Context, cfg *config.Config, owner chain.Pubkey) (chain.Vault, error) {
	pda, _, err := chain.DeriveVaultAddress(owner, cfg.ProgramID())
	if err != nil {
		return chain.Vault{}, err
	}
	info, err := newLedger(cfg).GetAccountInfo(ctx, pda)
	if err != nil {
		return chain.Vault{}, err
	}
	if !info.Found {
		return chain.Vault{}, nil
	}
	return chain.DecodeVault(info.Data)
}

func readProfile(ctx context.Context, cfg *config.Config, authority chain.Pubkey) (chain.TraderProfile, error) {
	pda, _, err := chain.DeriveProfileAddress(authority, cfg.ProgramID())
	if err != nil {
		return chain.TraderProfile{}, err
	}
	info, err := newLedger(cfg).GetAccountInfo(ctx, pda)
	if err != nil {
		return chain.TraderProfile{}, err
	}
	if !info.Found {
		return chain.TraderProfile{}, nil
	}
	return chain.DecodeTraderProfile(info.Data)
}
