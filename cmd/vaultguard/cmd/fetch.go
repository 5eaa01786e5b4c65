package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/config"
	"github.com/mmmmuhib/agentvault/history"
	"github.com/mmmmuhib/agentvault/journal"
	"github.com/mmmmuhib/agentvault/txbuilder"
)

// loadHistory fetches a wallet's trades from the provider and caches them,
// or serves the cache when offline was requested. fetchFailed marks the
// records as untrusted so calibration stays on deposit-only limits: it is
// set on provider failures and in degraded (credential-less) mode, but not
// for an explicit --offline read.
func loadHistory(ctx context.Context, cfg *config.Config, wallet chain.Pubkey, offline bool) ([]history.TradeRecord, bool, error) {
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, true, err
	}
	defer j.Close()

	lookback := time.Duration(cfg.Provider.LookbackDays) * 24 * time.Hour
	since := time.Now().Add(-lookback)

	if offline {
		records, err := j.LoadSince(wallet.String(), since)
		return records, false, err
	}
	if cfg.Degraded() {
		log.Warn().Msg("no history provider configured; serving cached records as untrusted")
		records, err := j.LoadSince(wallet.String(), since)
		return records, true, err
	}

	res := newHistory(cfg).WalletTrades(ctx, wallet)
	if len(res.Records) > 0 {
		if err := j.UpsertTrades(wallet.String(), res.Records); err != nil {
			log.Warn().Err(err).Msg("journal upsert failed")
		}
	}
	if err := j.NoteFetch(wallet.String(), res, time.Now()); err != nil {
		log.Warn().Err(err).Msg("journal fetch note failed")
	}
	if res.Err != nil {
		log.Warn().Err(res.Err).Int("records", len(res.Records)).Msg("history fetch incomplete")
		return res.Records, true, nil
	}
	return res.Records, false, nil
}

func printUnsigned(u txbuilder.Unsigned) {
	fmt.Printf("\n%s\n", u.Description)
	fmt.Printf("  unsigned tx (base64): %s\n", base64.StdEncoding.EncodeToString(u.Tx))
	fmt.Printf("  valid until block height %d\n", u.LastValidBlockHeight)
}
