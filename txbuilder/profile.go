package txbuilder

import (
	"context"
	"math"
	"time"

	"github.com/mmmmuhib/agentvault/analytics"
	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/history"
)

// ProfileFromReport projects an analytics run onto the on-chain profile
// fields so update-stats can be built straight from an analysis. The seven
// sub-scores are 0-99 projections of the report's ratios; the mapping is
// fixed so the same history always yields the same profile bytes.
func ProfileFromReport(authority chain.Pubkey, r analytics.Report, records []history.TradeRecord, now time.Time) chain.TraderProfile {
	p := chain.TraderProfile{
		Exists:      true,
		Authority:   authority,
		LastUpdated: now.Unix(),
	}

	var (
		wins   uint32
		pnl    int64
		volume uint64
	)
	days := make(map[time.Time]struct{})
	for _, rec := range records {
		if rec.Win {
			wins++
		}
		pnl += rec.Pnl
		volume += uint64(rec.Size)
		days[rec.Time.UTC().Truncate(24*time.Hour)] = struct{}{}
	}
	p.TotalTrades = uint32(len(records))
	p.TotalWins = wins
	p.TotalPnl = pnl
	if len(records) > 0 {
		p.AvgTradeSize = chain.Lamports(volume / uint64(len(records)))
	}
	if len(days) > math.MaxUint16 {
		p.TradingDays = math.MaxUint16
	} else {
		p.TradingDays = uint16(len(days))
	}

	p.Overall = score99(r.WinRate)
	p.Discipline = score99(1 - r.Revenge.Rate)
	p.Patience = score99(patienceFactor(r.Tilt))
	p.Consistency = score99(1 - r.Overconfidence)
	p.Timing = score99(r.Trend.RecentWinRate)
	p.RiskControl = score99(1 - r.HallucinationRate)
	p.Endurance = score99(1 - r.MaxDrawdown)
	return p
}

func patienceFactor(t analytics.TiltReport) float64 {
	if !t.Detected {
		return 1
	}
	switch t.Severity {
	case analytics.TiltSevere:
		return 0.25
	case analytics.TiltModerate:
		return 0.5
	default:
		return 0.75
	}
}

// score99 maps a [0,1] ratio to the 0-99 byte range the account stores.
func score99(ratio float64) uint8 {
	if ratio < 0 || math.IsNaN(ratio) {
		return 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return uint8(math.Round(ratio * 99))
}

// UpdateStatsFromReport builds the update-stats transaction directly from
// an analytics report over the same records.
func (b *Builder) UpdateStatsFromReport(ctx context.Context, authority chain.Pubkey, r analytics.Report, records []history.TradeRecord) (Unsigned, error) {
	return b.UpdateStats(ctx, authority, ProfileFromReport(authority, r, records, time.Now()))
}
