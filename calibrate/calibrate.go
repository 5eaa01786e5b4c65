// Package calibrate turns a declared deposit plus observed trade history
// into concrete vault risk parameters. It picks one of three tiers purely by
// sample size and always falls back to the tier below when data is missing
// or untrusted, never forward on stale data.
package calibrate

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/analytics"
	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/history"
)

type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

const (
	tier2MinTrades = 5
	tier3MinTrades = 20

	// Tier-2 adjustments.
	lowWinRate      = 0.40
	shrinkBps       = 7_000 // 70%
	revengeRateMax  = 0.20
	revengeCooldown = 300
	lossStreakLimit = 5

	maxLockoutSeconds = 48 * 3600
	varMultiplier     = 1.2
)

type strategyDefaults struct {
	maxTrades uint8
	cooldown  uint32
}

var strategyTable = map[analytics.Strategy]strategyDefaults{
	analytics.StrategyScalping:     {maxTrades: 40, cooldown: 30},
	analytics.StrategyDayTrading:   {maxTrades: 20, cooldown: 120},
	analytics.StrategySwing:        {maxTrades: 8, cooldown: 600},
	analytics.StrategyConservative: {maxTrades: 4, cooldown: 1800},
}

type riskDefaults struct {
	lossBps uint64
	lockout uint32
}

var riskTable = map[RiskTolerance]riskDefaults{
	RiskLow:    {lossBps: 150, lockout: 86_400},
	RiskMedium: {lossBps: 300, lockout: 43_200},
	RiskHigh:   {lossBps: 500, lockout: 21_600},
}

// Input is everything calibration may consult. Strategy may be empty, in
// which case it is inferred from cadence. FetchFailed marks the record list
// as untrusted (partial fetch); calibration then stays on Tier 1 rather
// than deriving limits from incomplete data.
type Input struct {
	Deposit     chain.Lamports
	Strategy    analytics.Strategy
	Risk        RiskTolerance
	Records     []history.TradeRecord
	FetchFailed bool
}

// Stats are the Tier-3 measured statistics; nil below Tier 3.
type Stats struct {
	VaR95        float64
	Sharpe       float64
	MaxDrawdown  float64
	Kelly        float64
	ProfitFactor float64
	WinRate      float64
	TradingDays  int
}

type Output struct {
	Tier     int
	Strategy analytics.Strategy
	Params   chain.VaultParameters
	Stats    *Stats
	Notes    []string
}

// Tier is the pure tier-selection function: 0-4 trades Tier 1, 5-19 Tier 2,
// 20 and up Tier 3.
func Tier(sampleSize int) int {
	switch {
	case sampleSize >= tier3MinTrades:
		return 3
	case sampleSize >= tier2MinTrades:
		return 2
	default:
		return 1
	}
}

// Calibrate derives vault parameters. The same input always yields the same
// output; there is no randomness anywhere in the path.
func Calibrate(in Input) (Output, error) {
	if in.Deposit == 0 {
		return Output{}, fmt.Errorf("calibrate: deposit must be positive")
	}
	risk := in.Risk
	if risk == "" {
		risk = RiskMedium
	}
	rd, ok := riskTable[risk]
	if !ok {
		return Output{}, fmt.Errorf("calibrate: unknown risk tolerance %q", in.Risk)
	}
	strategy := in.Strategy
	if strategy == "" {
		strategy = analytics.InferStrategy(in.Records)
	}
	sd, ok := strategyTable[strategy]
	if !ok {
		return Output{}, fmt.Errorf("calibrate: unknown strategy %q", in.Strategy)
	}

	out := Output{
		Tier:     Tier(len(in.Records)),
		Strategy: strategy,
		Params: chain.VaultParameters{
			DailyLossLimit:  floorOne(in.Deposit.Bps(rd.lossBps)),
			MaxTradesPerDay: sd.maxTrades,
			LockoutDuration: rd.lockout,
			CooldownSeconds: sd.cooldown,
		},
	}

	if in.FetchFailed && out.Tier > 1 {
		log.Warn().
			Int("records", len(in.Records)).
			Msg("history fetch incomplete; calibrating at tier 1")
		out.Tier = 1
		out.Notes = append(out.Notes, "history incomplete: deposit-only limits")
		return out, nil
	}

	switch out.Tier {
	case 2:
		applyTier2(&out, in.Records, strategy)
	case 3:
		applyTier3(&out, in)
		// The revenge-window cooldown rule carries over from Tier 2.
		applyRevengeCooldown(&out, in.Records, strategy)
	}
	return out, nil
}

func applyTier2(out *Output, records []history.TradeRecord, strategy analytics.Strategy) {
	if wr := analytics.WinRate(records); wr < lowWinRate {
		out.Params.DailyLossLimit = floorOne(out.Params.DailyLossLimit.Bps(shrinkBps))
		if shrunk := uint8(uint16(out.Params.MaxTradesPerDay) * 70 / 100); shrunk > 0 {
			out.Params.MaxTradesPerDay = shrunk
		} else {
			out.Params.MaxTradesPerDay = 1
		}
		out.Notes = append(out.Notes, fmt.Sprintf("win rate %.0f%% below 40%%: limits shrunk to 70%%", wr*100))
	}
	applyRevengeCooldown(out, records, strategy)
	if streak := analytics.LongestLossStreak(records); streak >= lossStreakLimit {
		out.Params.LockoutDuration = doubleLockout(out.Params.LockoutDuration)
		out.Notes = append(out.Notes, fmt.Sprintf("loss streak of %d: lockout doubled", streak))
	}
}

func applyTier3(out *Output, in Input) {
	returns := analytics.DailyReturns(in.Records, in.Deposit)
	var95 := analytics.HistoricalVaR(returns, 0.05)
	sharpe := analytics.SharpeRatio(returns)

	out.Stats = &Stats{
		VaR95:        var95,
		Sharpe:       sharpe,
		MaxDrawdown:  analytics.MaxDrawdown(in.Records, in.Deposit),
		Kelly:        analytics.KellyFraction(in.Records),
		ProfitFactor: analytics.ProfitFactor(in.Records),
		WinRate:      analytics.WinRate(in.Records),
		TradingDays:  len(returns),
	}

	// Loss limit from measured tail risk: |VaR95| x capital x 1.2,
	// rounded down, floored at one native unit.
	limit := math.Floor(math.Abs(var95) * float64(in.Deposit) * varMultiplier)
	out.Params.DailyLossLimit = floorOne(chain.Lamports(limit))

	if sharpe < 0 {
		out.Params.LockoutDuration = doubleLockout(out.Params.LockoutDuration)
		out.Notes = append(out.Notes, fmt.Sprintf("negative Sharpe %.2f: lockout doubled", sharpe))
	}
}

func applyRevengeCooldown(out *Output, records []history.TradeRecord, strategy analytics.Strategy) {
	window := analytics.RevengeWindow(strategy)
	if rate := analytics.RevengeRate(records, window); rate > revengeRateMax {
		if out.Params.CooldownSeconds < revengeCooldown {
			out.Params.CooldownSeconds = revengeCooldown
		}
		out.Notes = append(out.Notes, fmt.Sprintf("%.0f%% revenge trades within %s: cooldown raised", rate*100, window))
	}
}

func floorOne(l chain.Lamports) chain.Lamports {
	if l == 0 {
		return 1
	}
	return l
}

func doubleLockout(d uint32) uint32 {
	if d >= maxLockoutSeconds/2 {
		return maxLockoutSeconds
	}
	return d * 2
}
