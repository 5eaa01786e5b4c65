package analytics

import (
	"time"

	"github.com/mmmmuhib/agentvault/history"
)

// Strategy is the trading cadence class, declared by the operator or
// inferred from observed history.
type Strategy string

const (
	StrategyScalping     Strategy = "scalping"
	StrategyDayTrading   Strategy = "day_trading"
	StrategySwing        Strategy = "swing"
	StrategyConservative Strategy = "conservative"
)

// InferStrategy classifies cadence from trades per observed day. The divisor
// is floored at one day so a same-day burst cannot blow the rate up.
func InferStrategy(records []history.TradeRecord) Strategy {
	if len(records) == 0 {
		return StrategyConservative
	}
	span := records[len(records)-1].Time.Sub(records[0].Time)
	days := span.Hours() / 24
	if days < 1 {
		days = 1
	}
	perDay := float64(len(records)) / days
	switch {
	case perDay > 30:
		return StrategyScalping
	case perDay > 8:
		return StrategyDayTrading
	case perDay > 2:
		return StrategySwing
	default:
		return StrategyConservative
	}
}

// RevengeWindow is how soon after a loss a new trade counts as a revenge
// trade, scaled to the strategy's natural cadence.
func RevengeWindow(s Strategy) time.Duration {
	switch s {
	case StrategyScalping:
		return 30 * time.Second
	case StrategyDayTrading:
		return 120 * time.Second
	case StrategySwing:
		return 600 * time.Second
	default:
		return 1800 * time.Second
	}
}
