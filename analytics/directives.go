package analytics

import "fmt"

// Directives are advisory, never auto-applied: typed recommendations with a
// severity tag and the metric value that triggered them. The caller decides
// whether to turn one into an instruction.

type Action string

const (
	ActionPauseTrading     Action = "pause_trading"
	ActionAvoidMarket      Action = "avoid_market"
	ActionFocusMarket      Action = "focus_market"
	ActionReduceSize       Action = "reduce_size"
	ActionIncreaseCooldown Action = "increase_cooldown"
	ActionRestrictTrades   Action = "restrict_trades"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Directive struct {
	Action   Action
	Severity Severity
	Market   string
	Value    float64
	Reason   string
}

const (
	avoidMarketWinRate = 0.35
	avoidMarketMinN    = 3
	focusMarketWinRate = 0.60
	focusMarketMinN    = 5
	hallucinationPause = 0.60
	overconfidenceCut  = 0.15
)

// Directives maps a report to action recommendations.
func Directives(r Report) []Directive {
	var out []Directive

	if r.TotalTrades > 0 && r.Kelly < 0 {
		out = append(out, Directive{
			Action:   ActionPauseTrading,
			Severity: SeverityCritical,
			Value:    r.Kelly,
			Reason:   fmt.Sprintf("negative Kelly fraction %.4f: expected value per trade is negative", r.Kelly),
		})
	}
	if r.HallucinationRate > hallucinationPause {
		out = append(out, Directive{
			Action:   ActionPauseTrading,
			Severity: SeverityCritical,
			Value:    r.HallucinationRate,
			Reason:   fmt.Sprintf("%.1f%% of traded volume went into losing trades", r.HallucinationRate*100),
		})
	}
	for market, s := range r.Markets {
		if s.Trades >= avoidMarketMinN && s.WinRate < avoidMarketWinRate {
			out = append(out, Directive{
				Action:   ActionAvoidMarket,
				Severity: SeverityWarning,
				Market:   market,
				Value:    s.WinRate,
				Reason:   fmt.Sprintf("win rate %.1f%% over %d trades on %s", s.WinRate*100, s.Trades, market),
			})
		}
		if s.Trades >= focusMarketMinN && s.WinRate > focusMarketWinRate {
			out = append(out, Directive{
				Action:   ActionFocusMarket,
				Severity: SeverityInfo,
				Market:   market,
				Value:    s.WinRate,
				Reason:   fmt.Sprintf("win rate %.1f%% over %d trades on %s", s.WinRate*100, s.Trades, market),
			})
		}
	}
	if r.Overconfidence > overconfidenceCut {
		out = append(out, Directive{
			Action:   ActionReduceSize,
			Severity: SeverityWarning,
			Value:    r.Overconfidence,
			Reason:   fmt.Sprintf("win rate drops %.1f points on above-median trade sizes", r.Overconfidence*100),
		})
	}
	if r.Tilt.Detected {
		out = append(out, Directive{
			Action:   ActionIncreaseCooldown,
			Severity: tiltSeverityLevel(r.Tilt.Severity),
			Value:    r.Tilt.PostStreakWinRate,
			Reason: fmt.Sprintf("%s tilt: win rate %.1f%% after loss streaks vs %.1f%% baseline",
				r.Tilt.Severity, r.Tilt.PostStreakWinRate*100, r.Tilt.BaselineWinRate*100),
		})
	}
	if r.Revenge.Detected {
		out = append(out, Directive{
			Action:   ActionIncreaseCooldown,
			Severity: SeverityWarning,
			Value:    r.Revenge.Rate,
			Reason: fmt.Sprintf("%.1f%% of trades open within %s of a loss",
				r.Revenge.Rate*100, r.Revenge.Window),
		})
	}
	if r.Trend.Direction == TrendDegrading {
		out = append(out, Directive{
			Action:   ActionRestrictTrades,
			Severity: SeverityWarning,
			Value:    r.Trend.RecentWinRate,
			Reason: fmt.Sprintf("recent win rate %.1f%% is %.1f points under the historical %.1f%%",
				r.Trend.RecentWinRate*100,
				(r.Trend.HistoricalWinRate-r.Trend.RecentWinRate)*100,
				r.Trend.HistoricalWinRate*100),
		})
	}
	return out
}

func tiltSeverityLevel(s TiltSeverity) Severity {
	if s == TiltSevere {
		return SeverityCritical
	}
	return SeverityWarning
}
