package analytics

import (
	"time"

	"github.com/mmmmuhib/agentvault/history"
)

// Tilt detection compares the baseline win rate against the win rate on
// trades placed immediately after two consecutive losses. Sparse samples
// report "not detected" with the baseline as the safe default instead of a
// low-confidence verdict.

type TiltSeverity string

const (
	TiltNone     TiltSeverity = "none"
	TiltMild     TiltSeverity = "mild"
	TiltModerate TiltSeverity = "moderate"
	TiltSevere   TiltSeverity = "severe"
)

const (
	tiltMinTrades     = 10
	tiltMinQualifying = 3
)

type TiltReport struct {
	Detected          bool
	Severity          TiltSeverity
	BaselineWinRate   float64
	PostStreakWinRate float64
	Qualifying        int
}

func DetectTilt(records []history.TradeRecord) TiltReport {
	baseline := round4(WinRate(records))
	report := TiltReport{
		Severity:          TiltNone,
		BaselineWinRate:   baseline,
		PostStreakWinRate: baseline,
	}
	if len(records) < tiltMinTrades {
		return report
	}

	var qualifying, qualifyingWins int
	for i := 2; i < len(records); i++ {
		if records[i-2].Pnl < 0 && records[i-1].Pnl < 0 {
			qualifying++
			if records[i].Win {
				qualifyingWins++
			}
		}
	}
	report.Qualifying = qualifying
	if qualifying < tiltMinQualifying {
		return report
	}

	postStreak := float64(qualifyingWins) / float64(qualifying)
	report.PostStreakWinRate = round4(postStreak)

	// Degradation in win-rate points.
	points := (baseline - postStreak) * 100
	switch {
	case points >= 30:
		report.Severity = TiltSevere
	case points >= 15:
		report.Severity = TiltModerate
	case points >= 5:
		report.Severity = TiltMild
	default:
		return report
	}
	report.Detected = true
	return report
}

// Revenge detection shares the window logic used for calibration but
// reports the win-rate comparison instead of adjusting limits.
type RevengeReport struct {
	Detected        bool
	Window          time.Duration
	Count           int
	Rate            float64
	WinRate         float64
	BaselineWinRate float64
}

// revengeRate is the fraction of trades opened within window of a prior
// loss; shared with calibration's Tier-2 cooldown rule.
func revengeTrades(records []history.TradeRecord, window time.Duration) (count, wins int) {
	for i := 1; i < len(records); i++ {
		if records[i-1].Pnl < 0 && records[i].SincePrev > 0 && records[i].SincePrev <= window {
			count++
			if records[i].Win {
				wins++
			}
		}
	}
	return count, wins
}

// RevengeRate reports the fraction of all trades that qualify as revenge
// trades for the given window.
func RevengeRate(records []history.TradeRecord, window time.Duration) float64 {
	if len(records) == 0 {
		return 0
	}
	count, _ := revengeTrades(records, window)
	return float64(count) / float64(len(records))
}

func DetectRevenge(records []history.TradeRecord) RevengeReport {
	window := RevengeWindow(InferStrategy(records))
	report := RevengeReport{
		Window:          window,
		BaselineWinRate: round4(WinRate(records)),
	}
	if len(records) == 0 {
		return report
	}
	count, wins := revengeTrades(records, window)
	report.Count = count
	report.Rate = round4(float64(count) / float64(len(records)))
	if count > 0 {
		report.WinRate = round4(float64(wins) / float64(count))
	}
	report.Detected = report.Rate > 0.20
	return report
}

// Trend splits the list at its midpoint, capping the recent window at ten
// trades, and compares win rates across the split.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDegrading TrendDirection = "degrading"
)

type TrendReport struct {
	Direction         TrendDirection
	RecentWinRate     float64
	HistoricalWinRate float64
	RecentTrades      int
}

func DetectTrend(records []history.TradeRecord) TrendReport {
	report := TrendReport{Direction: TrendStable}
	if len(records) < 4 {
		return report
	}
	recentN := len(records) / 2
	if recentN > 10 {
		recentN = 10
	}
	split := len(records) - recentN
	historical := round4(WinRate(records[:split]))
	recent := round4(WinRate(records[split:]))

	report.RecentWinRate = recent
	report.HistoricalWinRate = historical
	report.RecentTrades = recentN

	switch delta := (recent - historical) * 100; {
	case delta >= 10:
		report.Direction = TrendImproving
	case delta <= -10:
		report.Direction = TrendDegrading
	}
	return report
}
