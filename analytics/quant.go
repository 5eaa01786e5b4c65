package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/history"
)

// DailyReturns folds trades into per-UTC-day returns relative to capital.
// Days without trades contribute nothing; the series preserves day order.
func DailyReturns(records []history.TradeRecord, capital chain.Lamports) []float64 {
	if len(records) == 0 || capital == 0 {
		return nil
	}
	byDay := map[string]int64{}
	var order []string
	for _, r := range records {
		day := r.Time.Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			order = append(order, day)
		}
		byDay[day] += r.Pnl
	}
	sort.Strings(order)
	returns := make([]float64, 0, len(order))
	for _, day := range order {
		returns = append(returns, float64(byDay[day])/float64(capital))
	}
	return returns
}

// MaxDrawdown is the running peak-to-trough decline of the equity curve,
// in [0, 1]. Extending the history can only keep or grow it.
func MaxDrawdown(records []history.TradeRecord, capital chain.Lamports) float64 {
	base := float64(capital)
	if base <= 0 {
		for _, r := range records {
			base += math.Abs(float64(r.Pnl))
		}
		if base == 0 {
			return 0
		}
	}
	equity := base
	peak := base
	maxDD := 0.0
	for _, r := range records {
		equity += float64(r.Pnl)
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return math.Min(maxDD, 1)
}

// HistoricalVaR is the q-quantile of the daily-return series, e.g. q=0.05
// for the 5th-percentile loss. Returns 0 on an empty series.
func HistoricalVaR(returns []float64, q float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// SharpeRatio annualizes mean over stddev of daily returns by sqrt(365).
// Degenerate series (fewer than two points, zero variance) report 0 rather
// than a misleadingly confident number.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(365)
}

// KellyFraction computes (p*avgWin - (1-p)*avgLoss) / avgWin with win rate p
// and average magnitudes of wins and losses. Zero when there are no wins.
func KellyFraction(records []history.TradeRecord) float64 {
	var wins, losses int
	var winSum, lossSum float64
	for _, r := range records {
		if r.Win {
			wins++
			winSum += float64(r.Pnl)
		} else if r.Pnl < 0 {
			losses++
			lossSum += math.Abs(float64(r.Pnl))
		}
	}
	if wins == 0 || len(records) == 0 {
		return 0
	}
	avgWin := winSum / float64(wins)
	var avgLoss float64
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	p := float64(wins) / float64(len(records))
	return (p*avgWin - (1-p)*avgLoss) / avgWin
}

// ProfitFactor is gross profit over gross loss. With no losses the ratio
// degenerates, so the gross profit itself is reported (one unit of loss
// assumed) instead of +Inf.
func ProfitFactor(records []history.TradeRecord) float64 {
	var profit, loss float64
	for _, r := range records {
		if r.Pnl > 0 {
			profit += float64(r.Pnl)
		} else {
			loss += math.Abs(float64(r.Pnl))
		}
	}
	if loss == 0 {
		return profit
	}
	return profit / loss
}

// LongestLossStreak is the longest run of consecutive losing trades.
func LongestLossStreak(records []history.TradeRecord) int {
	longest, run := 0, 0
	for _, r := range records {
		if r.Pnl < 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// WinRate is the fraction of trades with positive outcome.
func WinRate(records []history.TradeRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	wins := 0
	for _, r := range records {
		if r.Win {
			wins++
		}
	}
	return float64(wins) / float64(len(records))
}

func round4(f float64) float64 {
	return math.Round(f*10_000) / 10_000
}
