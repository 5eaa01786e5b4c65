// Package analytics computes behavioral and statistical metrics over parsed
// trade history. Every ratio in a Report is rounded to four decimal places
// so serialized output stays stable across runs.
package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/history"
)

type MarketStats struct {
	Trades  int
	Wins    int
	WinRate float64
}

type BenchmarkReport struct {
	StrategyReturn  float64
	BenchmarkReturn float64
	Alpha           float64
	Outperforming   bool
}

type Report struct {
	TotalTrades       int
	WinRate           float64
	HallucinationRate float64
	Overconfidence    float64
	Markets           map[string]MarketStats
	Kelly             float64
	ProfitFactor      float64
	MaxDrawdown       float64
	Sharpe            float64
	Tilt              TiltReport
	Revenge           RevengeReport
	Trend             TrendReport
	Benchmark         BenchmarkReport
	Strategy          Strategy
}

// Analyze computes the full behavioral report. capital scales the return
// series; benchmark is a daily benchmark-return series (may be nil, meaning
// a flat benchmark).
func Analyze(records []history.TradeRecord, capital chain.Lamports, benchmark []float64) Report {
	returns := DailyReturns(records, capital)
	r := Report{
		TotalTrades:       len(records),
		WinRate:           round4(WinRate(records)),
		HallucinationRate: round4(hallucinationRate(records)),
		Overconfidence:    round4(overconfidence(records)),
		Markets:           marketBreakdown(records),
		Kelly:             round4(KellyFraction(records)),
		ProfitFactor:      round4(ProfitFactor(records)),
		MaxDrawdown:       round4(MaxDrawdown(records, capital)),
		Sharpe:            round4(SharpeRatio(returns)),
		Tilt:              DetectTilt(records),
		Revenge:           DetectRevenge(records),
		Trend:             DetectTrend(records),
		Benchmark:         compareBenchmark(returns, benchmark),
		Strategy:          InferStrategy(records),
	}
	return r
}

// hallucinationRate weights losses by traded volume: the share of volume
// that went into losing trades. With no volume data it falls back to
// 1 - win rate.
func hallucinationRate(records []history.TradeRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total, losing uint64
	for _, r := range records {
		total += uint64(r.Size)
		if !r.Win {
			losing += uint64(r.Size)
		}
	}
	if total == 0 {
		return 1 - WinRate(records)
	}
	return float64(losing) / float64(total)
}

// overconfidence compares win rates below and above the median absolute
// trade size: small-trade win rate minus large-trade win rate, floored at
// zero. A positive index means performance decays as stakes grow.
func overconfidence(records []history.TradeRecord) float64 {
	if len(records) < 4 {
		return 0
	}
	sizes := make([]float64, len(records))
	for i, r := range records {
		sizes[i] = float64(r.Size)
	}
	sorted := append([]float64(nil), sizes...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	var smallN, smallW, largeN, largeW int
	for _, r := range records {
		if float64(r.Size) <= median {
			smallN++
			if r.Win {
				smallW++
			}
		} else {
			largeN++
			if r.Win {
				largeW++
			}
		}
	}
	if smallN == 0 || largeN == 0 {
		return 0
	}
	idx := float64(smallW)/float64(smallN) - float64(largeW)/float64(largeN)
	if idx < 0 {
		return 0
	}
	return idx
}

func marketBreakdown(records []history.TradeRecord) map[string]MarketStats {
	markets := make(map[string]MarketStats)
	for _, r := range records {
		s := markets[r.Market]
		s.Trades++
		if r.Win {
			s.Wins++
		}
		markets[r.Market] = s
	}
	for m, s := range markets {
		s.WinRate = round4(float64(s.Wins) / float64(s.Trades))
		markets[m] = s
	}
	return markets
}

func compareBenchmark(returns, benchmark []float64) BenchmarkReport {
	var strategyMean, benchMean float64
	if len(returns) > 0 {
		strategyMean = stat.Mean(returns, nil)
	}
	if len(benchmark) > 0 {
		benchMean = stat.Mean(benchmark, nil)
	}
	alpha := strategyMean - benchMean
	return BenchmarkReport{
		StrategyReturn:  round4(strategyMean),
		BenchmarkReturn: round4(benchMean),
		Alpha:           round4(alpha),
		Outperforming:   alpha > 0,
	}
}
