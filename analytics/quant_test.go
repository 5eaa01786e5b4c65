package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/history"
)

// trades builds a history from signed outcomes, spaced by gap, with a fixed
// 1e6 size per trade.
func trades(gap time.Duration, pnls ...int64) []history.TradeRecord {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	records := make([]history.TradeRecord, len(pnls))
	for i, pnl := range pnls {
		records[i] = history.TradeRecord{
			Signature: string(rune('a' + i%26)),
			Time:      start.Add(time.Duration(i) * gap),
			Pnl:       pnl,
			Size:      1_000_000,
			Win:       pnl > 0,
			Market:    "SOL/USDC",
		}
		if i > 0 {
			records[i].SincePrev = gap
		}
	}
	return records
}

func TestMaxDrawdown_Bounds(t *testing.T) {
	t.Parallel()

	capital := chain.Lamports(1_000_000)

	assert.Zero(t, MaxDrawdown(nil, capital))
	assert.Zero(t, MaxDrawdown(trades(time.Hour, 100, 200, 300), capital))

	dd := MaxDrawdown(trades(time.Hour, -500_000, -400_000), capital)
	assert.InDelta(t, 0.9, dd, 1e-9)

	// Losing more than the whole base clamps at 1.
	dd = MaxDrawdown(trades(time.Hour, -2_000_000), capital)
	assert.InDelta(t, 1.0, dd, 1e-9)
}

func TestMaxDrawdown_MonotoneUnderExtension(t *testing.T) {
	t.Parallel()

	capital := chain.Lamports(10_000_000)
	pnls := []int64{500, -900, 400, -1200, 2000, -300, -700, 100, -50, 900}

	prev := 0.0
	for i := 1; i <= len(pnls); i++ {
		dd := MaxDrawdown(trades(time.Hour, pnls[:i]...), capital)
		assert.GreaterOrEqual(t, dd, prev, "drawdown is a running-peak metric")
		assert.GreaterOrEqual(t, dd, 0.0)
		assert.LessOrEqual(t, dd, 1.0)
		prev = dd
	}
}

func TestHistoricalVaR(t *testing.T) {
	t.Parallel()

	assert.Zero(t, HistoricalVaR(nil, 0.05))

	returns := []float64{-0.10, -0.02, 0.01, 0.03, 0.05, -0.04, 0.02, 0.00, 0.04, -0.01}
	v := HistoricalVaR(returns, 0.05)
	assert.InDelta(t, -0.10, v, 1e-9, "5th percentile of ten points is the worst day")
}

func TestSharpeRatio(t *testing.T) {
	t.Parallel()

	assert.Zero(t, SharpeRatio(nil))
	assert.Zero(t, SharpeRatio([]float64{0.01}))
	assert.Zero(t, SharpeRatio([]float64{0.01, 0.01, 0.01}), "zero variance reports zero, not Inf")

	up := SharpeRatio([]float64{0.01, 0.02, 0.015, 0.03})
	assert.Positive(t, up)
	down := SharpeRatio([]float64{-0.01, -0.02, -0.015, -0.03})
	assert.Negative(t, down)
}

func TestKellyFraction(t *testing.T) {
	t.Parallel()

	assert.Zero(t, KellyFraction(nil))
	assert.Zero(t, KellyFraction(trades(time.Hour, -100, -200)), "no wins reports zero")

	// p=0.5, avgWin=200, avgLoss=100: (0.5*200 - 0.5*100)/200 = 0.25
	k := KellyFraction(trades(time.Hour, 200, -100, 200, -100))
	assert.InDelta(t, 0.25, k, 1e-9)

	// Heavy losses push Kelly negative.
	k = KellyFraction(trades(time.Hour, 100, -900, 100, -900))
	assert.Negative(t, k)
}

func TestProfitFactor(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, ProfitFactor(trades(time.Hour, 400, -100, -100)), 1e-9)
	assert.InDelta(t, 300, ProfitFactor(trades(time.Hour, 100, 200)), 1e-9, "no losses reports gross profit")
}

func TestLongestLossStreak(t *testing.T) {
	t.Parallel()

	assert.Zero(t, LongestLossStreak(nil))
	assert.Equal(t, 3, LongestLossStreak(trades(time.Hour, -1, -1, 5, -1, -1, -1, 5)))
}

func TestDailyReturns(t *testing.T) {
	t.Parallel()

	records := trades(8*time.Hour, 100, -50, 30, 20)
	// Trades at 10:00, 18:00 (day 1), 02:00, 10:00 (day 2).
	returns := DailyReturns(records, 1_000)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.05, returns[0], 1e-9)
	assert.InDelta(t, 0.05, returns[1], 1e-9)

	assert.Nil(t, DailyReturns(records, 0))
}

func TestInferStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		recs []history.TradeRecord
		want Strategy
	}{
		{"empty", nil, StrategyConservative},
		{"same-day burst of 40", trades(time.Minute, make([]int64, 40)...), StrategyScalping},
		{"ten per day", trades(2*time.Hour, make([]int64, 20)...), StrategyDayTrading},
		{"four per day", trades(6*time.Hour, make([]int64, 12)...), StrategySwing},
		{"one per day", trades(24*time.Hour, make([]int64, 5)...), StrategyConservative},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, InferStrategy(tt.recs))
		})
	}
}
