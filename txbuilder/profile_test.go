package txbuilder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmmmuhib/agentvault/analytics"
	"github.com/mmmmuhib/agentvault/history"
)

func TestProfileFromReport(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)
	records := []history.TradeRecord{
		{Time: start, Pnl: 300, Size: 1_000_000, Win: true},
		{Time: start.Add(time.Hour), Pnl: -100, Size: 3_000_000},
		{Time: start.Add(26 * time.Hour), Pnl: 200, Size: 2_000_000, Win: true},
	}
	report := analytics.Report{
		WinRate:           0.6667,
		HallucinationRate: 0.5,
		Overconfidence:    0.1,
		MaxDrawdown:       0.2,
		Revenge:           analytics.RevengeReport{Rate: 0.1},
		Trend:             analytics.TrendReport{RecentWinRate: 0.5},
	}

	now := start.Add(48 * time.Hour)
	p := ProfileFromReport(testOwner, report, records, now)

	assert.True(t, p.Exists)
	assert.Equal(t, testOwner, p.Authority)
	assert.Equal(t, uint32(3), p.TotalTrades)
	assert.Equal(t, uint32(2), p.TotalWins)
	assert.Equal(t, int64(400), p.TotalPnl)
	assert.EqualValues(t, 2_000_000, p.AvgTradeSize)
	assert.Equal(t, uint16(2), p.TradingDays, "trades span two distinct days")
	assert.Equal(t, now.Unix(), p.LastUpdated)

	assert.Equal(t, uint8(66), p.Overall)
	assert.Equal(t, uint8(89), p.Discipline)
	assert.Equal(t, uint8(99), p.Patience, "no tilt detected")
	assert.Equal(t, uint8(89), p.Consistency)
	assert.Equal(t, uint8(50), p.Timing)
	assert.Equal(t, uint8(50), p.RiskControl)
	assert.Equal(t, uint8(79), p.Endurance)
}

func TestProfileFromReport_Empty(t *testing.T) {
	t.Parallel()

	p := ProfileFromReport(testOwner, analytics.Report{}, nil, time.Unix(1, 0))
	assert.Zero(t, p.TotalTrades)
	assert.Zero(t, p.AvgTradeSize)
	assert.Equal(t, uint8(0), p.Overall)
	assert.Equal(t, uint8(99), p.Discipline, "no revenge rate measured")
}

func TestScore99_Bounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint8(0), score99(-0.5))
	assert.Equal(t, uint8(0), score99(0))
	assert.Equal(t, uint8(99), score99(1))
	assert.Equal(t, uint8(99), score99(1.7))
	assert.Equal(t, uint8(50), score99(0.505))
}

func TestProfileFromReport_TiltLowersPatience(t *testing.T) {
	t.Parallel()

	severe := analytics.Report{Tilt: analytics.TiltReport{Detected: true, Severity: analytics.TiltSevere}}
	p := ProfileFromReport(testOwner, severe, nil, time.Unix(1, 0))
	assert.Equal(t, uint8(25), p.Patience)
}
