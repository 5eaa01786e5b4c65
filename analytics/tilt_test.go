package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectTilt_Severe(t *testing.T) {
	t.Parallel()

	// Six losses then six wins: baseline 0.5, post-streak win rate 0.2
	// (qualifying trades at indexes 2..6), a 30-point degradation.
	records := trades(time.Hour, -1, -1, -1, -1, -1, -1, 1, 1, 1, 1, 1, 1)
	report := DetectTilt(records)

	assert.True(t, report.Detected)
	assert.Equal(t, TiltSevere, report.Severity)
	assert.Equal(t, 5, report.Qualifying)
	assert.InDelta(t, 0.5, report.BaselineWinRate, 1e-9)
	assert.InDelta(t, 0.2, report.PostStreakWinRate, 1e-9)
}

func TestDetectTilt_SparseSamplesNotDetected(t *testing.T) {
	t.Parallel()

	// Fewer than ten trades: never detected, baseline reported as the
	// safe default for the post-streak rate.
	short := trades(time.Hour, -1, -1, -1, -1, -1, 1, 1, 1)
	report := DetectTilt(short)
	assert.False(t, report.Detected)
	assert.Equal(t, TiltNone, report.Severity)
	assert.Equal(t, report.BaselineWinRate, report.PostStreakWinRate)

	// Ten trades but fewer than three qualifying post-streak trades.
	few := trades(time.Hour, -1, -1, 1, 1, 1, 1, 1, 1, 1, 1)
	report = DetectTilt(few)
	assert.False(t, report.Detected)
	assert.Equal(t, 1, report.Qualifying)
}

func TestDetectTilt_NoDegradation(t *testing.T) {
	t.Parallel()

	// Post-streak trades all win: no tilt.
	records := trades(time.Hour, -1, -1, 1, -1, -1, 1, -1, -1, 1, 1, 1, 1)
	report := DetectTilt(records)
	assert.False(t, report.Detected)
	assert.Equal(t, TiltNone, report.Severity)
}

func TestDetectRevenge(t *testing.T) {
	t.Parallel()

	// Ten same-day trades a minute apart infer day-trading, a 120s
	// revenge window. Every trade after a loss is inside the window.
	records := trades(time.Minute, -1, 1, -1, 1, -1, 1, 1, 1, 1, 1)
	report := DetectRevenge(records)

	assert.Equal(t, 120*time.Second, report.Window)
	assert.Equal(t, 3, report.Count)
	assert.InDelta(t, 0.3, report.Rate, 1e-9)
	assert.True(t, report.Detected)
	assert.InDelta(t, 1.0, report.WinRate, 1e-9, "revenge trades happened to win here")

	// Slow cadence: hour-long gaps far exceed the window.
	calm := trades(time.Hour, -1, 1, -1, 1, -1, 1, 1, 1, 1, 1)
	report = DetectRevenge(calm)
	assert.Zero(t, report.Count)
	assert.False(t, report.Detected)
}

func TestDetectTrend(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TrendStable, DetectTrend(nil).Direction)

	// Historical losses, recent wins.
	improving := trades(time.Hour, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	report := DetectTrend(improving)
	assert.Equal(t, TrendImproving, report.Direction)
	assert.Equal(t, 10, report.RecentTrades)
	assert.InDelta(t, 1.0, report.RecentWinRate, 1e-9)
	assert.InDelta(t, 0.0, report.HistoricalWinRate, 1e-9)

	degrading := trades(time.Hour, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1)
	assert.Equal(t, TrendDegrading, DetectTrend(degrading).Direction)

	flat := trades(time.Hour, 1, -1, 1, -1, 1, -1, 1, -1)
	assert.Equal(t, TrendStable, DetectTrend(flat).Direction)
}
