package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmmmuhib/agentvault/analytics"
	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/history"
)

func TestClassify_TiltOnThirdLoss(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s, _ := frozenStore(now)

	sess := s.RecordTrade(testWallet, Trade{Pnl: -100})
	assert.Equal(t, StateActive, Classify(sess, chain.Vault{}, now))

	sess = s.RecordTrade(testWallet, Trade{Pnl: -100})
	assert.Equal(t, StateActive, Classify(sess, chain.Vault{}, now))

	sess = s.RecordTrade(testWallet, Trade{Pnl: -100})
	assert.Equal(t, StateTilt, Classify(sess, chain.Vault{}, now))
}

func TestClassify_Priorities(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	tilted := Session{
		TradeCount: 3,
		Trades:     []Trade{{Pnl: -1}, {Pnl: -1}, {Pnl: -1}},
	}

	locked := chain.Vault{
		Exists:       true,
		IsLocked:     true,
		LockoutUntil: now.Add(10 * time.Minute).Unix(),
	}
	assert.Equal(t, StateLockedOut, Classify(tilted, locked, now),
		"vault lock outranks tilt")

	advisory := tilted
	advisory.LockedUntil = now.Add(time.Hour)
	assert.Equal(t, StateLockedOut, Classify(advisory, chain.Vault{}, now))

	cooling := chain.Vault{
		Exists:           true,
		LastTradeWasLoss: true,
		LastTradeTime:    now.Add(-30 * time.Second).Unix(),
		CooldownSeconds:  120,
	}
	assert.Equal(t, StateCoolingDown, Classify(tilted, cooling, now),
		"cooldown outranks tilt")
}

func TestClassify_HotStreakAndOverLimit(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	hot := Session{
		TradeCount: 3,
		Trades:     []Trade{{Pnl: 1}, {Pnl: 1}, {Pnl: 1}},
	}
	assert.Equal(t, StateHotStreak, Classify(hot, chain.Vault{}, now))

	// Streaks outrank the limit check even when both hold.
	limits := &chain.VaultParameters{DailyLossLimit: 100, MaxTradesPerDay: 10}
	bleeding := Session{
		TradeCount: 2,
		DailyPnl:   -150,
		Trades:     []Trade{{Pnl: -50}, {Pnl: 100}},
		Limits:     limits,
	}
	assert.Equal(t, StateOverLimit, Classify(bleeding, chain.Vault{}, now))

	capped := Session{
		TradeCount: 10,
		DailyPnl:   50,
		Trades:     []Trade{{Pnl: 100}, {Pnl: -50}},
		Limits:     limits,
	}
	assert.Equal(t, StateOverLimit, Classify(capped, chain.Vault{}, now))

	// Vault limits take precedence over advisory ones.
	vault := chain.Vault{Exists: true, DailyLossLimit: 1000, MaxTradesPerDay: 20}
	assert.Equal(t, StateActive, Classify(bleeding, vault, now))
}

func TestClassify_FreshAndActive(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	assert.Equal(t, StateFresh, Classify(Session{}, chain.Vault{}, now))

	mixed := Session{
		TradeCount: 2,
		Trades:     []Trade{{Pnl: 1}, {Pnl: -1}},
	}
	assert.Equal(t, StateActive, Classify(mixed, chain.Vault{}, now))

	// Zero-pnl trades break a streak without starting one.
	flat := Session{
		TradeCount: 4,
		Trades:     []Trade{{Pnl: -1}, {Pnl: -1}, {Pnl: -1}, {Pnl: 0}},
	}
	assert.Equal(t, StateActive, Classify(flat, chain.Vault{}, now))
}

func TestConfidenceAdjustment(t *testing.T) {
	t.Parallel()

	none := analytics.TiltReport{}
	assert.Zero(t, ConfidenceAdjustment(StateLockedOut, none))
	assert.InDelta(t, 0.3, ConfidenceAdjustment(StateOverLimit, none), 1e-9)
	assert.InDelta(t, 0.5, ConfidenceAdjustment(StateCoolingDown, none), 1e-9)
	assert.InDelta(t, 0.6, ConfidenceAdjustment(StateTilt, none), 1e-9)
	assert.InDelta(t, 1.1, ConfidenceAdjustment(StateHotStreak, none), 1e-9)
	assert.InDelta(t, 1.0, ConfidenceAdjustment(StateActive, none), 1e-9)

	moderate := analytics.TiltReport{Detected: true, Severity: analytics.TiltModerate}
	assert.InDelta(t, 0.7, ConfidenceAdjustment(StateActive, moderate), 1e-9)

	severe := analytics.TiltReport{Detected: true, Severity: analytics.TiltSevere}
	assert.LessOrEqual(t, ConfidenceAdjustment(StateHotStreak, severe), 0.4,
		"severe tilt is pinned at 0.4 even on a streak")
}

func TestConfidenceAdjustment_SevereTiltHistory(t *testing.T) {
	t.Parallel()

	// Four wins then six losses: baseline 0.4, every trade after the
	// first two losses loses too. Measured tilt comes out severe.
	start := time.Unix(1_700_000_000, 0)
	records := make([]history.TradeRecord, 10)
	for i := range records {
		pnl := int64(100)
		if i >= 4 {
			pnl = -100
		}
		records[i] = history.TradeRecord{
			Time: start.Add(time.Duration(i) * time.Minute),
			Pnl:  pnl,
			Win:  pnl > 0,
		}
	}
	report := analytics.DetectTilt(records)
	require.True(t, report.Detected)
	require.Equal(t, analytics.TiltSevere, report.Severity)

	assert.LessOrEqual(t, ConfidenceAdjustment(StateTilt, report), 0.4)
}
