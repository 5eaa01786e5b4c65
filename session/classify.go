package session

import (
	"time"

	"github.com/mmmmuhib/agentvault/analytics"
	"github.com/mmmmuhib/agentvault/chain"
)

// State is the behavioral classification of a session. Earlier states win:
// a locked-out wallet is locked out no matter how hot its streak.
type State string

const (
	StateLockedOut   State = "locked_out"
	StateCoolingDown State = "cooling_down"
	StateTilt        State = "tilt"
	StateHotStreak   State = "hot_streak"
	StateOverLimit   State = "over_limit"
	StateFresh       State = "fresh"
	StateActive      State = "active"
)

const streakLength = 3

// Classify derives the session state from local activity plus whatever
// vault state was last read. The vault read is not re-checked here; the
// on-chain program is the final enforcement point either way.
func Classify(sess Session, vault chain.Vault, now time.Time) State {
	switch {
	case vault.LockedAt(now):
		return StateLockedOut
	case !sess.LockedUntil.IsZero() && now.Before(sess.LockedUntil):
		return StateLockedOut
	case vault.CoolingDownAt(now):
		return StateCoolingDown
	case trailingLosses(sess.Trades) >= streakLength:
		return StateTilt
	case trailingWins(sess.Trades) >= streakLength:
		return StateHotStreak
	case overLimit(sess, vault):
		return StateOverLimit
	case sess.TradeCount == 0:
		return StateFresh
	default:
		return StateActive
	}
}

// overLimit checks the session counters against the vault's limits when a
// vault exists, else against the advisory limits. Session P&L and the
// vault's own counters are separate signals; only the local side is
// consulted here.
func overLimit(sess Session, vault chain.Vault) bool {
	var limit chain.Lamports
	var maxTrades int
	switch {
	case vault.Exists:
		limit = vault.DailyLossLimit
		maxTrades = int(vault.MaxTradesPerDay)
	case sess.Limits != nil:
		limit = sess.Limits.DailyLossLimit
		maxTrades = int(sess.Limits.MaxTradesPerDay)
	default:
		return false
	}
	if limit > 0 && sess.DailyPnl <= -int64(limit) {
		return true
	}
	return maxTrades > 0 && sess.TradeCount >= maxTrades
}

// Zero-pnl trades break both streaks without starting one.

func trailingLosses(trades []Trade) int {
	n := 0
	for i := len(trades) - 1; i >= 0; i-- {
		if trades[i].Pnl >= 0 {
			break
		}
		n++
	}
	return n
}

func trailingWins(trades []Trade) int {
	n := 0
	for i := len(trades) - 1; i >= 0; i-- {
		if trades[i].Pnl <= 0 {
			break
		}
		n++
	}
	return n
}

// ConfidenceAdjustment converts the session state plus a tilt report into a
// multiplier on the agent's self-reported confidence. Severe tilt pins the
// multiplier at 0.4 or below whatever the state says.
func ConfidenceAdjustment(state State, tilt analytics.TiltReport) float64 {
	m := 1.0
	switch state {
	case StateLockedOut:
		return 0
	case StateOverLimit:
		m = 0.3
	case StateCoolingDown:
		m = 0.5
	case StateTilt:
		m = 0.6
	case StateHotStreak:
		m = 1.1
	}
	if tilt.Detected {
		switch tilt.Severity {
		case analytics.TiltMild:
			m *= 0.9
		case analytics.TiltModerate:
			m *= 0.7
		case analytics.TiltSevere:
			m *= 0.4
			if m > 0.4 {
				m = 0.4
			}
		}
	}
	return m
}
