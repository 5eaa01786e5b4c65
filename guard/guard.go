// Package guard produces trade-approval verdicts. A verdict folds together
// the last vault read and the local session; the on-chain program remains
// the final enforcement point, so every decision here is read-then-decide
// and a concurrent on-chain change is accepted as eventual consistency.
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/custody"
	"github.com/mmmmuhib/agentvault/metrics"
	"github.com/mmmmuhib/agentvault/session"
)

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	State      session.State
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Intent is a proposed trade awaiting a verdict.
type Intent struct {
	Wallet chain.Pubkey
	Size   chain.Lamports
	Market string
}

type Guard struct {
	sessions *session.Store
	custody  *custody.Client

	now func() time.Time
}

type Option func(*Guard)

// WithCustody attaches the optional custody policy service. Freezes are
// then applied on advisory lockout transitions.
func WithCustody(c *custody.Client) Option {
	return func(g *Guard) { g.custody = c }
}

func New(sessions *session.Store, opts ...Option) *Guard {
	g := &Guard{sessions: sessions, now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Approve evaluates an intent against the given vault read and the wallet's
// session. It never blocks on I/O and never fails; a malformed intent is a
// denial, not an error.
func (g *Guard) Approve(vault chain.Vault, intent Intent) Decision {
	now := g.now()
	sess := g.sessions.GetOrCreate(intent.Wallet.String())

	d := Decision{Allowed: true, State: session.Classify(sess, vault, now)}

	if intent.Size == 0 {
		d.add("NO_SIZE", "trade size must be non-zero")
	}

	switch d.State {
	case session.StateLockedOut:
		until := sess.LockedUntil
		if vault.LockedAt(now) {
			until = time.Unix(vault.LockoutUntil, 0)
		}
		d.add("LOCKED_OUT", fmt.Sprintf("locked out for another %s", until.Sub(now).Round(time.Second)))
	case session.StateCoolingDown:
		resume := time.Unix(vault.LastTradeTime+int64(vault.CooldownSeconds), 0)
		d.add("COOLDOWN_ACTIVE", fmt.Sprintf("post-loss cooldown until %s", resume.UTC().Format(time.RFC3339)))
	case session.StateOverLimit:
		d.add("OVER_LIMIT", fmt.Sprintf("daily pnl %d, %d trades today", sess.DailyPnl, sess.TradeCount))
	}

	// Vault counters are the authority when a vault exists; the session is
	// only the advisory mirror and the two are separate signals.
	if vault.Exists && !vault.SessionExpired(now) &&
		vault.MaxTradesPerDay > 0 && vault.TradesToday >= vault.MaxTradesPerDay {
		d.add("TRADE_CAP", fmt.Sprintf("vault counts %d of %d trades today",
			vault.TradesToday, vault.MaxTradesPerDay))
	}

	if vault.Exists && vault.DailyLossLimit > 0 && intent.Size > vault.DailyLossLimit {
		d.add("SIZE_OVER_LIMIT", fmt.Sprintf("size %s exceeds daily loss limit %s",
			intent.Size, vault.DailyLossLimit))
	}

	result := "denied"
	if d.Allowed {
		result = "allowed"
	}
	metrics.Observer.IncrementVerdict(result)
	return d
}

// RecordTrade books a settled trade into the session. When advisory limits
// exist and the trade pushes daily losses past them, an advisory lockout is
// applied, which is the one place custody freezes happen.
func (g *Guard) RecordTrade(ctx context.Context, wallet chain.Pubkey, t session.Trade) session.Session {
	sess := g.sessions.RecordTrade(wallet.String(), t)

	if sess.Limits == nil || !sess.LockedUntil.IsZero() {
		return sess
	}
	limit := sess.Limits.DailyLossLimit
	if limit == 0 || sess.DailyPnl > -int64(limit) {
		return sess
	}
	return g.Lockout(ctx, wallet, "daily loss limit reached",
		time.Duration(sess.Limits.LockoutDuration)*time.Second)
}

// Lockout applies an advisory lockout and freezes the wallet at the
// custodian when one is configured. A custody failure is logged and
// swallowed: the local lockout already holds and custody is best-effort.
func (g *Guard) Lockout(ctx context.Context, wallet chain.Pubkey, reason string, d time.Duration) session.Session {
	sess := g.sessions.SetLockout(wallet.String(), reason, d)
	if err := g.custody.Freeze(ctx, wallet); err != nil {
		log.Warn().Err(err).Str("wallet", wallet.String()).Msg("custody freeze failed")
	}
	return sess
}

// Unlock clears an advisory lockout and restores custodial spending.
func (g *Guard) Unlock(ctx context.Context, wallet chain.Pubkey) {
	g.sessions.Clear(wallet.String())
	if err := g.custody.Restore(ctx, wallet); err != nil {
		log.Warn().Err(err).Str("wallet", wallet.String()).Msg("custody restore failed")
	}
}
