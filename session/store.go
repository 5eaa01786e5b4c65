// Package session tracks per-wallet trading activity inside the current
// process. Sessions are deliberately non-durable: a restart drops them all
// while on-chain vault state survives.
package session

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/chain"
)

const (
	sessionShards = 16
	sessionWindow = 24 * time.Hour
)

// Trade is one session-local trade entry. Cumulative is filled in by the
// store when the trade is recorded.
type Trade struct {
	Time       time.Time
	Pnl        int64
	Market     string
	Cumulative int64
	Confidence float64
}

// Session is the rolling 24h view of one wallet's activity. Limits and the
// lockout fields are advisory: they only matter before an on-chain vault
// exists for the wallet.
type Session struct {
	Wallet       string
	Trades       []Trade
	DailyPnl     int64
	TradeCount   int
	SessionStart time.Time
	LastActivity time.Time
	Limits       *chain.VaultParameters
	LockedUntil  time.Time
	LockReason   string
}

type shard struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// Store maps wallet keys to sessions. Writes to one wallet serialize on its
// shard mutex; wallets on different shards never block each other. No store
// operation can fail, it is all local bookkeeping.
type Store struct {
	shards [sessionShards]*shard

	now func() time.Time
}

func NewStore() *Store {
	s := &Store{now: time.Now}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return s
}

func (s *Store) shardFor(wallet string) *shard {
	h := fnv.New32a()
	h.Write([]byte(wallet))
	return s.shards[h.Sum32()%sessionShards]
}

// getLocked returns the live session for wallet, creating it when absent
// and rolling it over when the 24h window or an advisory lockout has
// expired. The shard mutex must be held.
func (sh *shard) getLocked(wallet string, now time.Time) *Session {
	sess, ok := sh.sessions[wallet]
	if !ok {
		sess = &Session{Wallet: wallet, SessionStart: now, LastActivity: now}
		sh.sessions[wallet] = sess
		return sess
	}
	if now.Sub(sess.SessionStart) >= sessionWindow {
		reset(sess, now)
	}
	if !sess.LockedUntil.IsZero() && !now.Before(sess.LockedUntil) {
		// Lockout expiry is a full session reset, not just an unlock.
		reset(sess, now)
	}
	return sess
}

func reset(sess *Session, now time.Time) {
	sess.Trades = nil
	sess.DailyPnl = 0
	sess.TradeCount = 0
	sess.SessionStart = now
	sess.LastActivity = now
	sess.LockedUntil = time.Time{}
	sess.LockReason = ""
}

// snapshot copies the session so callers never share the live trade slice.
func snapshot(sess *Session) Session {
	out := *sess
	out.Trades = append([]Trade(nil), sess.Trades...)
	return out
}

// GetOrCreate returns a copy of the wallet's current session.
func (s *Store) GetOrCreate(wallet string) Session {
	sh := s.shardFor(wallet)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return snapshot(sh.getLocked(wallet, s.now()))
}

// RecordTrade appends a trade and returns the updated session. Callers
// supply time, pnl, market and confidence; the running totals are owned
// here.
func (s *Store) RecordTrade(wallet string, t Trade) Session {
	now := s.now()
	sh := s.shardFor(wallet)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess := sh.getLocked(wallet, now)
	if t.Time.IsZero() {
		t.Time = now
	}
	sess.DailyPnl += t.Pnl
	sess.TradeCount++
	t.Cumulative = sess.DailyPnl
	sess.Trades = append(sess.Trades, t)
	sess.LastActivity = now
	return snapshot(sess)
}

// ResetIfExpired rolls the 24h window over and reports whether it did.
func (s *Store) ResetIfExpired(wallet string) bool {
	now := s.now()
	sh := s.shardFor(wallet)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[wallet]
	if !ok || now.Sub(sess.SessionStart) < sessionWindow {
		return false
	}
	reset(sess, now)
	return true
}

// SetLimits attaches advisory limits to a wallet that has no on-chain vault
// yet. Limits survive window rollovers.
func (s *Store) SetLimits(wallet string, p chain.VaultParameters) {
	sh := s.shardFor(wallet)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	limits := p
	sh.getLocked(wallet, s.now()).Limits = &limits
}

// SetLockout applies an advisory lockout. The on-chain program is the real
// enforcement point once a vault exists; this is the software fallback.
func (s *Store) SetLockout(wallet, reason string, d time.Duration) Session {
	now := s.now()
	sh := s.shardFor(wallet)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess := sh.getLocked(wallet, now)
	sess.LockedUntil = now.Add(d)
	sess.LockReason = reason
	log.Info().
		Str("wallet", wallet).
		Time("until", sess.LockedUntil).
		Str("reason", reason).
		Msg("advisory lockout set")
	return snapshot(sess)
}

// Lockout reports the active advisory lockout, if any. An expired lockout
// resets the whole session before reporting unlocked.
func (s *Store) Lockout(wallet string) (until time.Time, reason string, locked bool) {
	now := s.now()
	sh := s.shardFor(wallet)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess := sh.getLocked(wallet, now)
	if sess.LockedUntil.IsZero() {
		return time.Time{}, "", false
	}
	return sess.LockedUntil, sess.LockReason, true
}

// Clear drops a wallet's session entirely.
func (s *Store) Clear(wallet string) {
	sh := s.shardFor(wallet)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.sessions, wallet)
}
