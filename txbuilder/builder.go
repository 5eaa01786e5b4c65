// Package txbuilder composes fully-formed, unsigned wire-format transactions
// for every mutating vault and profile operation. It holds no keys and never
// signs; the output is opaque bytes plus the metadata an external signer
// needs (recency anchor, validity horizon, human-readable description).
package txbuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/ledger"
)

// AnchorSource supplies a fresh recency anchor per build. *ledger.Client
// satisfies it.
type AnchorSource interface {
	LatestBlockhash(ctx context.Context) (ledger.Blockhash, error)
}

// Unsigned is a serialized transaction awaiting an external signature.
type Unsigned struct {
	Tx                   []byte
	Blockhash            [32]byte
	LastValidBlockHeight uint64
	Description          string
}

type Builder struct {
	program chain.Pubkey
	anchors AnchorSource
}

func New(program chain.Pubkey, anchors AnchorSource) *Builder {
	return &Builder{program: program, anchors: anchors}
}

// build fetches a fresh anchor (the one external read a builder call makes),
// compiles the instruction and wraps it with zeroed signature slots.
func (b *Builder) build(ctx context.Context, feePayer chain.Pubkey, ix Instruction, desc string) (Unsigned, error) {
	bh, err := b.anchors.LatestBlockhash(ctx)
	if err != nil {
		return Unsigned{}, fmt.Errorf("txbuilder: recency anchor: %w", err)
	}
	msg, numSigners, err := serializeMessage(feePayer, bh.Hash, []Instruction{ix})
	if err != nil {
		return Unsigned{}, err
	}
	return Unsigned{
		Tx:                   serializeUnsigned(msg, numSigners),
		Blockhash:            bh.Hash,
		LastValidBlockHeight: bh.LastValidBlockHeight,
		Description:          desc,
	}, nil
}

func (b *Builder) InitializeVault(ctx context.Context, owner chain.Pubkey) (Unsigned, error) {
	ix, err := InitializeVault(b.program, owner)
	if err != nil {
		return Unsigned{}, err
	}
	return b.build(ctx, owner, ix, fmt.Sprintf("initialize vault for %s", owner))
}

func (b *Builder) Deposit(ctx context.Context, owner chain.Pubkey, amount chain.Lamports) (Unsigned, error) {
	ix, err := Deposit(b.program, owner, amount)
	if err != nil {
		return Unsigned{}, err
	}
	return b.build(ctx, owner, ix, fmt.Sprintf("deposit %s into vault for %s", amount, owner))
}

func (b *Builder) SetRules(ctx context.Context, owner chain.Pubkey, params chain.VaultParameters) (Unsigned, error) {
	ix, err := SetRules(b.program, owner, params)
	if err != nil {
		return Unsigned{}, err
	}
	desc := fmt.Sprintf("set rules: loss limit %s, %d trades/day, lockout %ds, cooldown %ds",
		params.DailyLossLimit, params.MaxTradesPerDay, params.LockoutDuration, params.CooldownSeconds)
	return b.build(ctx, owner, ix, desc)
}

func (b *Builder) ManualLock(ctx context.Context, owner chain.Pubkey, duration time.Duration) (Unsigned, error) {
	secs := int64(duration / time.Second)
	if secs <= 0 || secs > int64(^uint32(0)) {
		return Unsigned{}, fmt.Errorf("manual-lock: duration %s out of range", duration)
	}
	ix, err := ManualLock(b.program, owner, uint32(secs))
	if err != nil {
		return Unsigned{}, err
	}
	return b.build(ctx, owner, ix, fmt.Sprintf("lock vault for %s (%s)", owner, duration))
}

func (b *Builder) Unlock(ctx context.Context, owner chain.Pubkey) (Unsigned, error) {
	ix, err := Unlock(b.program, owner)
	if err != nil {
		return Unsigned{}, err
	}
	return b.build(ctx, owner, ix, fmt.Sprintf("unlock vault for %s", owner))
}

func (b *Builder) InitializeProfile(ctx context.Context, authority chain.Pubkey) (Unsigned, error) {
	ix, err := InitializeProfile(b.program, authority)
	if err != nil {
		return Unsigned{}, err
	}
	return b.build(ctx, authority, ix, fmt.Sprintf("initialize trader profile for %s", authority))
}

func (b *Builder) UpdateStats(ctx context.Context, authority chain.Pubkey, profile chain.TraderProfile) (Unsigned, error) {
	ix, err := UpdateStats(b.program, authority, profile)
	if err != nil {
		return Unsigned{}, err
	}
	desc := fmt.Sprintf("update stats for %s: %d trades, %d wins, rating %d",
		authority, profile.TotalTrades, profile.TotalWins, profile.Overall)
	return b.build(ctx, authority, ix, desc)
}
