package txbuilder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/ledger"
)

type fakeAnchors struct {
	bh    ledger.Blockhash
	err   error
	calls int
}

func (f *fakeAnchors) LatestBlockhash(context.Context) (ledger.Blockhash, error) {
	f.calls++
	return f.bh, f.err
}

func TestBuilder_SetRules(t *testing.T) {
	t.Parallel()

	anchors := &fakeAnchors{bh: ledger.Blockhash{LastValidBlockHeight: 900}}
	anchors.bh.Hash[0] = 0xAB
	b := New(testProgram, anchors)

	u, err := b.SetRules(context.Background(), testOwner, chain.VaultParameters{
		DailyLossLimit:  150_000_000,
		MaxTradesPerDay: 20,
		LockoutDuration: 43_200,
		CooldownSeconds: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, anchors.calls, "exactly one anchor read per build")
	assert.Equal(t, uint64(900), u.LastValidBlockHeight)
	assert.NotEmpty(t, u.Tx)
	assert.Contains(t, u.Description, "set rules")

	// Unsigned layout: shortvec(1 signer) + 64 zero bytes + message.
	require.Greater(t, len(u.Tx), 65)
	assert.Equal(t, byte(1), u.Tx[0])
	assert.Equal(t, make([]byte, 64), u.Tx[1:65])

	// Message header: one required signature, owner is the sole signer.
	msg := u.Tx[65:]
	assert.Equal(t, byte(1), msg[0])

	// The recency anchor is embedded verbatim after the key table.
	assert.Contains(t, string(msg), string(u.Blockhash[:]))
}

func TestBuilder_AnchorFailureSurfaces(t *testing.T) {
	t.Parallel()

	anchors := &fakeAnchors{err: errors.New("node down")}
	b := New(testProgram, anchors)

	_, err := b.Unlock(context.Background(), testOwner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recency anchor")
}

func TestBuilder_ManualLockRange(t *testing.T) {
	t.Parallel()

	b := New(testProgram, &fakeAnchors{})
	_, err := b.ManualLock(context.Background(), testOwner, 0)
	assert.Error(t, err)
}

func TestCompileKeys_FeePayerFirst(t *testing.T) {
	t.Parallel()

	ix, err := Deposit(testProgram, testOwner, 1)
	require.NoError(t, err)

	keys := compileKeys(testOwner, []Instruction{ix})
	require.NotEmpty(t, keys)
	assert.Equal(t, testOwner, keys[0].pubkey)
	assert.True(t, keys[0].signer)
	assert.True(t, keys[0].writable)

	// Program id present as readonly non-signer.
	var foundProgram bool
	for _, k := range keys[1:] {
		if k.pubkey == testProgram {
			foundProgram = true
			assert.False(t, k.signer)
			assert.False(t, k.writable)
		}
	}
	assert.True(t, foundProgram)
}
