package txbuilder

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmmmuhib/agentvault/chain"
)

var (
	testProgram = chain.MustPubkey("So11111111111111111111111111111111111111112")
	testOwner   = chain.MustPubkey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

func TestSetRulesRoundTrip(t *testing.T) {
	t.Parallel()

	want := chain.VaultParameters{
		DailyLossLimit:  150_000_000,
		MaxTradesPerDay: 20,
		LockoutDuration: 43_200,
		CooldownSeconds: 120,
	}
	ix, err := SetRules(testProgram, testOwner, want)
	require.NoError(t, err)

	got, err := DecodeSetRules(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSetRules_RejectsZeroLimits(t *testing.T) {
	t.Parallel()

	_, err := SetRules(testProgram, testOwner, chain.VaultParameters{})
	assert.Error(t, err)
}

func TestDecodeSetRules_Errors(t *testing.T) {
	t.Parallel()

	_, err := DecodeSetRules(nil)
	assert.ErrorIs(t, err, chain.ErrDecode)

	// Right size, wrong tag.
	bad := make([]byte, 25)
	copy(bad, chain.IxDeposit[:])
	_, err = DecodeSetRules(bad)
	assert.ErrorIs(t, err, chain.ErrDecode)
}

func TestDepositPayload(t *testing.T) {
	t.Parallel()

	ix, err := Deposit(testProgram, testOwner, 5*chain.LamportsPerSol)
	require.NoError(t, err)

	require.Len(t, ix.Data, 16)
	assert.Equal(t, chain.IxDeposit[:], ix.Data[:8])
	assert.Equal(t, uint64(5_000_000_000), binary.LittleEndian.Uint64(ix.Data[8:]))

	_, err = Deposit(testProgram, testOwner, 0)
	assert.Error(t, err)
}

func TestInstructionAccounts(t *testing.T) {
	t.Parallel()

	vault, _, err := chain.DeriveVaultAddress(testOwner, testProgram)
	require.NoError(t, err)

	ix, err := ManualLock(testProgram, testOwner, 3600)
	require.NoError(t, err)

	require.Len(t, ix.Accounts, 2)
	assert.Equal(t, vault, ix.Accounts[0].Pubkey)
	assert.True(t, ix.Accounts[0].Writable)
	assert.Equal(t, testOwner, ix.Accounts[1].Pubkey)
	assert.True(t, ix.Accounts[1].Signer)
}

func TestUpdateStatsPayload(t *testing.T) {
	t.Parallel()

	p := chain.TraderProfile{
		Overall: 70, Discipline: 80, Patience: 60, Consistency: 50,
		Timing: 40, RiskControl: 90, Endurance: 30,
		TotalTrades: 100, TotalWins: 55, TotalPnl: -42,
		AvgTradeSize: 1_000_000, TradingDays: 12,
	}
	ix, err := UpdateStats(testProgram, testOwner, p)
	require.NoError(t, err)

	// tag + 7 scores + u32 + u32 + i64 + u64 + u16
	require.Len(t, ix.Data, 8+7+4+4+8+8+2)
	assert.Equal(t, chain.IxUpdateStats[:], ix.Data[:8])
	assert.Equal(t, []byte{70, 80, 60, 50, 40, 90, 30}, ix.Data[8:15])
	assert.Equal(t, uint32(100), binary.LittleEndian.Uint32(ix.Data[15:19]))
	assert.Equal(t, uint32(55), binary.LittleEndian.Uint32(ix.Data[19:23]))
	assert.Equal(t, int64(-42), int64(binary.LittleEndian.Uint64(ix.Data[23:31])))
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(ix.Data[31:39]))
	assert.Equal(t, uint16(12), binary.LittleEndian.Uint16(ix.Data[39:41]))
}

func TestAppendShortvec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, appendShortvec(nil, tt.n), "n=%d", tt.n)
	}
}
