package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVault() Vault {
	return Vault{
		Exists:           true,
		Owner:            MustPubkey("So11111111111111111111111111111111111111112"),
		Bump:             254,
		IsLocked:         true,
		LockoutUntil:     1_700_000_600,
		LockoutCount:     2,
		LockoutDuration:  43_200,
		DailyLossLimit:   150_000_000,
		MaxTradesPerDay:  20,
		TradesToday:      7,
		SessionStart:     1_700_000_000,
		TotalDeposited:   5 * LamportsPerSol,
		TotalWithdrawn:   LamportsPerSol / 2,
		LastTradeWasLoss: true,
		LastTradeTime:    1_700_000_500,
		CooldownSeconds:  120,
	}
}

func TestVaultRoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleVault()
	data := EncodeVault(want)
	require.Len(t, data, VaultSize)

	got, err := DecodeVault(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVaultRoundTrip_SwapExtension(t *testing.T) {
	t.Parallel()

	want := sampleVault()
	want.Swap = &SwapState{
		InProgress:    true,
		SourceMint:    MustPubkey("So11111111111111111111111111111111111111112"),
		DestMint:      MustPubkey("11111111111111111111111111111111"),
		AmountIn:      1_000_000,
		MinOut:        990_000,
		BalanceBefore: 4 * LamportsPerSol,
	}
	data := EncodeVault(want)
	require.Len(t, data, VaultSizeWithSwap)

	got, err := DecodeVault(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeVault_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", make([]byte, VaultSize-1)},
		{"bad discriminator", make([]byte, VaultSize)},
		{"profile discriminator", EncodeTraderProfile(TraderProfile{})},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeVault(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestVaultLockedAt(t *testing.T) {
	t.Parallel()

	v := sampleVault()
	assert.True(t, v.LockedAt(time.Unix(1_700_000_599, 0)))
	assert.False(t, v.LockedAt(time.Unix(1_700_000_600, 0)))

	v.IsLocked = false
	assert.False(t, v.LockedAt(time.Unix(0, 0)))

	// Absent vault never reports locked.
	assert.False(t, Vault{}.LockedAt(time.Unix(0, 0)))
}

func TestVaultCoolingDownAt(t *testing.T) {
	t.Parallel()

	v := sampleVault()
	assert.True(t, v.CoolingDownAt(time.Unix(1_700_000_619, 0)))
	assert.False(t, v.CoolingDownAt(time.Unix(1_700_000_620, 0)))

	v.LastTradeWasLoss = false
	assert.False(t, v.CoolingDownAt(time.Unix(1_700_000_500, 0)))
}

func TestVaultSessionExpired(t *testing.T) {
	t.Parallel()

	v := sampleVault()
	start := time.Unix(v.SessionStart, 0)
	assert.False(t, v.SessionExpired(start.Add(23*time.Hour)))
	assert.True(t, v.SessionExpired(start.Add(24*time.Hour)))
}
