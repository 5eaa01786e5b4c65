package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraderProfileRoundTrip(t *testing.T) {
	t.Parallel()

	want := TraderProfile{
		Exists:       true,
		Authority:    MustPubkey("So11111111111111111111111111111111111111112"),
		Bump:         253,
		Overall:      72,
		Discipline:   81,
		Patience:     64,
		Consistency:  55,
		Timing:       43,
		RiskControl:  90,
		Endurance:    38,
		TotalTrades:  412,
		TotalWins:    230,
		TotalPnl:     -1_250_000,
		AvgTradeSize: 75_000_000,
		TradingDays:  34,
		LastUpdated:  1_700_000_000,
	}
	data := EncodeTraderProfile(want)
	require.Len(t, data, ProfileSize)

	got, err := DecodeTraderProfile(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeTraderProfile_Errors(t *testing.T) {
	t.Parallel()

	_, err := DecodeTraderProfile(make([]byte, ProfileSize-1))
	assert.ErrorIs(t, err, ErrDecode)

	// A vault buffer must never decode as a profile.
	_, err = DecodeTraderProfile(EncodeVault(sampleVault()))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestTraderProfileWinRate(t *testing.T) {
	t.Parallel()

	assert.Zero(t, TraderProfile{}.WinRate())
	assert.InDelta(t, 0.5583, TraderProfile{TotalTrades: 412, TotalWins: 230}.WinRate(), 1e-4)
}
