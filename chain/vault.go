package chain

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Account layout sizes. A vault account is exactly VaultSize bytes unless a
// swap is in flight, in which case the swap extension trails the canonical
// fields. Presence of the extension is detected by buffer length, not by a
// separate tag.
const (
	VaultSize         = 105
	VaultSizeWithSwap = 194
)

// Vault mirrors the on-chain vault account. The ledger program is the only
// writer; this engine decodes it, reasons about it and proposes instructions.
// Exists=false is the normal state for a brand-new wallet, not an error.
type Vault struct {
	Exists bool

	Owner Pubkey
	Bump  uint8

	IsLocked        bool
	LockoutUntil    int64
	LockoutCount    uint32
	LockoutDuration uint32

	DailyLossLimit  Lamports
	MaxTradesPerDay uint8
	TradesToday     uint8
	SessionStart    int64

	TotalDeposited Lamports
	TotalWithdrawn Lamports

	LastTradeWasLoss bool
	LastTradeTime    int64
	CooldownSeconds  uint32

	// Swap is nil when no swap extension is present.
	Swap *SwapState
}

// SwapState is the optional swap-in-flight extension.
type SwapState struct {
	InProgress    bool
	SourceMint    Pubkey
	DestMint      Pubkey
	AmountIn      Lamports
	MinOut        Lamports
	BalanceBefore Lamports
}

// LockedAt reports whether the lockout is in force at now. The is-locked
// flag is meaningful only while now is before lockout-until; the program
// leaves the flag set and lets it lapse by time.
func (v Vault) LockedAt(now time.Time) bool {
	return v.Exists && v.IsLocked && now.Unix() < v.LockoutUntil
}

// SessionExpired reports whether the daily window has rolled over, which
// implicitly resets trades-today on the next program write.
func (v Vault) SessionExpired(now time.Time) bool {
	return now.Unix()-v.SessionStart >= int64(24*time.Hour/time.Second)
}

// CoolingDownAt reports whether the post-loss cooldown is in force at now.
func (v Vault) CoolingDownAt(now time.Time) bool {
	if !v.Exists || !v.LastTradeWasLoss || v.CooldownSeconds == 0 {
		return false
	}
	return now.Unix() < v.LastTradeTime+int64(v.CooldownSeconds)
}

// DecodeVault decodes a raw account buffer. The discriminator must match;
// a mismatch or an undersized buffer is a hard decode error, never a
// defaulted record.
func DecodeVault(data []byte) (Vault, error) {
	if len(data) < VaultSize {
		return Vault{}, fmt.Errorf("vault: %w: %d bytes, want at least %d", ErrDecode, len(data), VaultSize)
	}
	var t Tag
	copy(t[:], data[:8])
	if t != VaultTag {
		return Vault{}, fmt.Errorf("vault: %w: unexpected discriminator %x", ErrDecode, t)
	}

	v := Vault{Exists: true}
	copy(v.Owner[:], data[8:40])
	v.Bump = data[40]
	v.IsLocked = data[41] != 0
	v.LockoutUntil = int64(binary.LittleEndian.Uint64(data[42:50]))
	v.LockoutCount = binary.LittleEndian.Uint32(data[50:54])
	v.LockoutDuration = binary.LittleEndian.Uint32(data[54:58])
	v.DailyLossLimit = Lamports(binary.LittleEndian.Uint64(data[58:66]))
	v.MaxTradesPerDay = data[66]
	v.TradesToday = data[67]
	v.SessionStart = int64(binary.LittleEndian.Uint64(data[68:76]))
	v.TotalDeposited = Lamports(binary.LittleEndian.Uint64(data[76:84]))
	v.TotalWithdrawn = Lamports(binary.LittleEndian.Uint64(data[84:92]))
	v.LastTradeWasLoss = data[92] != 0
	v.LastTradeTime = int64(binary.LittleEndian.Uint64(data[93:101]))
	v.CooldownSeconds = binary.LittleEndian.Uint32(data[101:105])

	if len(data) >= VaultSizeWithSwap {
		s := &SwapState{InProgress: data[105] != 0}
		copy(s.SourceMint[:], data[106:138])
		copy(s.DestMint[:], data[138:170])
		s.AmountIn = Lamports(binary.LittleEndian.Uint64(data[170:178]))
		s.MinOut = Lamports(binary.LittleEndian.Uint64(data[178:186]))
		s.BalanceBefore = Lamports(binary.LittleEndian.Uint64(data[186:194]))
		v.Swap = s
	}
	return v, nil
}

// EncodeVault writes the account back into its wire layout. Used by tests
// and by program-account scan fixtures.
func EncodeVault(v Vault) []byte {
	size := VaultSize
	if v.Swap != nil {
		size = VaultSizeWithSwap
	}
	data := make([]byte, size)
	copy(data[:8], VaultTag[:])
	copy(data[8:40], v.Owner[:])
	data[40] = v.Bump
	if v.IsLocked {
		data[41] = 1
	}
	binary.LittleEndian.PutUint64(data[42:50], uint64(v.LockoutUntil))
	binary.LittleEndian.PutUint32(data[50:54], v.LockoutCount)
	binary.LittleEndian.PutUint32(data[54:58], v.LockoutDuration)
	binary.LittleEndian.PutUint64(data[58:66], uint64(v.DailyLossLimit))
	data[66] = v.MaxTradesPerDay
	data[67] = v.TradesToday
	binary.LittleEndian.PutUint64(data[68:76], uint64(v.SessionStart))
	binary.LittleEndian.PutUint64(data[76:84], uint64(v.TotalDeposited))
	binary.LittleEndian.PutUint64(data[84:92], uint64(v.TotalWithdrawn))
	if v.LastTradeWasLoss {
		data[92] = 1
	}
	binary.LittleEndian.PutUint64(data[93:101], uint64(v.LastTradeTime))
	binary.LittleEndian.PutUint32(data[101:105], v.CooldownSeconds)

	if v.Swap != nil {
		if v.Swap.InProgress {
			data[105] = 1
		}
		copy(data[106:138], v.Swap.SourceMint[:])
		copy(data[138:170], v.Swap.DestMint[:])
		binary.LittleEndian.PutUint64(data[170:178], uint64(v.Swap.AmountIn))
		binary.LittleEndian.PutUint64(data[178:186], uint64(v.Swap.MinOut))
		binary.LittleEndian.PutUint64(data[186:194], uint64(v.Swap.BalanceBefore))
	}
	return data
}
