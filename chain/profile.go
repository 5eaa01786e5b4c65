package chain

import (
	"encoding/binary"
	"fmt"
)

// ProfileSize is the fixed trader-profile account size.
const ProfileSize = 82

// TraderProfile mirrors the on-chain behavioral profile account. Created by
// initialize-profile, updated by update-stats instructions this engine builds.
type TraderProfile struct {
	Exists bool

	Authority Pubkey
	Bump      uint8

	// Seven 0-99 behavioral sub-scores, stored as consecutive bytes.
	Overall     uint8
	Discipline  uint8
	Patience    uint8
	Consistency uint8
	Timing      uint8
	RiskControl uint8
	Endurance   uint8

	TotalTrades  uint32
	TotalWins    uint32
	TotalPnl     int64
	AvgTradeSize Lamports
	TradingDays  uint16
	LastUpdated  int64
}

// DecodeTraderProfile decodes a raw profile account buffer.
func DecodeTraderProfile(data []byte) (TraderProfile, error) {
	if len(data) < ProfileSize {
		return TraderProfile{}, fmt.Errorf("profile: %w: %d bytes, want at least %d", ErrDecode, len(data), ProfileSize)
	}
	var t Tag
	copy(t[:], data[:8])
	if t != TraderProfileTag {
		return TraderProfile{}, fmt.Errorf("profile: %w: unexpected discriminator %x", ErrDecode, t)
	}

	p := TraderProfile{Exists: true}
	copy(p.Authority[:], data[8:40])
	p.Bump = data[40]
	p.Overall = data[41]
	p.Discipline = data[42]
	p.Patience = data[43]
	p.Consistency = data[44]
	p.Timing = data[45]
	p.RiskControl = data[46]
	p.Endurance = data[47]
	p.TotalTrades = binary.LittleEndian.Uint32(data[48:52])
	p.TotalWins = binary.LittleEndian.Uint32(data[52:56])
	p.TotalPnl = int64(binary.LittleEndian.Uint64(data[56:64]))
	p.AvgTradeSize = Lamports(binary.LittleEndian.Uint64(data[64:72]))
	p.TradingDays = binary.LittleEndian.Uint16(data[72:74])
	p.LastUpdated = int64(binary.LittleEndian.Uint64(data[74:82]))
	return p, nil
}

// EncodeTraderProfile writes the profile back into its wire layout.
func EncodeTraderProfile(p TraderProfile) []byte {
	data := make([]byte, ProfileSize)
	copy(data[:8], TraderProfileTag[:])
	copy(data[8:40], p.Authority[:])
	data[40] = p.Bump
	data[41] = p.Overall
	data[42] = p.Discipline
	data[43] = p.Patience
	data[44] = p.Consistency
	data[45] = p.Timing
	data[46] = p.RiskControl
	data[47] = p.Endurance
	binary.LittleEndian.PutUint32(data[48:52], p.TotalTrades)
	binary.LittleEndian.PutUint32(data[52:56], p.TotalWins)
	binary.LittleEndian.PutUint64(data[56:64], uint64(p.TotalPnl))
	binary.LittleEndian.PutUint64(data[64:72], uint64(p.AvgTradeSize))
	binary.LittleEndian.PutUint16(data[72:74], p.TradingDays)
	binary.LittleEndian.PutUint64(data[74:82], uint64(p.LastUpdated))
	return data
}

// WinRate is the profile's lifetime win rate, 0 when no trades are recorded.
func (p TraderProfile) WinRate() float64 {
	if p.TotalTrades == 0 {
		return 0
	}
	return float64(p.TotalWins) / float64(p.TotalTrades)
}
