package chain

import "fmt"

// VaultParameters is the engine's sole output artifact toward the ledger:
// the concrete risk limits a set-rules instruction carries.
type VaultParameters struct {
	DailyLossLimit  Lamports
	MaxTradesPerDay uint8
	LockoutDuration uint32
	CooldownSeconds uint32
}

// Validate rejects out-of-range parameters before anything touches the wire.
func (p VaultParameters) Validate() error {
	if p.DailyLossLimit == 0 {
		return fmt.Errorf("params: daily loss limit must be positive")
	}
	if p.MaxTradesPerDay == 0 {
		return fmt.Errorf("params: max trades per day must be positive")
	}
	return nil
}
