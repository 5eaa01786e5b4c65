package chain

import (
	"fmt"
	"math"
	"math/bits"
)

// Lamports is the native integer unit of the ledger asset. All risk-limit
// arithmetic stays in this type; conversion to display-scale SOL happens
// only at the presentation boundary and is explicit.
type Lamports uint64

// LamportsPerSol is the fixed display scale.
const LamportsPerSol = 1_000_000_000

// SOL converts to display units. Lossy above 2^53 lamports, which is fine
// for display and forbidden for limit math.
func (l Lamports) SOL() float64 {
	return float64(l) / LamportsPerSol
}

func (l Lamports) String() string {
	return fmt.Sprintf("%.9f SOL", l.SOL())
}

// FromSOL converts a display amount into native units, rejecting values
// that cannot be represented.
func FromSOL(sol float64) (Lamports, error) {
	if math.IsNaN(sol) || math.IsInf(sol, 0) || sol < 0 {
		return 0, fmt.Errorf("lamports: %w: %v", ErrAmountRange, sol)
	}
	f := sol * LamportsPerSol
	if f > math.MaxUint64 {
		return 0, fmt.Errorf("lamports: %w: %v SOL", ErrAmountRange, sol)
	}
	return Lamports(math.Round(f)), nil
}

// Bps returns l scaled by basis points using 128-bit integer arithmetic.
// 300 bps of 5 SOL is 0.15 SOL.
func (l Lamports) Bps(bps uint64) Lamports {
	hi, lo := bits.Mul64(uint64(l), bps)
	q, _ := bits.Div64(hi, lo, 10_000)
	return Lamports(q)
}
