package chain

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Pubkey is a 32-byte ed25519 public key or program-derived address.
type Pubkey [32]byte

// PubkeyFromBase58 parses the canonical base58 text form of a key.
// Malformed input is rejected here, before any RPC call is made.
func PubkeyFromBase58(s string) (Pubkey, error) {
	var pk Pubkey
	if s == "" {
		return pk, fmt.Errorf("pubkey: %w: empty address", ErrInvalidAddress)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("pubkey: %w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != 32 {
		return pk, fmt.Errorf("pubkey: %w: got %d bytes, want 32", ErrInvalidAddress, len(raw))
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustPubkey parses s or panics. For constants and tests only.
func MustPubkey(s string) Pubkey {
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, p[:])
	return out
}

// IsZero reports whether the key is the all-zero key.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// SystemProgram is the ledger's native system program address.
var SystemProgram = MustPubkey("11111111111111111111111111111111")
