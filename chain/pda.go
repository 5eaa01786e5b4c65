package chain

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	vaultSeed   = "vault"
	profileSeed = "trader_profile"

	pdaMarker = "ProgramDerivedAddress"
)

// FindProgramAddress derives the deterministic off-curve address for the
// given seeds under program. It walks the bump seed down from 255 until the
// candidate hash is not a valid curve point, so the result provably has no
// corresponding private key.
func FindProgramAddress(seeds [][]byte, program Pubkey) (Pubkey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, s := range seeds {
			h.Write(s)
		}
		h.Write([]byte{byte(bump)})
		h.Write(program[:])
		h.Write([]byte(pdaMarker))

		var cand Pubkey
		copy(cand[:], h.Sum(nil))
		if !isOnCurve(cand) {
			return cand, uint8(bump), nil
		}
	}
	return Pubkey{}, 0, fmt.Errorf("pda: %w", ErrBumpNotFound)
}

// DeriveVaultAddress returns the vault PDA for an owner wallet.
func DeriveVaultAddress(owner, program Pubkey) (Pubkey, uint8, error) {
	return FindProgramAddress([][]byte{[]byte(vaultSeed), owner[:]}, program)
}

// DeriveProfileAddress returns the trader-profile PDA for an authority wallet.
func DeriveProfileAddress(authority, program Pubkey) (Pubkey, uint8, error) {
	return FindProgramAddress([][]byte{[]byte(profileSeed), authority[:]}, program)
}

func isOnCurve(p Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}
