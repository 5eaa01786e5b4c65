package chain

import "errors"

var (
	// ErrInvalidAddress marks a malformed wallet or program address.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrDecode marks a buffer that cannot be decoded as a known account:
	// wrong discriminator or too short. A decode failure is never papered
	// over with a zero-filled record; defaulting financial parameters
	// silently is worse than failing loudly.
	ErrDecode = errors.New("account decode failed")

	// ErrBumpNotFound is returned when no off-curve address exists for the
	// given seeds. Practically unreachable with 256 bump candidates.
	ErrBumpNotFound = errors.New("no viable bump seed")

	// ErrAmountRange marks a display-unit amount that does not fit the
	// native integer type.
	ErrAmountRange = errors.New("amount out of range")
)
