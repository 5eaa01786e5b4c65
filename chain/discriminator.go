package chain

import "crypto/sha256"

// Tag is the 8-byte discriminator that leads every account and instruction
// payload. Account tags are sha256("account:<Name>")[:8], instruction tags
// sha256("global:<name>")[:8], matching the managing program's layout.
type Tag [8]byte

func tag(namespace, name string) Tag {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var t Tag
	copy(t[:], sum[:8])
	return t
}

var (
	VaultTag         = tag("account", "Vault")
	TraderProfileTag = tag("account", "TraderProfile")

	IxInitializeVault   = tag("global", "initialize_vault")
	IxDeposit           = tag("global", "deposit")
	IxSetRules          = tag("global", "set_rules")
	IxManualLock        = tag("global", "manual_lock")
	IxUnlock            = tag("global", "unlock")
	IxInitializeProfile = tag("global", "initialize_profile")
	IxUpdateStats       = tag("global", "update_stats")
)
