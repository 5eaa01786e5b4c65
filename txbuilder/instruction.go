package txbuilder

import (
	"encoding/binary"
	"fmt"

	"github.com/mmmmuhib/agentvault/chain"
)

// AccountMeta describes one account an instruction touches.
type AccountMeta struct {
	Pubkey   chain.Pubkey
	Signer   bool
	Writable bool
}

// Instruction is a single wire-format instruction: the program to invoke,
// the accounts it touches and its tag-prefixed payload.
type Instruction struct {
	ProgramID chain.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

func payload(tag chain.Tag, args ...any) []byte {
	data := make([]byte, 8, 8+16)
	copy(data, tag[:])
	for _, a := range args {
		switch v := a.(type) {
		case uint8:
			data = append(data, v)
		case uint16:
			data = binary.LittleEndian.AppendUint16(data, v)
		case uint32:
			data = binary.LittleEndian.AppendUint32(data, v)
		case uint64:
			data = binary.LittleEndian.AppendUint64(data, v)
		case int64:
			data = binary.LittleEndian.AppendUint64(data, uint64(v))
		case chain.Lamports:
			data = binary.LittleEndian.AppendUint64(data, uint64(v))
		default:
			panic(fmt.Sprintf("txbuilder: unsupported argument type %T", a))
		}
	}
	return data
}

// InitializeVault creates the owner's vault PDA.
func InitializeVault(program, owner chain.Pubkey) (Instruction, error) {
	vault, _, err := chain.DeriveVaultAddress(owner, program)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: vault, Writable: true},
			{Pubkey: owner, Signer: true, Writable: true},
			{Pubkey: chain.SystemProgram},
		},
		Data: payload(chain.IxInitializeVault),
	}, nil
}

// Deposit moves lamports from the owner wallet into the vault.
func Deposit(program, owner chain.Pubkey, amount chain.Lamports) (Instruction, error) {
	if amount == 0 {
		return Instruction{}, fmt.Errorf("deposit: amount must be positive")
	}
	vault, _, err := chain.DeriveVaultAddress(owner, program)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: vault, Writable: true},
			{Pubkey: owner, Signer: true, Writable: true},
			{Pubkey: chain.SystemProgram},
		},
		Data: payload(chain.IxDeposit, amount),
	}, nil
}

// SetRules writes new risk limits to the vault.
func SetRules(program, owner chain.Pubkey, params chain.VaultParameters) (Instruction, error) {
	if err := params.Validate(); err != nil {
		return Instruction{}, err
	}
	vault, _, err := chain.DeriveVaultAddress(owner, program)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: vault, Writable: true},
			{Pubkey: owner, Signer: true},
		},
		Data: payload(chain.IxSetRules,
			params.DailyLossLimit,
			params.MaxTradesPerDay,
			params.LockoutDuration,
			params.CooldownSeconds,
		),
	}, nil
}

// DecodeSetRules recovers the parameters from a set-rules payload. The
// round-trip is exercised in tests and by the inspect command.
func DecodeSetRules(data []byte) (chain.VaultParameters, error) {
	const size = 8 + 8 + 1 + 4 + 4
	if len(data) != size {
		return chain.VaultParameters{}, fmt.Errorf("set-rules: %w: %d bytes, want %d", chain.ErrDecode, len(data), size)
	}
	var t chain.Tag
	copy(t[:], data[:8])
	if t != chain.IxSetRules {
		return chain.VaultParameters{}, fmt.Errorf("set-rules: %w: unexpected tag %x", chain.ErrDecode, t)
	}
	return chain.VaultParameters{
		DailyLossLimit:  chain.Lamports(binary.LittleEndian.Uint64(data[8:16])),
		MaxTradesPerDay: data[16],
		LockoutDuration: binary.LittleEndian.Uint32(data[17:21]),
		CooldownSeconds: binary.LittleEndian.Uint32(data[21:25]),
	}, nil
}

// ManualLock locks the vault for durationSeconds.
func ManualLock(program, owner chain.Pubkey, durationSeconds uint32) (Instruction, error) {
	if durationSeconds == 0 {
		return Instruction{}, fmt.Errorf("manual-lock: duration must be positive")
	}
	vault, _, err := chain.DeriveVaultAddress(owner, program)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: vault, Writable: true},
			{Pubkey: owner, Signer: true},
		},
		Data: payload(chain.IxManualLock, durationSeconds),
	}, nil
}

// Unlock clears an expired or manually-set lockout.
func Unlock(program, owner chain.Pubkey) (Instruction, error) {
	vault, _, err := chain.DeriveVaultAddress(owner, program)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: vault, Writable: true},
			{Pubkey: owner, Signer: true},
		},
		Data: payload(chain.IxUnlock),
	}, nil
}

// InitializeProfile creates the authority's trader-profile PDA.
func InitializeProfile(program, authority chain.Pubkey) (Instruction, error) {
	profile, _, err := chain.DeriveProfileAddress(authority, program)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: profile, Writable: true},
			{Pubkey: authority, Signer: true, Writable: true},
			{Pubkey: chain.SystemProgram},
		},
		Data: payload(chain.IxInitializeProfile),
	}, nil
}

// UpdateStats writes freshly computed behavioral scores to the profile.
func UpdateStats(program, authority chain.Pubkey, p chain.TraderProfile) (Instruction, error) {
	profile, _, err := chain.DeriveProfileAddress(authority, program)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: profile, Writable: true},
			{Pubkey: authority, Signer: true},
		},
		Data: payload(chain.IxUpdateStats,
			p.Overall, p.Discipline, p.Patience, p.Consistency,
			p.Timing, p.RiskControl, p.Endurance,
			p.TotalTrades, p.TotalWins, p.TotalPnl,
			p.AvgTradeSize, p.TradingDays,
		),
	}, nil
}
