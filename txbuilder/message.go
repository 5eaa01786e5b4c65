package txbuilder

import (
	"fmt"
	"sort"

	"github.com/mmmmuhib/agentvault/chain"
)

// Message serialization for the legacy transaction wire format: a header of
// three counts, a compact array of account keys, the recent blockhash and a
// compact array of compiled instructions. Lengths use the compact-u16
// ("shortvec") encoding.

func appendShortvec(data []byte, n int) []byte {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(data, b)
		}
		data = append(data, b|0x80)
	}
}

type compiledKey struct {
	pubkey   chain.Pubkey
	signer   bool
	writable bool
}

// compileKeys orders accounts the way the runtime expects: writable signers,
// readonly signers, writable non-signers, readonly non-signers. The fee
// payer always sorts first.
func compileKeys(feePayer chain.Pubkey, ixs []Instruction) []compiledKey {
	merged := map[chain.Pubkey]*compiledKey{
		feePayer: {pubkey: feePayer, signer: true, writable: true},
	}
	order := []chain.Pubkey{feePayer}

	add := func(pk chain.Pubkey, signer, writable bool) {
		k, ok := merged[pk]
		if !ok {
			k = &compiledKey{pubkey: pk}
			merged[pk] = k
			order = append(order, pk)
		}
		k.signer = k.signer || signer
		k.writable = k.writable || writable
	}
	for _, ix := range ixs {
		for _, m := range ix.Accounts {
			add(m.Pubkey, m.Signer, m.Writable)
		}
		add(ix.ProgramID, false, false)
	}

	keys := make([]compiledKey, 0, len(order))
	for _, pk := range order {
		keys = append(keys, *merged[pk])
	}
	class := func(k compiledKey) int {
		switch {
		case k.pubkey == feePayer:
			return 0
		case k.signer && k.writable:
			return 1
		case k.signer:
			return 2
		case k.writable:
			return 3
		default:
			return 4
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return class(keys[i]) < class(keys[j]) })
	return keys
}

// serializeMessage builds the unsigned message bytes for the instructions
// with feePayer as the sole fee payer and blockhash as the recency anchor.
func serializeMessage(feePayer chain.Pubkey, blockhash [32]byte, ixs []Instruction) ([]byte, int, error) {
	if len(ixs) == 0 {
		return nil, 0, fmt.Errorf("message: no instructions")
	}
	keys := compileKeys(feePayer, ixs)
	index := make(map[chain.Pubkey]int, len(keys))
	numSigners, roSigned, roUnsigned := 0, 0, 0
	for i, k := range keys {
		index[k.pubkey] = i
		if k.signer {
			numSigners++
			if !k.writable {
				roSigned++
			}
		} else if !k.writable {
			roUnsigned++
		}
	}

	var data []byte
	data = append(data, byte(numSigners), byte(roSigned), byte(roUnsigned))
	data = appendShortvec(data, len(keys))
	for _, k := range keys {
		data = append(data, k.pubkey[:]...)
	}
	data = append(data, blockhash[:]...)
	data = appendShortvec(data, len(ixs))
	for _, ix := range ixs {
		data = append(data, byte(index[ix.ProgramID]))
		data = appendShortvec(data, len(ix.Accounts))
		for _, m := range ix.Accounts {
			data = append(data, byte(index[m.Pubkey]))
		}
		data = appendShortvec(data, len(ix.Data))
		data = append(data, ix.Data...)
	}
	return data, numSigners, nil
}

// serializeUnsigned wraps the message with zeroed signature slots, the form
// an external signer accepts and completes.
func serializeUnsigned(message []byte, numSigners int) []byte {
	out := appendShortvec(nil, numSigners)
	out = append(out, make([]byte, 64*numSigners)...)
	return append(out, message...)
}
