package history

import (
	"sort"
	"time"

	"github.com/mmmmuhib/agentvault/chain"
)

// TradeRecord is one parsed trade, immutable once derived. Records are
// rebuilt from a raw fetch, never mutated in place.
type TradeRecord struct {
	Signature string
	Time      time.Time
	// Pnl is the signed outcome in native units.
	Pnl int64
	// Size is the absolute traded volume in native units.
	Size chain.Lamports
	Win  bool
	// Market is inferred from the mint pair, e.g. "SOL/USDC".
	Market    string
	Direction Direction
	// SincePrev is the gap to the previous (older) trade; zero for the
	// oldest record.
	SincePrev time.Duration
}

type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionUnknown Direction = "unknown"
)

// rawTrade is the provider's wire shape for one trade.
type rawTrade struct {
	Signature   string `json:"signature"`
	BlockTime   int64  `json:"block_time"`
	SourceMint  string `json:"source_mint"`
	DestMint    string `json:"dest_mint"`
	AmountIn    uint64 `json:"amount_in"`
	PnlLamports int64  `json:"pnl_lamports"`
}

// Well-known mints for market naming. Unknown mints fall back to a short
// address prefix so distinct markets stay distinguishable.
var mintSymbols = map[string]string{
	"So11111111111111111111111111111111111111112":  "SOL",
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": "USDC",
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": "USDT",
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  "JUP",
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": "BONK",
}

func mintSymbol(mint string) string {
	if s, ok := mintSymbols[mint]; ok {
		return s
	}
	if len(mint) > 6 {
		return mint[:6]
	}
	return mint
}

func (r rawTrade) direction() Direction {
	switch {
	case mintSymbol(r.SourceMint) == "SOL" || mintSymbol(r.SourceMint) == "USDC":
		return DirectionBuy
	case mintSymbol(r.DestMint) == "SOL" || mintSymbol(r.DestMint) == "USDC":
		return DirectionSell
	default:
		return DirectionUnknown
	}
}

func (r rawTrade) market() string {
	in, out := mintSymbol(r.SourceMint), mintSymbol(r.DestMint)
	if r.direction() == DirectionBuy {
		return out + "/" + in
	}
	return in + "/" + out
}

// deriveRecords turns raw provider entries into an oldest-first list of
// immutable TradeRecords with inter-trade gaps filled in.
func deriveRecords(raw []rawTrade) []TradeRecord {
	records := make([]TradeRecord, 0, len(raw))
	for _, r := range raw {
		if r.Signature == "" || r.BlockTime <= 0 {
			continue
		}
		records = append(records, TradeRecord{
			Signature: r.Signature,
			Time:      time.Unix(r.BlockTime, 0).UTC(),
			Pnl:       r.PnlLamports,
			Size:      chain.Lamports(r.AmountIn),
			Win:       r.PnlLamports > 0,
			Market:    r.market(),
			Direction: r.direction(),
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})
	for i := 1; i < len(records); i++ {
		records[i].SincePrev = records[i].Time.Sub(records[i-1].Time)
	}
	return records
}
