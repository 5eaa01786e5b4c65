// Package ledger is the read-only JSON-RPC client for the chain node:
// account lookups, recency anchors and program-account scans. It never
// submits transactions; signing and submission belong to external services.
package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/chain"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	url  string
	http *http.Client
}

type Option func(*Client)

// WithTimeout overrides the per-request timeout. Metadata calls are short;
// callers that need longer windows set it explicitly.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient substitutes the underlying client, used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(url string, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{Jsonrpc: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("ledger: marshal %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger: %s: unexpected status %d", method, resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("ledger: decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("ledger: %s: %w", method, envelope.Error)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("ledger: decode %s result: %w", method, err)
		}
	}
	return nil
}

// AccountInfo is a raw account read. Found=false is the normal state for
// wallets that never initialized a vault or profile, not an error.
type AccountInfo struct {
	Found    bool
	Data     []byte
	Owner    chain.Pubkey
	Lamports chain.Lamports
}

type rawAccount struct {
	Data     []string       `json:"data"`
	Owner    string         `json:"owner"`
	Lamports chain.Lamports `json:"lamports"`
}

func (r rawAccount) decode() (AccountInfo, error) {
	info := AccountInfo{Found: true, Lamports: r.Lamports}
	if len(r.Data) > 0 {
		data, err := base64.StdEncoding.DecodeString(r.Data[0])
		if err != nil {
			return AccountInfo{}, fmt.Errorf("ledger: account data: %w", err)
		}
		info.Data = data
	}
	owner, err := chain.PubkeyFromBase58(r.Owner)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("ledger: account owner: %w", err)
	}
	info.Owner = owner
	return info, nil
}

// GetAccountInfo fetches one account by address.
func (c *Client) GetAccountInfo(ctx context.Context, addr chain.Pubkey) (AccountInfo, error) {
	var result struct {
		Value *rawAccount `json:"value"`
	}
	params := []any{addr.String(), map[string]string{"encoding": "base64"}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return AccountInfo{}, err
	}
	if result.Value == nil {
		return AccountInfo{Found: false}, nil
	}
	return result.Value.decode()
}

// Blockhash is the short-lived recency anchor an unsigned transaction
// carries; the network rejects the transaction once the anchor expires.
type Blockhash struct {
	Hash                 [32]byte
	LastValidBlockHeight uint64
}

// LatestBlockhash fetches a fresh recency anchor.
func (c *Client) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	var result struct {
		Value struct {
			Blockhash            string `json:"blockhash"`
			LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getLatestBlockhash", nil, &result); err != nil {
		return Blockhash{}, err
	}
	raw, err := base58.Decode(result.Value.Blockhash)
	if err != nil || len(raw) != 32 {
		return Blockhash{}, fmt.Errorf("ledger: malformed blockhash %q", result.Value.Blockhash)
	}
	var bh Blockhash
	copy(bh.Hash[:], raw)
	bh.LastValidBlockHeight = result.Value.LastValidBlockHeight
	return bh, nil
}

// KeyedAccount pairs an address with its raw account for scans.
type KeyedAccount struct {
	Pubkey  chain.Pubkey
	Account AccountInfo
}

// ProgramAccounts scans every account owned by program whose data starts
// with tag, using a byte-prefix memcmp filter so the node does the work.
func (c *Client) ProgramAccounts(ctx context.Context, program chain.Pubkey, t chain.Tag) ([]KeyedAccount, error) {
	var result []struct {
		Pubkey  string     `json:"pubkey"`
		Account rawAccount `json:"account"`
	}
	params := []any{program.String(), map[string]any{
		"encoding": "base64",
		"filters": []any{
			map[string]any{"memcmp": map[string]any{
				"offset": 0,
				"bytes":  base58.Encode(t[:]),
			}},
		},
	}}
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}

	accounts := make([]KeyedAccount, 0, len(result))
	for _, entry := range result {
		pk, err := chain.PubkeyFromBase58(entry.Pubkey)
		if err != nil {
			log.Warn().Str("pubkey", entry.Pubkey).Msg("skipping malformed scan entry")
			continue
		}
		info, err := entry.Account.decode()
		if err != nil {
			log.Warn().Str("pubkey", entry.Pubkey).Err(err).Msg("skipping undecodable scan entry")
			continue
		}
		accounts = append(accounts, KeyedAccount{Pubkey: pk, Account: info})
	}
	return accounts, nil
}
