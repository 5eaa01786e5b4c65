// Package custody talks to an optional wallet-custody policy service that
// can freeze a wallet's spending at the custodian while an on-chain lockout
// is only advisory. The service is optional: a nil client turns every call
// into a no-op so callers never branch on configuration.
package custody

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/chain"
)

// ErrNotConfigured is returned by reads that cannot be answered without a
// configured service. Writes on a nil client are silent no-ops instead.
var ErrNotConfigured = errors.New("custody: service not configured")

const defaultTimeout = 5 * time.Second

type Client struct {
	base string
	key  string
	http *http.Client
}

// New returns a client for the policy service at base. An empty base URL
// yields a nil client, which is valid to call.
func New(base, key string) *Client {
	if base == "" {
		return nil
	}
	return &Client{
		base: base,
		key:  key,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Freeze halts custodial spending for the wallet.
func (c *Client) Freeze(ctx context.Context, wallet chain.Pubkey) error {
	if c == nil {
		return nil
	}
	return c.post(ctx, wallet, "freeze")
}

// Restore lifts a previous freeze.
func (c *Client) Restore(ctx context.Context, wallet chain.Pubkey) error {
	if c == nil {
		return nil
	}
	return c.post(ctx, wallet, "restore")
}

// SpendingLimit reads the custodian-side spending limit for the wallet.
func (c *Client) SpendingLimit(ctx context.Context, wallet chain.Pubkey) (chain.Lamports, error) {
	if c == nil {
		return 0, ErrNotConfigured
	}
	req, err := c.request(ctx, http.MethodGet, wallet, "spending-limit")
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("custody: spending limit: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("custody: spending limit: status %d", resp.StatusCode)
	}

	var body struct {
		LimitLamports uint64 `json:"limit_lamports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("custody: spending limit: %w", err)
	}
	return chain.Lamports(body.LimitLamports), nil
}

func (c *Client) post(ctx context.Context, wallet chain.Pubkey, action string) error {
	req, err := c.request(ctx, http.MethodPost, wallet, action)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("custody: %s: %w", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("custody: %s: status %d", action, resp.StatusCode)
	}
	log.Debug().Str("wallet", wallet.String()).Str("action", action).Msg("custody call applied")
	return nil
}

func (c *Client) request(ctx context.Context, method string, wallet chain.Pubkey, action string) (*http.Request, error) {
	url := fmt.Sprintf("%s/v1/wallets/%s/%s", c.base, wallet, action)
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("custody: %w", err)
	}
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
	return req, nil
}
