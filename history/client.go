// Package history retrieves and derives a wallet's trade history from the
// transaction-history provider. All outbound calls run behind a circuit
// breaker and a bounded retry; pagination failures surrender the partial
// pages fetched so far instead of discarding them.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/metrics"
)

const (
	sourceName = "history-provider"

	defaultTimeout  = 15 * time.Second
	defaultPageSize = 100
	defaultMaxPages = 10
	retryBackoff    = 2 * time.Second
)

// TransientError wraps a retryable failure: timeout, 429 or 5xx.
type TransientError struct {
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transient provider failure: status %d", e.Status)
	}
	return fmt.Sprintf("transient provider failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Result carries whatever was fetched plus fetch metadata. When Err is
// non-nil the records are the partial pages accumulated before the failure;
// Complete distinguishes "zero trades found" from "fetch failed with zero
// trades returned".
type Result struct {
	RequestID string
	Records   []TradeRecord
	Pages     int
	Complete  bool
	Err       error
}

type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	breaker  *Breaker
	maxPages int
	lookback time.Duration
	backoff  time.Duration
}

type Option func(*Client)

func WithMaxPages(n int) Option {
	return func(c *Client) { c.maxPages = n }
}

func WithLookback(d time.Duration) Option {
	return func(c *Client) { c.lookback = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryBackoff overrides the fixed wait before the single retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: defaultTimeout},
		breaker:  NewBreaker(sourceName),
		maxPages: defaultMaxPages,
		lookback: 30 * 24 * time.Hour,
		backoff:  retryBackoff,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type tradePage struct {
	Trades []rawTrade `json:"trades"`
	Cursor string     `json:"next_cursor"`
}

// WalletTrades walks the provider's trade pages backward by cursor until the
// lookback cutoff is crossed, the page ceiling is hit or a page comes back
// empty. A mid-walk failure returns the pages already accumulated together
// with the failure.
func (c *Client) WalletTrades(ctx context.Context, wallet chain.Pubkey) Result {
	res := Result{RequestID: ulid.Make().String()}
	cutoff := time.Now().Add(-c.lookback)

	var raw []rawTrade
	cursor := ""
	for page := 0; page < c.maxPages; page++ {
		pg, err := c.fetchPage(ctx, wallet, cursor)
		if err != nil {
			res.Records = deriveRecords(raw)
			res.Err = err
			log.Warn().
				Str("request", res.RequestID).
				Str("wallet", wallet.String()).
				Int("pages", res.Pages).
				Int("partial_records", len(res.Records)).
				Err(err).
				Msg("history fetch failed; returning partial results")
			return res
		}
		res.Pages++
		raw = append(raw, pg.Trades...)

		if len(pg.Trades) == 0 || pg.Cursor == "" {
			res.Complete = true
			break
		}
		oldest := pg.Trades[len(pg.Trades)-1]
		if time.Unix(oldest.BlockTime, 0).Before(cutoff) {
			res.Complete = true
			break
		}
		cursor = pg.Cursor
	}

	res.Records = trimBefore(deriveRecords(raw), cutoff)
	log.Debug().
		Str("request", res.RequestID).
		Str("wallet", wallet.String()).
		Int("pages", res.Pages).
		Int("records", len(res.Records)).
		Bool("complete", res.Complete).
		Msg("history fetch done")
	return res
}

func trimBefore(records []TradeRecord, cutoff time.Time) []TradeRecord {
	out := records[:0]
	for _, r := range records {
		if !r.Time.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// fetchPage performs one guarded page request: breaker check, then at most
// one retry with fixed backoff for rate-limit and server-error classes.
func (c *Client) fetchPage(ctx context.Context, wallet chain.Pubkey, cursor string) (tradePage, error) {
	if err := c.breaker.Allow(); err != nil {
		metrics.Observer.IncrementFetchFailure(sourceName, "circuit_open")
		return tradePage{}, err
	}

	pg, err := c.doPage(ctx, wallet, cursor)
	var te *TransientError
	if errors.As(err, &te) {
		select {
		case <-ctx.Done():
			return tradePage{}, ctx.Err()
		case <-time.After(c.backoff):
		}
		pg, err = c.doPage(ctx, wallet, cursor)
	}
	if err != nil {
		c.breaker.Failure()
		return tradePage{}, err
	}
	c.breaker.Success()
	return pg, nil
}

func (c *Client) doPage(ctx context.Context, wallet chain.Pubkey, cursor string) (tradePage, error) {
	metrics.Observer.IncrementFetch(sourceName)

	u, err := url.Parse(c.baseURL + "/v1/wallets/" + wallet.String() + "/trades")
	if err != nil {
		return tradePage{}, fmt.Errorf("history: bad provider url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(defaultPageSize))
	if cursor != "" {
		q.Set("before", cursor)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return tradePage{}, fmt.Errorf("history: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.Observer.IncrementFetchFailure(sourceName, "network")
		return tradePage{}, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		metrics.Observer.IncrementFetchFailure(sourceName, "transient")
		return tradePage{}, &TransientError{Status: resp.StatusCode}
	default:
		io.Copy(io.Discard, resp.Body)
		metrics.Observer.IncrementFetchFailure(sourceName, "permanent")
		return tradePage{}, fmt.Errorf("history: provider status %d", resp.StatusCode)
	}

	var pg tradePage
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		metrics.Observer.IncrementFetchFailure(sourceName, "decode")
		return tradePage{}, fmt.Errorf("history: decode page: %w", err)
	}
	return pg, nil
}
