// Package journal caches fetched trade history in a local sqlite file so
// analytics can run offline while the provider is down or its breaker is
// open. The cache holds derived records only; the provider stays the source
// of truth and a row is silently replaced when refetched.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mmmmuhib/agentvault/chain"
	"github.com/mmmmuhib/agentvault/history"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// UpsertTrades stores a batch of records for one wallet, replacing rows
// with matching signatures.
func (j *SQLiteJournal) UpsertTrades(wallet string, records []history.TradeRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("journal: upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO trades
		(signature, wallet, time, pnl, size, win, market, direction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("journal: upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.Signature, wallet, r.Time.Unix(), r.Pnl, int64(r.Size),
			r.Win, r.Market, string(r.Direction),
		); err != nil {
			return fmt.Errorf("journal: upsert %s: %w", r.Signature, err)
		}
	}
	return tx.Commit()
}

// LoadSince returns a wallet's cached records at or after since, oldest
// first, with the inter-trade gaps recomputed.
func (j *SQLiteJournal) LoadSince(wallet string, since time.Time) ([]history.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT signature, time, pnl, size, win, market, direction
		FROM trades WHERE wallet = ? AND time >= ?
		ORDER BY time ASC`, wallet, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("journal: load: %w", err)
	}
	defer rows.Close()

	var records []history.TradeRecord
	for rows.Next() {
		var (
			r         history.TradeRecord
			unix      int64
			size      int64
			direction string
		)
		if err := rows.Scan(&r.Signature, &unix, &r.Pnl, &size, &r.Win, &r.Market, &direction); err != nil {
			return nil, fmt.Errorf("journal: load: %w", err)
		}
		r.Time = time.Unix(unix, 0).UTC()
		r.Size = chain.Lamports(size)
		r.Direction = history.Direction(direction)
		if n := len(records); n > 0 {
			r.SincePrev = r.Time.Sub(records[n-1].Time)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FetchInfo describes the last recorded fetch for a wallet.
type FetchInfo struct {
	RequestID string
	FetchedAt time.Time
	Pages     int
	Complete  bool
}

// NoteFetch records the outcome of a provider walk.
func (j *SQLiteJournal) NoteFetch(wallet string, res history.Result, at time.Time) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO fetches (wallet, request_id, fetched_at, pages, complete)
		VALUES (?, ?, ?, ?, ?)`,
		wallet, res.RequestID, at.Unix(), res.Pages, res.Complete)
	if err != nil {
		return fmt.Errorf("journal: note fetch: %w", err)
	}
	return nil
}

// LastFetch reports the last fetch for a wallet, found=false when the
// wallet has never been fetched.
func (j *SQLiteJournal) LastFetch(wallet string) (FetchInfo, bool, error) {
	var (
		info FetchInfo
		unix int64
	)
	err := j.db.QueryRow(`
		SELECT request_id, fetched_at, pages, complete
		FROM fetches WHERE wallet = ?`, wallet).
		Scan(&info.RequestID, &unix, &info.Pages, &info.Complete)
	if err == sql.ErrNoRows {
		return FetchInfo{}, false, nil
	}
	if err != nil {
		return FetchInfo{}, false, fmt.Errorf("journal: last fetch: %w", err)
	}
	info.FetchedAt = time.Unix(unix, 0).UTC()
	return info, true, nil
}

// Purge drops everything cached for a wallet.
func (j *SQLiteJournal) Purge(wallet string) error {
	if _, err := j.db.Exec(`DELETE FROM trades WHERE wallet = ?`, wallet); err != nil {
		return fmt.Errorf("journal: purge: %w", err)
	}
	if _, err := j.db.Exec(`DELETE FROM fetches WHERE wallet = ?`, wallet); err != nil {
		return fmt.Errorf("journal: purge: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
