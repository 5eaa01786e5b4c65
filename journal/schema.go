package journal

// Times are stored as unix seconds so no driver-side parsing is involved.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	signature TEXT PRIMARY KEY,
	wallet TEXT NOT NULL,
	time INTEGER NOT NULL,
	pnl INTEGER NOT NULL,
	size INTEGER NOT NULL,
	win INTEGER NOT NULL,
	market TEXT NOT NULL,
	direction TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_wallet_time ON trades(wallet, time);

CREATE TABLE IF NOT EXISTS fetches (
	wallet TEXT PRIMARY KEY,
	request_id TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	pages INTEGER NOT NULL,
	complete INTEGER NOT NULL
);
`
