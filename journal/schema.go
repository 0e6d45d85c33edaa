package journal

// SQLiteSchema keeps amounts as TEXT so decimals survive untouched.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	pair TEXT NOT NULL,
	direction TEXT NOT NULL,
	pnl TEXT NOT NULL,
	fee TEXT NOT NULL,
	date TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
`

// PostgresSchema is the shared remote table. Every row belongs to a user.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	pair TEXT NOT NULL,
	direction TEXT NOT NULL,
	pnl NUMERIC NOT NULL,
	fee NUMERIC NOT NULL,
	date DATE NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_trades_user_date ON trades(user_id, date);
`
