package ledger

// Size and price are stored as TEXT: decimal strings survive the round
// trip exactly, REAL columns do not.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	account_id INTEGER NOT NULL,
	instrument_id INTEGER NOT NULL,
	side TEXT NOT NULL,
	type TEXT NOT NULL,
	size TEXT NOT NULL,
	price TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_account_status ON orders(account_id, status);
CREATE INDEX IF NOT EXISTS idx_orders_account_instrument ON orders(account_id, instrument_id, status);
`
