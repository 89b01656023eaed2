// ledger/schema.go
package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS founders (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	market_salary REAL NOT NULL,
	paid_salary REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	multiplier REAL NOT NULL,
	input_type TEXT NOT NULL,
	auto_calculated INTEGER NOT NULL DEFAULT 0,
	commission_percent REAL,
	percentage_based INTEGER NOT NULL DEFAULT 0,
	admin_only INTEGER NOT NULL DEFAULT 0,
	color TEXT NOT NULL DEFAULT '',
	emoji TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	founder_id TEXT NOT NULL,
	category_id TEXT NOT NULL,
	amount REAL NOT NULL,
	description TEXT NOT NULL,
	entry_date DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	created_by TEXT,
	snap_market_salary REAL NOT NULL,
	snap_paid_salary REAL NOT NULL,
	snap_multiplier REAL NOT NULL,
	snap_commission_percent REAL,
	snap_calculated_slices REAL
);

CREATE INDEX IF NOT EXISTS idx_entries_founder ON entries(founder_id);
`
