package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS frozen_allocations (
	period_key  TEXT NOT NULL,
	day         TEXT NOT NULL,
	amount      TEXT NOT NULL,
	run_id      TEXT NOT NULL,
	frozen_at   TEXT NOT NULL,
	PRIMARY KEY (period_key, day)
);

CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	period_key  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	frozen_days INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_period ON runs(period_key);
`
