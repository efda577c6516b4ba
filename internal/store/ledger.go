package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/daily-budget/internal/fileutils"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver
)

// FrozenLedger is the part of the ledger the planner depends on.
type FrozenLedger interface {
	Load(ctx context.Context, periodKey string) (map[string]decimal.Decimal, error)
	Freeze(ctx context.Context, periodKey, runID string, allocations []models.DayAllocation) (int, error)
}

// Ledger persists the allocations of elapsed days so later runs reproduce
// them unchanged.
type Ledger struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

// OpenLedger opens or creates the ledger database at path. ":memory:" opens a
// private in-memory database.
func OpenLedger(path string, logger logging.Logger) (*Ledger, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("creating ledger dir: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Ledger{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Load returns the frozen amounts of a period keyed by YYYY-MM-DD.
func (l *Ledger) Load(ctx context.Context, periodKey string) (map[string]decimal.Decimal, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT day, amount FROM frozen_allocations WHERE period_key = ?", periodKey)
	if err != nil {
		return nil, fmt.Errorf("loading frozen allocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var day, amount string
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, fmt.Errorf("scanning frozen allocation: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("frozen allocation %s/%s: %w", periodKey, day, err)
		}
		out[day] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading frozen allocations: %w", err)
	}

	l.logger.Debug("Loaded frozen allocations",
		logging.F(logging.FieldPeriod, periodKey),
		logging.F(logging.FieldCount, len(out)))
	return out, nil
}

// Freeze stores the elapsed days of allocations. Days already frozen for the
// period keep their first value. It returns how many days were newly frozen.
func (l *Ledger) Freeze(ctx context.Context, periodKey, runID string, allocations []models.DayAllocation) (int, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting freeze: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO frozen_allocations
		(period_key, day, amount, run_id, frozen_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing freeze: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := l.now().UTC().Format(time.RFC3339)
	frozen := 0
	for _, d := range allocations {
		if !d.Elapsed {
			continue
		}
		res, err := stmt.ExecContext(ctx, periodKey, models.DateKey(d.Date), d.AllocatedAmount.String(), runID, now)
		if err != nil {
			return 0, fmt.Errorf("freezing %s: %w", models.DateKey(d.Date), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			frozen += int(n)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO runs (run_id, period_key, created_at, frozen_days) VALUES (?, ?, ?, ?)",
		runID, periodKey, now, frozen); err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing freeze: %w", err)
	}

	l.logger.Info("Froze elapsed allocations",
		logging.F(logging.FieldPeriod, periodKey),
		logging.F(logging.FieldRunID, runID),
		logging.F(logging.FieldCount, frozen))
	return frozen, nil
}

// RunCount returns how many runs were recorded for a period.
func (l *Ledger) RunCount(ctx context.Context, periodKey string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE period_key = ?", periodKey).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}
