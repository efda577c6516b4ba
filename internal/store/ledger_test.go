package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 4, d, 0, 0, 0, 0, time.UTC) }

func allocations(amounts ...string) []models.DayAllocation {
	out := make([]models.DayAllocation, len(amounts))
	for i, a := range amounts {
		out[i] = models.DayAllocation{
			Date:            day(i + 1),
			AllocatedAmount: decimal.RequireFromString(a),
			Elapsed:         i < 2,
		}
	}
	return out
}

func openLedger(t *testing.T, path string) *Ledger {
	t.Helper()
	l, err := OpenLedger(path, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger_FreezeElapsedOnly(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ":memory:")

	n, err := l.Freeze(ctx, "alice/2024-04", "run-1", allocations("33.60", "35.00", "40.00"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	frozen, err := l.Load(ctx, "alice/2024-04")
	require.NoError(t, err)
	assert.Len(t, frozen, 2)
	assert.Equal(t, "33.6", frozen["2024-04-01"].String())
	assert.Equal(t, "35", frozen["2024-04-02"].String())
}

func TestLedger_FirstValueWins(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ":memory:")

	_, err := l.Freeze(ctx, "p", "run-1", allocations("10.00", "20.00"))
	require.NoError(t, err)

	n, err := l.Freeze(ctx, "p", "run-2", allocations("99.00", "99.00", "99.00"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	frozen, err := l.Load(ctx, "p")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(frozen["2024-04-01"]))

	runs, err := l.RunCount(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}

func TestLedger_PeriodsAreIsolated(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, ":memory:")

	_, err := l.Freeze(ctx, "alice/2024-04", "run-1", allocations("10.00", "20.00"))
	require.NoError(t, err)

	frozen, err := l.Load(ctx, "bob/2024-04")
	require.NoError(t, err)
	assert.Empty(t, frozen)
}

func TestLedger_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "ledger.db")

	l, err := OpenLedger(path, logging.NewMockLogger())
	require.NoError(t, err)
	_, err = l.Freeze(ctx, "p", "run-1", allocations("12.34", "5.00"))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	reopened := openLedger(t, path)
	frozen, err := reopened.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "12.34", frozen["2024-04-01"].String())
}

func TestLedger_CancelledContext(t *testing.T) {
	l := openLedger(t, ":memory:")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx, "p")
	assert.Error(t, err)
}

func TestMockLedger(t *testing.T) {
	ctx := context.Background()
	m := NewMockLedger()
	var _ FrozenLedger = m
	var _ FrozenLedger = (*Ledger)(nil)

	n, err := m.Freeze(ctx, "p", "r", allocations("1", "2", "3"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Freeze(ctx, "p", "r", allocations("5", "5"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, m.FreezeCalls)

	frozen, err := m.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "1", frozen["2024-04-01"].String())
}
