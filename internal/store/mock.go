package store

import (
	"context"
	"sync"

	"fjacquet/daily-budget/internal/models"

	"github.com/shopspring/decimal"
)

// MockLedger is an in-memory FrozenLedger for tests.
type MockLedger struct {
	mu     sync.Mutex
	frozen map[string]map[string]decimal.Decimal

	LoadError   error
	FreezeError error
	FreezeCalls int
}

// NewMockLedger creates an empty MockLedger.
func NewMockLedger() *MockLedger {
	return &MockLedger{frozen: make(map[string]map[string]decimal.Decimal)}
}

// Load returns a copy of the frozen values for periodKey.
func (m *MockLedger) Load(_ context.Context, periodKey string) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	result := make(map[string]decimal.Decimal)
	for k, v := range m.frozen[periodKey] {
		result[k] = v
	}
	return result, nil
}

// Freeze records elapsed allocations that are not frozen yet.
func (m *MockLedger) Freeze(_ context.Context, periodKey, _ string, allocations []models.DayAllocation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FreezeCalls++
	if m.FreezeError != nil {
		return 0, m.FreezeError
	}
	if m.frozen == nil {
		m.frozen = make(map[string]map[string]decimal.Decimal)
	}
	days, ok := m.frozen[periodKey]
	if !ok {
		days = make(map[string]decimal.Decimal)
		m.frozen[periodKey] = days
	}
	n := 0
	for _, d := range allocations {
		key := models.DateKey(d.Date)
		if _, done := days[key]; d.Elapsed && !done {
			days[key] = d.AllocatedAmount
			n++
		}
	}
	return n, nil
}
