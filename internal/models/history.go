package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DaySpend is the actual spending of one elapsed day.
type DaySpend struct {
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	// Count is the number of transactions recorded for the day.
	Count int `json:"count"`
}

// EmptyDaySpend returns a zero DaySpend with a non-nil category map.
func EmptyDaySpend() DaySpend {
	return DaySpend{Total: decimal.Zero, ByCategory: map[string]decimal.Decimal{}}
}

// SpendHistory is the aggregated spending of a period up to AsOf.
// Days holds an entry, keyed by DateKey, for every elapsed day of the period.
type SpendHistory struct {
	Currency string              `json:"currency"`
	AsOf     time.Time           `json:"as_of"`
	Days     map[string]DaySpend `json:"days"`
}

// Spent returns the DaySpend recorded for date.
func (h *SpendHistory) Spent(date time.Time) (DaySpend, bool) {
	if h == nil {
		return DaySpend{}, false
	}
	ds, ok := h.Days[DateKey(date)]
	return ds, ok
}

// SortedKeys returns the date keys in chronological order.
func (h *SpendHistory) SortedKeys() []string {
	if h == nil {
		return nil
	}
	keys := make([]string, 0, len(h.Days))
	for k := range h.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total is the sum of all recorded day totals.
func (h *SpendHistory) Total() decimal.Decimal {
	total := decimal.Zero
	if h == nil {
		return total
	}
	for _, ds := range h.Days {
		total = total.Add(ds.Total)
	}
	return total
}
