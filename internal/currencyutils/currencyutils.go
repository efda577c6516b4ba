// Package currencyutils provides ISO 4217 minor-unit lookups and the rounding
// helpers that keep rounded allocations summing to their raw totals.
package currencyutils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultPlaces is used when a currency code is empty.
const DefaultPlaces int32 = 2

// MinorUnits returns the number of decimal places of an ISO 4217 currency.
func MinorUnits(code string) (int32, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultPlaces, nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, fmt.Errorf("unknown currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

// ValidCode reports whether code is a recognised ISO 4217 currency.
func ValidCode(code string) bool {
	_, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	return err == nil
}

// SmallestUnit returns 10^-places, e.g. 0.01 for two places.
func SmallestUnit(places int32) decimal.Decimal {
	return decimal.New(1, -places)
}

// FormatAmount renders amount with the currency's minor units, followed by
// the currency code when one is given.
func FormatAmount(amount decimal.Decimal, code string) string {
	places, err := MinorUnits(code)
	if err != nil {
		places = DefaultPlaces
	}
	if code == "" {
		return amount.StringFixed(places)
	}
	return amount.StringFixed(places) + " " + strings.ToUpper(code)
}

// RoundSeries rounds values so that every prefix sum of the result equals the
// rounded prefix sum of the input. The rounded total therefore matches the
// rounded raw total and no value drifts by more than one smallest unit.
func RoundSeries(values []decimal.Decimal, places int32) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	raw := decimal.Zero
	prev := decimal.Zero
	for i, v := range values {
		raw = raw.Add(v)
		rounded := raw.Round(places)
		out[i] = rounded.Sub(prev)
		prev = rounded
	}
	return out
}

// SplitLargestRemainder splits total proportionally to weights at the given
// precision. Shares are truncated, then the leftover smallest units go to the
// largest truncation remainders, earliest index first on ties. The shares sum
// exactly to total rounded to places.
func SplitLargestRemainder(total decimal.Decimal, weights []decimal.Decimal, places int32) []decimal.Decimal {
	out := make([]decimal.Decimal, len(weights))
	if len(weights) == 0 {
		return out
	}
	if total.IsNegative() {
		for i, v := range SplitLargestRemainder(total.Neg(), weights, places) {
			out[i] = v.Neg()
		}
		return out
	}

	total = total.Round(places)
	weightSum := decimal.Zero
	for _, w := range weights {
		weightSum = weightSum.Add(w)
	}
	if weightSum.IsZero() {
		out[0] = total
		for i := 1; i < len(out); i++ {
			out[i] = decimal.Zero
		}
		return out
	}

	type remainder struct {
		idx  int
		frac decimal.Decimal
	}
	rems := make([]remainder, len(weights))
	assigned := decimal.Zero
	for i, w := range weights {
		exact := total.Mul(w).Div(weightSum)
		floor := exact.Truncate(places)
		out[i] = floor
		assigned = assigned.Add(floor)
		rems[i] = remainder{idx: i, frac: exact.Sub(floor)}
	}

	unit := SmallestUnit(places)
	left := total.Sub(assigned).Div(unit).Round(0).IntPart()
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac.GreaterThan(rems[b].frac) })
	for k := int64(0); k < left; k++ {
		i := rems[int(k)%len(rems)].idx
		out[i] = out[i].Add(unit)
	}
	return out
}
