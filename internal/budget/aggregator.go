// Package budget groups line item totals by currency and converts them into a
// reference currency.
package budget

import (
	"math"
	"sort"

	"github.com/godilite/procurement-server/internal/money"
)

// ReferenceCurrency is the currency every multi-currency total is normalized to.
const ReferenceCurrency = "TRY"

// LineItem is a single requisition, order or RFQ row.
type LineItem struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	Quantity     money.Amount `json:"quantity"`
	UnitID       string       `json:"unitId,omitempty"`
	UnitPrice    money.Amount `json:"unitPrice"`
	ExtraCosts   money.Amount `json:"extraCosts"`
	CurrencyCode string       `json:"currencyCode"`
}

// LineTotal returns quantity × unit price + extra costs with malformed parts counted as zero.
func (li LineItem) LineTotal() float64 {
	qty := money.CoerceNumericOrZero(li.Quantity.Float64())
	price := money.CoerceNumericOrZero(li.UnitPrice.Float64())
	extra := money.CoerceNumericOrZero(li.ExtraCosts.Float64())
	return qty*price + extra
}

// CurrencyTotals maps a currency code to the summed line totals in that currency.
type CurrencyTotals map[string]float64

// Codes returns the currency codes in ascending order.
func (ct CurrencyTotals) Codes() []string {
	codes := make([]string, 0, len(ct))
	for code := range ct {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ComputeCurrencyTotals sums line totals per currency code.
func ComputeCurrencyTotals(items []LineItem) CurrencyTotals {
	totals := make(CurrencyTotals)
	for _, item := range items {
		totals[item.CurrencyCode] += item.LineTotal()
	}
	return totals
}

// RateTable maps a currency code to the multiplier that converts one unit of
// that currency into the reference currency.
type RateTable map[string]float64

// DefaultRates is used when no live or persisted rate table is available.
func DefaultRates() RateTable {
	return RateTable{
		"TRY": 1,
		"USD": 42.53,
		"EUR": 49.58,
		"GBP": 53.60,
	}
}

// Clone returns an independent copy of the table.
func (rt RateTable) Clone() RateTable {
	out := make(RateTable, len(rt))
	for k, v := range rt {
		out[k] = v
	}
	return out
}

// ResolveRateOrDefault returns the table rate for code, or 1.0 when the code is
// absent or its rate is not a positive finite number. User-entered currency
// codes may be ahead of the table's coverage, so conversion never fails.
func ResolveRateOrDefault(rates RateTable, code string) float64 {
	rate, ok := rates[code]
	if !ok || math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 1.0
	}
	return rate
}

// Convert converts amount from one currency to another through the reference
// currency. Same-currency conversion returns amount untouched.
func Convert(amount float64, from, to string, rates RateTable) float64 {
	if from == to {
		return amount
	}
	return amount * (ResolveRateOrDefault(rates, from) / ResolveRateOrDefault(rates, to))
}

// ComputeReferenceTotal converts every currency total into reference and sums them.
// The reference currency's own rate is pinned to 1.0 whatever the table says.
func ComputeReferenceTotal(totals CurrencyTotals, rates RateTable, reference string) float64 {
	if reference == "" {
		reference = ReferenceCurrency
	}
	pinned := rates.Clone()
	pinned[reference] = 1.0

	var sum float64
	for _, code := range totals.Codes() {
		sum += Convert(totals[code], code, reference, pinned)
	}
	return sum
}
