package budget

import "github.com/godilite/procurement-server/internal/money"

// CurrencyLine is one row of a budget breakdown.
type CurrencyLine struct {
	CurrencyCode   string  `json:"currencyCode"`
	Total          float64 `json:"total"`
	Formatted      string  `json:"formatted"`
	Rate           float64 `json:"rate"`
	ReferenceValue float64 `json:"referenceValue"`
}

// Summary is the display/validation view of a line item collection.
type Summary struct {
	Lines              []CurrencyLine `json:"lines"`
	ReferenceCurrency  string         `json:"referenceCurrency"`
	ReferenceTotal     float64        `json:"referenceTotal"`
	FormattedReference string         `json:"formattedReference"`
	BudgetLimit        float64        `json:"budgetLimit,omitempty"`
	BudgetExceeded     bool           `json:"budgetExceeded"`
}

// Summarize builds the per-currency breakdown and the reference total. A
// positive limit enables the budget-exceeded check.
func Summarize(items []LineItem, rates RateTable, reference string, limit float64) Summary {
	if reference == "" {
		reference = ReferenceCurrency
	}
	totals := ComputeCurrencyTotals(items)

	pinned := rates.Clone()
	pinned[reference] = 1.0

	lines := make([]CurrencyLine, 0, len(totals))
	for _, code := range totals.Codes() {
		amount := totals[code]
		lines = append(lines, CurrencyLine{
			CurrencyCode:   code,
			Total:          amount,
			Formatted:      money.FormatWithCode(amount, code),
			Rate:           ResolveRateOrDefault(pinned, code),
			ReferenceValue: Convert(amount, code, reference, pinned),
		})
	}

	refTotal := ComputeReferenceTotal(totals, rates, reference)
	limit = money.CoerceNumericOrZero(limit)

	return Summary{
		Lines:              lines,
		ReferenceCurrency:  reference,
		ReferenceTotal:     refTotal,
		FormattedReference: money.FormatWithCode(refTotal, reference),
		BudgetLimit:        limit,
		BudgetExceeded:     limit > 0 && refTotal > limit,
	}
}
