package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted records store amounts as bare JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount coerces free-form user input into a decimal amount.
// Empty or non-numeric input degrades to zero; it is never an error.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
