package money

import "github.com/shopspring/decimal"

// Currency amounts are stored with 2 fractional digits. Intermediate rate
// arithmetic keeps full decimal precision and is only rounded at the point
// a value is persisted or returned.

// Round2 rounds a currency amount to 2 fractional digits, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromString parses a decimal amount. Returns decimal.Zero on empty input.
func FromString(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// IsPositive reports whether d > 0.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// Sum adds the given amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
