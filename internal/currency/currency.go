// Package currency handles exact monetary arithmetic in integer cents.
//
// All amounts inside the application are int64 minor units. Decimal values
// appear only at the ingestion boundary (parsing human-entered prices) and
// at the presentation boundary (formatting). Nothing in between ever touches
// a float.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidParts is returned when a split is requested over zero or
	// fewer parts.
	ErrInvalidParts = errors.New("parts must be positive")
)

// ToCents converts a decimal dollar amount to integer cents, rounding half
// away from zero. Used only when parsing input; never call it on a value
// derived from ToDollars.
func ToCents(dollars decimal.Decimal) int64 {
	return dollars.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ToDollars converts integer cents to a decimal dollar amount. Presentation
// only.
func ToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders cents as an en-US currency string, e.g. "$1,234.56".
// Negative amounts render as "-$0.07".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	dollars := cents / 100
	minor := cents % 100

	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(dollars), minor)
}

// groupThousands inserts comma separators into a nonnegative integer.
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// SplitCents divides totalCents into parts integer shares that sum exactly
// to totalCents. Every share gets the floor of the division; the first
// (totalCents mod parts) shares receive one extra cent. The front-loaded
// remainder is a deliberate, reproducible tie-break: callers rely on the
// order of the result aligning with the order of their participant list.
func SplitCents(totalCents int64, parts int) ([]int64, error) {
	if parts <= 0 {
		return nil, fmt.Errorf("cannot split %d cents: %w", totalCents, ErrInvalidParts)
	}

	base := totalCents / int64(parts)
	remainder := totalCents % int64(parts)

	shares := make([]int64, parts)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}

	return shares, nil
}
