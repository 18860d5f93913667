package bill

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/currency"
)

// ParsedItem is one row of an imported markdown bill. Amount is in cents.
type ParsedItem struct {
	Description string `json:"description"`
	Quantity    *int   `json:"quantity,omitempty"`
	Amount      int64  `json:"amount"`
}

var (
	ErrNoDataRows = errors.New("no data rows found")

	separatorLine = regexp.MustCompile(`^[\s|:-]+$`)
	digit         = regexp.MustCompile(`\d`)
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
)

// ParseMarkdownTable parses a 3-column pipe-delimited table:
//
//	| Description | Quantity | Price |
//	|-------------|----------|-------|
//	| Burger      | 2        | 12.50 |
//
// Description is required. Quantity is optional and dropped when empty or
// invalid. Price must be a positive number and is converted to cents. The
// header row is optional: a first line with no digits is treated as a
// header and skipped.
func ParseMarkdownTable(markdown string) ([]ParsedItem, error) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(markdown), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || separatorLine.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, ErrNoDataRows
	}

	dataLines := lines
	if !digit.MatchString(lines[0]) {
		dataLines = lines[1:]
	}
	if len(dataLines) == 0 {
		return nil, ErrNoDataRows
	}

	items := make([]ParsedItem, 0, len(dataLines))
	for i, line := range dataLines {
		item, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("invalid row %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func parseRow(line string) (ParsedItem, error) {
	var parts []string
	for _, p := range strings.Split(line, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) != 3 {
		return ParsedItem{}, fmt.Errorf("%q: expected 3 columns (Description | Quantity | Price)", line)
	}

	description, quantityStr, amountStr := parts[0], parts[1], parts[2]

	item := ParsedItem{Description: description}

	// Quantity is best-effort: anything non-positive or unparsable is
	// simply dropped, matching how imports treat free-form tables.
	if qty, err := strconv.Atoi(quantityStr); err == nil && qty > 0 {
		item.Quantity = &qty
	}

	dollars, err := decimal.NewFromString(nonNumeric.ReplaceAllString(amountStr, ""))
	if err != nil || !dollars.IsPositive() {
		return ParsedItem{}, fmt.Errorf("invalid amount %q", amountStr)
	}
	item.Amount = currency.ToCents(dollars)

	return item, nil
}
