package bill

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestParseMarkdownTable(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []ParsedItem
		wantErr  string
	}{
		{
			name: "table with header and separator",
			markdown: `
				| Description | Quantity | Price |
				|-------------|----------|-------|
				| Burger      | 2        | 12.50 |
				| Fries       | 1        | 4.00  |
			`,
			want: []ParsedItem{
				{Description: "Burger", Quantity: intPtr(2), Amount: 1250},
				{Description: "Fries", Quantity: intPtr(1), Amount: 400},
			},
		},
		{
			name:     "headerless table",
			markdown: `| Coffee | 1 | 3.75 |`,
			want: []ParsedItem{
				{Description: "Coffee", Quantity: intPtr(1), Amount: 375},
			},
		},
		{
			name:     "currency symbols stripped from price",
			markdown: `| Cake | 1 | $10.99 |`,
			want: []ParsedItem{
				{Description: "Cake", Quantity: intPtr(1), Amount: 1099},
			},
		},
		{
			name:     "invalid quantity dropped",
			markdown: `| Cake | about two | 10.00 |`,
			want: []ParsedItem{
				{Description: "Cake", Amount: 1000},
			},
		},
		{
			name:     "wrong column count",
			markdown: `| Cake | 10.00 |`,
			wantErr:  "expected 3 columns",
		},
		{
			name:     "zero price rejected",
			markdown: `| Cake | 1 | 0.00 |`,
			wantErr:  "invalid amount",
		},
		{
			name:     "negative price rejected",
			markdown: `| Refund | 1 | -5.00 |`,
			wantErr:  "invalid amount",
		},
		{
			name:     "unparsable price rejected",
			markdown: `| Cake | 1 | free |`,
			wantErr:  "invalid amount",
		},
		{
			name: "error reports the offending row number",
			markdown: `
				| Burger | 2 | 12.50 |
				| Broken | 1 | n/a   |
			`,
			wantErr: "invalid row 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMarkdownTable(tt.markdown)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseMarkdownTable() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseMarkdownTable() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMarkdownTable() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMarkdownTableEmpty(t *testing.T) {
	for _, markdown := range []string{"", "   \n  ", "|---|---|---|", "| Description | Quantity | Price |"} {
		if _, err := ParseMarkdownTable(markdown); !errors.Is(err, ErrNoDataRows) {
			t.Errorf("ParseMarkdownTable(%q) error = %v, want ErrNoDataRows", markdown, err)
		}
	}
}
