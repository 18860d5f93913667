package currency

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name    string
		dollars string
		want    int64
	}{
		{"whole dollars", "12", 1200},
		{"two decimal places", "12.50", 1250},
		{"half cent rounds up", "0.005", 1},
		{"just under half cent rounds down", "0.0049", 0},
		{"zero", "0", 0},
		{"large amount", "10250.75", 1025075},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCents(decimal.RequireFromString(tt.dollars))
			if got != tt.want {
				t.Errorf("ToCents(%s) = %d, want %d", tt.dollars, got, tt.want)
			}
		})
	}
}

func TestToDollars(t *testing.T) {
	if got := ToDollars(1250); got.String() != "12.5" {
		t.Errorf("ToDollars(1250) = %s, want 12.5", got)
	}
	if got := ToDollars(7); got.String() != "0.07" {
		t.Errorf("ToDollars(7) = %s, want 0.07", got)
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{7, "$0.07"},
		{1250, "$12.50"},
		{123456, "$1,234.56"},
		{100000000, "$1,000,000.00"},
		{-7, "-$0.07"},
		{-123456, "-$1,234.56"},
	}

	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestSplitCents(t *testing.T) {
	tests := []struct {
		name       string
		totalCents int64
		parts      int
		want       []int64
	}{
		{"even split", 1000, 4, []int64{250, 250, 250, 250}},
		{"remainder front-loaded", 1000, 3, []int64{334, 333, 333}},
		{"tiny amount", 10, 3, []int64{4, 3, 3}},
		{"fewer cents than parts", 2, 3, []int64{1, 1, 0}},
		{"single part", 999, 1, []int64{999}},
		{"zero total", 0, 3, []int64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitCents(tt.totalCents, tt.parts)
			if err != nil {
				t.Fatalf("SplitCents(%d, %d) unexpected error: %v", tt.totalCents, tt.parts, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCents(%d, %d) = %v, want %v", tt.totalCents, tt.parts, got, tt.want)
			}
		})
	}
}

func TestSplitCentsInvalidParts(t *testing.T) {
	for _, parts := range []int{0, -1} {
		if _, err := SplitCents(100, parts); !errors.Is(err, ErrInvalidParts) {
			t.Errorf("SplitCents(100, %d) error = %v, want ErrInvalidParts", parts, err)
		}
	}
}

// TestSplitCentsExactness sweeps a range of totals and part counts and
// checks the two invariants every split must hold: shares sum to the total,
// and every share is floor(total/parts) or floor(total/parts)+1.
func TestSplitCentsExactness(t *testing.T) {
	for total := int64(0); total < 500; total += 7 {
		for parts := 1; parts <= 9; parts++ {
			shares, err := SplitCents(total, parts)
			if err != nil {
				t.Fatalf("SplitCents(%d, %d) unexpected error: %v", total, parts, err)
			}

			base := total / int64(parts)
			var sum int64
			for _, s := range shares {
				if s != base && s != base+1 {
					t.Fatalf("SplitCents(%d, %d) share %d outside [%d, %d]", total, parts, s, base, base+1)
				}
				sum += s
			}
			if sum != total {
				t.Fatalf("SplitCents(%d, %d) sums to %d", total, parts, sum)
			}
		}
	}
}
