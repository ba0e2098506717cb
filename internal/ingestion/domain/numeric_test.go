package ingestion

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		name string
		cell Cell
		want float64
	}{
		{"plain number", float64(12.5), 12.5},
		{"integer", 320, 320},
		{"numeric string", "1240", 1240},
		{"thousands separator and unit", "1,240 kWh", 1240},
		{"currency noise", "£1,234.56", 1234.56},
		{"whitespace", " 42 ", 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeValue(tc.cell)
			if err != nil {
				t.Fatalf("NormalizeValue(%v): %v", tc.cell, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeValue(%v) = %v, want %v", tc.cell, got, tc.want)
			}
		})
	}
}

func TestNormalizeValueRejects(t *testing.T) {
	cases := []struct {
		name string
		cell Cell
		want error
	}{
		{"negative string", "-5", ErrNonPositive},
		{"zero string", "0", ErrNonPositive},
		{"zero number", float64(0), ErrNonPositive},
		{"negative number", float64(-3.2), ErrNonPositive},
		{"not numeric", "abc", ErrNotNumeric},
		{"empty", "", ErrNotNumeric},
		{"nan", math.NaN(), ErrNotNumeric},
		{"inf", math.Inf(1), ErrNotNumeric},
		{"nil", nil, ErrNotNumeric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, err := NormalizeValue(tc.cell); err == nil {
				t.Fatalf("NormalizeValue(%v) = %v, want error", tc.cell, got)
			} else if !errors.Is(err, tc.want) {
				t.Fatalf("NormalizeValue(%v) error = %v, want %v", tc.cell, err, tc.want)
			}
		})
	}
}
