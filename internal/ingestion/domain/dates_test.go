package ingestion

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeDateFormats(t *testing.T) {
	cases := []struct {
		name string
		cell Cell
		want string
	}{
		{"native time", time.Date(2025, 3, 5, 14, 30, 0, 0, time.UTC), "2025-03-05"},
		{"spreadsheet serial", float64(45261), "2023-12-01"},
		{"spreadsheet serial new year", float64(44927), "2023-01-01"},
		{"compact", "20250305", "2025-03-05"},
		{"slash american", "03/05/2025", "2025-03-05"},
		{"slash european", "13/05/2025", "2025-05-13"},
		{"slash short year", "3/5/25", "2025-03-05"},
		{"iso", "2025-03-05", "2025-03-05"},
		{"iso with time", "2025-03-05 09:00:00", "2025-03-05"},
		{"month name", "05-Mar-25", "2025-03-05"},
		{"dotted", "2025.03.05", "2025-03-05"},
		{"padded whitespace", "  2025-03-05  ", "2025-03-05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDate(tc.cell)
			if err != nil {
				t.Fatalf("NormalizeDate(%v): %v", tc.cell, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeDate(%v) = %q, want %q", tc.cell, got, tc.want)
			}
		})
	}
}

func TestNormalizeDateRejects(t *testing.T) {
	cases := []struct {
		name string
		cell Cell
		want error
	}{
		{"garbage", "banana", ErrDateUnrecognized},
		{"time only", "10:30", ErrTimeOnly},
		{"impossible time", "25:99", ErrTimeOnly},
		{"time with seconds", "09:00:00", ErrTimeOnly},
		{"invalid calendar day", "20250230", ErrDateUnrecognized},
		{"slash with four parts", "1/2/3/4", ErrDateUnrecognized},
		{"small number", float64(120), ErrDateUnrecognized},
		{"empty", "", ErrDateUnrecognized},
		{"nil", nil, ErrDateUnrecognized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDate(tc.cell)
			if err == nil {
				t.Fatalf("NormalizeDate(%v) = %q, want error", tc.cell, got)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("NormalizeDate(%v) error = %v, want %v", tc.cell, err, tc.want)
			}
		})
	}
}

// Accepted canonical dates must be stable under re-normalization.
func TestNormalizeDateRoundTrip(t *testing.T) {
	inputs := []Cell{float64(45261), "03/05/2025", "20250305", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)}
	for _, input := range inputs {
		first, err := NormalizeDate(input)
		if err != nil {
			t.Fatalf("NormalizeDate(%v): %v", input, err)
		}
		second, err := NormalizeDate(first)
		if err != nil {
			t.Fatalf("NormalizeDate(%q): %v", first, err)
		}
		if first != second {
			t.Fatalf("round trip changed %q to %q", first, second)
		}
	}
}
