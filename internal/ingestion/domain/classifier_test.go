package ingestion

import (
	"testing"
)

func TestClassifyColumnsVendorHeaders(t *testing.T) {
	cases := []struct {
		name    string
		headers []string
		want    map[string]Field
	}{
		{
			name:    "standard daily report",
			headers: []string{"Date", "Time", "Meter Name", "Reading", "Unit", "Notes"},
			want: map[string]Field{
				"Date":       FieldDate,
				"Meter Name": FieldMeterName,
				"Reading":    FieldReading,
				"Unit":       FieldUnit,
				"Notes":      FieldNotes,
			},
		},
		{
			name:    "facility export",
			headers: []string{"Location", "Metric Type", "Reading Value", "Measurement Unit", "Comments"},
			want: map[string]Field{
				"Location":         FieldFacility,
				"Metric Type":      FieldMetric,
				"Reading Value":    FieldReading,
				"Measurement Unit": FieldUnit,
				"Comments":         FieldNotes,
			},
		},
		{
			name:    "meter registry export",
			headers: []string{"Site", "Meter ID", "Consumption", "Collection Method"},
			want: map[string]Field{
				"Site":              FieldFacility,
				"Meter ID":          FieldMeterCode,
				"Consumption":       FieldReading,
				"Collection Method": FieldReadingType,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapping, _ := ClassifyColumns(tc.headers)
			if len(mapping) != len(tc.want) {
				t.Fatalf("mapping = %v, want %v", mapping, tc.want)
			}
			for column, field := range tc.want {
				if mapping[column] != field {
					t.Fatalf("column %q mapped to %q, want %q", column, mapping[column], field)
				}
			}
		})
	}
}

// Time-of-day columns must never be proposed for reading_date.
func TestClassifyColumnsLeavesTimeUnmapped(t *testing.T) {
	mapping, _ := ClassifyColumns([]string{"Time", "Timestamp", "Reading"})
	for _, column := range []string{"Time", "Timestamp"} {
		if field, ok := mapping[column]; ok {
			t.Fatalf("column %q mapped to %q, want unmapped", column, field)
		}
	}
}

// A time-of-day column often sits right next to the reading column in
// anonymized exports; its cells parse as numbers once the colon is
// stripped, so the sniffer must rule them out before the real value
// column is considered.
func TestSniffColumnsSkipsTimeOnlyCells(t *testing.T) {
	headers := []string{"Column A", "Column B", "Column C"}
	rows := []Row{
		{"Column A": "03/05/2025", "Column B": "10:30", "Column C": "150"},
		{"Column A": "03/06/2025", "Column B": "10:45", "Column C": "152"},
		{"Column A": "03/07/2025", "Column B": "11:00", "Column C": "155"},
	}
	mapping, _ := ClassifyColumns(headers)
	sniffColumns(headers, rows, mapping, 0)
	if mapping["Column A"] != FieldDate {
		t.Fatalf("Column A = %q, want %q", mapping["Column A"], FieldDate)
	}
	if field, ok := mapping["Column B"]; ok {
		t.Fatalf("time column mapped to %q, want unmapped", field)
	}
	if mapping["Column C"] != FieldReading {
		t.Fatalf("Column C = %q, want %q", mapping["Column C"], FieldReading)
	}
}

func TestClassifyColumnsCollision(t *testing.T) {
	mapping, warnings := ClassifyColumns([]string{"Reading", "Value"})
	if mapping["Reading"] != FieldReading {
		t.Fatalf("first header lost its claim: %v", mapping)
	}
	if _, ok := mapping["Value"]; ok {
		t.Fatalf("colliding header should stay unmapped, got %v", mapping)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one collision warning, got %v", warnings)
	}
}

// Generic headers carry no signal; the sniffer votes on sampled cell
// content instead.
func TestSniffColumnsFallback(t *testing.T) {
	headers := []string{"Column A", "Column B", "Column C"}
	rows := []Row{
		{"Column A": "2025-03-05", "Column B": float64(120.5), "Column C": "ok"},
		{"Column A": "2025-03-06", "Column B": float64(118.2), "Column C": "ok"},
		{"Column A": "2025-03-07", "Column B": float64(121.9), "Column C": "ok"},
	}
	mapping, _ := ClassifyColumns(headers)
	if len(mapping) != 0 {
		t.Fatalf("expected no header matches, got %v", mapping)
	}
	sniffColumns(headers, rows, mapping, 0)
	if mapping["Column A"] != FieldDate {
		t.Fatalf("Column A = %q, want %q", mapping["Column A"], FieldDate)
	}
	if mapping["Column B"] != FieldReading {
		t.Fatalf("Column B = %q, want %q", mapping["Column B"], FieldReading)
	}
	if _, ok := mapping["Column C"]; ok {
		t.Fatalf("text column should stay unmapped, got %v", mapping)
	}
}
