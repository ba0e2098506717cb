package ingestion

import (
	"testing"

	"greenmetrics/internal/catalog"
)

func testDefaults() Defaults {
	return Defaults{
		Facility:    "Talbot House",
		MetricName:  "electricity_usage",
		SourceFile:  "report.xlsx",
		ReadingType: "file_import",
	}
}

func TestBuildRecordsAppliesDefaults(t *testing.T) {
	mapping := ColumnMapping{"Date": FieldDate, "Reading": FieldReading}
	rows := []Row{{"Date": "2025-03-05", "Reading": float64(120.5)}}

	candidates := BuildRecords(rows, mapping, testDefaults(), catalog.Default())
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	record := candidates[0].Record
	if len(candidates[0].Issues) != 0 {
		t.Fatalf("unexpected issues: %v", candidates[0].Issues)
	}
	if record.ReadingDate != "2025-03-05" || record.Value != 120.5 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Facility != "Talbot House" || record.MetricName != "electricity_usage" {
		t.Fatalf("defaults not applied: %+v", record)
	}
	if record.Unit != "kWh" {
		t.Fatalf("unit should derive from metric, got %q", record.Unit)
	}
	if record.MeterCode != "TH-E-01" {
		t.Fatalf("meter code default = %q", record.MeterCode)
	}
	if record.MeterName != "Talbot House Electricity Meter" {
		t.Fatalf("meter name default = %q", record.MeterName)
	}
	if record.ReadingType != "file_import" || record.SourceFile != "report.xlsx" {
		t.Fatalf("defaults not applied: %+v", record)
	}
}

func TestBuildRecordsSkipsBlankRows(t *testing.T) {
	mapping := ColumnMapping{"Date": FieldDate, "Reading": FieldReading, "Notes": FieldNotes}
	rows := []Row{
		{"Date": "2025-03-05", "Reading": float64(10)},
		{"Date": "", "Reading": nil, "Notes": "separator"},
	}
	candidates := BuildRecords(rows, mapping, testDefaults(), catalog.Default())
	if candidates[0].Skipped {
		t.Fatalf("data row should not be skipped")
	}
	if !candidates[1].Skipped || candidates[1].Reason != "insufficient data" {
		t.Fatalf("blank row should be skipped, got %+v", candidates[1])
	}
}

func TestBuildRecordsCollectsIssues(t *testing.T) {
	mapping := ColumnMapping{"Date": FieldDate, "Reading": FieldReading}
	rows := []Row{{"Date": "10:30", "Reading": "abc"}}
	candidates := BuildRecords(rows, mapping, testDefaults(), catalog.Default())
	issues := candidates[0].Issues
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", issues)
	}
	if issues[0].Field != FieldDate || issues[0].Kind != KindTimeOnly {
		t.Fatalf("unexpected date issue: %+v", issues[0])
	}
	if issues[1].Field != FieldReading || issues[1].Kind != KindNotNumeric {
		t.Fatalf("unexpected value issue: %+v", issues[1])
	}
}

func TestBuildRecordsFoldsTimeIntoNotes(t *testing.T) {
	mapping := ColumnMapping{
		"Date":    FieldDate,
		"Time":    FieldTime,
		"Reading": FieldReading,
		"Notes":   FieldNotes,
	}
	rows := []Row{{"Date": "2025-03-05", "Time": "09:00", "Reading": float64(42), "Notes": "normal load"}}
	candidates := BuildRecords(rows, mapping, testDefaults(), catalog.Default())
	record := candidates[0].Record
	if record.ReadingDate != "2025-03-05" {
		t.Fatalf("time column must not disturb the date, got %q", record.ReadingDate)
	}
	if record.Notes != "normal load; time 09:00" {
		t.Fatalf("notes = %q", record.Notes)
	}
}

func TestBuildRecordsPreservesOrder(t *testing.T) {
	mapping := ColumnMapping{"Date": FieldDate, "Reading": FieldReading}
	rows := []Row{
		{"Date": "2025-03-05", "Reading": float64(1)},
		{"Date": "2025-03-06", "Reading": float64(2)},
		{"Date": "2025-03-07", "Reading": float64(3)},
	}
	candidates := BuildRecords(rows, mapping, testDefaults(), catalog.Default())
	for i, candidate := range candidates {
		if candidate.Row != i {
			t.Fatalf("candidate %d has row index %d", i, candidate.Row)
		}
	}
}
