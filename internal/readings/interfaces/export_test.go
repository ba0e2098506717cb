package interfaces

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	readings "greenmetrics/internal/readings/domain"
)

func exportFixtures() []readings.Reading {
	created := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	return []readings.Reading{
		{
			ID:          "r1",
			ReadingDate: "2025-03-05",
			Facility:    "Talbot House",
			MeterCode:   "TH-E-01",
			MeterName:   "Talbot House Electricity Meter",
			MetricName:  "electricity_usage",
			Value:       2845.67,
			Unit:        "kWh",
			ReadingType: "imported",
			SourceFile:  "march.xlsx",
			CreatedAt:   created,
		},
		{
			ID:          "r2",
			ReadingDate: "2025-03-06",
			Facility:    "Kimmeridge House",
			MeterCode:   "TH-W-01",
			MeterName:   "Kimmeridge House Water Meter",
			MetricName:  "water_usage",
			Value:       320,
			Unit:        "m³",
			ReadingType: "manual",
			CreatedAt:   created,
		},
	}
}

func TestWriteReadingsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReadingsCSV(&buf, exportFixtures()); err != nil {
		t.Fatalf("WriteReadingsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "reading_date,facility,") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2845.67") || !strings.Contains(lines[1], "Talbot House") {
		t.Fatalf("row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "m³") {
		t.Fatalf("unit lost: %q", lines[2])
	}
}

func TestBuildReadingsXLSX(t *testing.T) {
	data, err := BuildReadingsXLSX(exportFixtures())
	if err != nil {
		t.Fatalf("BuildReadingsXLSX: %v", err)
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("readings")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][1] != "Talbot House" {
		t.Fatalf("unexpected cells: %v", rows)
	}
}

func TestBuildReadingsPDF(t *testing.T) {
	data, err := BuildReadingsPDF("Utility Readings", exportFixtures(), time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildReadingsPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("not a PDF document: % x", data[:8])
	}
}
