package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	readings "greenmetrics/internal/readings/domain"
)

// WriteReadingsCSV streams readings as CSV rows.
func WriteReadingsCSV(w io.Writer, list []readings.Reading) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"reading_date",
		"facility",
		"meter_code",
		"meter_name",
		"metric_name",
		"value",
		"unit",
		"reading_type",
		"source_file",
		"notes",
		"created_at",
	}); err != nil {
		return err
	}
	for _, reading := range list {
		if err := writer.Write([]string{
			reading.ReadingDate,
			reading.Facility,
			reading.MeterCode,
			reading.MeterName,
			reading.MetricName,
			strconv.FormatFloat(reading.Value, 'f', -1, 64),
			reading.Unit,
			reading.ReadingType,
			reading.SourceFile,
			reading.Notes,
			reading.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// BuildReadingsXLSX renders a workbook with one row per reading.
func BuildReadingsXLSX(list []readings.Reading) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "readings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Facility", "Meter Code", "Meter Name", "Metric", "Value", "Unit", "Type", "Notes"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, reading := range list {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), reading.ReadingDate)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), reading.Facility)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), reading.MeterCode)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), reading.MeterName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), reading.MetricName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), reading.Value)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), reading.Unit)
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), reading.ReadingType)
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), reading.Notes)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReadingsPDF renders a tabular PDF report of readings.
func BuildReadingsPDF(title string, list []readings.Reading, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	// Units such as m³ are outside ASCII.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Readings: %d", len(list)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(24, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(38, 6, "Facility", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Meter", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Metric", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, reading := range list {
		pdf.CellFormat(24, 6, reading.ReadingDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(38, 6, reading.Facility, "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 6, reading.MeterCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, reading.MetricName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%.2f", reading.Value), "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 6, tr(reading.Unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, reading.ReadingType, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
