package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	ingestion "greenmetrics/internal/ingestion/domain"
)

// ErrEmptyDocument indicates a file with no header row.
var ErrEmptyDocument = errors.New("tabular: file has no data")

// ErrUnsupportedFormat indicates a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("tabular: unsupported file format")

// Document is a decoded tabular file: the header row in source order plus
// one Row per data row. This is the shape the ingestion pipeline consumes.
type Document struct {
	Headers []string
	Rows    []ingestion.Row
}

// Decode picks a decoder by file extension.
func Decode(filename string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return DecodeXLSX(data)
	case ".csv":
		return DecodeCSV(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// DecodeXLSX reads the first sheet of a workbook. Numeric and date-styled
// cells become float64 values (date cells surface as raw spreadsheet
// serials, which the date normalizer understands); everything else stays a
// string. Cells are keyed by the header row.
func DecodeXLSX(data []byte) (*Document, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tabular: open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyDocument
	}
	sheet := sheets[0]

	raw, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("tabular: read rows: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	headers := make([]string, 0, len(raw[0]))
	for _, header := range raw[0] {
		headers = append(headers, strings.TrimSpace(header))
	}

	document := &Document{Headers: headers}
	for rowIndex := 1; rowIndex < len(raw); rowIndex++ {
		row := make(ingestion.Row, len(headers))
		for colIndex, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if colIndex < len(raw[rowIndex]) {
				value = raw[rowIndex][colIndex]
			}
			row[header] = cellValue(file, sheet, colIndex, rowIndex, value)
		}
		document.Rows = append(document.Rows, row)
	}
	return document, nil
}

func cellValue(file *excelize.File, sheet string, colIndex, rowIndex int, raw string) ingestion.Cell {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
	if err != nil {
		return raw
	}
	cellType, err := file.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeDate:
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			return parsed
		}
	}
	return raw
}

// DecodeCSV reads a comma-separated file. Cells stay strings: the pipeline's
// normalizers already coerce numeric and date text, and guessing types here
// would turn compact dates like 20250305 into bogus serials.
func DecodeCSV(data []byte) (*Document, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRecord, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDocument
	}
	if err != nil {
		return nil, fmt.Errorf("tabular: read header: %w", err)
	}

	headers := make([]string, 0, len(headerRecord))
	for _, header := range headerRecord {
		headers = append(headers, strings.TrimSpace(header))
	}

	document := &Document{Headers: headers}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tabular: read row: %w", err)
		}
		row := make(ingestion.Row, len(headers))
		for colIndex, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if colIndex < len(record) {
				value = strings.TrimSpace(record[colIndex])
			}
			if value == "" {
				row[header] = nil
			} else {
				row[header] = value
			}
		}
		document.Rows = append(document.Rows, row)
	}
	return document, nil
}
