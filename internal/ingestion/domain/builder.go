package ingestion

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"greenmetrics/internal/catalog"
)

const skipInsufficientData = "insufficient data"

// BuildRecords assembles one candidate per input row, in input order, applying
// per-field normalization and defaulting. Rows are never dropped silently: a
// row that cannot be completed carries the issues that explain why, and a row
// with neither date nor reading value becomes an explicit skip (blank and
// separator rows are normal in real spreadsheets).
func BuildRecords(rows []Row, mapping ColumnMapping, defaults Defaults, cat *catalog.Catalog) []Candidate {
	candidates := make([]Candidate, 0, len(rows))
	for index, row := range rows {
		candidates = append(candidates, buildRecord(index, row, mapping, defaults, cat))
	}
	return candidates
}

func buildRecord(index int, row Row, mapping ColumnMapping, defaults Defaults, cat *catalog.Catalog) Candidate {
	candidate := Candidate{Row: index}

	dateCell, hasDate := mappedCell(row, mapping, FieldDate)
	readingCell, hasReading := mappedCell(row, mapping, FieldReading)
	if !hasDate && !hasReading {
		candidate.Skipped = true
		candidate.Reason = skipInsufficientData
		return candidate
	}

	record := &candidate.Record

	if hasDate {
		date, err := NormalizeDate(dateCell)
		if err != nil {
			candidate.addIssue(FieldDate, kindFor(err), err.Error())
		} else {
			record.ReadingDate = date
		}
	} else {
		candidate.addIssue(FieldDate, KindRequiredMissing, "no date column mapped and no value present")
	}

	if hasReading {
		value, err := NormalizeValue(readingCell)
		if err != nil {
			candidate.addIssue(FieldReading, kindFor(err), err.Error())
		} else {
			record.Value = value
		}
	} else {
		candidate.addIssue(FieldReading, KindRequiredMissing, "no reading value present")
	}

	record.Facility = textOrDefault(row, mapping, FieldFacility, defaults.Facility)
	record.MetricName = textOrDefault(row, mapping, FieldMetric, defaults.MetricName)
	record.ReadingType = textOrDefault(row, mapping, FieldReadingType, defaults.ReadingType)
	if record.ReadingType == "" {
		record.ReadingType = "imported"
	}

	record.Unit = textOrDefault(row, mapping, FieldUnit, defaults.Unit)
	if record.Unit == "" {
		if expected, ok := cat.ExpectedUnit(record.MetricName); ok {
			record.Unit = expected
		}
	}

	record.MeterCode = textOrDefault(row, mapping, FieldMeterCode, defaults.MeterCode)
	if record.MeterCode == "" {
		record.MeterCode = cat.DefaultMeterCode(record.MetricName)
	}

	record.MeterName = textOrDefault(row, mapping, FieldMeterName, defaults.MeterName)
	if record.MeterName == "" && record.Facility != "" {
		record.MeterName = fmt.Sprintf("%s %s Meter", record.Facility, cat.MetricLabel(record.MetricName))
	}

	record.Notes = textOrDefault(row, mapping, FieldNotes, "")
	// Time-of-day granularity is out of scope; a mapped time column only
	// enriches the notes.
	if timeCell, ok := mappedCell(row, mapping, FieldTime); ok {
		if timeText := cellText(timeCell); timeText != "" {
			if record.Notes != "" {
				record.Notes += "; "
			}
			record.Notes += "time " + timeText
		}
	}

	record.SourceFile = defaults.SourceFile
	return candidate
}

func (c *Candidate) addIssue(field Field, kind ErrorKind, message string) {
	c.Issues = append(c.Issues, FieldError{Row: c.Row, Field: field, Kind: kind, Message: message})
}

// mappedCell resolves the cell for a canonical field. The second return is
// false when the field has no mapped column or the cell is empty.
func mappedCell(row Row, mapping ColumnMapping, field Field) (Cell, bool) {
	column, ok := mapping.columnFor(field)
	if !ok {
		return nil, false
	}
	cell, ok := row[column]
	if !ok || cell == nil {
		return nil, false
	}
	if text, isText := cell.(string); isText && strings.TrimSpace(text) == "" {
		return nil, false
	}
	return cell, true
}

func textOrDefault(row Row, mapping ColumnMapping, field Field, fallback string) string {
	if cell, ok := mappedCell(row, mapping, field); ok {
		if text := cellText(cell); text != "" {
			return text
		}
	}
	return fallback
}

func cellText(cell Cell) string {
	switch value := cell.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case time.Time:
		return value.UTC().Format(dateLayout)
	default:
		return ""
	}
}
