package ingestion

import (
	"fmt"
	"strings"
	"time"
)

// classifierRule matches one canonical field against a lower-cased header.
// Rules are evaluated in priority order and the first match wins per header.
type classifierRule struct {
	field Field
	match func(header string) bool
}

func containsAny(header string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(header, keyword) {
			return true
		}
	}
	return false
}

// isTimeHeader flags headers that denote a time-of-day column. These never
// map to reading_date: a bare clock time cannot become a calendar date.
func isTimeHeader(header string) bool {
	return strings.Contains(header, "time") && !strings.Contains(header, "date")
}

var classifierRules = []classifierRule{
	{FieldFacility, func(h string) bool {
		return containsAny(h, "facility", "location", "building", "site")
	}},
	// "type" alone stays out of the metric rule so headers like
	// "Entry Type" can reach the reading_type rule below.
	{FieldMetric, func(h string) bool {
		return containsAny(h, "metric", "utility", "category")
	}},
	{FieldReading, func(h string) bool {
		return containsAny(h, "value", "reading", "consumption", "usage", "kwh", "amount")
	}},
	{FieldUnit, func(h string) bool {
		return containsAny(h, "unit", "measure")
	}},
	{FieldDate, func(h string) bool {
		return containsAny(h, "date", "day") && !isTimeHeader(h)
	}},
	{FieldMeterCode, func(h string) bool {
		return containsAny(h, "meter code", "meter id", "meter_code")
	}},
	{FieldMeterName, func(h string) bool {
		return containsAny(h, "meter name", "meter description", "meter_name")
	}},
	{FieldNotes, func(h string) bool {
		return containsAny(h, "note", "comment", "description")
	}},
	{FieldReadingType, func(h string) bool {
		return containsAny(h, "method", "type")
	}},
}

// ClassifyColumns proposes a column-to-field mapping from header names alone.
// Each canonical field is claimed at most once; a later header that would
// collide with a claimed field is left unmapped and reported as a warning so
// the caller can resolve it manually.
func ClassifyColumns(headers []string) (ColumnMapping, []Warning) {
	mapping := make(ColumnMapping, len(headers))
	claimed := make(map[Field]string, len(headers))
	var warnings []Warning

	for _, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		if lower == "" {
			continue
		}
		if isTimeHeader(lower) {
			continue
		}
		for _, rule := range classifierRules {
			if !rule.match(lower) {
				continue
			}
			if winner, taken := claimed[rule.field]; taken {
				warnings = append(warnings, Warning{
					Message: fmt.Sprintf("column %q also matched %s, already mapped from %q; left unmapped", header, rule.field, winner),
				})
			} else {
				mapping[header] = rule.field
				claimed[rule.field] = header
			}
			break
		}
	}
	return mapping, warnings
}

type cellKind int

const (
	kindEmpty cellKind = iota
	kindText
	kindTime
	kindNumber
	kindDate
)

func kindOf(cell Cell) cellKind {
	switch value := cell.(type) {
	case nil:
		return kindEmpty
	case time.Time:
		return kindDate
	case float64, int, int64:
		return kindNumber
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return kindEmpty
		}
		if _, err := NormalizeDate(trimmed); err == nil {
			return kindDate
		}
		// A clock time like "10:30" would survive numeric normalization
		// as 1030; it must never be votable as a reading value.
		if isTimeOnly(trimmed) {
			return kindTime
		}
		if _, err := NormalizeValue(trimmed); err == nil {
			return kindNumber
		}
		return kindText
	default:
		return kindText
	}
}

// sniffColumns fills in date and reading assignments by majority vote over a
// sample of cell values. Header matching alone fails on anonymized or
// generic exports (headers like "Column A"), so this runs only when those
// required fields are still unmapped after ClassifyColumns.
func sniffColumns(headers []string, rows []Row, mapping ColumnMapping, sample int) {
	if sample <= 0 {
		sample = 10
	}
	if sample > len(rows) {
		sample = len(rows)
	}
	if sample == 0 {
		return
	}

	_, hasDate := mapping.columnFor(FieldDate)
	_, hasReading := mapping.columnFor(FieldReading)
	if hasDate && hasReading {
		return
	}

	for _, header := range headers {
		if _, taken := mapping[header]; taken {
			continue
		}
		counts := map[cellKind]int{}
		for _, row := range rows[:sample] {
			counts[kindOf(row[header])]++
		}
		majority := kindEmpty
		best := 0
		for kind, count := range counts {
			if kind != kindEmpty && count > best {
				majority, best = kind, count
			}
		}
		switch majority {
		case kindDate:
			if !hasDate {
				mapping[header] = FieldDate
				hasDate = true
			}
		case kindNumber:
			if !hasReading {
				mapping[header] = FieldReading
				hasReading = true
			}
		}
		if hasDate && hasReading {
			return
		}
	}
}
