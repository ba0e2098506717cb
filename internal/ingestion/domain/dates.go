package ingestion

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Spreadsheet serial dates count days from 1899-12-30; serial 25569 is
// 1970-01-01. Values above 30000 (~1982) are assumed to be serials rather
// than plain numbers that happen to sit in a date column.
const (
	serialEpochOffset = 25569
	serialFloor       = 30000
)

var compactDatePattern = regexp.MustCompile(`^\d{8}$`)

// textLayouts are tried, in order, for strings that are not compact or
// slash-delimited dates. Slash layouts are absent on purpose: rule order
// sends those through the MM/DD vs DD/MM heuristic first.
var textLayouts = []string{
	dateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006.01.02",
	"02-Jan-06",
	"2-Jan-06",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102T150405",
}

// NormalizeDate converts a heterogeneous date cell into a canonical
// YYYY-MM-DD string. It never invents a date: anything unrecognizable is an
// error so the caller can report the row instead of silently writing today.
func NormalizeDate(cell Cell) (string, error) {
	switch value := cell.(type) {
	case time.Time:
		if value.IsZero() {
			return "", ErrDateUnrecognized
		}
		return value.UTC().Format(dateLayout), nil
	case float64:
		return dateFromSerial(value)
	case int:
		return dateFromSerial(float64(value))
	case int64:
		return dateFromSerial(float64(value))
	case string:
		return dateFromString(value)
	case nil:
		return "", ErrDateUnrecognized
	default:
		return "", ErrDateUnrecognized
	}
}

func dateFromSerial(serial float64) (string, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= serialFloor {
		return "", ErrDateUnrecognized
	}
	ms := math.Round((serial - serialEpochOffset) * 86400 * 1000)
	return time.UnixMilli(int64(ms)).UTC().Format(dateLayout), nil
}

func dateFromString(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrDateUnrecognized
	}

	if compactDatePattern.MatchString(value) {
		return calendarDate(value[0:4], value[4:6], value[6:8])
	}

	if strings.Contains(value, "/") {
		return dateFromSlashes(value)
	}

	if isTimeOnly(value) {
		return "", ErrTimeOnly
	}

	for _, layout := range textLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC().Format(dateLayout), nil
		}
	}
	return "", ErrDateUnrecognized
}

// dateFromSlashes resolves slash-delimited dates. When the first component is
// 12 or less the string is read as MM/DD/YYYY, otherwise DD/MM/YYYY. Dates
// where both day and month are <=12 are inherently ambiguous; this mirrors
// the behavior real data was entered under, so it is kept rather than
// second-guessed.
func dateFromSlashes(value string) (string, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return "", ErrDateUnrecognized
	}
	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", ErrDateUnrecognized
	}

	year := strings.TrimSpace(parts[2])
	if len(year) == 2 {
		year = "20" + year
	}

	var month, day string
	if first <= 12 {
		month, day = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	} else {
		day, month = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return calendarDate(year, pad2(month), pad2(day))
}

func calendarDate(year, month, day string) (string, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", ErrDateUnrecognized
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return "", ErrDateUnrecognized
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", ErrDateUnrecognized
	}
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if date.Year() != y || date.Month() != time.Month(m) || date.Day() != d {
		return "", ErrDateUnrecognized
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}

// isTimeOnly flags fragments such as "10:30" or "09:00:00" that carry no
// calendar information.
func isTimeOnly(value string) bool {
	return strings.Contains(value, ":") &&
		!strings.Contains(value, "-") &&
		!strings.Contains(value, "/") &&
		len(value) <= 8
}

func pad2(value string) string {
	if len(value) == 1 {
		return "0" + value
	}
	return value
}
