package ingestion

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumericChars = regexp.MustCompile(`[^0-9.\-]`)

// NormalizeValue extracts a positive reading magnitude from a noisy value
// cell. Strings are stripped of everything that is not a digit, a dot or a
// sign before parsing, so "1,240 kWh" yields 1240. No unit conversion
// happens here.
func NormalizeValue(cell Cell) (float64, error) {
	switch value := cell.(type) {
	case float64:
		return checkPositive(value)
	case int:
		return checkPositive(float64(value))
	case int64:
		return checkPositive(float64(value))
	case string:
		stripped := nonNumericChars.ReplaceAllString(value, "")
		// A sign is only meaningful in the leading position; interior dashes
		// come from range or date noise.
		if strings.Contains(stripped, "-") {
			negative := strings.HasPrefix(stripped, "-")
			stripped = strings.ReplaceAll(stripped, "-", "")
			if negative {
				stripped = "-" + stripped
			}
		}
		parsed, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			return 0, ErrNotNumeric
		}
		return checkPositive(parsed)
	default:
		return 0, ErrNotNumeric
	}
}

func checkPositive(value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNotNumeric
	}
	if value <= 0 {
		return 0, ErrNonPositive
	}
	return value, nil
}
