package ingestion

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"greenmetrics/internal/catalog"
)

var canonicalDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const minNameLength = 3

// Validate checks every field-level constraint on a candidate independently,
// so one pass reports the complete set of problems with a record. Issues the
// builder already collected are carried through; a field is not reported
// twice. Unit/metric inconsistency is a warning unless strictUnits is set.
func Validate(candidate Candidate, cat *catalog.Catalog, strictUnits bool) ([]FieldError, []Warning) {
	failures := append([]FieldError(nil), candidate.Issues...)
	flagged := make(map[Field]bool, len(failures))
	for _, failure := range failures {
		flagged[failure.Field] = true
	}
	var warnings []Warning

	record := candidate.Record
	fail := func(field Field, kind ErrorKind, format string, args ...any) {
		if flagged[field] {
			return
		}
		flagged[field] = true
		failures = append(failures, FieldError{
			Row:     candidate.Row,
			Field:   field,
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if !flagged[FieldDate] {
		if record.ReadingDate == "" {
			fail(FieldDate, KindRequiredMissing, "reading date is required")
		} else if !canonicalDatePattern.MatchString(record.ReadingDate) {
			fail(FieldDate, KindDateUnrecognized, "date %q is not in YYYY-MM-DD form", record.ReadingDate)
		} else if _, err := NormalizeDate(record.ReadingDate); err != nil {
			fail(FieldDate, KindDateUnrecognized, "date %q is not a valid calendar date", record.ReadingDate)
		}
	}

	if record.Facility == "" {
		fail(FieldFacility, KindRequiredMissing, "facility is required")
	} else if !cat.ValidFacility(record.Facility) {
		fail(FieldFacility, KindEnumMismatch, "facility %q is not a known facility", record.Facility)
	}

	if len(strings.TrimSpace(record.MeterCode)) < minNameLength {
		fail(FieldMeterCode, KindRequiredMissing, "meter code must be at least %d characters", minNameLength)
	}
	if len(strings.TrimSpace(record.MeterName)) < minNameLength {
		fail(FieldMeterName, KindRequiredMissing, "meter name must be at least %d characters", minNameLength)
	}

	if record.MetricName == "" {
		fail(FieldMetric, KindRequiredMissing, "metric name is required")
	} else if !cat.ValidMetric(record.MetricName) {
		fail(FieldMetric, KindEnumMismatch, "metric %q is not a known metric", record.MetricName)
	}

	if !flagged[FieldReading] {
		if math.IsNaN(record.Value) || math.IsInf(record.Value, 0) {
			fail(FieldReading, KindNotNumeric, "value is not a finite number")
		} else if record.Value <= 0 {
			fail(FieldReading, KindNonPositive, "value must be positive, got %v", record.Value)
		}
	}

	if record.Unit == "" {
		fail(FieldUnit, KindRequiredMissing, "unit is required")
	} else if !cat.ValidUnit(record.Unit) {
		fail(FieldUnit, KindEnumMismatch, "unit %q is not a known unit", record.Unit)
	} else if expected, ok := cat.ExpectedUnit(record.MetricName); ok && expected != record.Unit {
		message := fmt.Sprintf("unit %q is unusual for %s (expected %q)", record.Unit, record.MetricName, expected)
		if strictUnits {
			fail(FieldUnit, KindEnumMismatch, "%s", message)
		} else {
			warnings = append(warnings, Warning{Rows: []int{candidate.Row}, Message: message})
		}
	}

	if strings.TrimSpace(record.ReadingType) == "" {
		fail(FieldReadingType, KindRequiredMissing, "reading type is required")
	}

	return failures, warnings
}
