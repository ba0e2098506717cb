package ingestion

import (
	"testing"

	"greenmetrics/internal/catalog"
)

func validCandidate() Candidate {
	return Candidate{
		Row: 0,
		Record: Record{
			ReadingDate: "2025-03-05",
			Facility:    "Talbot House",
			MeterCode:   "TH-E-01",
			MeterName:   "Talbot House Electricity Meter",
			MetricName:  "electricity_usage",
			Value:       120.5,
			Unit:        "kWh",
			ReadingType: "manual",
		},
	}
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	failures, warnings := Validate(validCandidate(), catalog.Default(), false)
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

// All constraints are checked in one pass rather than stopping at the first.
func TestValidateReportsEveryProblem(t *testing.T) {
	candidate := validCandidate()
	candidate.Record.Facility = "Hogwarts"
	candidate.Record.MeterCode = "x"
	candidate.Record.Unit = "furlongs"
	failures, _ := Validate(candidate, catalog.Default(), false)
	if len(failures) != 3 {
		t.Fatalf("expected 3 failures, got %v", failures)
	}
	fields := map[Field]ErrorKind{}
	for _, failure := range failures {
		fields[failure.Field] = failure.Kind
	}
	if fields[FieldFacility] != KindEnumMismatch {
		t.Fatalf("facility failure missing: %v", failures)
	}
	if fields[FieldMeterCode] != KindRequiredMissing {
		t.Fatalf("meter code failure missing: %v", failures)
	}
	if fields[FieldUnit] != KindEnumMismatch {
		t.Fatalf("unit failure missing: %v", failures)
	}
}

func TestValidateUnitMismatchIsWarning(t *testing.T) {
	candidate := validCandidate()
	candidate.Record.Unit = "L"
	failures, warnings := Validate(candidate, catalog.Default(), false)
	if len(failures) != 0 {
		t.Fatalf("mismatched but known unit should not fail: %v", failures)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestValidateUnitMismatchStrict(t *testing.T) {
	candidate := validCandidate()
	candidate.Record.Unit = "L"
	failures, warnings := Validate(candidate, catalog.Default(), true)
	if len(failures) != 1 || failures[0].Field != FieldUnit {
		t.Fatalf("strict mode should fail the unit: %v", failures)
	}
	if len(warnings) != 0 {
		t.Fatalf("strict mode should not also warn: %v", warnings)
	}
}

func TestValidateCarriesBuilderIssues(t *testing.T) {
	candidate := validCandidate()
	candidate.Record.ReadingDate = ""
	candidate.Issues = []FieldError{{Row: 0, Field: FieldDate, Kind: KindTimeOnly, Message: "time-only"}}
	failures, _ := Validate(candidate, catalog.Default(), false)
	count := 0
	for _, failure := range failures {
		if failure.Field == FieldDate {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("date should be reported exactly once, got %v", failures)
	}
}

func TestFieldErrorRendering(t *testing.T) {
	err := FieldError{Row: 3, Field: FieldReading, Kind: KindNonPositive, Message: "value must be positive, got -5"}
	want := "Row 3: value – value must be positive, got -5"
	if err.Error() != want {
		t.Fatalf("rendered %q, want %q", err.Error(), want)
	}
}
