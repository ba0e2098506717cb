package ingestion

import (
	"fmt"

	"greenmetrics/internal/catalog"
)

// Mode selects how much of the pipeline output is returned.
type Mode string

const (
	// ModePreview returns the first PreviewLimit canonical records but the
	// complete failure and warning lists, so a caller can render "N more
	// errors" before committing.
	ModePreview Mode = "preview"
	// ModeCommit returns every successful record; whether failures block the
	// batch is the caller's policy, not the pipeline's.
	ModeCommit Mode = "commit"
)

const defaultPreviewLimit = 10

// Options configures a single ingestion run.
type Options struct {
	Mode         Mode
	PreviewLimit int
	// Mapping, when non-nil, bypasses the column classifier entirely.
	Mapping  ColumnMapping
	Defaults Defaults
	Catalog  *catalog.Catalog
	// SniffSample caps the rows inspected by content-based classification.
	SniffSample int
	StrictUnits bool
}

// Result is the immutable outcome of one ingestion run.
type Result struct {
	Records   []Record      `json:"records"`
	Failures  []FieldError  `json:"failures"`
	Warnings  []Warning     `json:"warnings"`
	Skips     []Skip        `json:"skips"`
	Mapping   ColumnMapping `json:"mapping"`
	TotalRows int           `json:"total_rows"`
	// Succeeded counts all valid records even when preview truncates Records.
	Succeeded int  `json:"succeeded"`
	Truncated bool `json:"truncated"`
}

// Ingest runs classification, record building and validation over the decoded
// rows. It holds no state between calls and a failing row never aborts the
// rest of the batch; the returned error is reserved for caller contract
// violations such as a mapping that names an unknown canonical field.
func Ingest(rows []Row, headers []string, opts Options) (Result, error) {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	if opts.Mode == "" {
		opts.Mode = ModePreview
	}

	result := Result{TotalRows: len(rows)}

	mapping := opts.Mapping
	if mapping != nil {
		for column, field := range mapping {
			if !ValidField(field) {
				return Result{}, fmt.Errorf("ingestion: mapping for column %q references unknown field %q", column, field)
			}
		}
	} else {
		var warnings []Warning
		mapping, warnings = ClassifyColumns(headers)
		result.Warnings = append(result.Warnings, warnings...)
		sniffColumns(headers, rows, mapping, opts.SniffSample)
	}
	result.Mapping = mapping

	candidates := BuildRecords(rows, mapping, opts.Defaults, cat)

	type occurrence struct {
		key  string
		rows []int
	}
	var duplicates []*occurrence
	seen := make(map[string]*occurrence)

	for _, candidate := range candidates {
		if candidate.Skipped {
			result.Skips = append(result.Skips, Skip{Row: candidate.Row, Reason: candidate.Reason})
			continue
		}
		failures, warnings := Validate(candidate, cat, opts.StrictUnits)
		result.Warnings = append(result.Warnings, warnings...)
		if len(failures) > 0 {
			result.Failures = append(result.Failures, failures...)
			continue
		}

		record := candidate.Record
		result.Records = append(result.Records, record)
		result.Succeeded++

		key := record.Facility + "|" + record.MeterCode + "|" + record.ReadingDate
		if occ, ok := seen[key]; ok {
			occ.rows = append(occ.rows, candidate.Row)
		} else {
			occ := &occurrence{key: key, rows: []int{candidate.Row}}
			seen[key] = occ
			duplicates = append(duplicates, occ)
		}
	}

	// Duplicate tuples are flagged, never rejected: double-entry is a human
	// judgement call.
	for _, occ := range duplicates {
		if len(occ.rows) > 1 {
			result.Warnings = append(result.Warnings, Warning{
				Rows:    occ.rows,
				Message: fmt.Sprintf("possible duplicate readings for (%s)", occ.key),
			})
		}
	}

	if opts.Mode == ModePreview {
		limit := opts.PreviewLimit
		if limit <= 0 {
			limit = defaultPreviewLimit
		}
		if len(result.Records) > limit {
			result.Records = result.Records[:limit]
			result.Truncated = true
		}
	}
	return result, nil
}
