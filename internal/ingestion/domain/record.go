package ingestion

// Record is the canonical, validated representation of one utility-meter
// reading, shaped for persistence.
type Record struct {
	ReadingDate string  `json:"reading_date"`
	Facility    string  `json:"facility"`
	MeterCode   string  `json:"meter_code"`
	MeterName   string  `json:"meter_name"`
	MetricName  string  `json:"metric_name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	ReadingType string  `json:"reading_type"`
	SourceFile  string  `json:"source_file,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// Candidate is a record assembled from one input row before validation.
// Issues collected while building (unparsable date, missing value) ride along
// so the validator can fold them into one complete report per row.
type Candidate struct {
	Row     int
	Record  Record
	Issues  []FieldError
	Skipped bool
	Reason  string
}

// Defaults supplies fallback values for canonical fields the mapping leaves
// uncovered. Zero-value fields fall back to catalog-derived values.
type Defaults struct {
	Facility    string
	MetricName  string
	ReadingType string
	MeterCode   string
	MeterName   string
	Unit        string
	SourceFile  string
}
