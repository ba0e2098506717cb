package ingestion

// Cell is a primitive spreadsheet cell value as produced by the tabular
// decoders: string, float64, time.Time or nil.
type Cell any

// Row maps original column headers to cell values for one spreadsheet row.
// Header order travels separately because map iteration order is not stable.
type Row map[string]Cell

// Field is a canonical record field a source column can map to.
type Field string

const (
	FieldDate        Field = "reading_date"
	FieldTime        Field = "time"
	FieldFacility    Field = "facility"
	FieldMetric      Field = "metric_name"
	FieldReading     Field = "value"
	FieldUnit        Field = "unit"
	FieldMeterCode   Field = "meter_code"
	FieldMeterName   Field = "meter_name"
	FieldNotes       Field = "notes"
	FieldReadingType Field = "reading_type"
)

// ColumnMapping assigns canonical fields to source column headers. Headers
// absent from the map are ignored. Created fresh per ingestion run; callers
// may replace the classifier's proposal wholesale.
type ColumnMapping map[string]Field

// ValidField reports whether a field name belongs to the canonical set.
func ValidField(field Field) bool {
	switch field {
	case FieldDate, FieldTime, FieldFacility, FieldMetric, FieldReading,
		FieldUnit, FieldMeterCode, FieldMeterName, FieldNotes, FieldReadingType:
		return true
	default:
		return false
	}
}

// columnFor returns the source column mapped to a field, if any.
func (m ColumnMapping) columnFor(field Field) (string, bool) {
	for column, mapped := range m {
		if mapped == field {
			return column, true
		}
	}
	return "", false
}
