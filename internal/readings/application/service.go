package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greenmetrics/internal/catalog"
	ingestion "greenmetrics/internal/ingestion/domain"
	readings "greenmetrics/internal/readings/domain"
)

// ErrInvalidEntry wraps validation failures for manually entered readings.
var ErrInvalidEntry = errors.New("readings: invalid entry")

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualEntry is a single reading keyed in by an operator.
type ManualEntry struct {
	ReadingDate string  `json:"reading_date"`
	Facility    string  `json:"facility"`
	MeterCode   string  `json:"meter_code"`
	MeterName   string  `json:"meter_name"`
	MetricName  string  `json:"metric_name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes,omitempty"`
}

// ReadingService handles reading use cases outside the import pipeline.
type ReadingService struct {
	repo  readings.Repository
	cat   *catalog.Catalog
	clock Clock
}

// NewReadingService constructs the service.
func NewReadingService(repo readings.Repository, cat *catalog.Catalog, clock Clock) (*ReadingService, error) {
	if repo == nil {
		return nil, errors.New("reading service: nil repository")
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReadingService{repo: repo, cat: cat, clock: clock}, nil
}

// CommitRecords persists records accepted by an import run and returns the
// stored readings.
func (s *ReadingService) CommitRecords(ctx context.Context, records []ingestion.Record) ([]readings.Reading, error) {
	if len(records) == 0 {
		return nil, nil
	}
	now := s.clock.Now()
	batch := make([]readings.Reading, 0, len(records))
	for _, record := range records {
		batch = append(batch, readings.NewReading(record, now))
	}
	if err := s.repo.InsertBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// CreateManual validates and stores a single operator-entered reading.
func (s *ReadingService) CreateManual(ctx context.Context, entry ManualEntry) (readings.Reading, error) {
	if err := s.validateEntry(entry); err != nil {
		return readings.Reading{}, err
	}
	date, err := ingestion.NormalizeDate(entry.ReadingDate)
	if err != nil {
		return readings.Reading{}, fmt.Errorf("%w: reading_date: %v", ErrInvalidEntry, err)
	}

	record := ingestion.Record{
		ReadingDate: date,
		Facility:    entry.Facility,
		MeterCode:   entry.MeterCode,
		MeterName:   entry.MeterName,
		MetricName:  entry.MetricName,
		Value:       entry.Value,
		Unit:        entry.Unit,
		ReadingType: "manual",
		Notes:       entry.Notes,
	}
	if record.Unit == "" {
		if unit, ok := s.cat.ExpectedUnit(record.MetricName); ok {
			record.Unit = unit
		}
	}
	if record.MeterCode == "" {
		record.MeterCode = s.cat.DefaultMeterCode(record.MetricName)
	}
	if record.MeterName == "" {
		record.MeterName = fmt.Sprintf("%s %s Meter", record.Facility, s.cat.MetricLabel(record.MetricName))
	}

	reading := readings.NewReading(record, s.clock.Now())
	if err := s.repo.InsertBatch(ctx, []readings.Reading{reading}); err != nil {
		return readings.Reading{}, err
	}
	return reading, nil
}

// List returns readings matching the filter.
func (s *ReadingService) List(ctx context.Context, filter readings.ListFilter) ([]readings.Reading, error) {
	return s.repo.List(ctx, filter)
}

// Recent returns the latest readings by creation time.
func (s *ReadingService) Recent(ctx context.Context, limit int) ([]readings.Reading, error) {
	return s.repo.Recent(ctx, limit)
}

// Delete removes one reading.
func (s *ReadingService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *ReadingService) validateEntry(entry ManualEntry) error {
	if _, err := ingestion.NormalizeDate(entry.ReadingDate); err != nil {
		return fmt.Errorf("%w: reading_date: %v", ErrInvalidEntry, err)
	}
	if !s.cat.ValidFacility(entry.Facility) {
		return fmt.Errorf("%w: unknown facility %q", ErrInvalidEntry, entry.Facility)
	}
	if !s.cat.ValidMetric(entry.MetricName) {
		return fmt.Errorf("%w: unknown metric %q", ErrInvalidEntry, entry.MetricName)
	}
	if entry.Unit != "" && !s.cat.ValidUnit(entry.Unit) {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidEntry, entry.Unit)
	}
	if entry.Value <= 0 {
		return fmt.Errorf("%w: value must be positive, got %g", ErrInvalidEntry, entry.Value)
	}
	return nil
}
