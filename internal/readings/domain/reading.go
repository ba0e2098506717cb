package readings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	ingestion "greenmetrics/internal/ingestion/domain"
)

// Reading is a persisted utility-meter reading.
type Reading struct {
	ID          string
	ReadingDate string
	Facility    string
	MeterCode   string
	MeterName   string
	MetricName  string
	Value       float64
	Unit        string
	ReadingType string
	SourceFile  string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewReading wraps a canonical record for persistence.
func NewReading(record ingestion.Record, now time.Time) Reading {
	return Reading{
		ID:          uuid.NewString(),
		ReadingDate: record.ReadingDate,
		Facility:    record.Facility,
		MeterCode:   record.MeterCode,
		MeterName:   record.MeterName,
		MetricName:  record.MetricName,
		Value:       record.Value,
		Unit:        record.Unit,
		ReadingType: record.ReadingType,
		SourceFile:  record.SourceFile,
		Notes:       record.Notes,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
}

// Validate checks reading invariants before persistence.
func (r Reading) Validate() error {
	if r.ID == "" {
		return errors.New("reading: empty id")
	}
	if r.ReadingDate == "" {
		return errors.New("reading: empty reading date")
	}
	if r.Facility == "" {
		return errors.New("reading: empty facility")
	}
	if r.MetricName == "" {
		return errors.New("reading: empty metric name")
	}
	if r.Value <= 0 {
		return errors.New("reading: non-positive value")
	}
	return nil
}

// ErrNotFound indicates a missing reading record.
var ErrNotFound = errors.New("reading: not found")

// ListFilter narrows a reading query. Zero-value fields match everything.
type ListFilter struct {
	Facility   string
	MetricName string
	From       string
	To         string
}

// Aggregate summarizes readings over a period.
type Aggregate struct {
	Total   float64
	Peak    float64
	Average float64
	Count   int
}

// Repository persists and queries readings.
type Repository interface {
	InsertBatch(ctx context.Context, batch []Reading) error
	List(ctx context.Context, filter ListFilter) ([]Reading, error)
	Recent(ctx context.Context, limit int) ([]Reading, error)
	Delete(ctx context.Context, id string) error
	Aggregate(ctx context.Context, facility, metric, from, to string) (Aggregate, error)
}
