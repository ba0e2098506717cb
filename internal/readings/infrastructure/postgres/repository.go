package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	readings "greenmetrics/internal/readings/domain"
)

const defaultReadingTable = "metric_readings"

// ReadingRepository is a Postgres implementation of the readings repository.
type ReadingRepository struct {
	db    *sql.DB
	table string
}

// NewReadingRepository creates a repository using the default table name.
func NewReadingRepository(db *sql.DB, opts ...RepositoryOption) *ReadingRepository {
	repo := &ReadingRepository{db: db, table: defaultReadingTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// RepositoryOption configures the repository.
type RepositoryOption func(*ReadingRepository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(repo *ReadingRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

const readingColumns = "id, reading_date, facility, meter_code, meter_name, " +
	"metric_name, value, unit, reading_type, source_file, notes, created_at, updated_at"

// InsertBatch writes readings in one transaction: a commit either lands every
// accepted record or none of them.
func (r *ReadingRepository) InsertBatch(ctx context.Context, batch []readings.Reading) error {
	if len(batch) == 0 {
		return nil
	}
	for _, reading := range batch {
		if err := reading.Validate(); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)",
		r.table, readingColumns)
	for _, reading := range batch {
		_, err := tx.ExecContext(ctx, query,
			reading.ID,
			reading.ReadingDate,
			reading.Facility,
			reading.MeterCode,
			reading.MeterName,
			reading.MetricName,
			reading.Value,
			reading.Unit,
			reading.ReadingType,
			nullable(reading.SourceFile),
			nullable(reading.Notes),
			reading.CreatedAt,
			reading.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns readings matching the filter ordered by reading date.
func (r *ReadingRepository) List(ctx context.Context, filter readings.ListFilter) ([]readings.Reading, error) {
	var conditions []string
	var args []any
	add := func(clause string, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}
	add("facility = $%d", filter.Facility)
	add("metric_name = $%d", filter.MetricName)
	add("reading_date >= $%d", filter.From)
	add("reading_date <= $%d", filter.To)

	query := fmt.Sprintf("SELECT %s FROM %s", readingColumns, r.table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY reading_date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReadings(rows)
}

// Recent returns the latest entries by creation time.
func (r *ReadingRepository) Recent(ctx context.Context, limit int) ([]readings.Reading, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC LIMIT %s`,
		readingColumns, r.table, strconv.Itoa(limit))
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReadings(rows)
}

// Delete removes one reading by id.
func (r *ReadingRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("reading repo: empty id")
	}
	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return readings.ErrNotFound
	}
	return nil
}

// Aggregate summarizes readings for a facility and metric between two dates
// (inclusive).
func (r *ReadingRepository) Aggregate(ctx context.Context, facility, metric, from, to string) (readings.Aggregate, error) {
	query := fmt.Sprintf(`
SELECT
	COALESCE(SUM(value), 0),
	COALESCE(MAX(value), 0),
	COALESCE(AVG(value), 0),
	COUNT(*)
FROM %s
WHERE facility = $1
	AND metric_name = $2
	AND reading_date >= $3
	AND reading_date <= $4`, r.table)

	var agg readings.Aggregate
	row := r.db.QueryRowContext(ctx, query, facility, metric, from, to)
	if err := row.Scan(&agg.Total, &agg.Peak, &agg.Average, &agg.Count); err != nil {
		return readings.Aggregate{}, err
	}
	return agg, nil
}

func scanReadings(rows *sql.Rows) ([]readings.Reading, error) {
	var result []readings.Reading
	for rows.Next() {
		var (
			reading    readings.Reading
			sourceFile sql.NullString
			notes      sql.NullString
			createdAt  time.Time
			updatedAt  time.Time
		)
		if err := rows.Scan(
			&reading.ID,
			&reading.ReadingDate,
			&reading.Facility,
			&reading.MeterCode,
			&reading.MeterName,
			&reading.MetricName,
			&reading.Value,
			&reading.Unit,
			&reading.ReadingType,
			&sourceFile,
			&notes,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, err
		}
		reading.SourceFile = sourceFile.String
		reading.Notes = notes.String
		reading.CreatedAt = createdAt
		reading.UpdatedAt = updatedAt
		result = append(result, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
