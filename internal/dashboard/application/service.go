package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"greenmetrics/internal/catalog"
	readings "greenmetrics/internal/readings/domain"
)

// Window is a trend comparison period.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ErrUnknownWindow indicates an unsupported trend window.
var ErrUnknownWindow = errors.New("dashboard: unknown window")

func windowDays(window Window) (int, error) {
	switch window {
	case WindowDay:
		return 1, nil
	case WindowWeek:
		return 7, nil
	case WindowMonth:
		return 30, nil
	default:
		return 0, ErrUnknownWindow
	}
}

// TrendCard compares the current period against the one before it for a
// single metric.
type TrendCard struct {
	MetricName    string  `json:"metric_name"`
	Unit          string  `json:"unit"`
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	ChangePercent float64 `json:"change_percent"`
	Peak          float64 `json:"peak"`
	Average       float64 `json:"average"`
	Count         int     `json:"count"`
}

// Point is one day of a chart series.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DashboardService computes trend summaries and chart series from stored
// readings.
type DashboardService struct {
	repo  readings.Repository
	cat   *catalog.Catalog
	clock Clock
}

// NewDashboardService constructs the service.
func NewDashboardService(repo readings.Repository, cat *catalog.Catalog, clock Clock) (*DashboardService, error) {
	if repo == nil {
		return nil, errors.New("dashboard service: nil repository")
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &DashboardService{repo: repo, cat: cat, clock: clock}, nil
}

// Summary returns one trend card per catalog metric for a facility.
func (s *DashboardService) Summary(ctx context.Context, facility string, window Window) ([]TrendCard, error) {
	days, err := windowDays(window)
	if err != nil {
		return nil, err
	}

	today := s.clock.Now().UTC().Truncate(24 * time.Hour)
	currentFrom := today.AddDate(0, 0, -(days - 1))
	previousTo := currentFrom.AddDate(0, 0, -1)
	previousFrom := previousTo.AddDate(0, 0, -(days - 1))

	cards := make([]TrendCard, 0, len(s.cat.Metrics()))
	for _, metric := range s.cat.Metrics() {
		current, err := s.repo.Aggregate(ctx, facility, metric, dateKey(currentFrom), dateKey(today))
		if err != nil {
			return nil, err
		}
		previous, err := s.repo.Aggregate(ctx, facility, metric, dateKey(previousFrom), dateKey(previousTo))
		if err != nil {
			return nil, err
		}
		unit, _ := s.cat.ExpectedUnit(metric)
		cards = append(cards, TrendCard{
			MetricName:    metric,
			Unit:          unit,
			Current:       current.Total,
			Previous:      previous.Total,
			ChangePercent: changePercent(current.Total, previous.Total),
			Peak:          current.Peak,
			Average:       current.Average,
			Count:         current.Count,
		})
	}
	return cards, nil
}

// Series returns daily totals for one metric at one facility, ordered by date.
func (s *DashboardService) Series(ctx context.Context, facility, metric, from, to string) ([]Point, error) {
	list, err := s.repo.List(ctx, readings.ListFilter{
		Facility:   facility,
		MetricName: metric,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, reading := range list {
		totals[reading.ReadingDate] += reading.Value
	}
	points := make([]Point, 0, len(totals))
	for date, value := range totals {
		points = append(points, Point{Date: date, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func changePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
