package productivity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sorha/internal/platform/db"
)

var (
	ErrNoValidItems    = errors.New("no valid productivity items")
	ErrUnknownEmployee = errors.New("employee does not exist")
)

type Metric struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

type Record struct {
	ID         int       `json:"id"`
	EmployeeID int       `json:"employeeId"`
	MetricID   int       `json:"metricId"`
	MetricName string    `json:"metricName,omitempty"`
	RecordedOn time.Time `json:"recordedOn"`
	Value      float64   `json:"value"`
}

// Item is one metric value submitted in a batch registration.
type Item struct {
	MetricID int     `json:"metricId"`
	Value    float64 `json:"value"`
}

// ValidItems filters a batch submission, dropping items with a missing
// metric or negative value. The second result counts what was dropped.
func ValidItems(items []Item) ([]Item, int) {
	var valid []Item
	for _, item := range items {
		if item.MetricID <= 0 || item.Value < 0 {
			continue
		}
		valid = append(valid, item)
	}
	return valid, len(items) - len(valid)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) ListMetrics(ctx context.Context) ([]Metric, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(unit, ''), COALESCE(description, '')
    FROM productivity_metrics
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Metric
	for rows.Next() {
		var m Metric
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.Description); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) RecordsForEmployee(ctx context.Context, employeeID int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.employee_id, r.metric_id, m.name, r.recorded_on, r.value
    FROM productivity_records r
    JOIN productivity_metrics m ON m.id = r.metric_id
    WHERE r.employee_id = $1
    ORDER BY r.recorded_on DESC, r.id DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.MetricID, &rec.MetricName, &rec.RecordedOn, &rec.Value); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RegisterBatch stores the valid items of a submission for one employee
// and date in a single transaction. Invalid items are skipped; an
// all-invalid batch is rejected before touching the database.
func (s *Store) RegisterBatch(ctx context.Context, employeeID int, recordedOn time.Time, items []Item) (stored, skipped int, err error) {
	valid, skipped := ValidItems(items)
	if len(valid) == 0 {
		return 0, skipped, ErrNoValidItems
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, skipped, err
	}
	defer tx.Rollback(ctx)

	for _, item := range valid {
		if _, err := tx.Exec(ctx, `
      INSERT INTO productivity_records (employee_id, metric_id, recorded_on, value)
      VALUES ($1, $2, $3, $4)
    `, employeeID, item.MetricID, recordedOn, item.Value); err != nil {
			if db.IsForeignKeyViolation(err) {
				return 0, skipped, ErrUnknownEmployee
			}
			return 0, skipped, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, skipped, err
	}
	return len(valid), skipped, nil
}
