package productivity

import (
	"context"
	"time"
)

// ReportRow joins a productivity record with its employee and metric
// for the reporting endpoint.
type ReportRow struct {
	EmployeeID   int       `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	MetricName   string    `json:"metricName"`
	Unit         string    `json:"unit,omitempty"`
	RecordedOn   time.Time `json:"recordedOn"`
	Value        float64   `json:"value"`
}

// ReportWindowDays is how far a report reaches past its start date.
const ReportWindowDays = 30

// Report lists records for the reporting view. employeeID 0 means all
// employees. A non-zero start bounds the window to 30 days from start;
// a zero start means no date filter.
func (s *Store) Report(ctx context.Context, employeeID int, start time.Time) ([]ReportRow, error) {
	var from, to any
	if !start.IsZero() {
		from = start
		to = start.AddDate(0, 0, ReportWindowDays)
	}

	rows, err := s.DB.Query(ctx, `
    SELECT r.employee_id,
           TRIM(e.first_name || ' ' || e.last_name),
           m.name, COALESCE(m.unit, ''), r.recorded_on, r.value
    FROM productivity_records r
    JOIN employees e ON e.id = r.employee_id
    JOIN productivity_metrics m ON m.id = r.metric_id
    WHERE ($1 = 0 OR r.employee_id = $1)
      AND ($2::date IS NULL OR r.recorded_on >= $2)
      AND ($3::date IS NULL OR r.recorded_on < $3)
    ORDER BY r.recorded_on DESC, r.employee_id, m.name
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.MetricName, &row.Unit, &row.RecordedOn, &row.Value); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
