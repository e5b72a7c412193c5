package overtime

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sorha/internal/platform/db"
)

// Overtime kinds carry different pay multipliers inside the payment
// procedure.
const (
	KindNormal  = "normal"
	KindDouble  = "double"
	KindHoliday = "holiday"
)

var Kinds = []string{KindNormal, KindDouble, KindHoliday}

var ErrUnknownEmployee = errors.New("employee does not exist")

type Entry struct {
	ID         int       `json:"id"`
	EmployeeID int       `json:"employeeId"`
	EntryDate  time.Time `json:"entryDate"`
	Hours      float64   `json:"hours"`
	Kind       string    `json:"kind"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

// ListForEmployee returns entries for one employee, optionally bounded
// by an inclusive date range. Zero times mean no bound.
func (s *Store) ListForEmployee(ctx context.Context, employeeID int, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, entry_date, hours, kind
    FROM overtime_entries
    WHERE employee_id = $1
      AND ($2::date IS NULL OR entry_date >= $2)
      AND ($3::date IS NULL OR entry_date <= $3)
    ORDER BY entry_date DESC, id DESC
  `, employeeID, nullableDate(from), nullableDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.EntryDate, &e.Hours, &e.Kind); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, entry Entry) (Entry, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO overtime_entries (employee_id, entry_date, hours, kind)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, entry.EmployeeID, entry.EntryDate, entry.Hours, entry.Kind).Scan(&entry.ID)
	if db.IsForeignKeyViolation(err) {
		return Entry{}, ErrUnknownEmployee
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func nullableDate(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value
}
