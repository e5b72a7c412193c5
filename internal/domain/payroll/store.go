package payroll

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one row of an employee's payment history.
type Entry struct {
	ID          int       `json:"id"`
	EmployeeID  int       `json:"employeeId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	PayKind     string    `json:"payKind"`
	BaseSalary  float64   `json:"baseSalary"`
	OvertimePay float64   `json:"overtimePay"`
	Bonuses     float64   `json:"bonuses"`
	Deductions  float64   `json:"deductions"`
	TotalPaid   float64   `json:"totalPaid"`
	PaidAt      time.Time `json:"paidAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ActiveEmployeeIDs(ctx context.Context) ([]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id
    FROM employees
    WHERE status = 'active'
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GeneratePeriodPayment runs the payment procedure for one employee and
// period. All validation, calculation and persistence happens inside the
// procedure; the returned text is its verdict.
func (s *Store) GeneratePeriodPayment(ctx context.Context, employeeID int, period Period) (string, error) {
	var result string
	err := s.DB.QueryRow(ctx,
		"SELECT sp_generar_pago_periodo($1, $2, $3)",
		employeeID, period.Start, period.End,
	).Scan(&result)
	if err != nil {
		return "", err
	}
	return result, nil
}

// History lists an employee's payroll entries, newest first. A zero
// month or year means no filter on that part.
func (s *Store) History(ctx context.Context, employeeID int, month, year int) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, start_date, end_date, pay_kind,
           base_salary, overtime_pay, bonuses, deductions, total_paid, paid_at
    FROM payroll_entries
    WHERE employee_id = $1
      AND ($2 = 0 OR EXTRACT(MONTH FROM start_date) = $2)
      AND ($3 = 0 OR EXTRACT(YEAR FROM start_date) = $3)
    ORDER BY start_date DESC, id DESC
  `, employeeID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.StartDate, &e.EndDate, &e.PayKind,
			&e.BaseSalary, &e.OvertimePay, &e.Bonuses, &e.Deductions, &e.TotalPaid, &e.PaidAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
