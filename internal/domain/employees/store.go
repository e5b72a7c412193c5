package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sorha/internal/domain/auth"
	"sorha/internal/platform/db"
)

var ErrNotFound = errors.New("employee not found")

// BusinessError carries a user-facing message for constraint
// violations so handlers can answer 400 instead of 500.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

// Conn is the slice of pgxpool.Pool the store uses. Tests substitute a
// recording fake to check transaction boundaries.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	DB Conn
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const employeeColumns = `
    id, first_name, COALESCE(middle_name, ''), last_name,
    COALESCE(second_last_name, ''), username, COALESCE(gender, ''),
    COALESCE(age, 0), contract_id, COALESCE(position, ''),
    COALESCE(marital_status, ''), birth_date, COALESCE(birth_city, ''),
    COALESCE(department, ''), COALESCE(email, ''),
    COALESCE(internal_email, ''), COALESCE(phone, ''),
    COALESCE(address, ''), base_salary, status`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.MiddleName, &emp.LastName,
		&emp.SecondLastName, &emp.Username, &emp.Gender,
		&emp.Age, &emp.ContractID, &emp.Position,
		&emp.MaritalStatus, &emp.BirthDate, &emp.BirthCity,
		&emp.Department, &emp.Email,
		&emp.InternalEmail, &emp.Phone,
		&emp.Address, &emp.BaseSalary, &emp.Status,
	)
	return emp, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+employeeColumns+" FROM employees ORDER BY last_name, first_name, id LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) GetByUsername(ctx context.Context, username string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE username = $1", username))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

// Create inserts the employee and its login account in one
// transaction. The account starts as an active collaborator with the
// given password.
func (s *Store) Create(ctx context.Context, emp Employee, password string) (Employee, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Employee{}, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
    INSERT INTO employees (
      first_name, middle_name, last_name, second_last_name, username,
      gender, age, contract_id, position, marital_status, birth_date,
      birth_city, department, email, internal_email, phone, address,
      base_salary, status
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
    RETURNING id
  `,
		emp.FirstName, nullable(emp.MiddleName), emp.LastName, nullable(emp.SecondLastName), emp.Username,
		nullable(emp.Gender), emp.Age, emp.ContractID, nullable(emp.Position), nullable(emp.MaritalStatus), emp.BirthDate,
		nullable(emp.BirthCity), nullable(emp.Department), nullable(emp.Email), nullable(emp.InternalEmail), nullable(emp.Phone), nullable(emp.Address),
		emp.BaseSalary, emp.Status,
	).Scan(&emp.ID)
	if err != nil {
		return Employee{}, classify(err)
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO users (username, password_hash, role, active)
    VALUES ($1, $2, $3, TRUE)
  `, emp.Username, hash, auth.RoleCollaborator); err != nil {
		return Employee{}, classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// Update rewrites the employee row and keeps the login account in
// step, both inside one transaction. Nothing is durable until commit,
// so an error on the employee write leaves both rows untouched. A
// failed account sync rolls back to a savepoint and comes back as a
// warning; the employee change still commits.
func (s *Store) Update(ctx context.Context, id int, emp Employee) (Employee, string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, "", err
	}
	defer tx.Rollback(ctx)

	var oldUsername string
	err = tx.QueryRow(ctx, "SELECT username FROM employees WHERE id = $1", id).Scan(&oldUsername)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, "", ErrNotFound
	}
	if err != nil {
		return Employee{}, "", err
	}

	tag, err := tx.Exec(ctx, `
    UPDATE employees SET
      first_name = $1, middle_name = $2, last_name = $3,
      second_last_name = $4, username = $5, gender = $6, age = $7,
      contract_id = $8, position = $9, marital_status = $10,
      birth_date = $11, birth_city = $12, department = $13, email = $14,
      internal_email = $15, phone = $16, address = $17,
      base_salary = $18, status = $19
    WHERE id = $20
  `,
		emp.FirstName, nullable(emp.MiddleName), emp.LastName,
		nullable(emp.SecondLastName), emp.Username, nullable(emp.Gender), emp.Age,
		emp.ContractID, nullable(emp.Position), nullable(emp.MaritalStatus),
		emp.BirthDate, nullable(emp.BirthCity), nullable(emp.Department), nullable(emp.Email),
		nullable(emp.InternalEmail), nullable(emp.Phone), nullable(emp.Address),
		emp.BaseSalary, emp.Status, id,
	)
	if err != nil {
		return Employee{}, "", classify(err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, "", ErrNotFound
	}
	emp.ID = id

	warning := syncUser(ctx, tx, oldUsername, emp)
	if err := tx.Commit(ctx); err != nil {
		return Employee{}, "", err
	}
	return emp, warning, nil
}

// syncUser renames the login account when the employee username
// changed and deactivates it when the employee goes inactive. It runs
// in a savepoint so a failed account write cannot abort the enclosing
// transaction. A missing account is reported, not treated as a
// failure.
func syncUser(ctx context.Context, tx pgx.Tx, oldUsername string, emp Employee) string {
	const failed = "employee updated, but the linked user account could not be updated"
	active := emp.Status == StatusActive

	inner, err := tx.Begin(ctx)
	if err != nil {
		slog.Warn("employee user sync failed", "employeeId", emp.ID, "err", err)
		return failed
	}
	tag, err := inner.Exec(ctx, `
    UPDATE users SET username = $1, active = $2 WHERE username = $3
  `, emp.Username, active, oldUsername)
	if err != nil {
		_ = inner.Rollback(ctx)
		slog.Warn("employee user sync failed", "employeeId", emp.ID, "err", err)
		return failed
	}
	if err := inner.Commit(ctx); err != nil {
		slog.Warn("employee user sync failed", "employeeId", emp.ID, "err", err)
		return failed
	}
	if tag.RowsAffected() == 0 {
		return "employee updated, but no linked user account was found"
	}
	return ""
}

// Delete removes the employee and its login account in one
// transaction. The removal only becomes durable at commit; a failed
// account cleanup rolls back to a savepoint and comes back as a
// warning.
func (s *Store) Delete(ctx context.Context, id int) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var username string
	err = tx.QueryRow(ctx, "SELECT username FROM employees WHERE id = $1", id).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM employees WHERE id = $1", id); err != nil {
		return "", classify(err)
	}

	warning := removeUser(ctx, tx, id, username)
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return warning, nil
}

// removeUser deletes the collaborator account linked to a removed
// employee, inside a savepoint for the same reason as syncUser.
func removeUser(ctx context.Context, tx pgx.Tx, employeeID int, username string) string {
	const failed = "employee deleted, but the linked user account could not be removed"

	inner, err := tx.Begin(ctx)
	if err != nil {
		slog.Warn("employee user cleanup failed", "employeeId", employeeID, "err", err)
		return failed
	}
	tag, err := inner.Exec(ctx, `
    DELETE FROM users WHERE username = $1 AND role = $2
  `, username, auth.RoleCollaborator)
	if err != nil {
		_ = inner.Rollback(ctx)
		slog.Warn("employee user cleanup failed", "employeeId", employeeID, "err", err)
		return failed
	}
	if err := inner.Commit(ctx); err != nil {
		slog.Warn("employee user cleanup failed", "employeeId", employeeID, "err", err)
		return failed
	}
	if tag.RowsAffected() == 0 {
		return "employee deleted, but no linked collaborator account was found"
	}
	return ""
}

func classify(err error) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return &BusinessError{Message: "an employee or user with that username already exists"}
	case db.IsForeignKeyViolation(err):
		return &BusinessError{Message: "referenced contract does not exist"}
	case db.IsInvalidInput(err):
		return &BusinessError{Message: fmt.Sprintf("invalid value: %s", db.ErrorMessage(err))}
	default:
		return err
	}
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
