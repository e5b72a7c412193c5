package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sorha/internal/domain/auth"
	"sorha/internal/platform/db"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrUnknownRole    = errors.New("unknown role")
	ErrSelfRoleChange = errors.New("cannot change your own role")
	ErrSelfDeactivate = errors.New("cannot deactivate your own account")
	ErrSelfDelete     = errors.New("cannot delete your own account")
)

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conn is the slice of pgxpool.Pool the store uses. Tests substitute a
// recording fake.
type Conn interface {
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

func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, username, role, active, created_at
    FROM users
    ORDER BY username
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, role, active, created_at
    FROM users
    WHERE id = $1
  `, id).Scan(&u.ID, &u.Username, &u.Role, &u.Active, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) Create(ctx context.Context, username, password, role string) (User, error) {
	if !auth.ValidRole(role) {
		return User{}, ErrUnknownRole
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	var u User
	err = s.DB.QueryRow(ctx, `
    INSERT INTO users (username, password_hash, role, active)
    VALUES ($1, $2, $3, TRUE)
    RETURNING id, username, role, active, created_at
  `, username, hash, role).Scan(&u.ID, &u.Username, &u.Role, &u.Active, &u.CreatedAt)
	if db.IsUniqueViolation(err, "") {
		return User{}, ErrUsernameTaken
	}
	return u, err
}

// Update changes role, active flag and optionally the password, in a
// single statement so one change cannot stick without the other.
// CheckSelfProtection must pass before this is called for the caller's
// own row.
func (s *Store) Update(ctx context.Context, id int, role string, active bool, password string) (User, error) {
	if !auth.ValidRole(role) {
		return User{}, ErrUnknownRole
	}

	var hash string
	if password != "" {
		h, err := auth.HashPassword(password)
		if err != nil {
			return User{}, err
		}
		hash = h
	}

	var u User
	err := s.DB.QueryRow(ctx, `
    UPDATE users SET
      role = $1, active = $2,
      password_hash = COALESCE(NULLIF($3, ''), password_hash)
    WHERE id = $4
    RETURNING id, username, role, active, created_at
  `, role, active, hash, id).Scan(&u.ID, &u.Username, &u.Role, &u.Active, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) Delete(ctx context.Context, id int) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckSelfProtection blocks an administrator from locking themselves
// out: no role change, deactivation or deletion on their own account.
func CheckSelfProtection(callerID, targetID int, currentRole, newRole string, newActive, deleting bool) error {
	if callerID != targetID {
		return nil
	}
	if deleting {
		return ErrSelfDelete
	}
	if !newActive {
		return ErrSelfDeactivate
	}
	if newRole != currentRole {
		return ErrSelfRoleChange
	}
	return nil
}
