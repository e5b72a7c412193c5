package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSessionNotFound = errors.New("auth: session not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type AuthUser struct {
	ID           int
	Username     string
	Role         string
	PasswordHash string
}

// SessionUser is the identity carried by a session for the lifetime of a
// login; it is read-only outside the auth handlers.
type SessionUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Store) FindActiveUser(ctx context.Context, username string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, role, password_hash
    FROM users
    WHERE username = $1 AND active = TRUE
  `, username).Scan(&out.ID, &out.Username, &out.Role, &out.PasswordHash)
	return out, err
}

func (s *Store) CreateSession(ctx context.Context, user SessionUser, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (token_hash, user_id, username, role, expires_at)
    VALUES ($1, $2, $3, $4, $5)
  `, tokenHash, user.ID, user.Username, user.Role, expires)
	return err
}

func (s *Store) LookupSession(ctx context.Context, tokenHash string) (SessionUser, error) {
	var out SessionUser
	err := s.DB.QueryRow(ctx, `
    SELECT user_id, username, role
    FROM sessions
    WHERE token_hash = $1 AND expires_at > now() AND revoked_at IS NULL
  `, tokenHash).Scan(&out.ID, &out.Username, &out.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionUser{}, ErrSessionNotFound
		}
		return SessionUser{}, err
	}
	return out, nil
}

func (s *Store) RevokeSession(ctx context.Context, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE token_hash = $1", tokenHash)
	return err
}
