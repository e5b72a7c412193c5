package contracts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sorha/internal/platform/db"
)

var (
	ErrNotFound  = errors.New("contract not found")
	ErrNameTaken = errors.New("contract name already exists")
	ErrInUse     = errors.New("contract is assigned to employees")
)

type Contract struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) List(ctx context.Context) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, '')
    FROM contracts
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int) (Contract, error) {
	var c Contract
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(description, '')
    FROM contracts
    WHERE id = $1
  `, id).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Create(ctx context.Context, name, description string) (Contract, error) {
	var c Contract
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contracts (name, description)
    VALUES ($1, NULLIF($2, ''))
    RETURNING id, name, COALESCE(description, '')
  `, name, description).Scan(&c.ID, &c.Name, &c.Description)
	if db.IsUniqueViolation(err, "") {
		return Contract{}, ErrNameTaken
	}
	return c, err
}

func (s *Store) Update(ctx context.Context, id int, name, description string) (Contract, error) {
	var c Contract
	err := s.DB.QueryRow(ctx, `
    UPDATE contracts SET name = $1, description = NULLIF($2, '')
    WHERE id = $3
    RETURNING id, name, COALESCE(description, '')
  `, name, description, id).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrNotFound
	}
	if db.IsUniqueViolation(err, "") {
		return Contract{}, ErrNameTaken
	}
	return c, err
}

func (s *Store) Delete(ctx context.Context, id int) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM contracts WHERE id = $1", id)
	if db.IsForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
