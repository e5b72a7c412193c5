package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sorha/internal/domain/auth"
	"sorha/internal/platform/config"
)

// Seed ensures the bootstrap admin account and the default productivity
// metric catalog exist. Safe to run on every start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminUser, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureDefaultMetrics(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id int
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, password_hash, role, active)
    VALUES ($1, $2, $3, TRUE)
  `, username, hash, auth.RoleAdmin)
	return err
}

var defaultMetrics = []struct {
	Name string
	Unit string
	Desc string
}{
	{"tareas_completadas", "tareas", "Completed tasks in the reporting window"},
	{"horas_facturables", "horas", "Billable hours logged"},
	{"incidencias_resueltas", "incidencias", "Resolved support incidents"},
}

func ensureDefaultMetrics(ctx context.Context, pool *pgxpool.Pool) error {
	for _, m := range defaultMetrics {
		_, err := pool.Exec(ctx, `
      INSERT INTO productivity_metrics (name, unit, description)
      VALUES ($1, $2, $3)
      ON CONFLICT (name) DO NOTHING
    `, m.Name, m.Unit, m.Desc)
		if err != nil {
			return err
		}
	}
	return nil
}
