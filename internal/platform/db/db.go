package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sorha/internal/platform/config"
)

// Connect opens a bounded connection pool. All request handlers share the
// pool and check connections out per query, so one slow batch run cannot
// monopolize the only handle.
func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	return pgxpool.NewWithConfig(ctx, poolCfg)
}
