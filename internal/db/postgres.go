package db

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	newPool = pgxpool.New
	pingDB  = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

// InitPostgres opens a pool for dsn. An empty dsn disables persistence and
// returns a nil pool.
func InitPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		log.Info("DATABASE_URL not set, alert history and conversation memory disabled")
		return nil, nil
	}

	pool, err := newPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pingDB(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	log.Info("Connected to Postgres")
	return pool, nil
}
