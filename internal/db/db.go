package db

import (
	"context"
	"time"

	"contentadmin/internal/config"
	"contentadmin/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresConnection открывает пул и готовит таблицу черновиков.
func NewPostgresConnection(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDSN())
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if err := repository.EnsureDraftSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
