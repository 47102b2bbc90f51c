package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/mcdev12/puckdraft/go/internal/dbconfig"
)

// setupDatabases opens both connection stacks: pgx for the domain
// repositories and database/sql (lib/pq) for the outbox listener, which needs
// the same driver family as its LISTEN socket.
func setupDatabases(ctx context.Context, cfg dbconfig.Config) (*pgxpool.Pool, *sql.DB, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to open database/sql connection: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		pool.Close()
		_ = database.Close()
		return nil, nil, fmt.Errorf("failed to ping database/sql connection: %w", err)
	}

	return pool, database, nil
}
