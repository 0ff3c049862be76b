package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/nikhil8615/movie-booking/internal/config"
)

// NewConnection opens a pooled connection to PostgreSQL.
func NewConnection(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	return Open(cfg.DSN(), cfg.MaxOpenConns, cfg.MaxIdleConns)
}

// Open connects with an explicit DSN, used by integration tests.
func Open(dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	return db, nil
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}
