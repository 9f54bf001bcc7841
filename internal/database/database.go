package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Pool limits match the request volume of a single-admin event site.
const (
	maxOpenConns    = 10
	connMaxIdleTime = 30 * time.Second

	slowQueryThreshold = 100 * time.Millisecond
)

type DB struct {
	*sql.DB
}

func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	// The database container may still be starting; retry the first ping
	// with a fibonacci backoff before giving up.
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		if pingErr := db.PingContext(ctx); pingErr != nil {
			log.Warn().Err(pingErr).Msg("database not reachable yet, retrying")
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// exec runs a statement and flags it when it crosses the slow-query
// threshold.
func (db *DB) exec(query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := db.DB.Exec(query, args...)
	logSlow(start, query)
	return res, err
}

func (db *DB) query(query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.DB.Query(query, args...)
	logSlow(start, query)
	return rows, err
}

func (db *DB) queryRow(query string, args ...any) *sql.Row {
	start := time.Now()
	row := db.DB.QueryRow(query, args...)
	logSlow(start, query)
	return row
}

func logSlow(start time.Time, query string) {
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		log.Warn().Dur("elapsed", elapsed).Str("query", query).Msg("slow query")
	}
}
