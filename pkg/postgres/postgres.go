package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func New(config Config, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Connect("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("could not connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("could not ping postgres: %w", err)
	}

	logger.Info("PostgreSQL connected",
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Int("max_idle_conns", config.MaxIdleConns),
		zap.Duration("conn_max_lifetime", config.ConnMaxLifetime),
	)

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// NewWithDB wraps an existing connection, typically a test double.
func NewWithDB(db *sqlx.DB, logger *zap.Logger) *DB {
	return &DB{
		DB:     db,
		logger: logger,
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		ts           TIMESTAMPTZ NOT NULL,
		email        TEXT NOT NULL,
		team         TEXT NOT NULL DEFAULT '',
		complaint_id TEXT NOT NULL DEFAULT '',
		source       TEXT NOT NULL DEFAULT '',
		section      TEXT NOT NULL DEFAULT '',
		reason       TEXT NOT NULL,
		active_ms    BIGINT NOT NULL DEFAULT 0,
		idle_ms      BIGINT NOT NULL DEFAULT 0,
		page         TEXT NOT NULL DEFAULT '',
		session_id   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_complaint_ts ON events (complaint_id, ts)`,
	`CREATE TABLE IF NOT EXISTS subscribers (
		email      TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the event and subscriber tables when missing. The
// store stays a single flat event table; aggregates are computed on read.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not apply schema: %w", err)
		}
	}
	db.logger.Info("schema ensured")
	return nil
}

func (db *DB) Close() error {
	err := db.DB.Close()
	if err != nil {
		db.logger.Error("could not close database", zap.Error(err))
		return fmt.Errorf("could not close postgres connection: %w", err)
	}
	db.logger.Info("postgres connection closed")
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
