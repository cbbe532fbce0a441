package event

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medwatch/worktime-analytics/pkg/postgres"
	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, event *Event) error
	ListAll(ctx context.Context) ([]Event, error)
	ListByComplaint(ctx context.Context, complaintID string) ([]Event, error)
	ClearAll(ctx context.Context) (int64, error)
	DrainAll(ctx context.Context, fn func(events []Event) error) error
}

type repository struct {
	db     *postgres.DB
	logger *zap.Logger
}

func NewRepository(db *postgres.DB, logger *zap.Logger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

const eventColumns = `ts, email, team, complaint_id, source, section, reason, active_ms, idle_ms, page, session_id`

func (r *repository) Insert(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (ts, email, team, complaint_id, source, section, reason, active_ms, idle_ms, page, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		event.TS,
		event.Email,
		event.Team,
		event.ComplaintID,
		event.Source,
		event.Section,
		event.Reason,
		event.ActiveMS,
		event.IdleMS,
		event.Page,
		event.SessionID,
	)
	if err != nil {
		r.logger.Error("Failed to insert event", zap.Error(err))
		return fmt.Errorf("failed to insert event: %w", err)
	}

	r.logger.Debug("Event inserted",
		zap.String("session_id", event.SessionID),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("reason", event.Reason),
	)

	return nil
}

func (r *repository) ListAll(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY ts ASC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

func (r *repository) ListByComplaint(ctx context.Context, complaintID string) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE complaint_id = $1 ORDER BY ts ASC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, complaintID); err != nil {
		return nil, fmt.Errorf("failed to list complaint events: %w", err)
	}

	return events, nil
}

func (r *repository) ClearAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events`)
	if err != nil {
		r.logger.Error("Failed to clear events", zap.Error(err))
		return 0, fmt.Errorf("failed to clear events: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Info("Events cleared", zap.Int64("rows", rows))
	return rows, nil
}

// DrainAll runs fn over a snapshot of all events and deletes them in the
// same transaction. Repeatable read keeps the delete on the snapshot: when
// fn fails nothing is deleted, and events inserted after the snapshot read
// survive either way.
func (r *repository) DrainAll(ctx context.Context, fn func(events []Event) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	events := []Event{}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY ts ASC`
	if err := tx.SelectContext(ctx, &events, query); err != nil {
		return fmt.Errorf("failed to read events for drain: %w", err)
	}

	if err := fn(events); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to delete drained events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit drain: %w", err)
	}

	r.logger.Info("Events drained", zap.Int("count", len(events)))
	return nil
}
