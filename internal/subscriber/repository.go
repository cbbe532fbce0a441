package subscriber

import (
	"context"
	"fmt"

	"github.com/medwatch/worktime-analytics/pkg/postgres"
	"go.uber.org/zap"
)

type Repository interface {
	Add(ctx context.Context, email string) error
	List(ctx context.Context) ([]string, error)
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

func (r *repository) Add(ctx context.Context, email string) error {
	query := `
		INSERT INTO subscribers (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		r.logger.Error("Failed to add subscriber", zap.Error(err))
		return fmt.Errorf("failed to add subscriber: %w", err)
	}

	r.logger.Info("Subscriber added", zap.String("email", email))
	return nil
}

func (r *repository) List(ctx context.Context) ([]string, error) {
	emails := []string{}
	if err := r.db.SelectContext(ctx, &emails, `SELECT email FROM subscribers ORDER BY email`); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return emails, nil
}
