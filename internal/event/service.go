package event

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Publisher mirrors accepted events to a broker for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

type Service struct {
	repo      Repository
	publisher Publisher
	logger    *zap.Logger
}

// NewService builds the ingest service. publisher may be nil when no broker
// is configured.
func NewService(repo Repository, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest validates, normalizes and stores one timer event, then mirrors it
// to the broker. A publish failure is logged but never fails the ingest.
func (s *Service) Ingest(ctx context.Context, event *Event) error {
	if err := event.Validate(); err != nil {
		s.logger.Warn("rejected event",
			zap.Error(err),
			zap.String("session_id", event.SessionID),
			zap.String("complaint_id", event.ComplaintID),
		)
		return fmt.Errorf("invalid event: %w", err)
	}

	event.Normalize()

	if err := s.repo.Insert(ctx, event); err != nil {
		s.logger.Error("failed to store event",
			zap.Error(err),
			zap.String("session_id", event.SessionID),
		)
		return fmt.Errorf("failed to store event: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event.SessionID, event); err != nil {
			s.logger.Error("failed to publish event",
				zap.Error(err),
				zap.String("session_id", event.SessionID),
			)
		}
	}

	s.logger.Debug("Event ingested",
		zap.String("session_id", event.SessionID),
		zap.String("email", event.Email),
		zap.String("reason", event.Reason),
		zap.Int64("active_ms", event.ActiveMS),
	)

	return nil
}
