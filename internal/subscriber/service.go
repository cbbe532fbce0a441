package subscriber

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Service struct {
	repo           Repository
	allowedDomains []string
	logger         *zap.Logger
}

func NewService(repo Repository, allowedDomains []string, logger *zap.Logger) *Service {
	return &Service{
		repo:           repo,
		allowedDomains: allowedDomains,
		logger:         logger,
	}
}

// Subscribe registers email for the weekly export. Re-subscribing an
// existing address is a no-op.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	normalized, err := NormalizeEmail(email, s.allowedDomains)
	if err != nil {
		s.logger.Warn("rejected subscription",
			zap.Error(err),
			zap.String("email", email),
		)
		return err
	}

	if err := s.repo.Add(ctx, normalized); err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", normalized, err)
	}
	return nil
}

func (s *Service) Recipients(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}
