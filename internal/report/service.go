package report

import (
	"context"
	"fmt"
	"time"

	"github.com/medwatch/worktime-analytics/internal/aggregate"
	"github.com/medwatch/worktime-analytics/internal/event"
	"go.uber.org/zap"
)

// EventStore is the read side of the event repository.
type EventStore interface {
	ListAll(ctx context.Context) ([]event.Event, error)
	ListByComplaint(ctx context.Context, complaintID string) ([]event.Event, error)
}

// Service serves the derived reporting views. Each call loads a snapshot of
// the log and applies the pure aggregation core; nothing derived is stored.
type Service struct {
	store  EventStore
	loc    *time.Location
	logger *zap.Logger
}

func NewService(store EventStore, loc *time.Location, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		loc:    loc,
		logger: logger,
	}
}

// Sessions returns the session ledger, most recent first. Sessions tied to
// a complaint id that fails the display rule are hidden; sessions with no
// complaint stay visible.
func (s *Service) Sessions(ctx context.Context) ([]aggregate.Session, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load events for sessions", zap.Error(err))
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	sessions := aggregate.BuildSessions(events)

	out := make([]aggregate.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.ComplaintID != "" && !aggregate.DisplayableComplaintID(session.ComplaintID) {
			continue
		}
		out = append(out, session)
	}

	s.logger.Debug("Sessions built",
		zap.Int("events", len(events)),
		zap.Int("sessions", len(out)),
	)
	return out, nil
}

// SessionsBySection returns active time per (user, complaint, section)
// slice. Rows with a complaint id failing the display rule are hidden;
// rows with no complaint stay visible, same as Sessions.
func (s *Service) SessionsBySection(ctx context.Context) ([]aggregate.SectionTotal, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load events for section totals", zap.Error(err))
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	totals := aggregate.SectionTotals(events)

	out := make([]aggregate.SectionTotal, 0, len(totals))
	for _, total := range totals {
		if total.ComplaintID != "" && !aggregate.DisplayableComplaintID(total.ComplaintID) {
			continue
		}
		out = append(out, total)
	}
	return out, nil
}

// ComplaintBlocks collapses one complaint's stream into labeled time blocks.
func (s *Service) ComplaintBlocks(ctx context.Context, complaintID string) ([]aggregate.Block, error) {
	if !aggregate.DisplayableComplaintID(complaintID) {
		return nil, ErrComplaintNotDisplayable
	}

	events, err := s.store.ListByComplaint(ctx, complaintID)
	if err != nil {
		s.logger.Error("failed to load complaint events",
			zap.Error(err),
			zap.String("complaint_id", complaintID),
		)
		return nil, fmt.Errorf("failed to load complaint events: %w", err)
	}

	return aggregate.CollapseBlocks(events), nil
}

// ComplaintEvents returns one complaint's raw stream, oldest first.
func (s *Service) ComplaintEvents(ctx context.Context, complaintID string) ([]event.Event, error) {
	if !aggregate.DisplayableComplaintID(complaintID) {
		return nil, ErrComplaintNotDisplayable
	}

	events, err := s.store.ListByComplaint(ctx, complaintID)
	if err != nil {
		s.logger.Error("failed to load complaint events",
			zap.Error(err),
			zap.String("complaint_id", complaintID),
		)
		return nil, fmt.Errorf("failed to load complaint events: %w", err)
	}

	return events, nil
}

// SectionsByWeekday returns the weekday trend table in the report timezone.
// The same display rule applies: invalid complaint ids are hidden, blank
// ones are not.
func (s *Service) SectionsByWeekday(ctx context.Context) ([]aggregate.WeekdayRow, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load events for weekday rollup", zap.Error(err))
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	rows := aggregate.RollupByWeekday(events, s.loc)

	out := make([]aggregate.WeekdayRow, 0, len(rows))
	for _, row := range rows {
		if row.ComplaintID != "" && !aggregate.DisplayableComplaintID(row.ComplaintID) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
