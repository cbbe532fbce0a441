package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
	"go.uber.org/zap"
)

// RecipientSource lists stored report subscribers.
type RecipientSource interface {
	Recipients(ctx context.Context) ([]string, error)
}

// Job is the weekly export-then-clear run. The export read and the clear
// execute inside one store transaction; the clear never happens when
// assembling or mailing fails.
type Job struct {
	repo     event.Repository
	subs     RecipientSource
	mailer   Mailer
	staticTo []string
	loc      *time.Location
	logger   *zap.Logger
}

func NewJob(
	repo event.Repository,
	subs RecipientSource,
	mailer Mailer,
	staticTo []string,
	loc *time.Location,
	logger *zap.Logger,
) *Job {
	return &Job{
		repo:     repo,
		subs:     subs,
		mailer:   mailer,
		staticTo: staticTo,
		loc:      loc,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	recipients, err := j.recipients(ctx)
	if err != nil {
		j.logger.Error("weekly export aborted", zap.Error(err))
		return err
	}

	subject := fmt.Sprintf("Weekly Timer Export – %s", time.Now().In(j.loc).Format("2006-01-02"))

	err = j.repo.DrainAll(ctx, func(events []event.Event) error {
		workbook, err := Assemble(events)
		if err != nil {
			return fmt.Errorf("failed to assemble export: %w", err)
		}
		if err := j.mailer.SendExport(ctx, recipients, subject, workbook); err != nil {
			return err
		}
		j.logger.Info("Weekly export delivered",
			zap.Int("events", len(events)),
			zap.Int("recipients", len(recipients)),
		)
		return nil
	})
	if err != nil {
		j.logger.Error("weekly export failed, events retained", zap.Error(err))
		return fmt.Errorf("weekly export failed: %w", err)
	}

	return nil
}

func (j *Job) recipients(ctx context.Context) ([]string, error) {
	stored, err := j.subs.Recipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscribers: %w", err)
	}

	seen := make(map[string]struct{})
	merged := []string{}
	for _, addr := range append(append([]string{}, j.staticTo...), stored...) {
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		merged = append(merged, addr)
	}
	sort.Strings(merged)

	if len(merged) == 0 {
		return nil, fmt.Errorf("no export recipients configured")
	}
	return merged, nil
}
