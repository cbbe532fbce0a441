package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	event.Repository
	inserted  []event.Event
	insertErr error
}

func (f *fakeRepo) Insert(ctx context.Context, e *event.Event) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *e)
	return nil
}

type fakePublisher struct {
	published int
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, value any) error {
	f.published++
	return f.err
}

func TestServiceIngest_StoresAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := event.NewService(repo, pub, zap.NewNop())

	e := validEvent()
	require.NoError(t, svc.Ingest(context.Background(), &e))

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "jane.doe@example.com", repo.inserted[0].Email)
	assert.Equal(t, "Unknown", repo.inserted[0].Team)
	assert.Equal(t, 1, pub.published)
}

func TestServiceIngest_RejectsInvalid(t *testing.T) {
	repo := &fakeRepo{}
	svc := event.NewService(repo, nil, zap.NewNop())

	e := validEvent()
	e.ComplaintID = "512345"

	err := svc.Ingest(context.Background(), &e)
	assert.ErrorIs(t, err, event.ErrInvalidComplaintID)
	assert.Empty(t, repo.inserted)
}

func TestServiceIngest_RejectsNegativeIdle(t *testing.T) {
	repo := &fakeRepo{}
	svc := event.NewService(repo, nil, zap.NewNop())

	e := validEvent()
	e.IdleMS = -500

	err := svc.Ingest(context.Background(), &e)
	assert.ErrorIs(t, err, event.ErrNegativeDuration)
	assert.Empty(t, repo.inserted)
}

func TestServiceIngest_PublishFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := event.NewService(repo, pub, zap.NewNop())

	e := validEvent()
	assert.NoError(t, svc.Ingest(context.Background(), &e))
	assert.Len(t, repo.inserted, 1)
}

func TestServiceIngest_StoreFailure(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("connection refused")}
	svc := event.NewService(repo, nil, zap.NewNop())

	e := validEvent()
	assert.Error(t, svc.Ingest(context.Background(), &e))
}
