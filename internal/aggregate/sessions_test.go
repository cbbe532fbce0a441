package aggregate_test

import (
	"testing"
	"time"

	"github.com/medwatch/worktime-analytics/internal/aggregate"
	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestBuildSessions_Empty(t *testing.T) {
	sessions := aggregate.BuildSessions(nil)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestBuildSessions_GroupsAndSums(t *testing.T) {
	events := []event.Event{
		{SessionID: "s1", Email: "a@x.com", Team: "GCH", ComplaintID: "601234", Source: "ext", TS: ts(t, "2026-03-02T10:00:00Z"), ActiveMS: 1000, IdleMS: 200},
		{SessionID: "s1", Email: "a@x.com", Team: "GCH", ComplaintID: "601234", Source: "ext", TS: ts(t, "2026-03-02T10:05:00Z"), ActiveMS: 2000, IdleMS: 300},
		{SessionID: "s2", Email: "b@x.com", Team: "GCH", ComplaintID: "701234", Source: "ext", TS: ts(t, "2026-03-02T11:00:00Z"), ActiveMS: 5000},
	}

	sessions := aggregate.BuildSessions(events)
	require.Len(t, sessions, 2)

	// Most recent session first.
	assert.Equal(t, "s2", sessions[0].SessionID)
	assert.Equal(t, "s1", sessions[1].SessionID)

	s1 := sessions[1]
	assert.Equal(t, ts(t, "2026-03-02T10:00:00Z"), s1.StartTS)
	assert.Equal(t, int64(3000), s1.ActiveMS)
	assert.Equal(t, int64(500), s1.IdleMS)
}

func TestBuildSessions_KeyIncludesAllFields(t *testing.T) {
	// Same session id, different teams: two sessions, never merged.
	events := []event.Event{
		{SessionID: "s1", Email: "a@x.com", Team: "GCH", TS: ts(t, "2026-03-02T10:00:00Z"), ActiveMS: 2000},
		{SessionID: "s1", Email: "a@x.com", Team: "PLI", TS: ts(t, "2026-03-02T10:01:00Z"), ActiveMS: 2000},
	}

	sessions := aggregate.BuildSessions(events)
	assert.Len(t, sessions, 2)
}

func TestBuildSessions_NoiseThreshold(t *testing.T) {
	tests := []struct {
		name     string
		activeMS int64
		idleMS   int64
		kept     bool
	}{
		{"999ms total is noise", 500, 499, false},
		{"exactly 1000ms is kept", 500, 500, true},
		{"active alone above threshold", 1000, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []event.Event{
				{SessionID: "s1", Email: "a@x.com", TS: ts(t, "2026-03-02T10:00:00Z"), ActiveMS: tt.activeMS, IdleMS: tt.idleMS},
			}
			sessions := aggregate.BuildSessions(events)
			if tt.kept {
				assert.Len(t, sessions, 1)
			} else {
				assert.Empty(t, sessions)
			}
		})
	}
}

func TestBuildSessions_ConservesTotals(t *testing.T) {
	events := []event.Event{
		{SessionID: "s1", Email: "a@x.com", TS: ts(t, "2026-03-02T10:00:00Z"), ActiveMS: 1500, IdleMS: 100},
		{SessionID: "s1", Email: "a@x.com", TS: ts(t, "2026-03-02T10:01:00Z"), ActiveMS: 2500, IdleMS: 400},
		{SessionID: "s2", Email: "a@x.com", TS: ts(t, "2026-03-02T10:02:00Z"), ActiveMS: 7000, IdleMS: 0},
		{SessionID: "s3", Email: "b@x.com", TS: ts(t, "2026-03-02T10:03:00Z"), ActiveMS: 1200, IdleMS: 800},
	}

	var wantActive, wantIdle int64
	for _, e := range events {
		wantActive += e.ActiveMS
		wantIdle += e.IdleMS
	}

	var gotActive, gotIdle int64
	for _, s := range aggregate.BuildSessions(events) {
		gotActive += s.ActiveMS
		gotIdle += s.IdleMS
	}

	// All groups are above the noise threshold, so nothing is dropped.
	assert.Equal(t, wantActive, gotActive)
	assert.Equal(t, wantIdle, gotIdle)
}

func TestBuildSessions_OrderIndependent(t *testing.T) {
	events := []event.Event{
		{SessionID: "s1", Email: "a@x.com", TS: ts(t, "2026-03-02T10:00:00Z"), ActiveMS: 1500},
		{SessionID: "s1", Email: "a@x.com", TS: ts(t, "2026-03-02T10:05:00Z"), ActiveMS: 2500},
		{SessionID: "s2", Email: "b@x.com", TS: ts(t, "2026-03-02T10:03:00Z"), ActiveMS: 7000},
	}
	reversed := []event.Event{events[2], events[1], events[0]}

	assert.Equal(t, aggregate.BuildSessions(events), aggregate.BuildSessions(reversed))
}
