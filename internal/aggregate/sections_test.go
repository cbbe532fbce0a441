package aggregate_test

import (
	"testing"

	"github.com/medwatch/worktime-analytics/internal/aggregate"
	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionTotals(t *testing.T) {
	events := []event.Event{
		{Email: "a@x.com", Team: "GCH", ComplaintID: "601234", Source: "ext", Section: "Investigation", TS: ts(t, "2026-03-02T10:00:00Z"), ActiveMS: 1000},
		{Email: "a@x.com", Team: "GCH", ComplaintID: "601234", Source: "ext", Section: "Investigation", TS: ts(t, "2026-03-02T10:05:00Z"), ActiveMS: 2000},
		{Email: "a@x.com", Team: "GCH", ComplaintID: "601234", Source: "ext", Section: "", TS: ts(t, "2026-03-02T10:06:00Z"), ActiveMS: 9000},
		{Email: "b@x.com", Team: "GCH", ComplaintID: "701234", Source: "ext", Section: "Task Review", TS: ts(t, "2026-03-02T11:00:00Z"), ActiveMS: 500},
	}

	totals := aggregate.SectionTotals(events)
	require.Len(t, totals, 2)

	// Most recently touched slice first.
	assert.Equal(t, "b@x.com", totals[0].Email)
	assert.Equal(t, aggregate.BucketTask, totals[0].Bucket)

	assert.Equal(t, "a@x.com", totals[1].Email)
	assert.Equal(t, int64(3000), totals[1].ActiveMS)
	assert.Equal(t, aggregate.BucketInvestigation, totals[1].Bucket)
}

func TestSectionTotals_Empty(t *testing.T) {
	totals := aggregate.SectionTotals(nil)
	assert.NotNil(t, totals)
	assert.Empty(t, totals)
}
