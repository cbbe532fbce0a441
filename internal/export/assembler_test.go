package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/medwatch/worktime-analytics/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleEvents(t *testing.T) []event.Event {
	t.Helper()
	base, err := time.Parse(time.RFC3339, "2026-03-02T10:00:00Z")
	require.NoError(t, err)

	return []event.Event{
		{TS: base, Email: "a@x.com", Team: "GCH", ComplaintID: "601234", Source: "ext", Section: "Investigation", Reason: "open", ActiveMS: 1000, IdleMS: 100, SessionID: "s1"},
		{TS: base.Add(time.Minute), Email: "a@x.com", Team: "GCH", ComplaintID: "601234", Source: "ext", Section: "Investigation", Reason: "heartbeat", ActiveMS: 2000, IdleMS: 200, SessionID: "s1"},
		{TS: base.Add(2 * time.Minute), Email: "b@x.com", Team: "GCH", ComplaintID: "701234", Source: "ext", Section: "", Reason: "unload", ActiveMS: 4000, IdleMS: 0, SessionID: "s2"},
	}
}

func TestAssemble_SheetLayout(t *testing.T) {
	workbook, err := export.Assemble(sampleEvents(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"events", "by_complaint", "by_section"}, f.GetSheetList())

	rows, err := f.GetRows("events")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + three events
	assert.Equal(t, "ts", rows[0][0])
	assert.Equal(t, "a@x.com", rows[1][1])

	byComplaint, err := f.GetRows("by_complaint")
	require.NoError(t, err)
	require.Len(t, byComplaint, 3) // header + two (email, complaint) pairs
	assert.Equal(t, []string{"email", "complaint_id", "active_ms", "idle_ms"}, byComplaint[0][:4])
	assert.Equal(t, "3000", byComplaint[1][2])

	bySection, err := f.GetRows("by_section")
	require.NoError(t, err)
	// Blank sections are excluded: header + one row.
	require.Len(t, bySection, 2)
	assert.Equal(t, "Investigation", bySection[1][1])
	assert.Equal(t, "3000", bySection[1][2])
}

func TestAssemble_Empty(t *testing.T) {
	workbook, err := export.Assemble(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("events")
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}
