package aggregate

import (
	"sort"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
)

// WeekdayRow is one cell of the weekday trend table.
type WeekdayRow struct {
	ComplaintID string `json:"complaint_id"`
	Source      string `json:"source"`
	Section     string `json:"section"`
	Weekday     string `json:"weekday"`
	ActiveMS    int64  `json:"active_ms"`
}

// Calendar order, Monday first. time.Weekday starts on Sunday.
var weekdayOrder = map[string]int{
	"Monday":    0,
	"Tuesday":   1,
	"Wednesday": 2,
	"Thursday":  3,
	"Friday":    4,
	"Saturday":  5,
	"Sunday":    6,
}

type rollupKey struct {
	complaintID string
	source      string
	section     string
	weekday     string
}

// RollupByWeekday sums active time per (complaint, source, section, weekday).
// The weekday is derived in loc, not UTC, so events near local midnight
// bucket to the local day.
func RollupByWeekday(events []event.Event, loc *time.Location) []WeekdayRow {
	sums := make(map[rollupKey]int64)
	for _, e := range events {
		if e.Section == "" {
			continue
		}
		key := rollupKey{
			complaintID: e.ComplaintID,
			source:      e.Source,
			section:     e.Section,
			weekday:     e.TS.In(loc).Weekday().String(),
		}
		sums[key] += e.ActiveMS
	}

	rows := make([]WeekdayRow, 0, len(sums))
	for key, activeMS := range sums {
		rows = append(rows, WeekdayRow{
			ComplaintID: key.complaintID,
			Source:      key.source,
			Section:     key.section,
			Weekday:     key.weekday,
			ActiveMS:    activeMS,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if weekdayOrder[a.Weekday] != weekdayOrder[b.Weekday] {
			return weekdayOrder[a.Weekday] < weekdayOrder[b.Weekday]
		}
		if a.ComplaintID != b.ComplaintID {
			return a.ComplaintID < b.ComplaintID
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Section < b.Section
	})

	return rows
}
