package aggregate

import (
	"sort"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
)

// SectionTotal is active time for one (user, complaint, section) slice,
// with its chart bucket attached.
type SectionTotal struct {
	Email       string `json:"email"`
	Team        string `json:"team"`
	ComplaintID string `json:"complaint_id"`
	Source      string `json:"source"`
	Section     string `json:"section"`
	Bucket      Bucket `json:"bucket"`
	ActiveMS    int64  `json:"active_ms"`
}

type sectionKey struct {
	email       string
	team        string
	complaintID string
	source      string
	section     string
}

// SectionTotals sums active time by (email, team, complaint, source,
// section) over events carrying a section label, most recently touched
// slice first.
func SectionTotals(events []event.Event) []SectionTotal {
	type accum struct {
		activeMS int64
		lastTS   time.Time
	}

	groups := make(map[sectionKey]*accum)
	for _, e := range events {
		if e.Section == "" {
			continue
		}
		key := sectionKey{
			email:       e.Email,
			team:        e.Team,
			complaintID: e.ComplaintID,
			source:      e.Source,
			section:     e.Section,
		}
		acc, ok := groups[key]
		if !ok {
			acc = &accum{lastTS: e.TS}
			groups[key] = acc
		}
		acc.activeMS += e.ActiveMS
		if e.TS.After(acc.lastTS) {
			acc.lastTS = e.TS
		}
	}

	type ordered struct {
		total  SectionTotal
		lastTS time.Time
	}
	out := make([]ordered, 0, len(groups))
	for key, acc := range groups {
		out = append(out, ordered{
			total: SectionTotal{
				Email:       key.email,
				Team:        key.team,
				ComplaintID: key.complaintID,
				Source:      key.source,
				Section:     key.section,
				Bucket:      Classify(key.section),
				ActiveMS:    acc.activeMS,
			},
			lastTS: acc.lastTS,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].lastTS.Equal(out[j].lastTS) {
			return out[i].lastTS.After(out[j].lastTS)
		}
		a, b := out[i].total, out[j].total
		if a.Email != b.Email {
			return a.Email < b.Email
		}
		if a.ComplaintID != b.ComplaintID {
			return a.ComplaintID < b.ComplaintID
		}
		return a.Section < b.Section
	})

	totals := make([]SectionTotal, len(out))
	for i, o := range out {
		totals[i] = o.total
	}
	return totals
}
