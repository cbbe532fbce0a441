// Package aggregate holds the derived views over the raw event log. Every
// function here is pure: no I/O, deterministic, empty input yields an empty
// (never nil-shaped) result.
package aggregate

import (
	"sort"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
)

// Sessions shorter than this are treated as noise and dropped.
const noiseThresholdMS = 1000

// Session is the set of events sharing one grouping key, with summed
// active and idle time.
type Session struct {
	SessionID   string    `json:"session_id"`
	Email       string    `json:"email"`
	Team        string    `json:"team"`
	ComplaintID string    `json:"complaint_id"`
	Source      string    `json:"source"`
	StartTS     time.Time `json:"start_ts"`
	ActiveMS    int64     `json:"active_ms"`
	IdleMS      int64     `json:"idle_ms"`
}

type sessionKey struct {
	sessionID   string
	email       string
	team        string
	complaintID string
	source      string
}

// BuildSessions groups events by (session_id, email, team, complaint_id,
// source), sums their durations and drops sub-second noise groups. Output
// is ordered most recent session first.
func BuildSessions(events []event.Event) []Session {
	type accum struct {
		session Session
		lastTS  time.Time
	}

	groups := make(map[sessionKey]*accum)
	for _, e := range events {
		key := sessionKey{
			sessionID:   e.SessionID,
			email:       e.Email,
			team:        e.Team,
			complaintID: e.ComplaintID,
			source:      e.Source,
		}

		acc, ok := groups[key]
		if !ok {
			acc = &accum{
				session: Session{
					SessionID:   e.SessionID,
					Email:       e.Email,
					Team:        e.Team,
					ComplaintID: e.ComplaintID,
					Source:      e.Source,
					StartTS:     e.TS,
				},
				lastTS: e.TS,
			}
			groups[key] = acc
		}

		if e.TS.Before(acc.session.StartTS) {
			acc.session.StartTS = e.TS
		}
		if e.TS.After(acc.lastTS) {
			acc.lastTS = e.TS
		}
		acc.session.ActiveMS += e.ActiveMS
		acc.session.IdleMS += e.IdleMS
	}

	type ordered struct {
		session Session
		lastTS  time.Time
	}
	out := make([]ordered, 0, len(groups))
	for _, acc := range groups {
		if acc.session.ActiveMS+acc.session.IdleMS < noiseThresholdMS {
			continue
		}
		out = append(out, ordered{session: acc.session, lastTS: acc.lastTS})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].lastTS.Equal(out[j].lastTS) {
			return out[i].lastTS.After(out[j].lastTS)
		}
		// Tie-break on the grouping key so the order is deterministic.
		a, b := out[i].session, out[j].session
		if a.SessionID != b.SessionID {
			return a.SessionID < b.SessionID
		}
		if a.Email != b.Email {
			return a.Email < b.Email
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.ComplaintID != b.ComplaintID {
			return a.ComplaintID < b.ComplaintID
		}
		return a.Source < b.Source
	})

	sessions := make([]Session, len(out))
	for i, o := range out {
		sessions[i] = o.session
	}
	return sessions
}
