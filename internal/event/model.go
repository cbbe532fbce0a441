package event

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Event is one raw timer reading reported by the page instrumentation.
// Rows are immutable once stored; every aggregate is derived on read.
type Event struct {
	TS          time.Time `db:"ts" json:"ts"`
	Email       string    `db:"email" json:"email"`
	Team        string    `db:"team" json:"team"`
	ComplaintID string    `db:"complaint_id" json:"complaint_id"`
	Source      string    `db:"source" json:"source"`
	Section     string    `db:"section" json:"section"`
	Reason      string    `db:"reason" json:"reason"`
	ActiveMS    int64     `db:"active_ms" json:"active_ms"`
	IdleMS      int64     `db:"idle_ms" json:"idle_ms"`
	Page        string    `db:"page" json:"page"`
	SessionID   string    `db:"session_id" json:"session_id"`
}

// UnmarshalJSON accepts "ou" as a legacy alias for "team". Older page
// instrumentation still sends the organizational unit under that key.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		OU string `json:"ou"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.Team == "" {
		e.Team = aux.OU
	}
	return nil
}

// Ingest-time rule: complaint ids start with 6 or 7 and carry 6-12 digits.
// Display filtering is looser, see the aggregate package.
var complaintIDPattern = regexp.MustCompile(`^[67][0-9]{5,11}$`)

// ValidComplaintID reports whether id passes the ingest validation rule.
// Blank is allowed; not every tracked page resolves a complaint.
func ValidComplaintID(id string) bool {
	return id == "" || complaintIDPattern.MatchString(id)
}

// Normalize applies the defaulting rules once, at the store boundary, so
// aggregation code never re-checks optional fields.
func (e *Event) Normalize() {
	e.TS = e.TS.UTC()
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	e.Team = strings.TrimSpace(e.Team)
	if e.Team == "" {
		e.Team = "Unknown"
	}
	e.ComplaintID = strings.TrimSpace(e.ComplaintID)
	e.Source = strings.TrimSpace(e.Source)
	e.Section = strings.TrimSpace(e.Section)
	e.Page = strings.TrimSpace(e.Page)
}

func (e *Event) Validate() error {
	if e.TS.IsZero() {
		return ErrMissingTimestamp
	}
	if strings.TrimSpace(e.Email) == "" {
		return ErrMissingEmail
	}
	if e.Reason == "" {
		return ErrMissingReason
	}
	if e.SessionID == "" {
		return ErrMissingSessionID
	}
	if e.ActiveMS < 0 || e.IdleMS < 0 {
		return ErrNegativeDuration
	}
	if !ValidComplaintID(strings.TrimSpace(e.ComplaintID)) {
		return ErrInvalidComplaintID
	}
	return nil
}
