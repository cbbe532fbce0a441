package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() event.Event {
	return event.Event{
		TS:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Email:     "Jane.Doe@Example.com",
		Reason:    "heartbeat",
		SessionID: "s1",
		ActiveMS:  60000,
	}
}

func TestValidComplaintID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"60512345", true},
		{"601234", true},
		{"712345678901", true},
		{"", true},
		{"512345", false},
		{"7000000000000", false},
		{"60123", false},
		{"+60512345", false},
		{"6051234a", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, event.ValidComplaintID(tt.id))
		})
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*event.Event)
		wantErr error
	}{
		{"valid", func(e *event.Event) {}, nil},
		{"valid with complaint", func(e *event.Event) { e.ComplaintID = "60512345" }, nil},
		{"missing timestamp", func(e *event.Event) { e.TS = time.Time{} }, event.ErrMissingTimestamp},
		{"missing email", func(e *event.Event) { e.Email = "  " }, event.ErrMissingEmail},
		{"missing reason", func(e *event.Event) { e.Reason = "" }, event.ErrMissingReason},
		{"missing session id", func(e *event.Event) { e.SessionID = "" }, event.ErrMissingSessionID},
		{"negative active", func(e *event.Event) { e.ActiveMS = -1 }, event.ErrNegativeDuration},
		{"negative idle", func(e *event.Event) { e.IdleMS = -500 }, event.ErrNegativeDuration},
		{"bad complaint prefix", func(e *event.Event) { e.ComplaintID = "512345" }, event.ErrInvalidComplaintID},
		{"complaint too long", func(e *event.Event) { e.ComplaintID = "7000000000000" }, event.ErrInvalidComplaintID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEventNormalize(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	e := event.Event{
		TS:          time.Date(2026, 3, 2, 4, 0, 0, 0, loc),
		Email:       "  Jane.Doe@Example.com ",
		Team:        "  ",
		ComplaintID: " 60512345 ",
		Section:     " Investigation ",
		Page:        " https://crm.example.com ",
	}
	e.Normalize()

	assert.Equal(t, time.UTC, e.TS.Location())
	assert.Equal(t, "jane.doe@example.com", e.Email)
	assert.Equal(t, "Unknown", e.Team)
	assert.Equal(t, "60512345", e.ComplaintID)
	assert.Equal(t, "Investigation", e.Section)
	assert.Equal(t, "https://crm.example.com", e.Page)
}

func TestEventUnmarshalTeamAlias(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantTeam string
	}{
		{"team key", `{"team":"GCH"}`, "GCH"},
		{"legacy ou key", `{"ou":"GCH"}`, "GCH"},
		{"team wins over ou", `{"team":"GCH","ou":"Legacy"}`, "GCH"},
		{"neither", `{"email":"a@x.com"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e event.Event
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &e))
			assert.Equal(t, tt.wantTeam, e.Team)
		})
	}
}
