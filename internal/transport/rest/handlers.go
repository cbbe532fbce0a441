package rest

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/medwatch/worktime-analytics/internal/export"
	"github.com/medwatch/worktime-analytics/internal/report"
	"github.com/medwatch/worktime-analytics/internal/subscriber"
	"go.uber.org/zap"
)

// HealthChecker is the store liveness probe.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	ingest        *event.Service
	reports       *report.Service
	repo          event.Repository
	subs          *subscriber.Service
	health        HealthChecker
	adminPassword string
	logger        *zap.Logger
}

func NewHandler(
	ingest *event.Service,
	reports *report.Service,
	repo event.Repository,
	subs *subscriber.Service,
	health HealthChecker,
	adminPassword string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		ingest:        ingest,
		reports:       reports,
		repo:          repo,
		subs:          subs,
		health:        health,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Worktime Timer API"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "malformed event payload")
		return
	}

	if err := h.ingest.Ingest(r.Context(), &ev); err != nil {
		switch {
		case errors.Is(err, event.ErrInvalidComplaintID),
			errors.Is(err, event.ErrMissingTimestamp),
			errors.Is(err, event.ErrMissingEmail),
			errors.Is(err, event.ErrMissingReason),
			errors.Is(err, event.ErrMissingSessionID),
			errors.Is(err, event.ErrNegativeDuration):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to store event")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.reports.Sessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) SessionsBySection(w http.ResponseWriter, r *http.Request) {
	totals, err := h.reports.SessionsBySection(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *Handler) ComplaintEvents(w http.ResponseWriter, r *http.Request) {
	complaintID := strings.TrimSpace(r.URL.Query().Get("complaint_id"))
	if complaintID == "" {
		writeError(w, http.StatusBadRequest, "complaint_id is required")
		return
	}

	events, err := h.reports.ComplaintEvents(r.Context(), complaintID)
	if err != nil {
		if errors.Is(err, report.ErrComplaintNotDisplayable) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) ComplaintBlocks(w http.ResponseWriter, r *http.Request) {
	complaintID := strings.TrimSpace(r.URL.Query().Get("complaint_id"))
	if complaintID == "" {
		writeError(w, http.StatusBadRequest, "complaint_id is required")
		return
	}

	blocks, err := h.reports.ComplaintBlocks(r.Context(), complaintID)
	if err != nil {
		if errors.Is(err, report.ErrComplaintNotDisplayable) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (h *Handler) SectionsByWeekday(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.SectionsByWeekday(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	workbook, err := export.Assemble(events)
	if err != nil {
		h.logger.Error("failed to assemble export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to assemble export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="export.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed subscribe payload")
		return
	}

	if err := h.subs.Subscribe(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, subscriber.ErrInvalidEmail),
			errors.Is(err, subscriber.ErrDomainNotAllowed):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to subscribe")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type clearRequest struct {
	Password string `json:"password"`
}

func (h *Handler) AdminClear(w http.ResponseWriter, r *http.Request) {
	if h.adminPassword == "" {
		writeError(w, http.StatusServiceUnavailable, "clear endpoint is disabled")
		return
	}

	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed clear payload")
		return
	}

	supplied := strings.TrimSpace(req.Password)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(h.adminPassword)) != 1 {
		h.logger.Warn("rejected clear request", zap.String("remote", r.RemoteAddr))
		writeError(w, http.StatusForbidden, "invalid admin password")
		return
	}

	rows, err := h.repo.ClearAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "cleared": true, "rows": rows})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
