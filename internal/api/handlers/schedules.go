package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/fintrack/internal/api/middleware"
	"github.com/dvloznov/fintrack/internal/domain"
	"github.com/dvloznov/fintrack/internal/store"
)

// defaultUserID scopes requests that carry no X-User-ID header. Single-user
// local deployments never set the header.
const defaultUserID = "default"

func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return defaultUserID
}

// SchedulesHandler handles scheduled-transaction endpoints.
type SchedulesHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewSchedulesHandler creates a new schedules handler.
func NewSchedulesHandler(st store.Store, log zerolog.Logger) *SchedulesHandler {
	return &SchedulesHandler{store: st, log: log}
}

// ListSchedules handles GET /api/schedules
func (h *SchedulesHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	schedules, err := h.store.ListSchedules(ctx, userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list schedules")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list schedules")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// CreateSchedule handles POST /api/schedules
func (h *SchedulesHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var sched domain.ScheduledTransaction
	if err := json.NewDecoder(r.Body).Decode(&sched); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if sched.Description == "" || sched.Frequency == "" {
		middleware.WriteError(w, http.StatusBadRequest, "description and frequency are required")
		return
	}
	if !sched.Amount.IsPositive() {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	switch sched.Frequency {
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyYearly:
	default:
		middleware.WriteError(w, http.StatusBadRequest, "frequency must be daily, weekly, monthly or yearly")
		return
	}
	if !sched.StartDate.IsValid() {
		middleware.WriteError(w, http.StatusBadRequest, "start_date is required")
		return
	}

	id, err := h.store.CreateSchedule(r.Context(), userID(r), sched)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create schedule")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteSchedule handles DELETE /api/schedules/{id}
func (h *SchedulesHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request, scheduleID string) {
	err := h.store.DeleteSchedule(r.Context(), userID(r), scheduleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		h.log.Error().Err(err).Str("schedule_id", scheduleID).Msg("Failed to delete schedule")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete schedule")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
