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

// GoalsHandler handles savings-goal endpoints.
type GoalsHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(st store.Store, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{store: st, log: log}
}

// ListGoals handles GET /api/goals
func (h *GoalsHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.store.ListGoals(r.Context(), userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goals")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"goals": goals,
		"count": len(goals),
	})
}

// CreateGoal handles POST /api/goals
func (h *GoalsHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal domain.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if goal.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !goal.TargetAmount.IsPositive() {
		middleware.WriteError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}
	if !goal.TargetDate.IsValid() {
		middleware.WriteError(w, http.StatusBadRequest, "target_date is required")
		return
	}

	id, err := h.store.CreateGoal(r.Context(), userID(r), goal)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteGoal handles DELETE /api/goals/{id}
func (h *GoalsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request, goalID string) {
	err := h.store.DeleteGoal(r.Context(), userID(r), goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.log.Error().Err(err).Str("goal_id", goalID).Msg("Failed to delete goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
