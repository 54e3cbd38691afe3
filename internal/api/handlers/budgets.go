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

// BudgetsHandler handles budget endpoints.
type BudgetsHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewBudgetsHandler creates a new budgets handler.
func NewBudgetsHandler(st store.Store, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{store: st, log: log}
}

// ListBudgets handles GET /api/budgets
func (h *BudgetsHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.store.ListBudgets(r.Context(), userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list budgets")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list budgets")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"budgets": budgets,
		"count":   len(budgets),
	})
}

// CreateBudget handles POST /api/budgets
func (h *BudgetsHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var budget domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if budget.CategoryID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "category_id is required")
		return
	}
	if !budget.Limit.IsPositive() {
		middleware.WriteError(w, http.StatusBadRequest, "limit must be positive")
		return
	}
	switch budget.Period {
	case "monthly", "yearly":
	default:
		middleware.WriteError(w, http.StatusBadRequest, "period must be monthly or yearly")
		return
	}

	id, err := h.store.CreateBudget(r.Context(), userID(r), budget)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create budget")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create budget")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteBudget handles DELETE /api/budgets/{id}
func (h *BudgetsHandler) DeleteBudget(w http.ResponseWriter, r *http.Request, budgetID string) {
	err := h.store.DeleteBudget(r.Context(), userID(r), budgetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Budget not found")
			return
		}
		h.log.Error().Err(err).Str("budget_id", budgetID).Msg("Failed to delete budget")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete budget")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
