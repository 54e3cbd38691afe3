package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/fintrack/internal/advice"
	"github.com/dvloznov/fintrack/internal/api/middleware"
)

// Adviser is the subset of the advice service the handlers need.
type Adviser interface {
	SpendingInsights(ctx context.Context, req advice.SpendingInsightsRequest) (*advice.SpendingInsightsResponse, error)
	Wellness(ctx context.Context, req advice.WellnessRequest) (*advice.WellnessResponse, error)
	GoalAdvice(ctx context.Context, req advice.GoalAdviceRequest) (*advice.GoalAdviceResponse, error)
	CreditCardAdvice(ctx context.Context, req advice.CreditCardAdviceRequest) (*advice.CreditCardAdviceResponse, error)
}

// AdviceHandler handles the generative advice endpoints. Model failures map
// to 502 because the upstream model is the failing party, not this service.
type AdviceHandler struct {
	svc Adviser
	log zerolog.Logger
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(svc Adviser, log zerolog.Logger) *AdviceHandler {
	return &AdviceHandler{svc: svc, log: log}
}

// SpendingInsights handles POST /api/advice/spending-insights
func (h *AdviceHandler) SpendingInsights(w http.ResponseWriter, r *http.Request) {
	var req advice.SpendingInsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.svc.SpendingInsights(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Spending insights request failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate insights")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Wellness handles POST /api/advice/wellness
func (h *AdviceHandler) Wellness(w http.ResponseWriter, r *http.Request) {
	var req advice.WellnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.svc.Wellness(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Wellness request failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to compute wellness score")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// GoalAdvice handles POST /api/advice/goal
func (h *AdviceHandler) GoalAdvice(w http.ResponseWriter, r *http.Request) {
	var req advice.GoalAdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GoalName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "goal_name is required")
		return
	}

	resp, err := h.svc.GoalAdvice(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Goal advice request failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate advice")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// CreditCardAdvice handles POST /api/advice/credit-card
func (h *AdviceHandler) CreditCardAdvice(w http.ResponseWriter, r *http.Request) {
	var req advice.CreditCardAdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CardName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "card_name is required")
		return
	}

	resp, err := h.svc.CreditCardAdvice(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Credit card advice request failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate advice")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}
