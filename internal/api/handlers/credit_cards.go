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

// CreditCardsHandler handles credit-card endpoints.
type CreditCardsHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewCreditCardsHandler creates a new credit cards handler.
func NewCreditCardsHandler(st store.Store, log zerolog.Logger) *CreditCardsHandler {
	return &CreditCardsHandler{store: st, log: log}
}

// ListCreditCards handles GET /api/credit-cards
func (h *CreditCardsHandler) ListCreditCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.store.ListCreditCards(r.Context(), userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list credit cards")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list credit cards")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"credit_cards": cards,
		"count":        len(cards),
	})
}

// CreateCreditCard handles POST /api/credit-cards
func (h *CreditCardsHandler) CreateCreditCard(w http.ResponseWriter, r *http.Request) {
	var card domain.CreditCard
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if card.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	// Zero means the field was not supplied.
	if card.ExpiryMonth != 0 && (card.ExpiryMonth < 1 || card.ExpiryMonth > 12) {
		middleware.WriteError(w, http.StatusBadRequest, "expiry_month must be between 1 and 12")
		return
	}
	if card.StatementDate < 0 || card.StatementDate > 31 || card.DueDate < 0 || card.DueDate > 31 {
		middleware.WriteError(w, http.StatusBadRequest, "statement_date and due_date must be days of the month")
		return
	}

	id, err := h.store.CreateCreditCard(r.Context(), userID(r), card)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create credit card")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create credit card")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteCreditCard handles DELETE /api/credit-cards/{id}
func (h *CreditCardsHandler) DeleteCreditCard(w http.ResponseWriter, r *http.Request, cardID string) {
	err := h.store.DeleteCreditCard(r.Context(), userID(r), cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Credit card not found")
			return
		}
		h.log.Error().Err(err).Str("card_id", cardID).Msg("Failed to delete credit card")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete credit card")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
