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

// AccountsHandler handles bank-account endpoints.
type AccountsHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(st store.Store, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{store: st, log: log}
}

// ListAccounts handles GET /api/accounts
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context(), userID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// CreateAccount handles POST /api/accounts
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var acct domain.BankAccount
	if err := json.NewDecoder(r.Body).Decode(&acct); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if acct.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	switch acct.Type {
	case "checking", "savings":
	default:
		middleware.WriteError(w, http.StatusBadRequest, "type must be checking or savings")
		return
	}

	id, err := h.store.CreateAccount(r.Context(), userID(r), acct)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteAccount handles DELETE /api/accounts/{id}
func (h *AccountsHandler) DeleteAccount(w http.ResponseWriter, r *http.Request, accountID string) {
	err := h.store.DeleteAccount(r.Context(), userID(r), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Account not found")
			return
		}
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to delete account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
