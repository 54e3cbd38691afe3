package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/fintrack/internal/api/middleware"
	"github.com/dvloznov/fintrack/internal/materializer"
)

// CronHandler exposes the recurring-transaction materializer as the batch
// trigger endpoint. The bearer-secret check lives in middleware.CronAuth and
// runs before this handler is reached.
type CronHandler struct {
	mat *materializer.Materializer
	log zerolog.Logger
}

// NewCronHandler creates a new cron handler.
func NewCronHandler(mat *materializer.Materializer, log zerolog.Logger) *CronHandler {
	return &CronHandler{mat: mat, log: log}
}

// Run handles POST /api/cron. Per-schedule failures are reported in the
// summary but do not fail the request; only a top-level enumeration failure
// produces a server error.
func (h *CronHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.mat.Run(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Materialization run aborted")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to process recurring transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Recurring transactions processed.",
		"summary": summary,
	})
}
