package handlers

import (
	"io"
	"net/http"

	"github.com/dreamcore/leaderboard-api/internal/validate"
)

// SubmitRun accepts a finished-run payload, validates it and hands it
// to the ingestion service. Validation collects every violation in one
// pass so clients get the full picture from a single request.
// @Summary Submit Run
// @Description Submit a completed run for ranking
// @Tags Runs
// @Accept json
// @Produce json
// @Param X-Api-Key header string false "API key"
// @Success 201 {object} models.SubmitResult "Accepted (idempotent on replay)"
// @Failure 400 {object} map[string]interface{} "Validation Failed"
// @Failure 429 {object} map[string]string "Rate Limited"
// @Failure 503 {object} map[string]string "Migration Required"
// @Router /runs [post]
func (h *Handler) SubmitRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "failed to read body")
		return
	}

	sub, violations := validate.Run(body)
	if len(violations) > 0 {
		h.jsonResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"details": violations,
		})
		return
	}

	// The window is counted per (client IP, user id) so one player
	// behind a shared NAT cannot starve the rest.
	if err := h.limiter.Allow(r.Context(), clientIP(r)+":"+sub.UserID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	result, err := h.ingest.Submit(r.Context(), sub)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	// Duplicates return the original run with the same shape and
	// status as a fresh accept.
	h.jsonResponse(w, http.StatusCreated, result)
}
