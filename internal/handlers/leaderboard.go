package handlers

import (
	"net/http"
	"strconv"
)

// GetLeaderboard returns the top entries ranked by score. The limit
// query parameter is clamped by the service; garbage values fall back
// to the default.
// @Summary Get Leaderboard
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Limit" default(50)
// @Success 200 {object} models.LeaderboardResponse "Ranked Entries"
// @Failure 503 {object} map[string]string "Migration Required"
// @Router /leaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	board, err := h.leaderboard.Top(r.Context(), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, board)
}
