package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// GetPlayer returns the public profile for one user id.
// @Summary Get Player Profile
// @Tags Players
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.PlayerProfileResponse "Profile"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{userID} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.errorResponse(w, http.StatusBadRequest, "user id required")
		return
	}

	player, err := h.players.Profile(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, profileResponse(player))
}

// UpsertPlayer creates or updates a player profile. Empty optional
// fields never clobber previously stored values.
// @Summary Upsert Player Profile
// @Tags Players
// @Accept json
// @Produce json
// @Param X-Api-Key header string false "API key"
// @Param profile body models.PlayerUpsertRequest true "Profile"
// @Success 200 {object} models.PlayerProfileResponse "Profile"
// @Failure 400 {object} map[string]string "Validation Failed"
// @Router /players [put]
func (h *Handler) UpsertPlayer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.PlayerUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	player, err := h.players.Upsert(r.Context(), &req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, profileResponse(player))
}

func profileResponse(p *models.Player) *models.PlayerProfileResponse {
	return &models.PlayerProfileResponse{
		UserID:    p.UserID,
		Nickname:  p.Nickname,
		AvatarURL: p.AvatarURL,
		BestScore: p.BestScore,
		BestRunID: p.BestRunID,
		FirstSeen: p.FirstSeen.UTC().Format(time.RFC3339),
		LastSeen:  p.LastSeen.UTC().Format(time.RFC3339),
	}
}
