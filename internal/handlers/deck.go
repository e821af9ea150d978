package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetDeck returns the player's most recent deck snapshot, preferring
// the best run and falling back to the latest run carrying cards.
// @Summary Get Latest Deck
// @Tags Players
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.DeckResponse "Deck Snapshot"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{userID}/deck [get]
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.errorResponse(w, http.StatusBadRequest, "user id required")
		return
	}

	deck, err := h.deck.Resolve(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, deck)
}
