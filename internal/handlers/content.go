package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

var contentKinds = map[string]bool{
	"cards":  true,
	"relics": true,
	"events": true,
}

// GetContent lists one static content collection (cards, relics or
// events). Results are cached in Redis by the service.
// @Summary Get Static Content
// @Tags Content
// @Produce json
// @Param kind path string true "Content kind (cards, relics, events)"
// @Success 200 {object} map[string]interface{} "Content Items"
// @Failure 404 {object} map[string]string "Unknown Kind"
// @Router /content/{kind} [get]
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !contentKinds[kind] {
		h.errorResponse(w, http.StatusNotFound, "not_found")
		return
	}

	items, err := h.content.List(r.Context(), kind)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"kind":  kind,
		"items": items,
	})
}
