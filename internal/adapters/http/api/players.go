package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PlayerHandler handles player detail requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /players/{identifier}. The identifier is a UUID or a player name.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Player(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
