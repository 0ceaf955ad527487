package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, identifier string, stat model.Statistic) (types.RankView, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /players/{identifier}/rank?stat=kills requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	stat, err := model.ParseStatistic(r.URL.Query().Get("stat"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	view, err := h.deps.Rank(r.Context(), chi.URLParam(r, "identifier"), stat)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
