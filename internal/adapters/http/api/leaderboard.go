package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, stat model.Statistic, page int) ([]types.LeaderboardRow, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard?sort=kills&page=1 requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	stat, err := model.ParseStatistic(r.URL.Query().Get("sort"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, fmt.Errorf("%w: page %q is not a number", ErrBadRequest, raw))
			return
		}
	}

	rows, err := h.deps.Leaderboard(r.Context(), stat, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
