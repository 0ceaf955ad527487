package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/herostats/internal/domain/model"
)

// LevelDependencies derives levels from raw experience.
type LevelDependencies interface {
	Level(xp int64, scale float64) (model.DerivedLevel, error)
}

type levelResponse struct {
	XP       int64   `json:"xp"`
	Scale    float64 `json:"scale,omitempty"`
	Level    int     `json:"level"`
	Progress float64 `json:"progress"`
}

// LevelHandler handles level calculator requests.
type LevelHandler struct {
	deps LevelDependencies
}

// NewLevelHandler creates a new level handler.
func NewLevelHandler(deps LevelDependencies) *LevelHandler {
	return &LevelHandler{deps: deps}
}

// HandleGetLevel handles GET /level?xp=N&scale=S. Without scale the default applies.
func (h *LevelHandler) HandleGetLevel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	xp, err := strconv.ParseInt(q.Get("xp"), 10, 64)
	if err != nil {
		writeServiceError(w, fmt.Errorf("%w: xp %q is not an integer", ErrBadRequest, q.Get("xp")))
		return
	}
	var scale float64
	if raw := q.Get("scale"); raw != "" {
		scale, err = strconv.ParseFloat(raw, 64)
		if err == nil && scale == 0 {
			err = fmt.Errorf("must be positive")
		}
		if err != nil {
			writeServiceError(w, fmt.Errorf("%w: scale %q is not a number", ErrBadRequest, raw))
			return
		}
	}

	d, err := h.deps.Level(xp, scale)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, levelResponse{XP: xp, Scale: scale, Level: d.Level, Progress: d.Progress})
}
