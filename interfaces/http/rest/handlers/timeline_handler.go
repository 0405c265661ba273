package handlers

import (
	"net/http"

	"github.com/Castore1977/project-track/application/queries"
	"github.com/Castore1977/project-track/pkg/common"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"

	"go.uber.org/zap"
)

// TimelineHandler serves the combined version timeline
type TimelineHandler struct {
	query  *queries.TimelineHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(
	query *queries.TimelineHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *TimelineHandler {
	return &TimelineHandler{
		query:  query,
		errors: errorHandler,
		logger: logger,
	}
}

// GetTimeline handles GET /timeline?engine_id=
func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	result, err := h.query.Handle(r.Context(), queries.TimelineQuery{
		EngineID: r.URL.Query().Get("engine_id"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, r, http.StatusOK, result.Entries, result.TotalCount)
}
