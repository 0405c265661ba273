package handlers

import (
	"net/http"

	"github.com/Castore1977/project-track/application/queries"
	"github.com/Castore1977/project-track/pkg/common"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"

	"go.uber.org/zap"
)

// DiffHandler compares two versions
type DiffHandler struct {
	query  *queries.CompareVersionsHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewDiffHandler creates a new diff handler
func NewDiffHandler(
	query *queries.CompareVersionsHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DiffHandler {
	return &DiffHandler{
		query:  query,
		errors: errorHandler,
		logger: logger,
	}
}

// Compare handles GET /diff
func (h *DiffHandler) Compare(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	result, err := h.query.Handle(r.Context(), queries.CompareVersionsQuery{
		CurrentEngineID:   params.Get("current_engine"),
		CurrentVersionID:  params.Get("current_version"),
		PreviousEngineID:  params.Get("previous_engine"),
		PreviousVersionID: params.Get("previous_version"),
		Mode:              queries.CompareMode(params.Get("mode")),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
