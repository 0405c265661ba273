package handlers

import (
	"io"
	"net/http"

	"github.com/Castore1977/project-track/application/services"
	"github.com/Castore1977/project-track/pkg/common"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"

	"go.uber.org/zap"
)

// ExportFileName is the suggested name of a downloaded catalog
const ExportFileName = "engine-catalog.json"

// CatalogHandler handles whole-catalog export and import
type CatalogHandler struct {
	service *services.CatalogService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	service *services.CatalogService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// Export handles GET /catalog/export. The body is the bare exchange document.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.ExportCatalogJSON(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFileName+`"`)
	common.RespondRaw(w, http.StatusOK, body)
}

// Import handles POST /catalog/import. The body is a bare exchange document
// that replaces the whole catalog.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewInvalidRequest("Failed to read request body", err))
		return
	}

	result, err := h.service.ImportCatalogJSON(r.Context(), raw)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
