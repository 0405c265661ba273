package handlers

import (
	"net/http"

	"github.com/Castore1977/project-track/application/commands"
	"github.com/Castore1977/project-track/application/dto"
	"github.com/Castore1977/project-track/application/services"
	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/pkg/common"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EngineHandler handles engine-related HTTP requests
type EngineHandler struct {
	service *services.CatalogService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(
	service *services.CatalogService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *EngineHandler {
	return &EngineHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// CreateEngineRequest represents the request body for creating an engine
type CreateEngineRequest struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Data         entities.Snapshot `json:"data"`
	ValidityDate string            `json:"validityDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SaveVersionRequest represents the request body for saving a version
type SaveVersionRequest struct {
	Data         entities.Snapshot `json:"data"`
	Mode         string            `json:"mode" validate:"required,oneof=track overwrite"`
	ValidityDate string            `json:"validityDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// LinkEntryRequest points an entry at another engine. An empty target
// clears the link.
type LinkEntryRequest struct {
	Section        string                 `json:"section" validate:"required,oneof=statisticalEngines externalEngines"`
	Entry          entities.LinkableEntry `json:"entry"`
	TargetEngineID string                 `json:"targetEngineId,omitempty"`
}

// EngineNameResponse represents the response for a name lookup
type EngineNameResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListEngines handles GET /engines
func (h *EngineHandler) ListEngines(w http.ResponseWriter, r *http.Request) {
	engines := h.service.ListEngines(r.Context())
	common.RespondWithMeta(w, r, http.StatusOK, dto.SummarizeEngines(engines), len(engines))
}

// CreateEngine handles POST /engines
func (h *EngineHandler) CreateEngine(w http.ResponseWriter, r *http.Request) {
	var req CreateEngineRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	validity, err := parseValidity(req.ValidityDate)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	engine, err := h.service.CreateEngine(r.Context(), commands.CreateEngineCommand{
		Name:         req.Name,
		Description:  req.Description,
		Data:         req.Data,
		ValidityDate: validity,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, dto.EncodeEngine(engine))
}

// GetEngine handles GET /engines/{engineID}
func (h *EngineHandler) GetEngine(w http.ResponseWriter, r *http.Request) {
	engine, err := h.service.GetEngine(r.Context(), engineID(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.EncodeEngine(engine))
}

// DeleteEngine handles DELETE /engines/{engineID}
func (h *EngineHandler) DeleteEngine(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEngine(r.Context(), engineID(r)); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveVersion handles POST /engines/{engineID}/versions
func (h *EngineHandler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	var req SaveVersionRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	validity, err := parseValidity(req.ValidityDate)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	mode, err := aggregates.ParseSaveMode(req.Mode)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	engine, err := h.service.SaveVersion(r.Context(), commands.SaveVersionCommand{
		EngineID:     engineID(r),
		Data:         req.Data,
		Mode:         mode,
		ValidityDate: validity,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	status := http.StatusCreated
	if mode == aggregates.SaveModeOverwrite {
		status = http.StatusOK
	}
	common.RespondJSON(w, status, dto.EncodeEngine(engine))
}

// RollbackLastVersion handles DELETE /engines/{engineID}/versions/latest.
// The caller must pass confirm=true.
func (h *EngineHandler) RollbackLastVersion(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		h.errors.Handle(w, r, pkgerrors.NewConfirmationRequired("rollback"))
		return
	}

	result, err := h.service.RollbackLastVersion(r.Context(), engineID(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// LinkTargets handles GET /engines/{engineID}/link-targets
func (h *EngineHandler) LinkTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.service.LinkTargets(r.Context(), engineID(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, r, http.StatusOK, dto.SummarizeEngines(targets), len(targets))
}

// ResolveName handles GET /engines/{engineID}/name
func (h *EngineHandler) ResolveName(w http.ResponseWriter, r *http.Request) {
	id := engineID(r)
	name, err := h.service.ResolveEngineName(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, EngineNameResponse{ID: id.String(), Name: name})
}

// LinkEntry handles POST /engines/{engineID}/links
func (h *EngineHandler) LinkEntry(w http.ResponseWriter, r *http.Request) {
	var req LinkEntryRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	section := entities.Section(req.Section)
	var (
		entry entities.LinkableEntry
		err   error
	)
	if req.TargetEngineID == "" {
		entry, err = h.service.UnlinkEntry(r.Context(), section, req.Entry)
	} else {
		entry, err = h.service.LinkEntry(r.Context(), commands.LinkEntryCommand{
			OwnerID:  engineID(r),
			Section:  section,
			Entry:    req.Entry,
			TargetID: valueobjects.EngineID(req.TargetEngineID),
		})
	}
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, entry)
}

func engineID(r *http.Request) valueobjects.EngineID {
	return valueobjects.EngineID(chi.URLParam(r, "engineID"))
}
