package queries

import (
	"context"
	"time"

	"github.com/Castore1977/project-track/application/ports"
	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/domain/versioning"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/observability"

	"go.uber.org/zap"
)

// CompareMode selects the level of detail of a comparison
type CompareMode string

const (
	CompareModeSummary  CompareMode = "summary"
	CompareModeDetailed CompareMode = "detailed"
)

// CompareVersionsQuery selects two versions to compare. The versions may
// belong to different engines. When the previous engine is omitted it is the
// current engine; when the previous version is omitted it is the version
// right before the current one.
type CompareVersionsQuery struct {
	CurrentEngineID   string
	CurrentVersionID  string
	PreviousEngineID  string
	PreviousVersionID string
	Mode              CompareMode
}

// Validate validates the query
func (q CompareVersionsQuery) Validate() error {
	errs := pkgerrors.NewValidationErrors()
	if q.CurrentEngineID == "" {
		errs.Add("current_engine", "current engine is required")
	}
	if q.CurrentVersionID == "" {
		errs.Add("current_version", "current version is required")
	}
	if q.Mode != "" && q.Mode != CompareModeSummary && q.Mode != CompareModeDetailed {
		errs.Add("mode", "mode must be summary or detailed")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// VersionHeader identifies one side of a comparison
type VersionHeader struct {
	EngineID      string `json:"engineId"`
	EngineName    string `json:"engineName"`
	VersionID     string `json:"versionId"`
	VersionNumber int    `json:"versionNumber"`
	DisplayDate   string `json:"displayDate"`
}

// CompareVersionsResult represents the result of a comparison
type CompareVersionsResult struct {
	Mode     CompareMode               `json:"mode"`
	Current  VersionHeader             `json:"current"`
	Previous VersionHeader             `json:"previous"`
	Summary  []string                  `json:"summary"`
	Changes  []versioning.ChangeRecord `json:"changes,omitempty"`
}

// CompareVersionsHandler compares two versions
type CompareVersionsHandler struct {
	table   ports.EngineTable
	differ  *versioning.Differ
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewCompareVersionsHandler creates a new comparison handler
func NewCompareVersionsHandler(
	table ports.EngineTable,
	differ *versioning.Differ,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CompareVersionsHandler {
	return &CompareVersionsHandler{
		table:   table,
		differ:  differ,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle executes the comparison query
func (h *CompareVersionsHandler) Handle(ctx context.Context, query CompareVersionsQuery) (*CompareVersionsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if query.Mode == "" {
		query.Mode = CompareModeDetailed
	}
	if query.PreviousEngineID == "" {
		query.PreviousEngineID = query.CurrentEngineID
	}

	currentEngine, current, currentIdx, err := h.locate(query.CurrentEngineID, query.CurrentVersionID)
	if err != nil {
		return nil, err
	}

	var (
		previousEngine *aggregates.Engine
		previous       entities.Version
		previousIdx    int
	)
	if query.PreviousVersionID == "" {
		if query.PreviousEngineID != query.CurrentEngineID || currentIdx == 0 {
			return nil, pkgerrors.NewNoPreviousVersion(query.CurrentEngineID, query.CurrentVersionID)
		}
		previousEngine = currentEngine
		previousIdx = currentIdx - 1
		previous = currentEngine.Versions()[previousIdx]
	} else {
		previousEngine, previous, previousIdx, err = h.locate(query.PreviousEngineID, query.PreviousVersionID)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	result := &CompareVersionsResult{
		Mode:     query.Mode,
		Current:  header(currentEngine, current, currentIdx),
		Previous: header(previousEngine, previous, previousIdx),
		Summary:  h.differ.DiffSummary(current, previous),
	}
	if query.Mode == CompareModeDetailed {
		result.Changes = h.differ.DiffDetailed(current.Data, previous.Data)
	}
	h.metrics.RecordDiff(string(query.Mode), time.Since(start))

	h.logger.Debug("Versions compared",
		zap.String("currentVersionID", query.CurrentVersionID),
		zap.String("previousVersionID", previous.ID.String()),
		zap.String("mode", string(query.Mode)),
		zap.Int("changes", len(result.Changes)),
	)
	return result, nil
}

func (h *CompareVersionsHandler) locate(engineID, versionID string) (*aggregates.Engine, entities.Version, int, error) {
	engine, exists := h.table.Get(valueobjects.EngineID(engineID))
	if !exists {
		return nil, entities.Version{}, 0, pkgerrors.NewEngineNotFound(engineID)
	}
	version, idx, err := engine.FindVersion(valueobjects.VersionID(versionID))
	if err != nil {
		return nil, entities.Version{}, 0, err
	}
	return engine, version, idx, nil
}

func header(engine *aggregates.Engine, v entities.Version, idx int) VersionHeader {
	return VersionHeader{
		EngineID:      engine.ID().String(),
		EngineName:    engine.Name(),
		VersionID:     v.ID.String(),
		VersionNumber: idx + 1,
		DisplayDate:   v.EffectiveDate().String(),
	}
}
