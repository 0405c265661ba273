package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Castore1977/project-track/application/commands"
	"github.com/Castore1977/project-track/application/dto"
	"github.com/Castore1977/project-track/application/ports"
	"github.com/Castore1977/project-track/domain/config"
	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/validators"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/domain/events"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/observability"

	"go.uber.org/zap"
)

// RollbackResult describes the outcome of a rollback
type RollbackResult struct {
	EngineID         string `json:"engineId"`
	RemovedVersionID string `json:"removedVersionId"`
	EngineRemoved    bool   `json:"engineRemoved"`
	RemainingCount   int    `json:"remainingVersions"`
}

// ImportResult describes an accepted import
type ImportResult struct {
	EngineCount  int `json:"engineCount"`
	VersionCount int `json:"versionCount"`
}

// CatalogService owns the engine catalog. Mutating operations are serialized
// by a single writer lock and are all-or-nothing: each works on a clone of
// the affected engine and installs it only on success. Readers see the
// table's copy-on-write views and never block on writers.
type CatalogService struct {
	mu sync.Mutex

	table     ports.EngineTable
	validator *validators.CatalogValidator
	upgrader  ports.CatalogUpgrader
	publisher ports.EventPublisher
	clock     ports.Clock
	cfg       *config.DomainConfig
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	table ports.EngineTable,
	validator *validators.CatalogValidator,
	upgrader ports.CatalogUpgrader,
	publisher ports.EventPublisher,
	clock ports.Clock,
	cfg *config.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CatalogService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &CatalogService{
		table:     table,
		validator: validator,
		upgrader:  upgrader,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateEngine adds a new engine with a single initial version
func (s *CatalogService) CreateEngine(ctx context.Context, cmd commands.CreateEngineCommand) (*aggregates.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := aggregates.NewEngine(
		cmd.Name,
		cmd.Description,
		cmd.Data,
		cmd.ValidityDate,
		s.clock.Now(),
		s.cfg.MaxEngineNameLength,
	)
	if err != nil {
		s.reject("create_engine", err, zap.String("name", cmd.Name))
		return nil, err
	}

	s.commit(ctx, engine)
	s.metrics.RecordOperation("create_engine", nil)

	s.logger.Info("Engine created",
		zap.String("engineID", engine.ID().String()),
		zap.String("name", engine.Name()),
	)

	return engine.Clone(), nil
}

// SaveVersion appends (track) or overwrites (overwrite) the latest version
func (s *CatalogService) SaveVersion(ctx context.Context, cmd commands.SaveVersionCommand) (*aggregates.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.table.Get(cmd.EngineID)
	if !exists {
		err := pkgerrors.NewEngineNotFound(cmd.EngineID.String())
		s.reject("save_version", err, zap.String("engineID", cmd.EngineID.String()))
		return nil, err
	}

	engine := current.Clone()
	version, err := engine.SaveVersion(cmd.Data, cmd.Mode, cmd.ValidityDate, s.clock.Now())
	if err != nil {
		s.reject("save_version", err,
			zap.String("engineID", cmd.EngineID.String()),
			zap.String("mode", string(cmd.Mode)),
		)
		return nil, err
	}

	s.commit(ctx, engine)
	s.metrics.RecordOperation("save_version", nil)

	s.logger.Info("Version saved",
		zap.String("engineID", engine.ID().String()),
		zap.String("versionID", version.ID.String()),
		zap.String("mode", string(cmd.Mode)),
		zap.String("validityDate", version.ValidityString()),
		zap.Int("versionCount", engine.VersionCount()),
	)

	return engine.Clone(), nil
}

// RollbackLastVersion drops the latest version of an engine. Rolling back
// the only version removes the engine from the catalog.
func (s *CatalogService) RollbackLastVersion(ctx context.Context, engineID valueobjects.EngineID) (*RollbackResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.table.Get(engineID)
	if !exists {
		err := pkgerrors.NewEngineNotFound(engineID.String())
		s.reject("rollback", err, zap.String("engineID", engineID.String()))
		return nil, err
	}

	engine := current.Clone()
	removed, empty := engine.RollbackLatest(s.clock.Now())

	if empty {
		s.table.Remove(engineID)
		s.publish(ctx, engine)
		s.updateSize()
	} else {
		s.commit(ctx, engine)
	}
	s.metrics.RecordOperation("rollback", nil)

	s.logger.Info("Version rolled back",
		zap.String("engineID", engineID.String()),
		zap.String("versionID", removed.ID.String()),
		zap.Bool("engineRemoved", empty),
	)

	return &RollbackResult{
		EngineID:         engineID.String(),
		RemovedVersionID: removed.ID.String(),
		EngineRemoved:    empty,
		RemainingCount:   engine.VersionCount(),
	}, nil
}

// DeleteEngine removes an engine and its whole history
func (s *CatalogService) DeleteEngine(ctx context.Context, engineID valueobjects.EngineID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.table.Get(engineID)
	if !exists {
		err := pkgerrors.NewEngineNotFound(engineID.String())
		s.reject("delete_engine", err, zap.String("engineID", engineID.String()))
		return err
	}

	engine := current.Clone()
	engine.MarkDeleted(s.clock.Now())
	s.table.Remove(engineID)
	s.publish(ctx, engine)
	s.updateSize()
	s.metrics.RecordOperation("delete_engine", nil)

	s.logger.Info("Engine deleted",
		zap.String("engineID", engineID.String()),
		zap.String("name", engine.Name()),
	)
	return nil
}

// ExportCatalog returns the exchange form of every engine in catalog order
func (s *CatalogService) ExportCatalog(ctx context.Context) []dto.EngineDocument {
	return dto.EncodeCatalog(s.table.All())
}

// ExportCatalogJSON returns the exchange form as indented JSON
func (s *CatalogService) ExportCatalogJSON(ctx context.Context) ([]byte, error) {
	return json.MarshalIndent(s.ExportCatalog(ctx), "", "  ")
}

// ImportCatalogJSON parses raw JSON and imports it
func (s *CatalogService) ImportCatalogJSON(ctx context.Context, raw []byte) (*ImportResult, error) {
	var candidate interface{}
	if err := json.Unmarshal(raw, &candidate); err != nil {
		invalid := pkgerrors.NewInvalidCatalog("$", "document is not valid JSON", nil).WithCause(err)
		s.reject("import_catalog", invalid)
		return nil, invalid
	}
	return s.ImportCatalog(ctx, candidate)
}

// ImportCatalog replaces the whole catalog with a decoded exchange document.
// The candidate is validated, upgraded to the current schema and decoded
// before anything is replaced; any failure leaves the catalog untouched.
func (s *CatalogService) ImportCatalog(ctx context.Context, candidate interface{}) (*ImportResult, error) {
	if err := s.validator.Check(candidate); err != nil {
		s.metrics.RecordOperation("import_catalog", err)
		return nil, err
	}

	engines, err := s.decode(candidate.([]interface{}))
	if err != nil {
		s.reject("import_catalog", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.ReplaceAll(engines)

	result := &ImportResult{EngineCount: len(engines)}
	for _, engine := range engines {
		result.VersionCount += engine.VersionCount()
	}

	event := events.NewCatalogImported(result.EngineCount, result.VersionCount, s.clock.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", zap.Error(err), zap.String("eventType", event.GetEventType()))
	}
	s.updateSize()
	s.metrics.RecordOperation("import_catalog", nil)

	s.logger.Info("Catalog imported",
		zap.Int("engines", result.EngineCount),
		zap.Int("versions", result.VersionCount),
	)
	return result, nil
}

func (s *CatalogService) decode(candidate []interface{}) ([]*aggregates.Engine, error) {
	upgraded, err := s.upgrader.UpgradeCatalog(candidate)
	if err != nil {
		return nil, pkgerrors.NewInvalidCatalog("$", "catalog schema could not be upgraded", nil).WithCause(err)
	}

	raw, err := json.Marshal(upgraded)
	if err != nil {
		return nil, pkgerrors.NewInvalidCatalog("$", "catalog could not be re-encoded", nil).WithCause(err)
	}
	var docs []dto.EngineDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, pkgerrors.NewInvalidCatalog("$", "catalog records have unexpected field types", nil).WithCause(err)
	}

	return dto.DecodeCatalog(docs)
}

// GetEngine returns a copy of an engine
func (s *CatalogService) GetEngine(ctx context.Context, engineID valueobjects.EngineID) (*aggregates.Engine, error) {
	engine, exists := s.table.Get(engineID)
	if !exists {
		return nil, pkgerrors.NewEngineNotFound(engineID.String())
	}
	return engine.Clone(), nil
}

// ListEngines returns copies of every engine in catalog order
func (s *CatalogService) ListEngines(ctx context.Context) []*aggregates.Engine {
	all := s.table.All()
	out := make([]*aggregates.Engine, len(all))
	for i, engine := range all {
		out[i] = engine.Clone()
	}
	return out
}

// Stats returns the number of engines and versions in the catalog
func (s *CatalogService) Stats(ctx context.Context) (engines, versions int) {
	all := s.table.All()
	for _, engine := range all {
		versions += engine.VersionCount()
	}
	return len(all), versions
}

// ResolveEngineName looks up the display name of a linked engine
func (s *CatalogService) ResolveEngineName(ctx context.Context, engineID valueobjects.EngineID) (string, error) {
	engine, exists := s.table.Get(engineID)
	if !exists {
		return "", pkgerrors.NewEngineNotFound(engineID.String())
	}
	return engine.Name(), nil
}

// LinkTargets lists the engines an entry of engineID may link to: every
// engine except engineID itself. An empty id lists the whole catalog.
func (s *CatalogService) LinkTargets(ctx context.Context, engineID valueobjects.EngineID) ([]*aggregates.Engine, error) {
	all := s.table.All()
	if !engineID.IsZero() {
		if _, exists := s.table.Get(engineID); !exists {
			return nil, pkgerrors.NewEngineNotFound(engineID.String())
		}
	}

	targets := make([]*aggregates.Engine, 0, len(all))
	for _, engine := range all {
		if engine.ID() == engineID {
			continue
		}
		targets = append(targets, engine.Clone())
	}
	return targets, nil
}

// LinkEntry returns cmd.Entry pointed at the target engine, with the pointer
// text naming it. The owner cannot be its own target.
func (s *CatalogService) LinkEntry(ctx context.Context, cmd commands.LinkEntryCommand) (entities.LinkableEntry, error) {
	if !cmd.Section.IsLinkable() {
		return entities.LinkableEntry{}, pkgerrors.NewSectionNotLinkable(string(cmd.Section))
	}
	if cmd.TargetID == cmd.OwnerID {
		return entities.LinkableEntry{}, pkgerrors.NewSelfLink(cmd.OwnerID.String(), string(cmd.Section), cmd.Entry.Name)
	}
	name, err := s.ResolveEngineName(ctx, cmd.TargetID)
	if err != nil {
		return entities.LinkableEntry{}, err
	}
	return cmd.Entry.LinkTo(cmd.TargetID.String(), name), nil
}

// UnlinkEntry returns entry with its link cleared
func (s *CatalogService) UnlinkEntry(ctx context.Context, section entities.Section, entry entities.LinkableEntry) (entities.LinkableEntry, error) {
	if !section.IsLinkable() {
		return entities.LinkableEntry{}, pkgerrors.NewSectionNotLinkable(string(section))
	}
	return entry.Unlink(), nil
}

// commit installs a modified engine and publishes its pending events.
// Caller holds the writer lock.
func (s *CatalogService) commit(ctx context.Context, engine *aggregates.Engine) {
	pending := engine.Events()
	engine.ClearEvents()
	s.table.Put(engine)

	if len(pending) > 0 {
		if err := s.publisher.PublishBatch(ctx, pending); err != nil {
			s.logger.Warn("Failed to publish events", zap.Error(err), zap.Int("count", len(pending)))
		}
	}
	s.updateSize()
}

// publish delivers the pending events of an engine that left the catalog
func (s *CatalogService) publish(ctx context.Context, engine *aggregates.Engine) {
	pending := engine.Events()
	engine.ClearEvents()
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish events", zap.Error(err), zap.Int("count", len(pending)))
	}
}

func (s *CatalogService) updateSize() {
	s.metrics.SetCatalogSize(s.Stats(context.Background()))
}

func (s *CatalogService) reject(operation string, err error, fields ...zap.Field) {
	s.metrics.RecordOperation(operation, err)

	fields = append(fields, zap.String("operation", operation), zap.Error(err))
	if domainErr := pkgerrors.AsDomainError(err); domainErr != nil {
		fields = append(fields, zap.String("code", domainErr.Code))
	}
	s.logger.Warn("Catalog operation rejected", fields...)
}
