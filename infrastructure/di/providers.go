package di

import (
	"github.com/Castore1977/project-track/application/ports"
	"github.com/Castore1977/project-track/application/queries"
	"github.com/Castore1977/project-track/application/services"
	domainconfig "github.com/Castore1977/project-track/domain/config"
	"github.com/Castore1977/project-track/domain/core/validators"
	"github.com/Castore1977/project-track/domain/versioning"
	"github.com/Castore1977/project-track/infrastructure/cache"
	"github.com/Castore1977/project-track/infrastructure/config"
	"github.com/Castore1977/project-track/infrastructure/messaging"
	"github.com/Castore1977/project-track/infrastructure/persistence/memory"
	"github.com/Castore1977/project-track/infrastructure/persistence/schema"
	"github.com/Castore1977/project-track/interfaces/http/rest"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/observability"

	"go.uber.org/zap"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "engine_catalog"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideDomainConfig derives the domain rules from the application config
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	dc := cfg.DomainConfig()
	if err := dc.Validate(); err != nil {
		return nil, err
	}
	return dc, nil
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(MetricsNamespace)
}

// ProvideEngineTable creates the in-memory engine table
func ProvideEngineTable() ports.EngineTable {
	return memory.NewEngineTable()
}

// ProvideCatalogValidator creates the import validator
func ProvideCatalogValidator(logger *zap.Logger) *validators.CatalogValidator {
	return validators.NewCatalogValidator(logger.Named("validator"))
}

// ProvideCatalogUpgrader creates the schema evolution registry used on import
func ProvideCatalogUpgrader(logger *zap.Logger) ports.CatalogUpgrader {
	return schema.NewSchemaEvolution(logger.Named("schema"))
}

// ProvideEventPublisher creates the in-process event publisher
func ProvideEventPublisher(logger *zap.Logger, metrics *observability.Collector) ports.EventPublisher {
	return messaging.NewLogPublisher(logger.Named("events"), metrics)
}

// ProvideClock returns the wall clock
func ProvideClock() ports.Clock {
	return ports.SystemClock{}
}

// ProvideCatalogService creates the catalog store
func ProvideCatalogService(
	table ports.EngineTable,
	validator *validators.CatalogValidator,
	upgrader ports.CatalogUpgrader,
	publisher ports.EventPublisher,
	clock ports.Clock,
	cfg *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.CatalogService {
	return services.NewCatalogService(table, validator, upgrader, publisher, clock, cfg, metrics, logger.Named("catalog"))
}

// ProvideDiffer creates the version differ
func ProvideDiffer(cfg *domainconfig.DomainConfig) *versioning.Differ {
	return versioning.NewDiffer(cfg)
}

// ProvideSummaryCache creates the timeline summary cache
func ProvideSummaryCache(cfg *config.Config, metrics *observability.Collector) ports.SummaryCache {
	return cache.NewSummaryCache(cfg.SummaryCacheTTL, metrics)
}

// ProvideTimelineHandler creates the timeline query handler
func ProvideTimelineHandler(
	table ports.EngineTable,
	differ *versioning.Differ,
	summaryCache ports.SummaryCache,
	cfg *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *queries.TimelineHandler {
	return queries.NewTimelineHandler(table, differ, summaryCache, cfg, metrics, logger.Named("timeline"))
}

// ProvideCompareVersionsHandler creates the comparison query handler
func ProvideCompareVersionsHandler(
	table ports.EngineTable,
	differ *versioning.Differ,
	metrics *observability.Collector,
	logger *zap.Logger,
) *queries.CompareVersionsHandler {
	return queries.NewCompareVersionsHandler(table, differ, metrics, logger.Named("compare"))
}

// ProvideErrorHandler creates the HTTP error renderer. Internal error
// messages are exposed outside production only.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger.Named("http"), !cfg.IsProduction())
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	service *services.CatalogService,
	timeline *queries.TimelineHandler,
	compare *queries.CompareVersionsHandler,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(service, timeline, compare, errorHandler, metrics, cfg, logger)
}
