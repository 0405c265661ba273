//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/Castore1977/project-track/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetrics,
	ProvideEngineTable,
	ProvideCatalogValidator,
	ProvideCatalogUpgrader,
	ProvideEventPublisher,
	ProvideClock,
	ProvideCatalogService,
	ProvideDiffer,
	ProvideSummaryCache,
	ProvideTimelineHandler,
	ProvideCompareVersionsHandler,
	ProvideErrorHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
