package di

import (
	"context"
	"fmt"
	"os"

	"github.com/Castore1977/project-track/application/queries"
	"github.com/Castore1977/project-track/application/services"
	"github.com/Castore1977/project-track/infrastructure/config"
	"github.com/Castore1977/project-track/interfaces/http/rest"
	"github.com/Castore1977/project-track/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Collector
	Catalog  *services.CatalogService
	Timeline *queries.TimelineHandler
	Compare  *queries.CompareVersionsHandler
	Router   *rest.Router
}

// SeedCatalog imports the exchange document named by the configuration,
// if any. A missing setting is not an error.
func (c *Container) SeedCatalog(ctx context.Context) (*services.ImportResult, error) {
	if c.Config.SeedCatalog == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(c.Config.SeedCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed catalog: %w", err)
	}
	return c.Catalog.ImportCatalogJSON(ctx, raw)
}
