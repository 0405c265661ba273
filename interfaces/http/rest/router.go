package rest

import (
	"net/http"

	"github.com/Castore1977/project-track/application/queries"
	"github.com/Castore1977/project-track/application/services"
	"github.com/Castore1977/project-track/infrastructure/config"
	"github.com/Castore1977/project-track/interfaces/http/rest/handlers"
	"github.com/Castore1977/project-track/interfaces/http/rest/middleware"
	"github.com/Castore1977/project-track/pkg/common"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service      *services.CatalogService
	timeline     *queries.TimelineHandler
	compare      *queries.CompareVersionsHandler
	errorHandler *pkgerrors.ErrorHandler
	metrics      *observability.Collector
	cfg          *config.Config
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	service *services.CatalogService,
	timeline *queries.TimelineHandler,
	compare *queries.CompareVersionsHandler,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		service:      service,
		timeline:     timeline,
		compare:      compare,
		errorHandler: errorHandler,
		metrics:      metrics,
		cfg:          cfg,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		engineHandler := handlers.NewEngineHandler(rt.service, rt.errorHandler, rt.logger)
		r.Route("/engines", func(r chi.Router) {
			r.Get("/", engineHandler.ListEngines)
			r.Post("/", engineHandler.CreateEngine)
			r.Get("/{engineID}", engineHandler.GetEngine)
			r.Delete("/{engineID}", engineHandler.DeleteEngine)
			r.Post("/{engineID}/versions", engineHandler.SaveVersion)
			r.Delete("/{engineID}/versions/latest", engineHandler.RollbackLastVersion)
			r.Get("/{engineID}/link-targets", engineHandler.LinkTargets)
			r.Get("/{engineID}/name", engineHandler.ResolveName)
			r.Post("/{engineID}/links", engineHandler.LinkEntry)
		})

		catalogHandler := handlers.NewCatalogHandler(rt.service, rt.errorHandler, rt.logger)
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/export", catalogHandler.Export)
			r.Post("/import", catalogHandler.Import)
		})

		r.Get("/timeline", handlers.NewTimelineHandler(rt.timeline, rt.errorHandler, rt.logger).GetTimeline)
		r.Get("/diff", handlers.NewDiffHandler(rt.compare, rt.errorHandler, rt.logger).Compare)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports the size of the loaded catalog
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	engines, versions := rt.service.Stats(req.Context())
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"engines":  engines,
		"versions": versions,
	})
}
