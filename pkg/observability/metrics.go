package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
// A nil *Collector is valid and records nothing.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Catalog metrics
	Operations *prometheus.CounterVec
	Engines    prometheus.Gauge
	Versions   prometheus.Gauge
	Events     *prometheus.CounterVec

	// Diff metrics
	DiffDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a metrics collector with its own registry, so that
// independent catalogs (and tests) never collide on registration.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_operations_total",
				Help:      "Total number of catalog operations by outcome",
			},
			[]string{"operation", "status"},
		),
		Engines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_engines",
				Help:      "Number of engines in the catalog",
			},
		),
		Versions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_versions",
				Help:      "Number of versions across all engines",
			},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Total number of published domain events",
			},
			[]string{"event_type"},
		),
		DiffDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "diff_duration_seconds",
				Help:      "Version comparison duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"mode"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_cache_hits_total",
				Help:      "Total number of summary cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_cache_misses_total",
				Help:      "Total number of summary cache misses",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Operations,
		c.Engines,
		c.Versions,
		c.Events,
		c.DiffDuration,
		c.CacheHits,
		c.CacheMisses,
	)

	return c
}

// RecordOperation counts a catalog operation as ok or failed
func (c *Collector) RecordOperation(operation string, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	c.Operations.WithLabelValues(operation, status).Inc()
}

// SetCatalogSize updates the engine and version gauges
func (c *Collector) SetCatalogSize(engines, versions int) {
	if c == nil {
		return
	}
	c.Engines.Set(float64(engines))
	c.Versions.Set(float64(versions))
}

// RecordEvent counts a published domain event
func (c *Collector) RecordEvent(eventType string) {
	if c == nil {
		return
	}
	c.Events.WithLabelValues(eventType).Inc()
}

// RecordDiff records how long a comparison took
func (c *Collector) RecordDiff(mode string, duration time.Duration) {
	if c == nil {
		return
	}
	c.DiffDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordCacheLookup counts a summary cache hit or miss
func (c *Collector) RecordCacheLookup(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler exposes the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
