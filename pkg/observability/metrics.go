package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"statdash/domain/analytics"
)

// Breaker states as exported by the breaker_state gauge
var breakerStates = []string{"closed", "half-open", "open"}

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Query bus metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Capacities API metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	BreakerState     *prometheus.GaugeVec

	// Space metrics, refreshed whenever statistics are computed
	SpaceStructures     prometheus.Gauge
	SpaceCollections    prometheus.Gauge
	SpaceObjects        prometheus.Gauge
	EstimatedStructures prometheus.Gauge
}

// NewCollector creates a metrics collector with its own registry.
// Each call returns an independent registry so tests can build as many as they like.
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
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of dispatched queries",
			},
			[]string{"query", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query handling duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"query"},
		),
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "capacities_requests_total",
				Help:      "Total number of requests sent to the Capacities API",
			},
			[]string{"operation", "outcome"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "capacities_request_duration_seconds",
				Help:      "Capacities API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "1 for the current state of each circuit breaker, 0 otherwise",
			},
			[]string{"name", "state"},
		),
		SpaceStructures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "space_structures",
			Help:      "Number of structures in the space",
		}),
		SpaceCollections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "space_collections",
			Help:      "Number of collections in the space",
		}),
		SpaceObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "space_objects",
			Help:      "Number of objects in the space, estimates included",
		}),
		EstimatedStructures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "space_estimated_structures",
			Help:      "Number of structures whose object count was estimated",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.Queries,
		c.QueryDuration,
		c.UpstreamRequests,
		c.UpstreamDuration,
		c.BreakerState,
		c.SpaceStructures,
		c.SpaceCollections,
		c.SpaceObjects,
		c.EstimatedStructures,
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTPRequest records a served request
func (c *Collector) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveQuery records a dispatched query
func (c *Collector) ObserveQuery(queryType, outcome string, d time.Duration) {
	c.Queries.WithLabelValues(queryType, outcome).Inc()
	c.QueryDuration.WithLabelValues(queryType).Observe(d.Seconds())
}

// ObserveUpstreamRequest records a call to the Capacities API
func (c *Collector) ObserveUpstreamRequest(operation, outcome string, d time.Duration) {
	c.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	c.UpstreamDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveBreakerState flips the state gauge of a circuit breaker
func (c *Collector) ObserveBreakerState(name, state string) {
	for _, s := range breakerStates {
		value := 0.0
		if s == state {
			value = 1
		}
		c.BreakerState.WithLabelValues(name, s).Set(value)
	}
}

// PublishSpaceStatistics refreshes the space gauges
func (c *Collector) PublishSpaceStatistics(_ context.Context, stats *analytics.SpaceStatistics) error {
	if stats == nil {
		return nil
	}

	estimated := 0
	for _, s := range stats.Structures {
		if s.Estimated {
			estimated++
		}
	}

	c.SpaceStructures.Set(float64(stats.TotalStructures))
	c.SpaceCollections.Set(float64(stats.TotalCollections))
	c.SpaceObjects.Set(float64(stats.TotalObjects))
	c.EstimatedStructures.Set(float64(estimated))
	return nil
}
