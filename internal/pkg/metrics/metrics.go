package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "petmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})

	// Pipeline metrics
	MalformedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petmap",
		Subsystem: "places",
		Name:      "malformed_records_total",
		Help:      "Place records excluded because their coordinate could not be parsed",
	}, []string{"reason"})

	SearchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petmap",
		Subsystem: "search",
		Name:      "failures_total",
		Help:      "Nearby searches that fell back to an empty result",
	}, []string{"kind"})

	StaleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "petmap",
		Subsystem: "search",
		Name:      "stale_responses_total",
		Help:      "Search results discarded because a newer search was issued",
	})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "petmap",
		Subsystem: "search",
		Name:      "upstream_duration_seconds",
		Help:      "Duration of the remote nearby search call",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	LocationFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petmap",
		Subsystem: "location",
		Name:      "fallbacks_total",
		Help:      "Times the fallback coordinate was used instead of device location",
	}, []string{"reason"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petmap",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petmap",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
