package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cdk",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cdk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	claimAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdk",
			Subsystem: "allocator",
			Name:      "claims_total",
			Help:      "Claim attempts by pool and outcome.",
		},
		[]string{"pool", "outcome"},
	)

	codesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdk",
			Subsystem: "allocator",
			Name:      "codes_issued_total",
			Help:      "Codes handed out by pool.",
		},
		[]string{"pool"},
	)

	registryFlushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cdk",
			Subsystem: "registry",
			Name:      "flushes_total",
			Help:      "Registry flushes to the pool store by result.",
		},
		[]string{"result"},
	)

	registryFlushDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cdk",
			Subsystem: "registry",
			Name:      "flush_duration_seconds",
			Help:      "Duration of registry flushes including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	registryDirty = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cdk",
			Subsystem: "registry",
			Name:      "dirty",
			Help:      "1 while the in-memory registry holds changes the store has not accepted.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		claimAttempts,
		codesIssued,
		registryFlushes,
		registryFlushDuration,
		registryDirty,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the matched route,
// so path parameters do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordClaim(poolID, outcome string, granted int) {
	claimAttempts.WithLabelValues(poolID, outcome).Inc()
	if granted > 0 {
		codesIssued.WithLabelValues(poolID).Add(float64(granted))
	}
}

func RecordFlush(result string, d time.Duration) {
	registryFlushes.WithLabelValues(result).Inc()
	registryFlushDuration.Observe(d.Seconds())
}

func SetDirty(dirty bool) {
	if dirty {
		registryDirty.Set(1)
		return
	}
	registryDirty.Set(0)
}
