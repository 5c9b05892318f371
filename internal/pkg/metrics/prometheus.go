package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipcap",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clipcap",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clipcap",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Pipeline metrics
	pipelineJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipcap",
			Subsystem: "pipeline",
			Name:      "jobs_total",
			Help:      "Total number of pipeline runs by outcome",
		},
		[]string{"status"},
	)

	pipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clipcap",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage in seconds",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	quotaRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipcap",
			Subsystem: "quota",
			Name:      "rejections_total",
			Help:      "Requests rejected because the monthly allowance was exhausted",
		},
		[]string{"plan"},
	)

	planUpgradesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipcap",
			Subsystem: "billing",
			Name:      "plan_upgrades_total",
			Help:      "Plan upgrades applied from payment webhooks",
		},
	)

	// Artifact metrics
	artifactsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipcap",
			Subsystem: "artifacts",
			Name:      "swept_total",
			Help:      "Expired job directories removed by the sweeper",
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordJob records a completed pipeline run with its outcome
func RecordJob(status string) {
	pipelineJobsTotal.WithLabelValues(status).Inc()
}

// RecordStageDuration records the duration of a single pipeline stage
func RecordStageDuration(stage string, duration time.Duration) {
	pipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordQuotaRejection records a request rejected at the quota gate
func RecordQuotaRejection(plan string) {
	quotaRejectionsTotal.WithLabelValues(plan).Inc()
}

// RecordPlanUpgrade records a plan upgrade applied from a webhook
func RecordPlanUpgrade() {
	planUpgradesTotal.Inc()
}

// RecordArtifactsSwept records job directories reclaimed by the sweeper
func RecordArtifactsSwept(count int) {
	artifactsSweptTotal.Add(float64(count))
}
