// Package metrics holds the Prometheus collectors for video processing and
// the HTTP API. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keagan/tagcannon/internal/analysis"
)

// Video processing statuses.
const (
	StatusOK     = "ok"
	StatusCached = "cached"
	StatusFailed = "failed"
)

// Metrics holds all collectors, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	VideosProcessed  *prometheus.CounterVec
	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates and registers the collectors. Call once per process.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.VideosProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagcannon_videos_processed_total",
			Help: "Videos processed, by status.",
		},
		[]string{"status"},
	)

	m.Analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagcannon_analyses_total",
			Help: "Text analyses run, by outcome.",
		},
		[]string{"outcome"},
	)

	m.AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagcannon_analysis_duration_seconds",
			Help:    "Duration of a single text analysis.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	m.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tagcannon_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	m.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagcannon_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.VideosProcessed,
		m.Analyses,
		m.AnalysisDuration,
		m.RequestDuration,
		m.RequestsInFlight,
	)

	return m
}

// ObserveVideo counts one processed video.
func (m *Metrics) ObserveVideo(status string) {
	if m == nil {
		return
	}
	m.VideosProcessed.WithLabelValues(status).Inc()
}

// ObserveAnalysis records one analysis and its outcome labels. A clean run
// counts as "complete"; otherwise every raised flag is counted.
func (m *Metrics) ObserveAnalysis(outcome analysis.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Observe(elapsed.Seconds())
	for _, label := range OutcomeLabels(outcome) {
		m.Analyses.WithLabelValues(label).Inc()
	}
}

// OutcomeLabels maps outcome flags to metric label values.
func OutcomeLabels(o analysis.Outcome) []string {
	var labels []string
	if o.InsufficientSignal {
		labels = append(labels, "fallback")
	}
	if o.ExtractionDegraded {
		labels = append(labels, "extraction_degraded")
	}
	if o.NoCategoryMatch {
		labels = append(labels, "no_category")
	}
	if len(labels) == 0 {
		labels = append(labels, "complete")
	}
	return labels
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request duration and in-flight count. Routes are
// labelled by their chi pattern to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
