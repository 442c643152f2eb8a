// Package metrics provides Prometheus instrumentation for the HTTP surface and the boards.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Board names used as label values.
const (
	BoardFeed  = "feed"
	BoardDraft = "draft"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	movesTotal       *prometheus.CounterVec
	navigationsTotal *prometheus.CounterVec
	bulkLoadsTotal   *prometheus.CounterVec
	suggestionsTotal *prometheus.CounterVec
	postsPublished   prometheus.Counter
	commentsTotal    prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		movesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chessfeed_moves_total",
				Help: "Moves submitted to a board, by outcome",
			},
			[]string{"board", "result"},
		),
		navigationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chessfeed_navigations_total",
				Help: "Forward/backward steps, split by whether the cursor moved",
			},
			[]string{"board", "direction", "moved"},
		),
		bulkLoadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chessfeed_bulk_loads_total",
				Help: "Movetext and PGN loads on the authoring board, by outcome",
			},
			[]string{"kind", "result"},
		),
		suggestionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chessfeed_suggestions_total",
				Help: "Suggested moves validated, by outcome",
			},
			[]string{"result"},
		),
		postsPublished: f.NewCounter(
			prometheus.CounterOpts{
				Name: "chessfeed_posts_published_total",
				Help: "Posts published from the authoring board",
			},
		),
		commentsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "chessfeed_comments_total",
				Help: "Comments added to posts",
			},
		),
	}
}

func result(err error) string {
	if err != nil {
		return "rejected"
	}
	return "accepted"
}

// ObserveMove counts a move attempt on board.
func (m *Metrics) ObserveMove(board string, err error) {
	if m == nil {
		return
	}
	m.movesTotal.WithLabelValues(board, result(err)).Inc()
}

// ObserveNavigation counts a cursor step on board.
func (m *Metrics) ObserveNavigation(board, direction string, moved bool) {
	if m == nil {
		return
	}
	m.navigationsTotal.WithLabelValues(board, direction, strconv.FormatBool(moved)).Inc()
}

// ObserveBulkLoad counts a movetext or PGN load.
func (m *Metrics) ObserveBulkLoad(kind string, err error) {
	if m == nil {
		return
	}
	m.bulkLoadsTotal.WithLabelValues(kind, result(err)).Inc()
}

// ObserveSuggestion counts a suggested-move validation.
func (m *Metrics) ObserveSuggestion(err error) {
	if m == nil {
		return
	}
	m.suggestionsTotal.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) PostPublished() {
	if m == nil {
		return
	}
	m.postsPublished.Inc()
}

func (m *Metrics) CommentAdded() {
	if m == nil {
		return
	}
	m.commentsTotal.Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records request metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.httpRequestsInFlight.Inc()
		defer m.httpRequestsInFlight.Dec()

		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		// Route patterns keep label cardinality bounded.
		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := strconv.Itoa(wrapped.statusCode)
		m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
