// Package metrics holds the Prometheus collectors for the catalogue server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spectator_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spectator_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spectator_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spectator_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"route"},
	)

	// Pagination
	PageRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spectator_page_requests_total",
			Help: "Paginated list requests by outcome",
		},
		[]string{"outcome"}, // "ok", "clamped", "not_found"
	)

	// MCP
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spectator_mcp_tool_calls_total",
			Help: "Total number of MCP tool calls",
		},
		[]string{"tool", "status"},
	)

	// Catalogue maintenance
	SortKeysRecomputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spectator_sort_keys_recomputed_total",
			Help: "Stored sort keys rewritten by resort runs",
		},
		[]string{"table"},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, route string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordPage records how a page request was resolved.
func RecordPage(requested, served int, err error) {
	switch {
	case err != nil:
		PageRequests.WithLabelValues("not_found").Inc()
	case requested != served:
		PageRequests.WithLabelValues("clamped").Inc()
	default:
		PageRequests.WithLabelValues("ok").Inc()
	}
}

// RecordToolCall records one MCP tool invocation.
func RecordToolCall(tool string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ToolCalls.WithLabelValues(tool, status).Inc()
}

// RecordResort records the number of keys rewritten in table.
func RecordResort(table string, n int) {
	SortKeysRecomputed.WithLabelValues(table).Add(float64(n))
}

// Middleware instruments every request with the matched chi route pattern,
// so that path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, routePattern(r), status, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
