package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/spectator/internal/metrics"
)

// Config wires the HTTP server.
type Config struct {
	Services Services
	// Resolver authenticates API writes. Nil disables auth.
	Resolver KeyResolver
	// MCP, when set, is mounted at /mcp. It authenticates its own calls.
	MCP http.Handler

	CORSOrigins []string
	CORSMaxAge  int

	// RateLimit bounds API writes per client IP; zero disables it.
	RateLimit       int
	RateLimitWindow time.Duration

	Logger *slog.Logger
}

// Server serves the HTML views and the JSON API.
type Server struct {
	svc    Services
	views  *views
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id", "X-Request-Id"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
		MaxAge:         cfg.CORSMaxAge,
	}))

	srv := &Server{svc: cfg.Services, views: mustLoadViews(), logger: cfg.Logger}

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	writes := []func(http.Handler) http.Handler{}
	if cfg.RateLimit > 0 {
		writes = append(writes, httprate.Limit(cfg.RateLimit, cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				metrics.RateLimitHits.WithLabelValues(routePattern(r)).Inc()
				WriteError(w, http.StatusTooManyRequests, &APIError{Code: "RATE_LIMITED", Message: "too many requests", RecoveryHint: "Retry later"})
			}),
		))
	}
	if cfg.Resolver != nil {
		writes = append(writes, AuthMiddleware(cfg.Resolver))
	}

	r.Route("/api", func(r chi.Router) {
		srv.apiReads(r)
		r.Group(func(r chi.Router) {
			r.Use(writes...)
			srv.apiWrites(r)
		})
	})

	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	srv.htmlRoutes(r)
	r.NotFound(srv.handleNotFound)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}
