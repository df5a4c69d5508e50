package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/metrics"
)

// RouterConfig holds the cross-cutting HTTP policy.
type RouterConfig struct {
	APIKeys        []string
	AllowedOrigins []string
	CORSMaxAge     int
	// RateLimit is requests per RateWindow per client IP on the assistant
	// routes; 0 disables limiting.
	RateLimit  int
	RateWindow time.Duration
}

// NewRouter mounts the server handlers with the middleware stack.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(JSONRecoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         cfg.CORSMaxAge,
	}))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/products", s.ListProducts)

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(cfg.RateLimit, cfg.RateWindow))
		r.Post("/chat", s.Chat)
		r.Post("/voice/chat", s.VoiceChat)
		r.Post("/voice/start", s.VoiceStart)
		r.Post("/voice/process", s.VoiceProcess)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed, "method not allowed")
	})

	return r
}

// rateLimit limits requests per client IP; requests <= 0 disables it.
func rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, ErrorCodeRateLimited, "too many requests")
		}),
	)
}
