package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/withsutham/SE-KPS-68-2/internal/bookings"
	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
	"github.com/withsutham/SE-KPS-68-2/internal/http/respond"
	httpmiddleware "github.com/withsutham/SE-KPS-68-2/internal/http/middleware"
	"github.com/withsutham/SE-KPS-68-2/internal/records"
	"github.com/withsutham/SE-KPS-68-2/internal/users"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	CatalogHandler  *catalog.Handler
	BookingsHandler *bookings.Handler
	RecordsHandler  *records.Handler
	UsersHandler    *users.Handler
	MetricsHandler  http.Handler

	// HealthChecks are run by /health; a failing check turns the response
	// into a 503.
	HealthChecks map[string]HealthCheck

	CORSAllowedOrigins []string
	// AdminAuthSecret guards /api with a staff JWT when set.
	AdminAuthSecret string
	RateLimitRPS    float64
	RateLimitBurst  int

	// Context bounds background work started by the router, such as rate
	// limiter eviction. Defaults to context.Background.
	Context context.Context
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitRPS > 0 {
		ctx := cfg.Context
		if ctx == nil {
			ctx = context.Background()
		}
		r.Use(httpmiddleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	r.Get("/health", healthHandler(cfg.HealthChecks))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.CatalogHandler != nil {
		r.Mount("/catalog", cfg.CatalogHandler.Routes())
	}
	if cfg.BookingsHandler != nil {
		r.Mount("/booking", cfg.BookingsHandler.Routes())
	}

	if cfg.RecordsHandler != nil || cfg.UsersHandler != nil {
		r.Route("/api", func(api chi.Router) {
			if cfg.AdminAuthSecret != "" {
				api.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			}
			if cfg.UsersHandler != nil {
				cfg.UsersHandler.Register(api)
			}
			if cfg.RecordsHandler != nil {
				cfg.RecordsHandler.Register(api)
			}
		})
	}

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		respond.JSON(w, status, body)
	}
}
