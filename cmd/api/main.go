package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/withsutham/SE-KPS-68-2/internal/api/router"
	"github.com/withsutham/SE-KPS-68-2/internal/app/bootstrap"
	"github.com/withsutham/SE-KPS-68-2/internal/bookings"
	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
	appconfig "github.com/withsutham/SE-KPS-68-2/internal/config"
	"github.com/withsutham/SE-KPS-68-2/internal/observability/metrics"
	"github.com/withsutham/SE-KPS-68-2/internal/receipt"
	"github.com/withsutham/SE-KPS-68-2/internal/records"
	"github.com/withsutham/SE-KPS-68-2/internal/users"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting spa booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, logger, prometheus.NewRegistry())
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer app.close()

	go app.events.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

type app struct {
	handler http.Handler
	events  *bootstrap.EventPipeline
	pool    *pgxpool.Pool
	redis   *redis.Client
}

func (a *app) close() {
	_ = a.events.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// newApp wires every component from cfg. Missing Postgres, Redis or
// RabbitMQ settings fall back to in-process implementations.
func newApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, registry *prometheus.Registry) (*app, error) {
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	provider, err := bootstrap.BuildCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}
	pool, err := bootstrap.BuildPostgresPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)

	a := &app{pool: pool, redis: redisClient}
	a.events, err = bootstrap.BuildEventPipeline(cfg, pool, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	bookingService := bookings.NewService(bootstrap.BuildSessionStore(redisClient, cfg), provider, bookings.Options{
		Publisher: a.events.Publisher,
		Metrics:   metrics.NewBookingMetrics(registry),
		Logger:    logger,
		Location:  cfg.Location(),
	})
	if cfg.ConfirmationFont == "" {
		logger.Warn("no confirmation font configured, Thai text in PDFs falls back to service ids and placeholders",
			"env", "CONFIRMATION_FONT_PATH")
	}
	document := receipt.PDFOptions{
		FontPath:    cfg.ConfirmationFont,
		PromptPayID: cfg.PromptPayID,
		SpaName:     cfg.SpaName,
	}

	checks := map[string]router.HealthCheck{}
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	a.handler = router.New(&router.Config{
		Logger:             logger,
		CatalogHandler:     catalog.NewHandler(provider, logger),
		BookingsHandler:    bookings.NewHandler(bookingService, logger, document),
		RecordsHandler:     records.NewHandler(bootstrap.BuildRecordRepository(pool), metrics.NewAPIMetrics(registry), logger),
		UsersHandler:       users.NewHandler(bootstrap.BuildUserDirectory(bootstrap.BuildSQLDB(pool)), logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		HealthChecks:       checks,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		Context:            ctx,
	})
	return a, nil
}
