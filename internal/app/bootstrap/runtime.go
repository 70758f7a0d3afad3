package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/withsutham/SE-KPS-68-2/internal/bookings"
	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
	appconfig "github.com/withsutham/SE-KPS-68-2/internal/config"
	"github.com/withsutham/SE-KPS-68-2/internal/records"
	"github.com/withsutham/SE-KPS-68-2/internal/users"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available; booking sessions stay in memory", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildPostgresPool connects to DATABASE_URL. A nil pool and nil error mean
// the database is not configured.
func BuildPostgresPool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	logger.Info("connected to postgres")
	return pool, nil
}

// BuildSQLDB exposes the pool through database/sql for packages that scan
// with the standard interfaces.
func BuildSQLDB(pool *pgxpool.Pool) *sql.DB {
	if pool == nil {
		return nil
	}
	return stdlib.OpenDBFromPool(pool)
}

// BuildCatalog loads CATALOG_FILE when set and falls back to the built-in
// service list.
func BuildCatalog(cfg *appconfig.Config, logger *logging.Logger) (catalog.Provider, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil || strings.TrimSpace(cfg.CatalogFile) == "" {
		return catalog.Default(), nil
	}
	provider, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", cfg.CatalogFile, "services", len(provider.All()))
	return provider, nil
}

// BuildSessionStore keeps booking drafts in Redis when a client is
// available and in process memory otherwise.
func BuildSessionStore(redisClient *redis.Client, cfg *appconfig.Config) bookings.Store {
	ttl := bookings.DefaultSessionTTL
	if cfg != nil && cfg.SessionTTL > 0 {
		ttl = cfg.SessionTTL
	}
	if redisClient == nil {
		return bookings.NewInMemoryStore(ttl)
	}
	return bookings.NewRedisStore(redisClient, ttl)
}

// BuildRecordRepository returns the Postgres repository, or an in-memory
// one when no database is configured.
func BuildRecordRepository(pool *pgxpool.Pool) records.Repository {
	if pool == nil {
		return records.NewInMemoryRepository()
	}
	return records.NewPostgresRepository(pool)
}

// BuildUserDirectory reads auth.users through db, or serves an empty
// directory when no database is configured.
func BuildUserDirectory(db *sql.DB) users.Directory {
	if db == nil {
		return users.NewInMemoryDirectory()
	}
	return users.NewPostgresDirectory(db)
}
