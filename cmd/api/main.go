// Package main is the entrypoint for the Spendwise API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/cache"
	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/events"
	"github.com/spendwise/spendwise/internal/handler"
	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/repository/sqlite"
	"github.com/spendwise/spendwise/internal/server"
	"github.com/spendwise/spendwise/internal/service"
)

func main() {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until the server stops.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("open database %s: %s", redactURL(cfg.DB.URL), sanitizeError(err, cfg.DB.URL))
	}

	// Everything opened after the store is registered for shutdown too,
	// so early returns below must close what is already open.
	cleanup := []func() error{store.Close}
	fail := func(err error) error {
		for i := len(cleanup) - 1; i >= 0; i-- {
			_ = cleanup[i]()
		}
		return err
	}

	var (
		denylist    service.TokenDenylist
		cacheHealth handler.HealthChecker
		redis       *cache.Cache
	)
	if cfg.Redis.URL != "" {
		redis, err = cache.New(ctx, cfg.Redis.URL)
		if err != nil {
			return fail(fmt.Errorf("connect redis %s: %s", redactURL(cfg.Redis.URL), sanitizeError(err, cfg.Redis.URL)))
		}
		cleanup = append(cleanup, redis.Close)
		denylist, cacheHealth = redis, redis
		logger.Info("connected to Redis")
	} else {
		logger.Info("REDIS_URL not set, token revocation disabled")
	}

	publisher, err := openPublisher(cfg.Events, logger)
	if err != nil {
		return fail(err)
	}
	cleanup = append(cleanup, publisher.Close)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fail(fmt.Errorf("token issuer: %w", err))
	}

	recorder := metrics.NewInMemory()
	router := handler.NewRouter(handler.RouterConfig{
		Logger:             logger,
		Auth:               service.NewAuthService(store, tokens, denylist, recorder, logger),
		Expenses:           service.NewExpenseService(store, publisher, recorder, logger),
		Reports:            service.NewReportService(store, recorder),
		Categories:         service.NewCategoryService(store, recorder),
		DB:                 store,
		Cache:              cacheHealth,
		Metrics:            recorder,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, logger)

	// Closed in reverse: publisher, Redis, then the database.
	srv.OnShutdown("database", func(context.Context) error { return store.Close() })
	if redis != nil {
		srv.OnShutdown("redis", func(context.Context) error { return redis.Close() })
	}
	srv.OnShutdown("events", func(context.Context) error { return publisher.Close() })

	logger.Info("starting server",
		"port", cfg.HTTP.Port,
		"env", cfg.Env,
		"token_ttl", cfg.Auth.TokenTTL,
	)
	return srv.Run(ctx)
}

// openPublisher connects to the AMQP broker, or returns a no-op publisher
// when none is configured.
func openPublisher(cfg config.EventsConfig, logger *slog.Logger) (events.Publisher, error) {
	if cfg.URL == "" {
		return events.NewNoop(), nil
	}
	p, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("connect amqp %s: %s", redactURL(cfg.URL), sanitizeError(err, cfg.URL))
	}
	logger.Info("connected to AMQP broker", "exchange", cfg.Exchange)
	return p, nil
}

// appStore is the store the API runs on, whichever backend serves it.
type appStore interface {
	service.Store
	Close() error
}

// postgresStore adapts the pool's Close to the io.Closer shape.
type postgresStore struct {
	*repository.Repository
}

func (s postgresStore) Close() error {
	s.Repository.Close()
	return nil
}

// openStore picks the backend from the DATABASE_URL scheme and applies
// migrations when enabled.
func openStore(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (appStore, error) {
	if path, ok := sqlite.PathFromURL(cfg.URL); ok {
		store, err := sqlite.Open(ctx, path, cfg.QueryTimeout)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := store.Migrate(); err != nil {
				store.Close()
				return nil, err
			}
		}
		logger.Info("opened SQLite database", "path", path)
		return store, nil
	}

	if cfg.AutoMigrate {
		if err := repository.Migrate(cfg.URL); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrations applied")
	}

	repo, err := repository.New(ctx, cfg.URL, repository.PoolConfig{
		MaxConns:     cfg.MaxConns,
		MinConns:     cfg.MinConns,
		QueryTimeout: cfg.QueryTimeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")
	return postgresStore{repo}, nil
}

// newLogger builds the process logger and installs it as the slog default.
func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.Format != "json" {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL, keeping the user name.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		name := parsed.User.Username()
		if name == "" {
			name = "redacted"
		}
		parsed.User = url.User(name)
	}

	if q := parsed.Query(); q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

// sanitizeError renders err with every secret URL redacted and any
// password=... pair masked.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
