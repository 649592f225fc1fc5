package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/service"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Logger *slog.Logger

	Auth       *service.AuthService
	Expenses   *service.ExpenseService
	Reports    *service.ReportService
	Categories *service.CategoryService

	// DB and Cache back the readiness probe. Cache must be a nil
	// interface when Redis is not configured.
	DB    HealthChecker
	Cache HealthChecker

	Metrics metrics.Snapshotter

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := New()
	healthHandler := NewHealthHandler(cfg.DB, cfg.Cache, logger)
	metricsHandler := NewMetricsHandler(cfg.Metrics)
	authHandler := NewAuthHandler(cfg.Auth, logger)
	expenseHandler := NewExpenseHandler(cfg.Expenses, logger)
	reportHandler := NewReportHandler(cfg.Reports, logger)
	categoryHandler := NewCategoryHandler(cfg.Categories, logger)

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = cfg.IsDevelopment
	if cfg.MaxRequestBodySize > 0 {
		securityCfg.MaxRequestBodySize = cfg.MaxRequestBodySize
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(securityCfg))
	r.Use(middleware.MaxBodySize(securityCfg.MaxRequestBodySize))
	r.Use(middleware.CORS(corsCfg))

	// Operational endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	// Account endpoints
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	authCfg := middleware.AuthConfig{
		Logger:        logger,
		Authenticator: cfg.Auth,
	}

	// Everything below requires a bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Get("/api/me", authHandler.Me)
		if cfg.Auth.RevocationEnabled() {
			r.Post("/api/logout", authHandler.Logout)
		}

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenseHandler.List)
			r.Post("/", expenseHandler.Create)
			r.Get("/range", expenseHandler.ListByRange)
			r.Get("/{id}", expenseHandler.Get)
			r.Put("/{id}", expenseHandler.Update)
			r.Delete("/{id}", expenseHandler.Delete)
		})

		r.Get("/reports/{report}", reportHandler.Run)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Post("/", categoryHandler.Create)
			r.Delete("/", categoryHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
