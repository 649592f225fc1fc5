package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 5 * time.Second

// HealthChecker is a dependency the readiness probe can ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// dependency is a named HealthChecker; a nil checker is reported as not configured.
type dependency struct {
	name    string
	checker HealthChecker
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps   []dependency
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler probing the store and, when
// Redis is configured, the cache. Pass a nil interface for cache otherwise.
func NewHealthHandler(db, cache HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		deps: []dependency{
			{name: "database", checker: db},
			{name: "redis", checker: cache},
		},
		logger: logger,
	}
}

// HealthResponse is the body of both probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz reports that the process is serving. It never touches dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings every configured dependency concurrently and answers 503
// when any of them fails. Failure detail goes to the log only.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = make(map[string]string, len(h.deps))
	)
	record := func(name, state string) {
		mu.Lock()
		checks[name] = state
		mu.Unlock()
	}

	// Probes never return an error to the group so one slow failure
	// does not cancel the others.
	var g errgroup.Group
	for _, dep := range h.deps {
		if dep.checker == nil {
			record(dep.name, "not configured")
			continue
		}
		g.Go(func() error {
			if err := dep.checker.Ping(ctx); err != nil {
				h.logger.Warn("readiness_check_failed", "dependency", dep.name, "error", err)
				record(dep.name, "unavailable")
				return nil
			}
			record(dep.name, "ok")
			return nil
		})
	}
	_ = g.Wait()

	resp := HealthResponse{Status: "ok", Checks: checks}
	code := http.StatusOK
	for _, state := range checks {
		if state == "unavailable" {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, resp)
}
