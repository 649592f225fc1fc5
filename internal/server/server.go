// Package server runs the HTTP listener and tears down registered
// components when the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// ShutdownFunc releases one component.
type ShutdownFunc func(ctx context.Context) error

// Options configures the HTTP server.
type Options struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type component struct {
	name  string
	close ShutdownFunc
}

// Server is an http.Server plus an ordered list of components to close
// after it stops.
type Server struct {
	http    *http.Server
	timeout time.Duration
	logger  *slog.Logger

	mu         sync.Mutex
	components []component
}

// New creates a Server listening on opts.Port.
func New(handler http.Handler, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(opts.Port)),
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
		},
		timeout: opts.ShutdownTimeout,
		logger:  logger.With("component", "server"),
	}
}

// OnShutdown registers fn to run after the HTTP server has drained.
// Components close in reverse registration order.
func (s *Server) OnShutdown(name string, fn ShutdownFunc) {
	s.mu.Lock()
	s.components = append(s.components, component{name: name, close: fn})
	s.mu.Unlock()
}

// Run listens on the configured port and calls Serve. When the port cannot
// be bound, the registered components are closed before returning.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		err = fmt.Errorf("listen on %s: %w", s.http.Addr, err)
		s.logger.Error("listen failed", "error", err)

		closeCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		return errors.Join(append([]error{err}, s.closeComponents(closeCtx)...)...)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or SIGINT/SIGTERM
// arrives, then drains requests and closes components. A listener failure
// also triggers the shutdown and is returned.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server starting", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutdown started")
		return s.shutdown()
	})
	return g.Wait()
}

// shutdown drains the HTTP server, then closes components LIFO. Every
// component is closed even when an earlier one fails.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.http.SetKeepAlivesEnabled(false)
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("http drain failed", "error", err)
		errs = append(errs, fmt.Errorf("http: %w", err))
	}

	errs = append(errs, s.closeComponents(ctx)...)

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// closeComponents closes every registered component LIFO and returns
// the failures.
func (s *Server) closeComponents(ctx context.Context) []error {
	s.mu.Lock()
	components := append([]component(nil), s.components...)
	s.mu.Unlock()

	var errs []error
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.close(ctx); err != nil {
			s.logger.Error("component shutdown failed", "name", c.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		s.logger.Info("component stopped", "name", c.name)
	}
	return errs
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}
