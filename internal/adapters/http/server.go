package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
)

const defaultDrainTimeout = 15 * time.Second

// Server serves the router over HTTP and drains in-flight requests on
// shutdown.
type Server struct {
	srv    *http.Server
	drain  time.Duration
	logger *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithDrainTimeout bounds how long Run waits for in-flight requests once its
// context is cancelled.
func WithDrainTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.drain = d }
}

// NewServer builds a Server listening on cfg's host and port.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		drain:  defaultDrainTimeout,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully. It returns nil after a clean drain.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.RunListener(ctx, ln)
}

// RunListener is Run on an existing listener.
func (s *Server) RunListener(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drain)
		defer cancel()
		return s.Shutdown(drainCtx)
	})
	return g.Wait()
}

func (s *Server) serve(ln net.Listener) error {
	s.logger.Info("serving user actions", slog.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("draining http server", slog.Duration("timeout", s.drain))
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("draining http server: %w", err)
	}
	return nil
}
