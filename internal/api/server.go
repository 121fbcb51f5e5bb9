// ABOUTME: HTTP server that wires the store, auth gate, metrics and blog handlers together
// ABOUTME: Manages listener lifecycle and graceful shutdown under an errgroup

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/2389/blogpessoal/internal/auth"
	"github.com/2389/blogpessoal/internal/config"
	"github.com/2389/blogpessoal/internal/metrics"
	"github.com/2389/blogpessoal/internal/store"
)

// Server is the blogpessoal HTTP API.
type Server struct {
	config  *config.Config
	store   store.Store
	hasher  auth.PasswordHasher
	tokens  *auth.TokenService
	login   *auth.LoginService
	gate    *auth.Gate
	metrics *metrics.Metrics
	render  *markdownRenderer
	logger  *slog.Logger

	handler    http.Handler
	httpServer *http.Server

	shutdownOnce sync.Once
	shutdownErr  error
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	tokenOptions []auth.TokenOption
}

// WithTokenOptions passes options to the token service, such as auth.WithClock.
func WithTokenOptions(opts ...auth.TokenOption) Option {
	return func(o *serverOptions) {
		o.tokenOptions = append(o.tokenOptions, opts...)
	}
}

// New creates a Server. The store is owned by the server and closed on Shutdown.
func New(cfg *config.Config, s store.Store, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if s == nil {
		return nil, errors.New("store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), o.tokenOptions...)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	m := metrics.New()
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	login := auth.NewLoginService(s, hasher, tokens, logger.With("component", "login"))
	gate := auth.NewGate(tokens, auth.NewResolver(s),
		auth.WithBasicAuth(login),
		auth.WithDecisionRecorder(m),
		auth.WithGateLogger(logger.With("component", "auth-gate")),
	)

	srv := &Server{
		config:  cfg,
		store:   s,
		hasher:  hasher,
		tokens:  tokens,
		login:   login,
		gate:    gate,
		metrics: m,
		render:  newMarkdownRenderer(),
		logger:  logger.With("component", "api"),
	}

	mux := http.NewServeMux()
	srv.registerRoutes(mux)
	srv.handler = srv.requestLogger(srv.cors(mux))

	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	return srv, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is canceled or
// the server fails. Returns nil on graceful shutdown. The store is closed on
// every return path, including a failed listen.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		listenErr := fmt.Errorf("listening on %s: %w", s.config.Server.HTTPAddr, err)
		return errors.Join(listenErr, s.Shutdown(context.Background()))
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled or the HTTP server stops.
// A direct call to Shutdown also makes it return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("initiating shutdown")
		return s.gracefulShutdown()
	})

	return g.Wait()
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// The caller's context is already canceled at this point.
func (s *Server) gracefulShutdown() error {
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and closes the store. Only the first call
// does the work; later calls wait for it and return its result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down server")

		var errs []error
		errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))
		errs = appendCloseError(errs, "store close", s.store.Close())

		s.shutdownErr = errors.Join(errs...)
	})
	return s.shutdownErr
}
