package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/weave/internal/config"
	"github.com/vango-dev/weave/pkg/islands"
	"github.com/vango-dev/weave/pkg/middleware"
	"github.com/vango-dev/weave/pkg/render"
)

// Timeouts applied to the HTTP server.
const (
	ReadHeaderTimeout = 5 * time.Second
	IdleTimeout       = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Server is a weave HTTP server.
type Server struct {
	config *config.Config
	logger *slog.Logger

	registry   *islands.Registry
	renderer   *render.Renderer
	composer   *render.Composer
	streaming  *render.StreamingComposer
	dispatcher *islands.Dispatcher

	metrics *middleware.Metrics
	tracing *middleware.Tracing

	router     chi.Router
	httpServer *http.Server
}

// New creates a server for cfg. A nil cfg uses defaults and a nil logger
// uses slog.Default.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		metrics: middleware.Prometheus(),
	}
	if cfg.Tracing {
		s.tracing = middleware.OpenTelemetry(middleware.WithTracerName("weave"))
	}

	observers := []render.Observer{s.metrics}
	if s.tracing != nil {
		observers = append(observers, s.tracing)
	}

	s.registry = islands.NewRegistry(islands.WithLogger(logger))
	s.renderer = render.NewRenderer(render.RendererConfig{
		Logger:         logger,
		MaxConcurrency: cfg.MaxConcurrency,
		Observers:      observers,
	})
	s.composer = render.NewComposer(render.ComposerConfig{
		Renderer:     s.renderer,
		Islands:      s.registry,
		Lang:         cfg.Lang,
		ClientScript: cfg.ClientScript,
		Timeout:      cfg.RenderTimeout.Std(),
		Logger:       logger,
	})
	s.streaming = render.NewStreamingComposer(s.composer)
	s.dispatcher = islands.NewDispatcher(islands.DispatcherConfig{
		Registry: s.registry,
		Renderer: s.renderer,
		Prefix:   cfg.PartialPrefix,
		Timeout:  cfg.RenderTimeout.Std(),
		Logger:   logger,
	})

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.tracing != nil {
		r.Use(s.tracing.Middleware)
	}
	r.Use(s.metrics.Middleware)

	r.Mount(s.dispatcher.Prefix(), s.dispatcher.Routes())
	if s.config.MetricsEnabled() {
		r.Method(http.MethodGet, s.config.MetricsPath, promhttp.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// Page serves the page built by fn at pattern.
func (s *Server) Page(pattern string, fn render.PageFunc) {
	s.router.Method(http.MethodGet, pattern, s.composer.Handler(fn))
}

// StreamPage serves the page built by fn at pattern, flushing the
// document head before the body has rendered.
func (s *Server) StreamPage(pattern string, fn render.PageFunc) {
	s.router.Method(http.MethodGet, pattern, s.streaming.Handler(fn))
}

// Router returns the router for mounting additional handlers.
func (s *Server) Router() chi.Router {
	return s.router
}

// Composer returns the page composer.
func (s *Server) Composer() *render.Composer {
	return s.composer
}

// Dispatcher returns the partial dispatcher.
func (s *Server) Dispatcher() *islands.Dispatcher {
	return s.dispatcher
}

// Registry returns the island registry.
func (s *Server) Registry() *islands.Registry {
	return s.registry
}

// Config returns the server configuration.
func (s *Server) Config() *config.Config {
	return s.config
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: ReadHeaderTimeout,
		IdleTimeout:       IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.WithoutCancel(ctx))
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
