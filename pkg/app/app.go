// Package app assembles a router into a runnable HTTP application:
// request construction, response writing, completion logging, metrics
// and optional tracing, plus server lifecycle.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/volt-go/volt/pkg/httpx"
	"github.com/volt-go/volt/pkg/router"
)

// App dispatches HTTP requests through a router. It implements
// http.Handler, so it can be mounted inside any other mux.
type App struct {
	cfg      *Config
	router   *router.Router
	logger   *slog.Logger
	metrics  *serverMetrics
	gatherer prometheus.Gatherer
	tracer   trace.Tracer

	httpServer *http.Server
}

// New creates an App around the given router. A nil cfg uses
// DefaultConfig.
func New(cfg *Config, r *router.Router) *App {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.fillDefaults()

	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.MetricsRegistry != nil {
		reg = cfg.MetricsRegistry
		gatherer = cfg.MetricsRegistry
	}

	logger := slog.Default().With("component", "app")
	r.SetLogger(logger)
	r.SetDebug(cfg.Debug)

	a := &App{
		cfg:      cfg,
		router:   r,
		logger:   logger,
		metrics:  newServerMetrics(reg),
		gatherer: gatherer,
	}
	if err := reg.Register(router.NewStatsCollector(r)); err != nil {
		logger.Warn("router stats collector not registered", "error", err)
	}
	if cfg.EnableTracing {
		a.tracer = otel.Tracer("volt")
	}
	return a
}

// Router returns the underlying router for route registration.
func (a *App) Router() *router.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.cfg.StaticFS != nil && a.tryStatic(w, r) {
		return
	}

	start := time.Now()
	a.metrics.inFlight.Inc()
	defer a.metrics.inFlight.Dec()

	var span trace.Span
	if a.tracer != nil {
		var ctx context.Context
		ctx, span = a.startSpan(r.Context(), r.Method, r.URL.Path)
		r = r.WithContext(ctx)
	}

	req := httpx.NewRequest(r, a.cfg.BasePath)
	resp := a.router.Dispatch(req)

	elapsed := time.Since(start)
	a.metrics.observe(req.Method(), resp.Status, elapsed)
	if span != nil {
		a.endSpan(span, resp.Status)
	}

	a.logger.Info("request",
		"method", req.Method(),
		"path", req.Path(),
		"status", resp.Status,
		"duration", elapsed)

	resp.Write(w)
}

// Handler returns the full HTTP surface: the metrics endpoint (when
// configured) and the App itself for everything else.
func (a *App) Handler() http.Handler {
	if a.cfg.MetricsPath == "" {
		return a
	}
	mux := http.NewServeMux()
	mux.Handle(a.cfg.MetricsPath, promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/", a)
	return mux
}

// Run starts the server and blocks until ctx is canceled or the
// listener fails.
func (a *App) Run(ctx context.Context) error {
	a.httpServer = &http.Server{
		Addr:         a.cfg.Address,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "address", a.cfg.Address)
		errCh <- a.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		a.logger.Info("shutting down...")
		return a.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	a.logger.Info("server shutdown complete")
	return nil
}
