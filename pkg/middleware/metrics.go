package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/render"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "weave").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "weave",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for renders and HTTP requests.
// It is a render.Observer and provides HTTP middleware.
type Metrics struct {
	rendersTotal    *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	renderFailures  *prometheus.CounterVec
	stylesCollected prometheus.Counter
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	dispatchTotal   *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// initMetrics registers the collectors.
func initMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render passes by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		renderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_failures_total",
			Help:        "Subtrees replaced by a render-error comment, by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		stylesCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "styles_collected_total",
			Help:        "Scoped style rules collected across render passes",
			ConstLabels: config.ConstLabels,
		}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "partial_dispatch_total",
			Help:        "Total number of partial dispatches by partial name and status",
			ConstLabels: config.ConstLabels,
		}, []string{"partial", "status"}),
	}
}

// Prometheus returns the process metrics, creating them on first call.
//
// Metrics collected:
//   - weave_renders_total: render passes by outcome (ok, partial)
//   - weave_render_duration_seconds: render pass duration
//   - weave_render_failures_total: contained subtree failures by code
//   - weave_styles_collected_total: scoped rules collected
//   - weave_http_requests_total: requests by route pattern and status
//   - weave_http_request_duration_seconds: request duration by route
//   - weave_partial_dispatch_total: dispatches by partial name and status
//
// Example:
//
//	m := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	r := render.NewRenderer(render.RendererConfig{Observers: []render.Observer{m}})
//	router.Use(m.Middleware)
//	router.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	return globalMetrics
}

// RenderStarted implements render.Observer.
func (m *Metrics) RenderStarted(ctx context.Context) context.Context {
	return ctx
}

// RenderFinished implements render.Observer.
func (m *Metrics) RenderFinished(_ context.Context, res *render.Result) {
	m.renderDuration.Observe(res.Duration.Seconds())
	m.stylesCollected.Add(float64(len(res.Rules)))

	outcome := "ok"
	if len(res.Failures) > 0 {
		outcome = "partial"
	}
	m.rendersTotal.WithLabelValues(outcome).Inc()

	for _, f := range res.Failures {
		m.renderFailures.WithLabelValues(failureCode(f.Err)).Inc()
	}
}

// failureCode keeps label cardinality bounded: uncoded errors count as
// render failures.
func failureCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return errors.CodeRenderFailure
}

// Middleware records request counts and durations labelled by the chi
// route pattern. Requests routed to a {name} parameter also count as
// partial dispatches.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := routePattern(r)
		status := strconv.Itoa(sw.status)
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, status).Inc()

		if name := routeParam(r, "name"); name != "" {
			if sw.status == http.StatusNotFound {
				// Unknown names are caller controlled.
				name = "unknown"
			}
			m.dispatchTotal.WithLabelValues(name, status).Inc()
		}
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func routeParam(r *http.Request, key string) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.URLParam(key)
	}
	return ""
}

// statusWriter captures the response status.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Flush forwards to the wrapped writer so streamed pages still flush.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap supports http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
