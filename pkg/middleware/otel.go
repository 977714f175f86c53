package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/render"
)

// Default tracer name for weave applications.
const defaultTracerName = "weave"

// OTelConfig configures the OpenTelemetry tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "weave").
	TracerName string

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider

	// IncludeRoute includes the chi route pattern in request spans.
	// Enabled by default.
	IncludeRoute bool

	// Filter determines which requests to trace.
	// Return true to trace the request, false to skip.
	// If nil, all requests are traced.
	Filter func(r *http.Request) bool

	// AttributeExtractor extracts custom attributes from the request.
	AttributeExtractor func(r *http.Request) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeRoute enables/disables including route in traces.
func WithIncludeRoute(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeRoute = include
	}
}

// WithRequestFilter sets a filter function for requests.
func WithRequestFilter(filter func(r *http.Request) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(r *http.Request) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:   defaultTracerName,
		IncludeRoute: true,
	}
}

// Tracing creates spans for render passes and HTTP requests. It is a
// render.Observer and provides HTTP middleware.
type Tracing struct {
	config OTelConfig
	tracer trace.Tracer
}

// OpenTelemetry creates a Tracing.
//
// Render spans ("weave.render") are children of whatever span is in the
// render context, so a page request produces:
//
//	weave GET /jokes
//	└── weave.render
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) *Tracing {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracing{
		config: config,
		tracer: tp.Tracer(config.TracerName),
	}
}

// RenderStarted implements render.Observer.
func (t *Tracing) RenderStarted(ctx context.Context) context.Context {
	ctx, _ = t.tracer.Start(ctx, "weave.render", trace.WithSpanKind(trace.SpanKindInternal))
	return ctx
}

// RenderFinished implements render.Observer.
func (t *Tracing) RenderFinished(ctx context.Context, res *render.Result) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("weave.html_bytes", len(res.HTML)),
		attribute.Int("weave.style_rules", len(res.Rules)),
		attribute.Int("weave.islands", len(res.Islands)),
		attribute.Int("weave.failures", len(res.Failures)),
	)
	for _, f := range res.Failures {
		span.RecordError(f.Err, trace.WithAttributes(
			attribute.String("weave.node", f.Component),
			attribute.String("weave.code", errors.CodeOf(f.Err)),
		))
	}
	if len(res.Failures) > 0 {
		span.SetStatus(codes.Error, "subtrees replaced by render-error comments")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Middleware starts a server span for each request and makes it current
// in the request context.
func (t *Tracing) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.config.Filter != nil && !t.config.Filter(r) {
			next.ServeHTTP(w, r)
			return
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		}
		if t.config.AttributeExtractor != nil {
			attrs = append(attrs, t.config.AttributeExtractor(r)...)
		}

		ctx, span := t.tracer.Start(r.Context(), "weave "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		if t.config.IncludeRoute {
			route := routePattern(r.WithContext(ctx))
			span.SetName("weave " + r.Method + " " + route)
			span.SetAttributes(attribute.String("http.route", route))
		}
		span.SetAttributes(attribute.Int("http.status_code", sw.status))
		if sw.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.status))
		}
	})
}

// SpanFromContext returns the current span, which is a no-op span when
// tracing is not active.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
