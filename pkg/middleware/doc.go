// Package middleware provides observability for weave applications.
//
// Both Prometheus and OpenTelemetry values are render.Observer
// implementations and also offer net/http middleware:
//
//	metrics := middleware.Prometheus()
//	tracing := middleware.OpenTelemetry(middleware.WithTracerName("jokes"))
//
//	renderer := render.NewRenderer(render.RendererConfig{
//	    Observers: []render.Observer{tracing, metrics},
//	})
//
//	r := chi.NewRouter()
//	r.Use(tracing.Middleware, metrics.Middleware)
//	r.Handle("/metrics", promhttp.Handler())
//
// # Prometheus Metrics
//
// Render passes are counted by outcome ("ok", or "partial" when at least
// one subtree was replaced by a render-error comment). Contained failures
// are counted by error code. HTTP requests are labelled by chi route
// pattern, never by raw path.
//
// # OpenTelemetry
//
// Every render pass gets a "weave.render" span, a child of the request
// span when the middleware is installed. Contained failures are recorded
// as span events.
package middleware
