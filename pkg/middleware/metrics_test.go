package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/css"
	"github.com/vango-dev/weave/pkg/render"
)

func resetGlobalMetricsForTest(t *testing.T) *Metrics {
	t.Helper()
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
	return Prometheus(WithRegistry(prometheus.NewRegistry()))
}

func TestPrometheusIsSingleton(t *testing.T) {
	m := resetGlobalMetricsForTest(t)
	assert.Same(t, m, Prometheus(WithNamespace("ignored")))
}

func TestMetricsRenderObserver(t *testing.T) {
	m := resetGlobalMetricsForTest(t)

	m.RenderFinished(context.Background(), &render.Result{
		Duration: 5 * time.Millisecond,
		Rules:    []css.Rule{{Class: "a"}, {Class: "b"}},
	})
	m.RenderFinished(context.Background(), &render.Result{
		Failures: []render.Failure{
			{Component: "x", Err: errors.New("boom")},
			{Component: "y", Err: werrors.New(werrors.CodeRenderTimeout)},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renderFailures.WithLabelValues(werrors.CodeRenderFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renderFailures.WithLabelValues(werrors.CodeRenderTimeout)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.stylesCollected))
	assert.Equal(t, 1, testutil.CollectAndCount(m.renderDuration))
}

func TestMetricsWithRenderer(t *testing.T) {
	m := resetGlobalMetricsForTest(t)
	r := render.NewRenderer(render.RendererConfig{Observers: []render.Observer{m}})

	r.Render(context.Background(), nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("ok")))
}

func TestMetricsMiddleware(t *testing.T) {
	m := resetGlobalMetricsForTest(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/pages/{slug}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/_partials/{name}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") != "joke" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ha"))
	})

	for _, path := range []string{"/pages/a", "/pages/b", "/_partials/joke", "/_partials/nope", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/pages/{slug}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/_partials/{name}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatchTotal.WithLabelValues("joke", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatchTotal.WithLabelValues("unknown", "404")))
	require.Equal(t, 3, testutil.CollectAndCount(m.requestDuration))
}

func TestStatusWriterFlushes(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}
	sw.WriteHeader(http.StatusTeapot)
	sw.WriteHeader(http.StatusOK)
	sw.Flush()

	assert.Equal(t, http.StatusTeapot, sw.status)
	assert.True(t, rec.Flushed)
	assert.Same(t, rec, sw.Unwrap())
}
