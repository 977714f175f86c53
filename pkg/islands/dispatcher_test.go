package islands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weave/pkg/render"
	"github.com/vango-dev/weave/pkg/vdom"
)

var punchline = vdom.Styled("p", "& { font-style: italic; }")

func newTestServer(t *testing.T) (*Dispatcher, http.Handler) {
	t.Helper()
	reg := NewRegistry()
	d := NewDispatcher(DispatcherConfig{Registry: reg})

	// Registration happens through a page render, as in an application.
	joke := vdom.Partial("joke", vdom.WithHandler(func(_ context.Context, args vdom.Args) (any, error) {
		who := args.Get("who")
		if who == "" {
			who = "nobody"
		}
		return vdom.Fragment(vdom.P("Knock knock"), punchline(who)), nil
	}))
	counter := vdom.Island("counter",
		vdom.WithState(map[string]any{"n": 1}),
		vdom.WithRPC("inc", func(_ context.Context, args vdom.Args) (any, error) {
			return vdom.Span(args.Get("n") + "+1"), nil
		}),
		vdom.WithChildren("1"),
	)
	broken := vdom.Partial("broken", vdom.WithHandler(func(context.Context, vdom.Args) (any, error) {
		return vdom.Div("ok", vdom.Reject(errors.New("boom"))), nil
	}))

	composer := render.NewComposer(render.ComposerConfig{Islands: reg})
	composer.RenderBody(context.Background(), vdom.Fragment(joke, counter, broken))
	require.Equal(t, []string{"broken", "counter", "joke"}, reg.Names())

	r := chi.NewRouter()
	r.Mount(d.Prefix(), d.Routes())
	return d, r
}

func TestDispatchPartial(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_partials/joke?who=%3Cme%3E", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<style>."), body)
	assert.Contains(t, body, "{ font-style: italic; }</style><p>Knock knock</p><p class=\"")
	assert.Contains(t, body, "\">&lt;me&gt;</p>")
}

func TestDispatchPostForm(t *testing.T) {
	_, h := newTestServer(t)

	form := url.Values{"who": {"Alice"}}
	req := httptest.NewRequest(http.MethodPost, "/_partials/joke", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">Alice</p>")
}

func TestDispatchRPC(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/_partials/counter/inc?n=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<span>1+1</span>", rec.Body.String())
}

func TestDispatchContainsFailures(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_partials/broken", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<div>ok<!-- render-error: boom --></div>", rec.Body.String())
}

func TestDispatchNotFound(t *testing.T) {
	_, h := newTestServer(t)

	for _, path := range []string{"/_partials/missing", "/_partials/counter/dec", "/_partials/counter"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestDispatchDirect(t *testing.T) {
	d, _ := newTestServer(t)

	res, err := d.Dispatch(context.Background(), "joke", vdom.Args{"who": {"Bob"}})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, ">Bob</p>")
	require.Len(t, res.Rules, 1)

	_, err = d.Dispatch(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTriggerAttrs(t *testing.T) {
	d, _ := newTestServer(t)

	got := d.TriggerAttrs("counter", "")
	want := vdom.Attrs{
		{Key: "hx-post", Value: "/_partials/counter"},
		{Key: "hx-trigger", Value: "click"},
		{Key: "hx-target", Value: "#island-counter"},
		{Key: "hx-swap", Value: "innerHTML"},
	}
	assert.Equal(t, want, got)

	got = TriggerAttrs("api/parts/", "joke", "load")
	assert.Equal(t, "/api/parts/joke", mustGet(t, got, "hx-post"))
	assert.Equal(t, "load", mustGet(t, got, "hx-trigger"))
	assert.Equal(t, "#partial-joke", mustGet(t, got, "hx-target"))

	html, err := render.SerializeAttrs(got)
	require.NoError(t, err)
	assert.Equal(t, `hx-post="/api/parts/joke" hx-trigger="load" hx-target="#partial-joke" hx-swap="innerHTML"`, html)
}

func mustGet(t *testing.T, attrs vdom.Attrs, key string) any {
	t.Helper()
	v, ok := attrs.Get(key)
	require.True(t, ok, key)
	return v
}

func TestJSIsland(t *testing.T) {
	node := JSIsland("chart", "/js/chart.js", JSProps{"foo": "bar"})
	res := render.NewRenderer(render.RendererConfig{}).RenderWithSideChannels(context.Background(), node)

	assert.Equal(t,
		`<div id="island-chart" data-island="chart" data-state='{&quot;foo&quot;:&quot;bar&quot;}' data-module="/js/chart.js" class="weave-island"></div>`,
		res.HTML)
	require.Contains(t, res.Islands, "chart")
	assert.Equal(t, vdom.KindIslandJS, res.Islands["chart"].Kind)
}
