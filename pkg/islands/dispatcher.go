package islands

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/render"
	"github.com/vango-dev/weave/pkg/vdom"
)

// DefaultPrefix is the path under which partials are served.
const DefaultPrefix = "/_partials"

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	Registry *Registry
	Renderer *render.Renderer

	// Prefix is the mount path, used to build trigger URLs.
	Prefix string

	// Timeout bounds one dispatch. Zero means no bound.
	Timeout time.Duration

	// Middleware wraps every dispatch route.
	Middleware []func(http.Handler) http.Handler

	Logger *slog.Logger
}

// Dispatcher serves registered partials and island procedures over HTTP.
type Dispatcher struct {
	registry *Registry
	renderer *render.Renderer
	config   DispatcherConfig
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Registry == nil {
		config.Registry = NewRegistry(WithLogger(logger))
	}
	if config.Renderer == nil {
		config.Renderer = render.NewRenderer(render.RendererConfig{Logger: logger})
	}
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	config.Prefix = "/" + strings.Trim(config.Prefix, "/")
	return &Dispatcher{
		registry: config.Registry,
		renderer: config.Renderer,
		config:   config,
		logger:   logger.With("component", "dispatcher"),
	}
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Prefix returns the mount path.
func (d *Dispatcher) Prefix() string {
	return d.config.Prefix
}

// Routes returns the dispatch router, to be mounted at Prefix.
//
//	GET|POST /{name}           runs the partial handler
//	GET|POST /{name}/{method}  runs an island procedure
func (d *Dispatcher) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(d.config.Middleware...)

	r.Get("/{name}", d.handlePartial)
	r.Post("/{name}", d.handlePartial)
	r.Get("/{name}/{method}", d.handleRPC)
	r.Post("/{name}/{method}", d.handleRPC)

	return r
}

// Dispatch renders the partial registered under name. Unknown names
// yield ErrNotFound; failures inside the handler output are contained
// in the returned HTML.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args vdom.Args) (*render.Result, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	deferred, err := d.registry.Resolve(ctx, name, args)
	if err != nil {
		return nil, err
	}
	return d.finish(ctx, deferred), nil
}

// DispatchRPC renders the result of the procedure method of island name.
func (d *Dispatcher) DispatchRPC(ctx context.Context, name, method string, args vdom.Args) (*render.Result, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	deferred, err := d.registry.ResolveRPC(ctx, name, method, args)
	if err != nil {
		return nil, err
	}
	return d.finish(ctx, deferred), nil
}

func (d *Dispatcher) finish(ctx context.Context, deferred *vdom.Deferred) *render.Result {
	res := d.renderer.RenderWithSideChannels(ctx, vdom.ToNode(deferred))
	if len(res.Islands) > 0 {
		d.registry.Merge(res.Islands)
	}
	return res
}

func (d *Dispatcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.config.Timeout > 0 {
		return context.WithTimeout(ctx, d.config.Timeout)
	}
	return context.WithCancel(ctx)
}

func (d *Dispatcher) handlePartial(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	args, ok := d.args(w, r)
	if !ok {
		return
	}
	res, err := d.Dispatch(r.Context(), name, args)
	d.respond(w, r, name, res, err)
}

func (d *Dispatcher) handleRPC(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	method := chi.URLParam(r, "method")
	args, ok := d.args(w, r)
	if !ok {
		return
	}
	res, err := d.DispatchRPC(r.Context(), name, method, args)
	d.respond(w, r, name+"/"+method, res, err)
}

// args merges the query string and form body.
func (d *Dispatcher) args(w http.ResponseWriter, r *http.Request) (vdom.Args, bool) {
	if err := r.ParseForm(); err != nil {
		d.logger.Info("bad dispatch request", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, false
	}
	return vdom.Args(r.Form), true
}

func (d *Dispatcher) respond(w http.ResponseWriter, r *http.Request, name string, res *render.Result, err error) {
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			d.logger.Info("unknown partial", "name", name)
			http.NotFound(w, r)
			return
		}
		d.logger.Error("dispatch failed", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if res.Styles != "" {
		_, _ = io.WriteString(w, "<style>"+res.Styles+"</style>")
	}
	if _, err := io.WriteString(w, res.HTML); err != nil {
		d.logger.Debug("write partial", "name", name, "error", err)
		return
	}
	d.logger.Debug("partial served", "name", name, "duration", res.Duration, "failures", len(res.Failures))
}

// TriggerAttrs returns the attributes an element needs to refresh the
// partial name when event fires. The target is the partial's container.
func (d *Dispatcher) TriggerAttrs(name, event string) vdom.Attrs {
	target := (&vdom.IslandSpec{Name: name, Kind: vdom.KindPartial}).DOMID()
	if spec, ok := d.registry.Get(name); ok {
		target = spec.DOMID()
	}
	return triggerAttrs(d.config.Prefix, name, event, target)
}

// TriggerAttrs returns the attributes an element needs to refresh the
// partial name, served under prefix, when event fires.
func TriggerAttrs(prefix, name, event string) vdom.Attrs {
	target := (&vdom.IslandSpec{Name: name, Kind: vdom.KindPartial}).DOMID()
	return triggerAttrs("/"+strings.Trim(prefix, "/"), name, event, target)
}

func triggerAttrs(prefix, name, event, target string) vdom.Attrs {
	if event == "" {
		event = "click"
	}
	return vdom.Attrs{
		{Key: "hx-post", Value: prefix + "/" + name},
		{Key: "hx-trigger", Value: event},
		{Key: "hx-target", Value: "#" + target},
		{Key: "hx-swap", Value: "innerHTML"},
	}
}
