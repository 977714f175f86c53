package islands

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/vdom"
)

// ErrNotFound matches, with errors.Is, every lookup of a name or method
// that is not registered.
var ErrNotFound error = errors.New(errors.CodeUnknownPartial)

// ErrInvalidName matches every registration rejected for its name.
var ErrInvalidName error = errors.New(errors.CodeInvalidIslandName)

// Registry maps island and partial names to their handlers. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*vdom.IslandSpec
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*vdom.IslandSpec),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "islands")
	return r
}

// Register stores handler under name as a partial, replacing any previous
// entry. An optional initial state is kept with it.
func (r *Registry) Register(name string, handler vdom.HandlerFunc, initialState ...any) error {
	spec := &vdom.IslandSpec{Name: name, Kind: vdom.KindPartial, Handler: handler}
	if len(initialState) > 0 {
		spec.State = initialState[0]
		spec.HasState = true
	}
	return r.RegisterSpec(spec)
}

// RegisterSpec stores spec under its name, replacing any previous entry.
func (r *Registry) RegisterSpec(spec *vdom.IslandSpec) error {
	if spec == nil || !ValidName(spec.Name) {
		name := ""
		if spec != nil {
			name = spec.Name
		}
		return errors.New(errors.CodeInvalidIslandName).WithDetail(name)
	}

	r.mu.Lock()
	_, replaced := r.entries[spec.Name]
	r.entries[spec.Name] = spec
	r.mu.Unlock()

	if replaced {
		r.logger.Debug("island replaced", "name", spec.Name)
	}
	return nil
}

// Merge registers every spec collected by a render pass. Entries with
// invalid names are skipped and logged.
func (r *Registry) Merge(specs map[string]*vdom.IslandSpec) {
	for _, spec := range specs {
		if err := r.RegisterSpec(spec); err != nil {
			r.logger.Warn("island not registered", "error", err)
		}
	}
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (*vdom.IslandSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.entries[name]
	return spec, ok
}

// Unregister removes name and reports whether it was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[name]
	delete(r.entries, name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset removes every entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.entries = make(map[string]*vdom.IslandSpec)
	r.mu.Unlock()
}

// Resolve invokes the handler registered under name on its own goroutine
// and returns its pending result. Unknown names, and partials registered
// without a handler, yield ErrNotFound.
func (r *Registry) Resolve(ctx context.Context, name string, args vdom.Args) (*vdom.Deferred, error) {
	spec, ok := r.Get(name)
	if !ok || spec.Handler == nil {
		return nil, notFound(name)
	}
	return invoke(ctx, spec.Handler, args), nil
}

// ResolveRPC invokes the remote procedure method of the island name.
func (r *Registry) ResolveRPC(ctx context.Context, name, method string, args vdom.Args) (*vdom.Deferred, error) {
	spec, ok := r.Get(name)
	if !ok {
		return nil, notFound(name)
	}
	h, ok := spec.RPC[method]
	if !ok || h == nil {
		return nil, notFound(name + "/" + method)
	}
	return invoke(ctx, h, args), nil
}

func invoke(ctx context.Context, h vdom.HandlerFunc, args vdom.Args) *vdom.Deferred {
	if args == nil {
		args = vdom.Args{}
	}
	return vdom.Defer(ctx, func(ctx context.Context) (any, error) {
		return h(ctx, args)
	})
}

func notFound(name string) error {
	return errors.New(errors.CodeUnknownPartial).WithDetail(name)
}

// ValidName reports whether name can be registered: non-empty, made of
// ASCII letters, digits, '-' and '_'.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
