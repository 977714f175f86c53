package render

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/css"
	"github.com/vango-dev/weave/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Logger receives render failures. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxConcurrency bounds how many async components of one render pass
	// execute at the same time. Zero means unbounded.
	MaxConcurrency int

	// Observers are notified around every render pass.
	Observers []Observer
}

// Observer is notified when a render pass starts and finishes. Start may
// return a derived context, which is used for the pass.
type Observer interface {
	RenderStarted(ctx context.Context) context.Context
	RenderFinished(ctx context.Context, res *Result)
}

// Result is the output of one render pass.
type Result struct {
	// HTML is the rendered markup.
	HTML string

	// Styles is the concatenation of the scoped CSS rules collected during
	// the pass, ready to be wrapped in a single style block.
	Styles string

	// Rules are the collected rules, one per styled declaration.
	Rules []css.Rule

	// Islands maps island and partial names seen during the pass to their
	// registration. A later occurrence of a name replaces an earlier one.
	Islands map[string]*vdom.IslandSpec

	// Failures lists the subtrees that were replaced by a render-error
	// comment, in document order.
	Failures []Failure

	// Duration is the wall time of the pass.
	Duration time.Duration
}

// Failure describes a subtree that failed to render.
type Failure struct {
	Component string
	Err       error
}

// Renderer reduces VNode trees to HTML. A Renderer holds no per-pass
// state and is safe for concurrent use.
type Renderer struct {
	config RendererConfig
	logger *slog.Logger
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		config: config,
		logger: logger.With("component", "render"),
	}
}

// Render renders node and returns the HTML only.
func (r *Renderer) Render(ctx context.Context, node *vdom.VNode) string {
	return r.RenderWithSideChannels(ctx, node).HTML
}

// RenderToWriter renders node and writes the HTML to w.
func (r *Renderer) RenderToWriter(ctx context.Context, w io.Writer, node *vdom.VNode) (*Result, error) {
	res := r.RenderWithSideChannels(ctx, node)
	if _, err := io.WriteString(w, res.HTML); err != nil {
		return res, err
	}
	return res, nil
}

// RenderWithSideChannels renders node and returns the HTML together with
// the styles and islands collected during the pass. It never fails: a
// failing subtree is replaced by a render-error comment and rendering
// continues.
//
// The pass blocks until every deferred child has settled. Use a context
// with a deadline to bound it.
func (r *Renderer) RenderWithSideChannels(ctx context.Context, node *vdom.VNode) *Result {
	start := time.Now()
	for _, o := range r.config.Observers {
		ctx = o.RenderStarted(ctx)
	}

	p := &pass{r: r}
	if r.config.MaxConcurrency > 0 {
		p.sem = semaphore.NewWeighted(int64(r.config.MaxConcurrency))
	}
	out := p.concat([]step{p.reduce(ctx, node)})

	sheet := css.NewSheet()
	sheet.AddRules(out.rules...)
	islands := make(map[string]*vdom.IslandSpec, len(out.islands))
	for _, spec := range out.islands {
		islands[spec.Name] = spec
	}

	res := &Result{
		HTML:     out.html,
		Styles:   sheet.String(),
		Rules:    sheet.Rules(),
		Islands:  islands,
		Failures: out.failures,
		Duration: time.Since(start),
	}

	for _, f := range res.Failures {
		r.logger.Warn("subtree replaced by render-error comment",
			"code", errors.FromError(f.Err, errors.CodeRenderFailure).Code,
			"node", f.Component,
			"error", f.Err,
		)
	}
	for i := len(r.config.Observers) - 1; i >= 0; i-- {
		r.config.Observers[i].RenderFinished(ctx, res)
	}
	return res
}

// pass holds the state of one render call.
type pass struct {
	r   *Renderer
	sem *semaphore.Weighted
}

// output is the reduction of one subtree. A non-nil fail means the
// subtree itself failed; the parent substitutes a comment for it.
type output struct {
	html     string
	rules    []css.Rule
	islands  []*vdom.IslandSpec
	failures []Failure
	fail     *Failure
}

// step is a possibly pending output. ch is nil when the output was
// produced synchronously.
type step struct {
	out output
	ch  <-chan output
}

func (s step) wait() output {
	if s.ch != nil {
		return <-s.ch
	}
	return s.out
}

func settled(o output) step {
	return step{out: o}
}

func failed(name string, err error) step {
	return settled(output{fail: &Failure{Component: name, Err: err}})
}

// mapStep applies fn to the output of s once it is available.
func mapStep(s step, fn func(output) output) step {
	if s.ch == nil {
		return settled(fn(s.out))
	}
	ch := make(chan output, 1)
	go func() { ch <- fn(<-s.ch) }()
	return step{ch: ch}
}

// join waits for every step in order and passes the concatenation to fn.
// Steps were started before join is called, so pending children are in
// flight together; order comes from the slice, not from completion.
func (p *pass) join(steps []step, fn func(output) output) step {
	pending := false
	for _, s := range steps {
		if s.ch != nil {
			pending = true
			break
		}
	}
	if !pending {
		return settled(fn(p.concat(steps)))
	}
	ch := make(chan output, 1)
	go func() { ch <- fn(p.concat(steps)) }()
	return step{ch: ch}
}

// concat collects child outputs in order. Failed children are replaced by
// a comment and their partial side channels are discarded.
func (p *pass) concat(steps []step) output {
	var (
		b   strings.Builder
		out output
	)
	for _, s := range steps {
		c := s.wait()
		out.failures = append(out.failures, c.failures...)
		if c.fail != nil {
			out.failures = append(out.failures, *c.fail)
			b.WriteString(failureComment(c.fail.Err))
			continue
		}
		b.WriteString(c.html)
		out.rules = append(out.rules, c.rules...)
		out.islands = append(out.islands, c.islands...)
	}
	out.html = b.String()
	return out
}

func failureComment(err error) string {
	return "<!-- render-error: " + escapeComment(err.Error()) + " -->"
}

// reduce dispatches reduction based on node kind.
func (p *pass) reduce(ctx context.Context, node *vdom.VNode) step {
	if node == nil {
		return settled(output{})
	}

	switch node.Kind {
	case vdom.KindText:
		if node.Trusted() {
			return settled(output{html: node.Text})
		}
		return settled(output{html: EscapeText(node.Text)})
	case vdom.KindFragment:
		return p.join(p.reduceAll(ctx, node.Children), identity)
	case vdom.KindElement:
		return p.reduceElement(ctx, node.Tag, node.Attrs, node.Style, func() []step {
			return p.reduceAll(ctx, node.Children)
		}, nil)
	case vdom.KindComponent:
		return p.reduceComponent(ctx, node)
	case vdom.KindIsland:
		return p.reduceIsland(ctx, node)
	case vdom.KindDeferred:
		return p.reduceDeferred(ctx, node.Deferred, "deferred")
	default:
		return failed("unknown", fmt.Errorf("unknown node kind: %d", node.Kind))
	}
}

func identity(o output) output { return o }

// reduceAll starts the reduction of every child before any is awaited.
func (p *pass) reduceAll(ctx context.Context, children []*vdom.VNode) []step {
	steps := make([]step, len(children))
	for i, child := range children {
		steps[i] = p.reduce(ctx, child)
	}
	return steps
}

// reduceElement renders <tag attrs>children</tag>. Void and self-closing
// elements drop their children without reducing them. islands is
// prepended to the side channel of a successful element.
func (p *pass) reduceElement(ctx context.Context, tag string, attrs vdom.Attrs, style *vdom.StyleRef, children func() []step, islands []*vdom.IslandSpec) step {
	var rules []css.Rule
	if style != nil {
		rule, err := resolveStyle(ctx, style)
		if err != nil {
			return failed(tag, err)
		}
		rules = append(rules, rule)
		attrs = attrs.WithClass(style.Class)
	}

	serialized, err := SerializeAttrs(attrs)
	if err != nil {
		return failed(tag, err)
	}
	open := "<" + tag
	if serialized != "" {
		open += " " + serialized
	}

	switch vdom.Classify(tag) {
	case vdom.ElementVoid:
		return settled(output{html: open + ">", rules: rules, islands: islands})
	case vdom.ElementSelfClosing:
		return settled(output{html: open + " />", rules: rules, islands: islands})
	}

	return p.join(children(), func(body output) output {
		body.html = open + ">" + body.html + "</" + tag + ">"
		body.rules = append(rules, body.rules...)
		body.islands = append(islands, body.islands...)
		return body
	})
}

func resolveStyle(ctx context.Context, style *vdom.StyleRef) (css.Rule, error) {
	v, err := vdom.Recover(func() (any, error) { return style.Template(ctx) })
	if err != nil {
		return css.Rule{}, err
	}
	text, _ := v.(string)
	return css.Rule{Class: style.Class, CSS: css.ScopeSelectors(text, style.Class)}, nil
}

// reduceComponent invokes the render function and reduces what it
// returns. Errors and panics fail this subtree only.
func (p *pass) reduceComponent(ctx context.Context, node *vdom.VNode) step {
	ref := node.Comp
	if ref == nil || ref.Render == nil {
		return settled(output{})
	}

	props := ref.Props
	var rules []css.Rule
	if node.Style != nil {
		rule, err := resolveStyle(ctx, node.Style)
		if err != nil {
			return failed(ref.Name, err)
		}
		rules = append(rules, rule)
		props = withClassProp(props, node.Style.Class)
	}

	var s step
	if ref.Async {
		d := vdom.Defer(ctx, func(ctx context.Context) (any, error) {
			if p.sem != nil {
				if err := p.sem.Acquire(ctx, 1); err != nil {
					return nil, err
				}
				defer p.sem.Release(1)
			}
			return ref.Render(ctx, props, ref.Children)
		})
		s = p.reduceDeferred(ctx, d, ref.Name)
	} else {
		v, err := vdom.Recover(func() (any, error) {
			return ref.Render(ctx, props, ref.Children)
		})
		if err != nil {
			return failed(ref.Name, renderFailure(err))
		}
		s = p.reduceValue(ctx, v, ref.Name)
	}

	if len(rules) == 0 {
		return s
	}
	return mapStep(s, func(o output) output {
		o.rules = append(rules, o.rules...)
		return o
	})
}

// reduceValue reduces whatever a component or deferred produced.
func (p *pass) reduceValue(ctx context.Context, v any, name string) step {
	if d, ok := v.(*vdom.Deferred); ok && d != nil {
		return p.reduceDeferred(ctx, d, name)
	}
	return p.reduce(ctx, vdom.ToNode(v))
}

// reduceDeferred awaits d and reduces its value. A rejection fails this
// subtree only.
func (p *pass) reduceDeferred(ctx context.Context, d *vdom.Deferred, name string) step {
	if d == nil {
		return settled(output{})
	}
	if d.Settled() {
		v, err := d.Await(ctx)
		return p.settle(ctx, v, err, name)
	}
	ch := make(chan output, 1)
	go func() {
		v, err := d.Await(ctx)
		ch <- p.settle(ctx, v, err, name).wait()
	}()
	return step{ch: ch}
}

func (p *pass) settle(ctx context.Context, v any, err error, name string) step {
	if err != nil {
		return failed(name, renderFailure(err))
	}
	return p.reduceValue(ctx, v, name)
}

// reduceIsland renders the island container and records its registration.
func (p *pass) reduceIsland(ctx context.Context, node *vdom.VNode) step {
	spec := node.Island
	if spec == nil {
		return failed("island", fmt.Errorf("island node without spec"))
	}

	attrs := vdom.Attrs{
		{Key: "id", Value: spec.DOMID()},
		{Key: "data-" + spec.Kind.String(), Value: spec.Name},
	}
	if spec.HasState {
		attrs = attrs.Set("data-state", spec.State)
	}
	for _, a := range node.Attrs {
		attrs = attrs.Set(a.Key, a.Value)
	}

	tag := node.Tag
	if tag == "" {
		tag = "div"
	}

	children := func() []step {
		if len(node.Children) > 0 || spec.Handler == nil {
			return p.reduceAll(ctx, node.Children)
		}
		v, err := vdom.Recover(func() (any, error) {
			return spec.Handler(ctx, url.Values{})
		})
		if err != nil {
			return []step{failed(spec.Name, renderFailure(err))}
		}
		return []step{p.reduceValue(ctx, v, spec.Name)}
	}
	return p.reduceElement(ctx, tag, attrs, node.Style, children, []*vdom.IslandSpec{spec})
}

// renderFailure keeps the message of err intact. Context errors get the
// timeout code so they can be told apart in logs.
func renderFailure(err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.New(errors.CodeRenderTimeout).Wrap(err)
	}
	return err
}

func withClassProp(props vdom.Props, class string) vdom.Props {
	out := make(vdom.Props, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	if existing, ok := out["class"].(string); ok && existing != "" {
		out["class"] = existing + " " + class
	} else {
		out["class"] = class
	}
	return out
}
