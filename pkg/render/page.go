package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/vdom"
)

// DefaultClientScript is the partial-swapping client loaded by the default layout.
const DefaultClientScript = "https://unpkg.com/htmx.org@1.9.12"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to the composer's language.
	Lang string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// Links contains link tags (favicon, preload, etc.)
	Links []LinkTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Scripts contains script tags to include
	Scripts []ScriptTag

	// ClientScript overrides the composer's client script. Set to "-" to
	// omit it.
	ClientScript string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel   string
	Href  string
	Type  string
	Media string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Module bool   // type="module"
	Defer  bool   // defer attribute, head placement
	Inline string // trusted inline content
}

// Layout writes a complete document around a rendered body.
type Layout func(w io.Writer, page PageData, body *Result) error

// IslandSink receives the islands collected by one render pass.
type IslandSink interface {
	Merge(specs map[string]*vdom.IslandSpec)
}

// ComposerConfig configures a Composer.
type ComposerConfig struct {
	Renderer *Renderer

	// Islands receives every island and partial seen during a page render.
	// May be nil when the application has no partials.
	Islands IslandSink

	// Layout defaults to DocumentLayout.
	Layout Layout

	// Lang is the default document language. Defaults to "en".
	Lang string

	// ClientScript is the default client script URL.
	ClientScript string

	// Timeout bounds one page render. Zero means no bound.
	Timeout time.Duration

	Logger *slog.Logger
}

// Composer orchestrates a top-level render: it renders the page body,
// hands the collected islands to the registry and wraps the result in
// a layout.
type Composer struct {
	renderer *Renderer
	islands  IslandSink
	layout   Layout
	config   ComposerConfig
	logger   *slog.Logger
}

// NewComposer creates a Composer.
func NewComposer(config ComposerConfig) *Composer {
	if config.Renderer == nil {
		config.Renderer = NewRenderer(RendererConfig{Logger: config.Logger})
	}
	if config.Layout == nil {
		config.Layout = DocumentLayout
	}
	if config.Lang == "" {
		config.Lang = "en"
	}
	if config.ClientScript == "" {
		config.ClientScript = DefaultClientScript
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		renderer: config.Renderer,
		islands:  config.Islands,
		layout:   config.Layout,
		config:   config,
		logger:   logger.With("component", "composer"),
	}
}

// Renderer returns the renderer used by the composer.
func (c *Composer) Renderer() *Renderer {
	return c.renderer
}

// RenderBody renders the page body and merges its islands into the
// registry. Styles are left on the result for the caller to drain.
func (c *Composer) RenderBody(ctx context.Context, body *vdom.VNode) *Result {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}
	res := c.renderer.RenderWithSideChannels(ctx, body)
	if c.islands != nil && len(res.Islands) > 0 {
		c.islands.Merge(res.Islands)
	}
	return res
}

// Compose renders page into a complete HTML document.
func (c *Composer) Compose(ctx context.Context, page PageData) (string, *Result, error) {
	var b strings.Builder
	res, err := c.Write(ctx, &b, page)
	return b.String(), res, err
}

// Write renders page into a complete HTML document written to w.
func (c *Composer) Write(ctx context.Context, w io.Writer, page PageData) (*Result, error) {
	page = c.withDefaults(page)
	res := c.RenderBody(ctx, page.Body)
	if err := c.layout(w, page, res); err != nil {
		return res, err
	}
	return res, nil
}

// PageFunc builds the page for a request.
type PageFunc func(r *http.Request) (PageData, error)

// Handler adapts fn to an http.Handler serving composed documents.
func (c *Composer) Handler(fn PageFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := fn(r)
		if err != nil {
			c.writeError(w, r, err)
			return
		}
		html, res, err := c.Compose(r.Context(), page)
		if err != nil {
			c.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := io.WriteString(w, html); err != nil {
			c.logger.Debug("write page", "path", r.URL.Path, "error", err)
			return
		}
		c.logger.Debug("page served",
			"path", r.URL.Path,
			"duration", res.Duration,
			"failures", len(res.Failures),
		)
	})
}

func (c *Composer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.CodeOf(err) == errors.CodeUnknownPartial {
		status = http.StatusNotFound
	}
	c.logger.Error("page failed", "path", r.URL.Path, "code", errors.CodeOf(err), "error", err)
	http.Error(w, http.StatusText(status), status)
}

func (c *Composer) withDefaults(page PageData) PageData {
	if page.Lang == "" {
		page.Lang = c.config.Lang
	}
	switch page.ClientScript {
	case "":
		page.ClientScript = c.config.ClientScript
	case "-":
		page.ClientScript = ""
	}
	return page
}

// DocumentLayout writes an HTML5 document: head with meta, title, links,
// stylesheets and the pass's collected styles, then the body followed by
// the client script.
func DocumentLayout(w io.Writer, page PageData, body *Result) error {
	dw := &docWriter{w: w}
	writeDocumentHead(dw, page)
	writeStyleBlock(dw, body.Styles)
	dw.str("</head>\n<body>\n")
	dw.str(body.HTML)
	writeDocumentTail(dw, page)
	return dw.err
}

func writeDocumentHead(dw *docWriter, page PageData) {
	dw.str("<!DOCTYPE html>\n")
	dw.printf("<html lang=\"%s\">\n<head>\n", EscapeAttr(page.Lang))
	dw.str("  <meta charset=\"utf-8\">\n")
	dw.str("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	if page.Title != "" {
		dw.printf("  <title>%s</title>\n", EscapeText(page.Title))
	}
	for _, m := range page.Meta {
		dw.str("  <meta")
		dw.attr("name", m.Name)
		dw.attr("property", m.Property)
		dw.attr("http-equiv", m.HTTPEquiv)
		dw.attr("content", m.Content)
		dw.str(">\n")
	}
	for _, l := range page.Links {
		dw.str("  <link")
		dw.attr("rel", l.Rel)
		dw.attr("href", l.Href)
		dw.attr("type", l.Type)
		dw.attr("media", l.Media)
		dw.str(">\n")
	}
	for _, href := range page.StyleSheets {
		dw.printf("  <link rel=\"stylesheet\" href=\"%s\">\n", EscapeAttr(href))
	}
	for _, s := range page.Scripts {
		if s.Defer {
			writeScript(dw, s)
		}
	}
}

func writeStyleBlock(dw *docWriter, styles string) {
	if styles == "" {
		return
	}
	dw.str("  <style>")
	dw.str(styles)
	dw.str("</style>\n")
}

func writeDocumentTail(dw *docWriter, page PageData) {
	dw.str("\n")
	for _, s := range page.Scripts {
		if !s.Defer {
			writeScript(dw, s)
		}
	}
	if page.ClientScript != "" {
		dw.printf("  <script src=\"%s\"></script>\n", EscapeAttr(page.ClientScript))
	}
	dw.str("</body>\n</html>\n")
}

func writeScript(dw *docWriter, s ScriptTag) {
	dw.str("  <script")
	dw.attr("src", s.Src)
	if s.Module {
		dw.str(` type="module"`)
	}
	if s.Defer {
		dw.str(" defer")
	}
	dw.str(">")
	dw.str(s.Inline)
	dw.str("</script>\n")
}

// docWriter keeps the first write error so layouts read top to bottom.
type docWriter struct {
	w   io.Writer
	err error
}

func (d *docWriter) str(s string) {
	if d.err != nil || s == "" {
		return
	}
	_, d.err = io.WriteString(d.w, s)
}

func (d *docWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *docWriter) attr(key, value string) {
	if value == "" {
		return
	}
	d.printf(" %s=\"%s\"", key, EscapeAttr(value))
}
