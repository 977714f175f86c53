// Package markdown renders Markdown source into trusted vdom nodes.
package markdown

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/vango-dev/weave/pkg/vdom"
)

// Options configures a Converter.
type Options struct {
	// HeadingIDs adds id attributes to headings.
	HeadingIDs bool

	// Unsafe passes raw HTML in the source through. Only enable it for
	// authored content; by default raw HTML is dropped.
	Unsafe bool
}

// Converter turns Markdown (GitHub flavoured) into HTML.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Converter.
func New(opts Options) *Converter {
	var parserOptions []parser.Option
	if opts.HeadingIDs {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}
	var rendererOptions []renderer.Option
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parserOptions...),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Convert returns the HTML for src.
func (c *Converter) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Node returns src as a trusted node. A conversion error becomes a
// rejected child, so it renders as a render-error comment.
func (c *Converter) Node(src string) *vdom.VNode {
	out, err := c.Convert(src)
	if err != nil {
		return vdom.ToNode(vdom.Reject(err))
	}
	return vdom.Raw(out)
}

// Component returns a component that renders its "source" prop.
func (c *Converter) Component() vdom.RenderFunc {
	return func(_ context.Context, props vdom.Props, _ []*vdom.VNode) (any, error) {
		src, _ := props["source"].(string)
		return c.Node(src), nil
	}
}

var defaultConverter = New(Options{})

// Render converts src with the default options: GFM, raw HTML dropped.
func Render(src string) *vdom.VNode {
	return defaultConverter.Node(src)
}
