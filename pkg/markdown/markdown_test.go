package markdown

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weave/pkg/render"
	"github.com/vango-dev/weave/pkg/vdom"
)

func TestRender(t *testing.T) {
	node := Render("# Title\n\nSome *emphasis* and ~~strike~~.")
	require.True(t, node.Trusted())

	html := render.NewRenderer(render.RendererConfig{}).Render(context.Background(), vdom.Article(node))
	assert.True(t, strings.HasPrefix(html, "<article><h1>Title</h1>"), html)
	assert.Contains(t, html, "<em>emphasis</em>")
	assert.Contains(t, html, "<del>strike</del>")
}

func TestRawHTMLDroppedByDefault(t *testing.T) {
	out, err := New(Options{}).Convert("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")

	out, err = New(Options{Unsafe: true}).Convert("hello <b>bold</b>")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>bold</b>")
}

func TestHeadingIDs(t *testing.T) {
	out, err := New(Options{HeadingIDs: true}).Convert("## Getting Started")
	require.NoError(t, err)
	assert.Contains(t, out, `<h2 id="getting-started">Getting Started</h2>`)
}

func TestComponent(t *testing.T) {
	c := New(Options{})
	node := vdom.Named("doc", c.Component(), vdom.Props{"source": "- a\n- b"})

	html := render.NewRenderer(render.RendererConfig{}).Render(context.Background(), node)
	assert.Equal(t, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n", html)
}
