package vdom

import (
	"context"
	"fmt"
	"runtime"

	"github.com/vango-dev/weave/pkg/css"
)

// StyleRef attaches scoped CSS to an element or component. Class is fixed
// when the style is declared, so every node built from one declaration
// shares it.
type StyleRef struct {
	Class string
	CSS   string

	// Resolve produces the CSS at render time when set.
	Resolve func(ctx context.Context) (string, error)
}

// Template returns the CSS of the style, resolving it if needed.
func (s *StyleRef) Template(ctx context.Context) (string, error) {
	if s.Resolve != nil {
		return s.Resolve(ctx)
	}
	return s.CSS, nil
}

// Scoped declares a style. Pass the result as an element argument:
//
//	card := vdom.Scoped(`& { padding: 1rem; } &:hover { color: red; }`)
//	vdom.Div(card, "content")
func Scoped(cssText string) *StyleRef {
	return &StyleRef{
		Class: css.ClassName(callSite(2) + "\x00" + cssText),
		CSS:   cssText,
	}
}

// ScopedFunc declares a style whose CSS is computed at render time.
func ScopedFunc(fn func(ctx context.Context) (string, error)) *StyleRef {
	return &StyleRef{
		Class:   css.ClassName(callSite(2)),
		Resolve: fn,
	}
}

// Styled returns an element constructor for tag carrying cssText.
//
//	Button := vdom.Styled("button", `& { border: 0; }`)
//	Button(vdom.Type("submit"), "Save")
func Styled(tag, cssText string) func(args ...any) *VNode {
	ref := &StyleRef{
		Class: css.ClassName(callSite(2) + "\x00" + tag + "\x00" + cssText),
		CSS:   cssText,
	}
	return func(args ...any) *VNode {
		n := createElement(tag, args)
		n.Style = ref
		return n
	}
}

// StyledComponent returns a component constructor carrying cssText. The
// generated class is appended to the "class" prop before render is called.
func StyledComponent(name string, render RenderFunc, cssText string) func(props Props, children ...any) *VNode {
	ref := &StyleRef{
		Class: css.ClassName(callSite(2) + "\x00" + name + "\x00" + cssText),
		CSS:   cssText,
	}
	return func(props Props, children ...any) *VNode {
		n := Named(name, render, props, children...)
		n.Style = ref
		return n
	}
}

func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
