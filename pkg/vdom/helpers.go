package vdom

import (
	"context"
	"fmt"
	"strconv"
)

// Text creates a text node. The content is escaped when rendered.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates a trusted text node that is emitted without escaping.
// It is the only way to inject markup; never pass user-provided content.
func Raw(html string) *VNode {
	return &VNode{
		Kind:    KindText,
		Text:    html,
		trusted: true,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, child := range children {
		if n := ToNode(child); n != nil {
			node.Children = append(node.Children, n)
		}
	}
	return node
}

// Group is an alias for Fragment.
func Group(children ...any) *VNode {
	return Fragment(children...)
}

// ToNode converts a child value into a node.
//
// nil yields nil. Strings, numbers and booleans become escaped text.
// Slices become fragments, so nested slices flatten in order. A *Deferred
// becomes a KindDeferred node and an error becomes an already rejected
// one, so a failing value is contained like any other failing subtree.
func ToNode(v any) *VNode {
	switch x := v.(type) {
	case nil:
		return nil
	case *VNode:
		return x
	case string:
		return Text(x)
	case bool:
		return Text(strconv.FormatBool(x))
	case int:
		return Text(strconv.Itoa(x))
	case int8, int16, int32, int64:
		return Text(fmt.Sprintf("%d", x))
	case uint, uint8, uint16, uint32, uint64:
		return Text(fmt.Sprintf("%d", x))
	case float32:
		return Text(strconv.FormatFloat(float64(x), 'g', -1, 32))
	case float64:
		return Text(strconv.FormatFloat(x, 'g', -1, 64))
	case []*VNode:
		return fragmentOf(len(x), func(i int) any { return x[i] })
	case []any:
		return fragmentOf(len(x), func(i int) any { return x[i] })
	case []string:
		return fragmentOf(len(x), func(i int) any { return x[i] })
	case *Deferred:
		if x == nil {
			return nil
		}
		return &VNode{Kind: KindDeferred, Deferred: x}
	case Component:
		return &VNode{
			Kind: KindComponent,
			Comp: &ComponentRef{
				Name: fmt.Sprintf("%T", x),
				Render: func(ctx context.Context, _ Props, _ []*VNode) (any, error) {
					return x.Render(ctx)
				},
			},
		}
	case RenderFunc:
		return Component_(x, nil)
	case func(ctx context.Context, props Props, children []*VNode) (any, error):
		return Component_(x, nil)
	case error:
		return &VNode{Kind: KindDeferred, Deferred: Reject(x)}
	case fmt.Stringer:
		return Text(x.String())
	default:
		return Text(fmt.Sprint(x))
	}
}

func fragmentOf(n int, at func(int) any) *VNode {
	node := &VNode{Kind: KindFragment}
	for i := 0; i < n; i++ {
		if c := ToNode(at(i)); c != nil {
			node.Children = append(node.Children, c)
		}
	}
	return node
}

// Component_ creates a component node. Children are realized now and passed
// to render unchanged; render itself runs when the tree is rendered.
func Component_(render RenderFunc, props Props, children ...any) *VNode {
	return &VNode{
		Kind: KindComponent,
		Comp: &ComponentRef{
			Name:     fmt.Sprintf("%p", render),
			Render:   render,
			Props:    props,
			Children: realize(children),
		},
	}
}

// Named is like Component_ but records name for logs and traces.
func Named(name string, render RenderFunc, props Props, children ...any) *VNode {
	n := Component_(render, props, children...)
	n.Comp.Name = name
	return n
}

// Async creates a component whose render function runs on its own
// goroutine. Sibling async components are in flight at the same time.
func Async(name string, render RenderFunc, props Props, children ...any) *VNode {
	n := Named(name, render, props, children...)
	n.Comp.Async = true
	return n
}

func realize(children []any) []*VNode {
	if len(children) == 0 {
		return nil
	}
	out := make([]*VNode, 0, len(children))
	for _, c := range children {
		if n := ToNode(c); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Unless is the inverse of If.
func Unless(condition bool, node *VNode) *VNode {
	if !condition {
		return node
	}
	return nil
}

// Range maps a slice to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}
