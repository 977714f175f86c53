package vdom

import (
	"context"
	"net/url"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Text, escaped unless built with Raw
	KindFragment               // Grouping without wrapper
	KindComponent              // Render function invoked at render time
	KindIsland                 // Named, re-invokable container (partial or island)
	KindDeferred               // Value that settles later
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindIsland:
		return "Island"
	case KindDeferred:
		return "Deferred"
	default:
		return "Unknown"
	}
}

// VNode is one renderable unit of the tree.
//
// Nodes are built eagerly and never mutated by the renderer. Which fields
// are meaningful depends on Kind.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element or island container tag
	Attrs    Attrs    // Ordered attributes
	Children []*VNode // Child nodes, rendered in order
	Text     string   // For KindText

	Comp     *ComponentRef // For KindComponent
	Island   *IslandSpec   // For KindIsland
	Deferred *Deferred     // For KindDeferred
	Style    *StyleRef     // Scoped CSS attached to an element or component

	trusted bool // KindText only; set by Raw
}

// Trusted reports whether a text node bypasses escaping.
func (v *VNode) Trusted() bool {
	return v != nil && v.Kind == KindText && v.trusted
}

// Props is the attribute/props mapping passed to a component.
type Props map[string]any

// Args are the request arguments handed to an island handler.
type Args = url.Values

// RenderFunc renders a component. It may return anything ToNode accepts,
// including a *Deferred for results that settle later.
type RenderFunc func(ctx context.Context, props Props, children []*VNode) (any, error)

// HandlerFunc serves a partial or island request.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// ComponentRef is the payload of a KindComponent node.
type ComponentRef struct {
	Name     string
	Render   RenderFunc
	Props    Props
	Children []*VNode

	// Async runs Render on its own goroutine so that siblings can make
	// progress while it is pending.
	Async bool
}

// Component is anything that can render itself.
type Component interface {
	Render(ctx context.Context) (any, error)
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func(ctx context.Context) (any, error)
}

// Render implements Component.
func (f *FuncComponent) Render(ctx context.Context) (any, error) {
	return f.render(ctx)
}

// Func creates a component from a render function.
func Func(render func(ctx context.Context) (any, error)) Component {
	return &FuncComponent{render: render}
}
