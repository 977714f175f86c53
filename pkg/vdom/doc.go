// Package vdom provides the node model rendered by weave.
//
// A tree is built eagerly from VNode values and reduced to HTML later by
// package render. Construction is cheap and synchronous; anything that
// needs I/O is expressed as a component or a Deferred and only runs when
// the tree is rendered.
//
// # Core Types
//
// VNode is a closed sum type discriminated by Kind:
//
//   - KindText: a string, escaped at render time unless built with Raw
//   - KindElement: a tag, ordered Attrs and children
//   - KindFragment: children without a wrapper
//   - KindComponent: a RenderFunc plus props and realized children
//   - KindIsland: a named container registered for partial updates
//   - KindDeferred: a value that settles later
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    P(Text("Content")),
//	)
//
// Arguments that are not attributes or nodes are converted with ToNode:
// strings, numbers and booleans become escaped text, slices are flattened,
// nil is skipped and a *Deferred becomes a KindDeferred child.
//
// # Trusted Markup
//
// Raw is the only constructor producing a text node that bypasses
// escaping. Markup treats its literal fragments as trusted and every
// interpolated value as untrusted.
package vdom
