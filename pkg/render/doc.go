// Package render reduces VNode trees to HTML.
//
// A render pass walks the tree, invokes component functions, awaits
// deferred values and concatenates the output in document order. Scoped
// styles and island registrations travel alongside the HTML and are
// returned together in a Result:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	res := r.RenderWithSideChannels(ctx, node)
//	// res.HTML, res.Styles, res.Islands
//
// # Concurrency
//
// Async components start as soon as their parent is reduced, so siblings
// run concurrently. Their output is reassembled in child order, never in
// completion order. MaxConcurrency bounds how many run at once.
//
// # Failures
//
// A component that returns an error, panics, or whose deferred value
// rejects is replaced by an HTML comment carrying the message:
//
//	<!-- render-error: boom -->
//
// Siblings and ancestors render normally. Render never fails as a whole.
//
// # Pages
//
// Composer wraps a body render in a document layout, injects the
// collected styles into the head and merges the collected islands into
// the application registry. StreamingComposer flushes the head before
// the body is rendered.
//
// # Security
//
// Text is escaped once, at the point it is written. Attribute values are
// escaped for quoted context. Only vdom.Raw bypasses escaping.
package render
