// Package islands keeps the process-wide registry of partials and islands
// and serves them over HTTP.
//
// A render pass collects the islands it meets; the page composer merges
// them into a Registry. The Dispatcher then answers requests for a
// registered name by running its handler and rendering the result:
//
//	reg := islands.NewRegistry()
//	d := islands.NewDispatcher(islands.DispatcherConfig{Registry: reg})
//	r.Mount("/_partials", d.Routes())
//
// Elements that should refresh a partial carry TriggerAttrs:
//
//	vdom.Button(d.TriggerAttrs("joke", "click"), "Another one")
//
// Names are process-wide. Registering a name again replaces the previous
// entry.
package islands
