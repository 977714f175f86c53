package islands

import "github.com/vango-dev/weave/pkg/vdom"

// JSModule is a path to a JavaScript module.
type JSModule string

// JSProps are properties passed to the island.
type JSProps map[string]any

// JSIsland creates an island container that a client-side module mounts
// into. The props travel in data-state and the module path in
// data-module.
//
//	JSIsland("chart", "/js/chart.js", JSProps{"points": pts})
func JSIsland(name string, module JSModule, props JSProps, opts ...vdom.IslandOption) *vdom.VNode {
	base := []vdom.IslandOption{
		vdom.WithAttrs(
			vdom.Data("module", string(module)),
			vdom.Class("weave-island"),
		),
	}
	if props != nil {
		base = append(base, vdom.WithState(map[string]any(props)))
	}
	return vdom.Island(name, append(base, opts...)...)
}
