package vdom

import "strings"

// Markup builds a fragment from literal markup fragments interleaved with
// values: parts[0], values[0], parts[1], values[1], ...
//
// Literal parts are authored template source and are trusted. Values are
// converted with ToNode, so strings are escaped, slices are flattened and
// nodes are inserted as they are.
func Markup(parts []string, values ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	n := len(parts)
	if len(values) > n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		if i < len(parts) && parts[i] != "" {
			node.Children = append(node.Children, Raw(parts[i]))
		}
		if i < len(values) {
			if child := ToNode(values[i]); child != nil {
				node.Children = append(node.Children, child)
			}
		}
	}
	return node
}

// Tmpl is Markup with the literal parts written as one string and each
// value position marked by "{}".
//
//	Tmpl(`<p class="greeting">Hello, {}!</p>`, name)
func Tmpl(tpl string, values ...any) *VNode {
	return Markup(strings.Split(tpl, "{}"), values...)
}
