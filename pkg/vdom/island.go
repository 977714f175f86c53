package vdom

// IslandKind distinguishes partials from islands. Both render the same way;
// the kind selects the marker attribute and id prefix.
type IslandKind uint8

const (
	KindPartial IslandKind = iota // data-partial
	KindIslandJS                  // data-island
)

// String returns the marker used in attributes and ids.
func (k IslandKind) String() string {
	if k == KindIslandJS {
		return "island"
	}
	return "partial"
}

// IslandSpec is the registration payload of a KindIsland node.
type IslandSpec struct {
	Name    string
	Kind    IslandKind
	Handler HandlerFunc
	RPC     map[string]HandlerFunc

	State    any
	HasState bool
}

// DOMID returns the element id derived from the island name.
func (s *IslandSpec) DOMID() string {
	return s.Kind.String() + "-" + s.Name
}

// IslandOption configures an island or partial node.
type IslandOption func(n *VNode)

// WithHandler sets the handler invoked by dispatch. When the node has no
// children, the handler also renders the initial content.
func WithHandler(h HandlerFunc) IslandOption {
	return func(n *VNode) { n.Island.Handler = h }
}

// WithState attaches serializable initial state, rendered as data-state.
func WithState(state any) IslandOption {
	return func(n *VNode) {
		n.Island.State = state
		n.Island.HasState = true
	}
}

// WithRPC adds a named remote procedure reachable at {prefix}/{name}/{method}.
func WithRPC(method string, h HandlerFunc) IslandOption {
	return func(n *VNode) {
		if n.Island.RPC == nil {
			n.Island.RPC = make(map[string]HandlerFunc)
		}
		n.Island.RPC[method] = h
	}
}

// WithTag replaces the default div container.
func WithTag(tag string) IslandOption {
	return func(n *VNode) { n.Tag = tag }
}

// WithAttrs adds attributes to the container.
func WithAttrs(attrs ...Attr) IslandOption {
	return func(n *VNode) {
		for _, a := range attrs {
			if !a.IsEmpty() {
				n.Attrs = n.Attrs.Set(a.Key, a.Value)
			}
		}
	}
}

// WithChildren sets the container content.
func WithChildren(children ...any) IslandOption {
	return func(n *VNode) { n.Children = append(n.Children, realize(children)...) }
}

// Partial creates a named container whose content can be re-requested
// through the partial dispatcher.
func Partial(name string, opts ...IslandOption) *VNode {
	return newIsland(name, KindPartial, opts)
}

// Island creates a named container hydrated on the client, optionally
// carrying initial state and remote procedures.
func Island(name string, opts ...IslandOption) *VNode {
	return newIsland(name, KindIslandJS, opts)
}

func newIsland(name string, kind IslandKind, opts []IslandOption) *VNode {
	n := &VNode{
		Kind:   KindIsland,
		Tag:    "div",
		Island: &IslandSpec{Name: name, Kind: kind},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}
