package vdom

import (
	"context"
	"testing"
)

func TestPartialAndIsland(t *testing.T) {
	h := func(context.Context, Args) (any, error) { return nil, nil }

	p := Partial("cart", WithHandler(h), WithTag("section"), WithAttrs(Class("c"), Attr{}), WithChildren("x", nil))
	if p.Kind != KindIsland || p.Tag != "section" {
		t.Fatalf("got %v <%s>", p.Kind, p.Tag)
	}
	spec := p.Island
	if spec.Name != "cart" || spec.Kind != KindPartial || spec.Handler == nil {
		t.Errorf("spec = %+v", spec)
	}
	if spec.DOMID() != "partial-cart" {
		t.Errorf("DOMID = %q", spec.DOMID())
	}
	if len(p.Attrs) != 1 || len(p.Children) != 1 {
		t.Errorf("attrs=%d children=%d", len(p.Attrs), len(p.Children))
	}

	i := Island("chart", WithState(nil), WithRPC("zoom", h))
	if i.Tag != "div" || i.Island.Kind != KindIslandJS {
		t.Errorf("got <%s> %v", i.Tag, i.Island.Kind)
	}
	if !i.Island.HasState {
		t.Error("WithState(nil) should still mark state present")
	}
	if i.Island.RPC["zoom"] == nil {
		t.Error("RPC not registered")
	}
	if i.Island.DOMID() != "island-chart" {
		t.Errorf("DOMID = %q", i.Island.DOMID())
	}
}
