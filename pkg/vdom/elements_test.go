package vdom

import "testing"

func TestElementArguments(t *testing.T) {
	style := Scoped(`& { color: red; }`)
	node := Div(
		ID("a"),
		nil,
		Attrs{{Key: "title", Value: "t"}},
		[]Attr{Class("x")},
		ID("b"),
		style,
		"text",
		42,
		P("child"),
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("got %v <%s>", node.Kind, node.Tag)
	}
	if len(node.Attrs) != 3 {
		t.Fatalf("len(Attrs) = %d, want 3", len(node.Attrs))
	}
	if v, _ := node.Attrs.Get("id"); v != "b" {
		t.Errorf("id = %v, want b", v)
	}
	if node.Attrs[0].Key != "id" {
		t.Error("a replaced attribute should keep its position")
	}
	if node.Style != style {
		t.Error("style not attached")
	}
	if len(node.Children) != 3 {
		t.Errorf("len(Children) = %d, want 3", len(node.Children))
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]ElementClass{
		"div":    ElementNormal,
		"br":     ElementVoid,
		"img":    ElementVoid,
		"input":  ElementVoid,
		"circle": ElementSelfClosing,
		"path":   ElementSelfClosing,
		"svg":    ElementNormal,
	}
	for tag, want := range tests {
		if got := Classify(tag); got != want {
			t.Errorf("Classify(%q) = %v, want %v", tag, got, want)
		}
	}
	if !IsVoidElement("hr") || IsVoidElement("p") {
		t.Error("IsVoidElement")
	}
}

func TestEl(t *testing.T) {
	node := El("my-widget", Data("x", 1))
	if node.Tag != "my-widget" {
		t.Errorf("Tag = %q", node.Tag)
	}
}
