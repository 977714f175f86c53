package vdom

import "testing"

func TestMarkupInterleaves(t *testing.T) {
	node := Markup([]string{"<p>", " and ", "</p>"}, "a<b", Text("c"))

	if node.Kind != KindFragment {
		t.Fatalf("Kind = %v", node.Kind)
	}
	kinds := []bool{true, false, true, false, true}
	if len(node.Children) != len(kinds) {
		t.Fatalf("len(Children) = %d, want %d", len(node.Children), len(kinds))
	}
	for i, trusted := range kinds {
		if node.Children[i].Trusted() != trusted {
			t.Errorf("child %d trusted = %v, want %v", i, node.Children[i].Trusted(), trusted)
		}
	}
	if node.Children[1].Text != "a<b" {
		t.Errorf("value = %q", node.Children[1].Text)
	}
}

func TestMarkupExtraValues(t *testing.T) {
	node := Markup([]string{"<i>"}, "x", "y")
	if len(node.Children) != 3 {
		t.Errorf("len(Children) = %d, want 3", len(node.Children))
	}
}

func TestTmpl(t *testing.T) {
	node := Tmpl(`<p class="greeting">Hello, {}!</p>`, "Ann")

	if len(node.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(node.Children))
	}
	if node.Children[0].Text != `<p class="greeting">Hello, ` || node.Children[1].Text != "Ann" || node.Children[2].Text != "!</p>" {
		t.Errorf("unexpected split: %q %q %q", node.Children[0].Text, node.Children[1].Text, node.Children[2].Text)
	}
}
