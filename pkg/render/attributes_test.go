package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/vdom"
)

type point struct {
	X int    `json:"x"`
	L string `json:"label"`
}

type level int

func (l level) String() string { return "lvl-" + string(rune('0'+int(l))) }

func TestSerializeAttrs(t *testing.T) {
	var nilPoint *point
	count := 3

	tests := []struct {
		name  string
		attrs vdom.Attrs
		want  string
	}{
		{"empty", nil, ""},
		{"string", vdom.Attrs{{Key: "id", Value: "main"}}, `id="main"`},
		{"escaped string", vdom.Attrs{{Key: "title", Value: `a "b" <c> & d`}}, `title="a &quot;b&quot; &lt;c&gt; &amp; d"`},
		{"apostrophe kept", vdom.Attrs{{Key: "title", Value: "it's"}}, `title="it's"`},
		{"true", vdom.Attrs{{Key: "disabled", Value: true}}, "disabled"},
		{"false", vdom.Attrs{{Key: "disabled", Value: false}}, ""},
		{"nil", vdom.Attrs{{Key: "x", Value: nil}}, ""},
		{"nil pointer", vdom.Attrs{{Key: "x", Value: nilPoint}}, ""},
		{"pointer", vdom.Attrs{{Key: "n", Value: &count}}, `n="3"`},
		{"int", vdom.Attrs{{Key: "tabindex", Value: -1}}, `tabindex="-1"`},
		{"float", vdom.Attrs{{Key: "step", Value: 0.5}}, `step="0.5"`},
		{"uint", vdom.Attrs{{Key: "size", Value: uint8(7)}}, `size="7"`},
		{"string slice", vdom.Attrs{{Key: "class", Value: []string{"a", "b"}}}, `class="a b"`},
		{"any slice", vdom.Attrs{{Key: "class", Value: []any{"a", 1, true}}}, `class="a 1 true"`},
		{"stringer", vdom.Attrs{{Key: "data-level", Value: level(2)}}, `data-level="lvl-2"`},
		{"map", vdom.Attrs{{Key: "data-cfg", Value: map[string]any{"a": "it's"}}}, `data-cfg='{&quot;a&quot;:&quot;it&#39;s&quot;}'`},
		{"struct", vdom.Attrs{{Key: "data-p", Value: point{X: 1, L: "hi"}}}, `data-p='{&quot;x&quot;:1,&quot;label&quot;:&quot;hi&quot;}'`},
		{
			"order kept",
			vdom.Attrs{
				{Key: "type", Value: "checkbox"},
				{Key: "checked", Value: true},
				{Key: "hidden", Value: false},
				{Key: "name", Value: "agree"},
			},
			`type="checkbox" checked name="agree"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SerializeAttrs(tt.attrs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SerializeAttrs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeAttrsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		attrs vdom.Attrs
	}{
		{"func", vdom.Attrs{{Key: "onclick", Value: func() {}}}},
		{"chan", vdom.Attrs{{Key: "x", Value: make(chan int)}}},
		{"complex", vdom.Attrs{{Key: "x", Value: complex(1, 2)}}},
		{"func in slice", vdom.Attrs{{Key: "x", Value: []any{"a", func() {}}}}},
		{"quote in name", vdom.Attrs{{Key: `x"y`, Value: "v"}}},
		{"space in name", vdom.Attrs{{Key: "x y", Value: "v"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SerializeAttrs(tt.attrs)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.CodeOf(err); got != errors.CodeInvalidAttribute {
				t.Errorf("code = %q, want %q", got, errors.CodeInvalidAttribute)
			}
			if !strings.Contains(err.Error(), tt.attrs[0].Key) {
				t.Errorf("error %q does not name the attribute", err)
			}
		})
	}
}
