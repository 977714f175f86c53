package vdom

// ElementClass determines whether an element has a closing tag and children.
type ElementClass uint8

const (
	ElementNormal      ElementClass = iota // <tag>children</tag>
	ElementVoid                            // <tag>, children dropped
	ElementSelfClosing                     // <tag />, children dropped
)

// voidElements are HTML elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// selfClosingElements are SVG leaf shapes written as <tag />.
var selfClosingElements = map[string]bool{
	"circle":   true,
	"ellipse":  true,
	"line":     true,
	"path":     true,
	"polygon":  true,
	"polyline": true,
	"rect":     true,
	"stop":     true,
	"use":      true,
}

// Classify returns the element class of tag.
func Classify(tag string) ElementClass {
	switch {
	case voidElements[tag]:
		return ElementVoid
	case selfClosingElements[tag]:
		return ElementSelfClosing
	default:
		return ElementNormal
	}
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, Attrs, *StyleRef or anything ToNode
// accepts. Later attributes with the same key replace earlier ones.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}
	appendArgs(node, args)
	return node
}

func appendArgs(node *VNode, args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			if !v.IsEmpty() {
				node.Attrs = node.Attrs.Set(v.Key, v.Value)
			}

		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					node.Attrs = node.Attrs.Set(a.Key, a.Value)
				}
			}

		case Attrs:
			for _, a := range v {
				if !a.IsEmpty() {
					node.Attrs = node.Attrs.Set(a.Key, a.Value)
				}
			}

		case *StyleRef:
			node.Style = v

		default:
			if child := ToNode(v); child != nil {
				node.Children = append(node.Children, child)
			}
		}
	}
}

// El creates an element with an arbitrary tag name.
func El(tag string, args ...any) *VNode {
	return createElement(tag, args)
}

// Document

func Html(args ...any) *VNode  { return createElement("html", args) }
func Head(args ...any) *VNode  { return createElement("head", args) }
func Body(args ...any) *VNode  { return createElement("body", args) }
func Title(args ...any) *VNode { return createElement("title", args) }
func Meta(args ...any) *VNode  { return createElement("meta", args) }
func Link(args ...any) *VNode  { return createElement("link", args) }

// Sections and text

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }
func Div(args ...any) *VNode     { return createElement("div", args) }
func P(args ...any) *VNode       { return createElement("p", args) }
func Span(args ...any) *VNode    { return createElement("span", args) }
func Pre(args ...any) *VNode     { return createElement("pre", args) }
func Code(args ...any) *VNode    { return createElement("code", args) }
func Strong(args ...any) *VNode  { return createElement("strong", args) }
func Em(args ...any) *VNode      { return createElement("em", args) }
func Ul(args ...any) *VNode      { return createElement("ul", args) }
func Ol(args ...any) *VNode      { return createElement("ol", args) }
func Li(args ...any) *VNode      { return createElement("li", args) }
func A(args ...any) *VNode       { return createElement("a", args) }
func Br(args ...any) *VNode      { return createElement("br", args) }
func Hr(args ...any) *VNode      { return createElement("hr", args) }
func Img(args ...any) *VNode     { return createElement("img", args) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }

// Tables

func Table(args ...any) *VNode { return createElement("table", args) }
func Thead(args ...any) *VNode { return createElement("thead", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Th(args ...any) *VNode    { return createElement("th", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }

// Scripting and styling

func Script(args ...any) *VNode   { return createElement("script", args) }
func Noscript(args ...any) *VNode { return createElement("noscript", args) }
func Template(args ...any) *VNode { return createElement("template", args) }
func Style(args ...any) *VNode    { return createElement("style", args) }

// SVG

func Svg(args ...any) *VNode    { return createElement("svg", args) }
func G(args ...any) *VNode      { return createElement("g", args) }
func Path(args ...any) *VNode   { return createElement("path", args) }
func Circle(args ...any) *VNode { return createElement("circle", args) }
func Rect(args ...any) *VNode   { return createElement("rect", args) }
func Line(args ...any) *VNode   { return createElement("line", args) }
