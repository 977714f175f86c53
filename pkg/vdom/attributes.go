package vdom

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Attrs is an ordered attribute list. Serialization follows insertion order.
type Attrs []Attr

// Get returns the value stored under key.
func (as Attrs) Get(key string) (any, bool) {
	for _, a := range as {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// Set returns as with key set to value. An existing key keeps its position.
func (as Attrs) Set(key string, value any) Attrs {
	for i := range as {
		if as[i].Key == key {
			as[i].Value = value
			return as
		}
	}
	return append(as, Attr{Key: key, Value: value})
}

// Clone returns a copy that can be modified without touching as.
func (as Attrs) Clone() Attrs {
	if as == nil {
		return nil
	}
	out := make(Attrs, len(as))
	copy(out, as)
	return out
}

// WithClass returns a copy of as with class appended to the class attribute.
func (as Attrs) WithClass(class string) Attrs {
	out := as.Clone()
	existing, ok := out.Get("class")
	if !ok || existing == nil {
		return out.Set("class", []string{class})
	}
	switch v := existing.(type) {
	case string:
		if v == "" {
			return out.Set("class", []string{class})
		}
		return out.Set("class", []string{v, class})
	case []string:
		merged := make([]string, 0, len(v)+1)
		merged = append(merged, v...)
		return out.Set("class", append(merged, class))
	case []any:
		merged := make([]any, 0, len(v)+1)
		merged = append(merged, v...)
		return out.Set("class", append(merged, class))
	default:
		return out.Set("class", []any{v, class})
	}
}

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Attribute creates an arbitrary attribute.
func Attribute(key string, value any) Attr { return attr(key, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute. Multiple classes serialize space separated.
func Class(classes ...string) Attr {
	if len(classes) == 1 {
		return attr("class", classes[0])
	}
	return attr("class", classes)
}

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key string, value any) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", boolString(hidden)) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value any) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// Selected sets the selected attribute.
func Selected() Attr { return attr("selected", true) }

// Required sets the required attribute.
func Required() Attr { return attr("required", true) }

// Action sets the action attribute.
func Action(url string) Attr { return attr("action", url) }

// Method sets the method attribute.
func Method(method string) Attr { return attr("method", method) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("for", id) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Charset sets the charset attribute.
func Charset(charset string) Attr { return attr("charset", charset) }

// Content sets the content attribute.
func Content(content string) Attr { return attr("content", content) }

// Defer_ sets the defer attribute for script elements.
func Defer_() Attr { return attr("defer", true) }

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return attr("class", class)
	}
	return Attr{} // Empty attr, will be ignored
}

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// Classes merges multiple class values.
// Accepts string, []string, and map[string]bool. Map entries are not ordered.
func Classes(classes ...any) Attr {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v != "" {
				result = append(result, v)
			}
		case []string:
			for _, s := range v {
				if s != "" {
					result = append(result, s)
				}
			}
		case map[string]bool:
			for class, include := range v {
				if include && class != "" {
					result = append(result, class)
				}
			}
		}
	}
	return attr("class", result)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
