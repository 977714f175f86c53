package render

import "strings"

// EscapeText escapes text for safe inclusion in HTML content.
// It converts & < > " ' and ` to character references to prevent XSS.
func EscapeText(s string) string {
	if strings.IndexAny(s, "&<>\"'`") < 0 {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 16)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '`':
			buf.WriteString("&#96;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// EscapeAttr escapes text for inclusion in a quoted HTML attribute value.
// Only " & < > are replaced; the value must be wrapped in double quotes.
func EscapeAttr(s string) string {
	if strings.IndexAny(s, "\"&<>") < 0 {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 16)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeComment makes s safe inside an HTML comment and keeps it on one line.
func escapeComment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSuffix(s, "-")
}
