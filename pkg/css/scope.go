package css

import "strings"

// ScopeSelectors rewrites &-relative selectors in src to be anchored on
// the class className. CSS without & is returned unchanged.
func ScopeSelectors(src, className string) string {
	if !strings.Contains(src, "&") {
		return src
	}
	sel := "." + className

	var out strings.Builder
	out.Grow(len(src) + 8*strings.Count(src, "&"))

	start := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '"', '\'':
			i = skipString(src, i)
		case '/':
			if i+1 < len(src) && src[i+1] == '*' {
				i = skipComment(src, i)
			}
		case '{':
			out.WriteString(rewritePrelude(src[start:i], sel))
			out.WriteByte('{')
			start = i + 1
		case ';', '}':
			out.WriteString(src[start : i+1])
			start = i + 1
		}
	}
	out.WriteString(src[start:])
	return out.String()
}

// rewritePrelude replaces & in a selector prelude. At-rule preludes are
// returned as they are.
func rewritePrelude(prelude, sel string) string {
	trimmed := strings.TrimSpace(stripComments(prelude))
	if strings.HasPrefix(trimmed, "@") || !strings.Contains(prelude, "&") {
		return prelude
	}

	var b strings.Builder
	for i := 0; i < len(prelude); i++ {
		switch c := prelude[i]; c {
		case '"', '\'':
			end := skipString(prelude, i)
			b.WriteString(prelude[i : end+1])
			i = end
		case '/':
			if i+1 < len(prelude) && prelude[i+1] == '*' {
				end := skipComment(prelude, i)
				b.WriteString(prelude[i : end+1])
				i = end
				continue
			}
			b.WriteByte(c)
		case '&':
			b.WriteString(sel)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// skipString returns the index of the quote closing the string opened at i,
// or the last index of s when the string is unterminated.
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}

// skipComment returns the index of the '/' closing the comment opened at i,
// or the last index of s when the comment is unterminated.
func skipComment(s string, i int) int {
	end := strings.Index(s[i+2:], "*/")
	if end < 0 {
		return len(s) - 1
	}
	return i + 2 + end + 1
}

func stripComments(s string) string {
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			return s
		}
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return s[:start]
		}
		s = s[:start] + s[start+2+end+2:]
	}
}
