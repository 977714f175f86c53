package css

import "strings"

// Rule is one scoped style block.
type Rule struct {
	Class string
	CSS   string
}

// Sheet accumulates the rules of a single render pass. The first rule
// added for a class wins; later rules for the same class are dropped.
//
// A Sheet is not safe for concurrent use.
type Sheet struct {
	rules []Rule
	seen  map[string]bool
}

// NewSheet creates an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{seen: make(map[string]bool)}
}

// Add scopes css under class and appends it. It reports whether the rule
// was added.
func (s *Sheet) Add(class, css string) bool {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[class] {
		return false
	}
	s.seen[class] = true
	s.rules = append(s.rules, Rule{Class: class, CSS: ScopeSelectors(css, class)})
	return true
}

// AddRules appends already scoped rules, skipping classes already present.
func (s *Sheet) AddRules(rules ...Rule) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	for _, r := range rules {
		if s.seen[r.Class] {
			continue
		}
		s.seen[r.Class] = true
		s.rules = append(s.rules, r)
	}
}

// Len returns the number of rules.
func (s *Sheet) Len() int {
	return len(s.rules)
}

// Rules returns the rules in insertion order.
func (s *Sheet) Rules() []Rule {
	return s.rules
}

// String concatenates the rules, one per line.
func (s *Sheet) String() string {
	if len(s.rules) == 0 {
		return ""
	}
	parts := make([]string, len(s.rules))
	for i, r := range s.rules {
		parts[i] = r.CSS
	}
	return strings.Join(parts, "\n")
}

// Drain returns the concatenated rules and clears the sheet.
func (s *Sheet) Drain() string {
	out := s.String()
	s.rules = nil
	s.seen = make(map[string]bool)
	return out
}
