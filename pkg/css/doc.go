// Package css collects scoped style rules produced while a tree renders.
//
// Styles are written with & standing for the element they are attached
// to. ScopeSelectors rewrites every & in selector position into a class
// selector, so
//
//	& { color: red; } &:hover { color: blue; }
//
// scoped under "c1a2b3" becomes
//
//	.c1a2b3 { color: red; } .c1a2b3:hover { color: blue; }
//
// The rewrite is textual. Only preludes (text followed by "{") are touched;
// at-rule preludes such as @media are left alone while the rules nested
// inside them are rewritten. Declarations, strings and comments are copied
// through unchanged.
//
// A Sheet accumulates the rules of one render pass. It is not shared
// between passes; the caller drains it once the pass is complete.
package css
