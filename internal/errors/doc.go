// Package errors provides the coded error taxonomy used across weave.
//
// Every failure the engine can surface carries a short code (e.g. "W002")
// that maps to a registered template with a category, a one-line message
// and a longer explanation. Codes make failures easy to grep for in logs
// and let callers match with errors.Is without comparing message text.
//
// # Error Categories
//
//   - render: a subtree failed while the tree was being reduced
//   - dispatch: a partial or island request could not be served
//   - config: configuration could not be loaded or validated
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New(errors.CodeUnknownPartial).
//	    WithDetail(fmt.Sprintf("no handler registered as %q", name))
//
//	if errors.Is(err, errors.New(errors.CodeUnknownPartial)) { ... }
//
// Render failures never escape a render call. The renderer converts them
// into an inline comment at the boundary of the failing subtree; the code
// is only visible in logs.
package errors
