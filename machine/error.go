// Package machine implements the transition index: the compiled lookup
// table from (state, input symbol) to the set of applicable transitions.
//
// This mirrors coregex's nfa package in shape — a Builder that accumulates
// state data incrementally and a finalized immutable index type — but the
// core index itself never returns an error on its hot path: malformed
// input is tolerated per spec, not rejected. The sentinel errors below are
// wrapped with fmt.Errorf("%w: ...") at their call sites (State, the
// parser), the same sentinel-plus-%w-wrapping idiom coregex's nfa/error.go
// uses.
package machine

import "errors"

// ErrInvalidState indicates a StateID outside the index's allocated range.
var ErrInvalidState = errors.New("machine: invalid state")

// ErrMalformedLine indicates a transition-definition line that did not
// parse. The core never produces this itself (spec.md §4.7: malformed
// definitions are tolerated, not rejected); it exists for the parser
// collaborator, which wraps it with the offending line's content.
var ErrMalformedLine = errors.New("machine: malformed transition line")
