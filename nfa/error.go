// Package nfa builds tagged position automata from syntax trees and
// evaluates them with a strand simulator.
//
// The construction follows the firstpos/lastpos/followpos method of the
// Dragon book extended with Laurikari style tags: every arc carries the
// capture group boundaries it crosses, and arcs are kept in priority order
// so leftmost-first semantics fall out of the order strands are advanced.
// Zero-width assertions become dynamic boundary checks on arcs; the ones
// that can be decided from the surrounding characters alone are folded into
// the init status or into synthetic states before the automaton is frozen.
package nfa

import (
	"errors"
	"fmt"
)

// Builder invariant violations. They indicate a bug and are raised with
// panic, wrapped in a *BuildError.
var (
	// ErrReconvergent indicates a syntax tree node reachable from two parents.
	ErrReconvergent = errors.New("reconvergent syntax tree")

	// ErrNonDisjointMerge indicates a merge of position sets that share a
	// next state where the tree structure guarantees they cannot.
	ErrNonDisjointMerge = errors.New("non-disjoint position merge")

	// ErrNoCursor indicates a cursor operation on a container without one.
	ErrNoCursor = errors.New("container has no cursor")

	// ErrMissingSentinel indicates the omega or accept state was not built.
	ErrMissingSentinel = errors.New("missing omega or accept state")
)

// BuildError represents a violated invariant during NFA construction.
type BuildError struct {
	Message string
	StateID StateID
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s: %v", e.StateID, e.Message, e.Err)
	}
	return fmt.Sprintf("NFA build error: %s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *BuildError) Unwrap() error {
	return e.Err
}

func invariant(err error, id StateID, msg string) {
	panic(&BuildError{Message: msg, StateID: id, Err: err})
}
