// Package dfa builds deterministic automata from tagged NFAs by subset
// construction and evaluates them with a table walker.
//
// A DFA serves only NFAs without capture groups, leftmost-first
// prioritization or dynamic boundary checks: every DFA state is a set of
// NFA states, so arc priority and tags are lost. Boundary checks that only
// depend on the start offset survive, because the builder folds them into
// the classes of the alpha states, which the engine enters with the init
// status of the scanner.
//
// The find loop state is never added to a DFA state. The caller runs the
// search loop and evaluates the DFA anchored at every candidate start.
package dfa

import (
	"fmt"
	"strings"

	"github.com/ndwade/xtrms/charclass"
	"github.com/ndwade/xtrms/nfa"
)

// StateID identifies a DFA state by creation order. The init state is 0.
type StateID int32

// Flags describe the NFA states a DFA state contains.
type Flags uint8

const (
	// FlagInit marks the state containing every alpha state.
	FlagInit Flags = 1 << iota
	// FlagAccept marks a state containing the accept state.
	FlagAccept
	// FlagContainsOmega marks a state containing the omega state.
	FlagContainsOmega
	// FlagStranded marks a state with members beyond omega and accept: more
	// input could still extend a match through it.
	FlagStranded
	// FlagPureAccept marks the state containing only the accept state.
	FlagPureAccept
)

// Has reports whether every flag of o is set.
func (f Flags) Has(o Flags) bool { return f&o == o }

func (f Flags) String() string {
	var sb strings.Builder
	for _, x := range []struct {
		flag Flags
		name string
	}{
		{FlagInit, "(init) "},
		{FlagContainsOmega, "(containsOmega) "},
		{FlagStranded, "(stranded) "},
		{FlagAccept, "(accept) "},
	} {
		if f.Has(x.flag) {
			sb.WriteString(x.name)
		}
	}
	return sb.String()
}

// Arc maps the characters of [Lo, Hi] to the state Target.
type Arc = charclass.Span[StateID]

// State is a deterministic state: a set of NFA states and its arcs. Arcs
// are sorted and disjoint.
type State struct {
	ID      StateID
	Members []nfa.StateID // in first reached order
	Flags   Flags
	Arcs    []Arc
}

// Next returns the state reached by consuming r.
func (s *State) Next(r rune) (StateID, bool) {
	return charclass.Search(s.Arcs, r)
}

func (s *State) label() string {
	parts := make([]string, len(s.Members))
	for i, m := range s.Members {
		parts[i] = fmt.Sprint(m)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// DFA is an immutable deterministic automaton. It is safe for concurrent
// use.
type DFA struct {
	states []*State
	nfa    *nfa.NFA
}

// Init returns the init state.
func (d *DFA) Init() *State { return d.states[0] }

// State returns the state with the given id.
func (d *DFA) State(id StateID) *State { return d.states[id] }

// States returns every state in creation order.
func (d *DFA) States() []*State { return d.states }

// StateCount returns the number of states.
func (d *DFA) StateCount() int { return len(d.states) }

// NFA returns the automaton d was built from.
func (d *DFA) NFA() *nfa.NFA { return d.nfa }

// String returns a listing of the states, their flags and arcs.
func (d *DFA) String() string {
	var sb strings.Builder
	narcs := 0
	for _, s := range d.states {
		narcs += len(s.Arcs)
	}
	fmt.Fprintf(&sb, "total states: %d total arcs %d\n", len(d.states), narcs)
	for _, s := range d.states {
		fmt.Fprintf(&sb, "state %d: %s %v\n", s.ID, s.label(), s.Flags)
		for _, a := range s.Arcs {
			fmt.Fprintf(&sb, "    {iv:%v, ns:%d %s}\n",
				charclass.New(charclass.Interval{Lo: a.Lo, Hi: a.Hi}), a.Target, d.states[a.Target].label())
		}
	}
	return sb.String()
}
