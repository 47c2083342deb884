package dfa

import (
	"github.com/ndwade/xtrms/nfa"
)

// Engine walks a DFA over the characters of a Scanner. It is immutable and
// safe for concurrent use.
type Engine struct {
	states []*State
}

// NewEngine returns an engine evaluating d.
func NewEngine(d *DFA) *Engine {
	return &Engine{states: d.states}
}

// StateCount returns the number of states in the table.
func (e *Engine) StateCount() int { return len(e.states) }

// Eval runs one anchored attempt from the start offset of s, consuming the
// init status first. Group 0 records the longest match; the walk stops at
// the pure accept state or when no arc matches the current character.
//
// At the end of input, hitEnd is set when the last state was stranded, and
// requireEnd when the match ends at the region end and the last state did
// not contain omega.
func (e *Engine) Eval(s *nfa.Scanner) {
	g := s.Groups()
	start := s.Offset()

	cur := e.states[0]
	for {
		id, ok := cur.Next(s.Char())
		if !ok {
			break
		}
		next := e.states[id]
		if next.Flags.Has(FlagAccept) {
			g[0], g[1] = start, s.Offset()
		}
		if next.Flags.Has(FlagPureAccept) {
			break
		}
		cur = next
		s.Advance()
	}

	atEOF := s.AtEOF()
	s.SetEnd(
		atEOF && cur.Flags.Has(FlagStranded),
		atEOF && g.Matched(0) && g.End(0) == s.RegionEnd() && !cur.Flags.Has(FlagContainsOmega))
}
