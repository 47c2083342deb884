package meta

import (
	"github.com/ndwade/xtrms/nfa"
	"github.com/ndwade/xtrms/prefilter"
)

// Find searches for the leftmost match starting at or after s.Start(). It
// reports whether one was found; the match is left in s.Groups().
//
// The search algorithm depends on the engine and the prefilter:
//
//	prefilter active:  skip to each candidate, one anchored attempt there
//	native find loop:  one attempt with the loop flag set
//	otherwise:         one anchored attempt per character position
//
// t may be nil. A prefilter is only used when the whole input is in s.
// When the prefilter finds no further candidate, hitEnd is set: more input
// could have added one.
func (p *Program) Find(s *nfa.Scanner, t *prefilter.Tracker) bool {
	end := s.RegionEnd()
	var text []byte
	if t.Active() {
		text = s.Text(0, end)
	}
	if text == nil && p.engine.Style().Capabilities().Has(nfa.FindLoop) {
		s.Init(true)
		p.engine.Eval(s)
		return s.Groups().Matched(0)
	}

	hitEnd := false
	// the region grows during an attempt when s reads from a stream
	for start := s.Start(); start <= s.RegionEnd(); start = s.NextOffset(start) {
		prefiltered := text != nil && t.Active()
		if prefiltered {
			c := t.Next(text, start)
			if c < 0 {
				s.SetStart(end)
				s.Groups().ClearGroup(0)
				s.SetEnd(true, false)
				return false
			}
			start = c
		}
		s.SetStart(start)
		s.Init(false)
		p.engine.Eval(s)
		hitEnd = hitEnd || s.HitEnd()
		if s.Groups().Matched(0) {
			if prefiltered {
				t.Confirm()
			}
			s.SetEnd(hitEnd, s.RequireEnd())
			return true
		}
	}
	s.SetEnd(hitEnd, false)
	return false
}

// LookingAt runs one anchored attempt at the region start and reports
// whether it matched.
func (p *Program) LookingAt(s *nfa.Scanner) bool {
	s.SetStart(s.RegionStart())
	s.Init(false)
	p.engine.Eval(s)
	return s.Groups().Matched(0)
}

// NewTracker returns a tracker for the prefilter of p, or nil when p has
// none. A tracker belongs to one matcher.
func (p *Program) NewTracker() *prefilter.Tracker {
	if p.prefilter == nil {
		return nil
	}
	return prefilter.NewTracker(p.prefilter)
}
