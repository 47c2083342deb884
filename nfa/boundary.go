package nfa

import (
	"github.com/gammazero/deque"

	"github.com/ndwade/xtrms/charclass"
)

// collapse removes the anchor states from the graph. Every arc from an
// ordinary state into an anchor state is replaced, in place, by arcs for the
// paths through consecutive anchor states to the first ordinary state; each
// replacement carries the merged attributes of its path. Arcs into
// the empty match state are dropped.
func (b *builder) collapse() {
	seen := map[*bstate]bool{b.init: true}
	var q deque.Deque[*bstate]
	q.PushBack(b.init)
	for q.Len() > 0 {
		s := q.PopFront()
		s.arcs = b.collapseArcs(s.arcs)
		for _, arc := range s.arcs {
			ns := b.states[arc.Next]
			if !seen[ns] {
				seen[ns] = true
				q.PushBack(ns)
			}
		}
	}
}

func (b *builder) collapseArcs(arcs []Arc) []Arc {
	out := make([]Arc, 0, len(arcs))
	for _, arc := range arcs {
		ns := b.states[arc.Next]
		switch {
		case ns.cc == charclass.Epsilon:
		case isDB(ns.cc):
			out = append(out, b.compose(arc)...)
		default:
			out = append(out, arc)
		}
	}
	return out
}

// compose returns the arcs replacing arc, which leads into an anchor state.
//
// Paths are walked depth first in priority order. A path that reaches an
// anchor state, or an ordinary state, with a superset of the checks of an
// earlier path to it is dropped: the earlier path passes whenever it does
// and is preferred. Each anchor state is therefore entered at most once per
// distinct check set, and the walk ends on cycles since checks only grow.
func (b *builder) compose(arc Arc) []Arc {
	var out []Arc
	entered := make(map[StateID][]DBCSet)
	reached := make(map[StateID][]DBCSet)
	var walk func(acc Arc)
	walk = func(acc Arc) {
		if dominated(entered[acc.Next], acc.DBCs) {
			return
		}
		entered[acc.Next] = append(entered[acc.Next], acc.DBCs)
		for _, a := range b.states[acc.Next].arcs {
			c := a.clone()
			c.merge(acc.Attrs)
			ns := b.states[c.Next]
			switch {
			case isDB(ns.cc):
				walk(c)
			case ns.cc == charclass.Epsilon:
			case dominated(reached[c.Next], c.DBCs):
			default:
				reached[c.Next] = append(reached[c.Next], c.DBCs)
				out = append(out, c)
			}
		}
	}
	walk(arc)
	return out
}

// dominated reports whether some set in seen is a subset of dbcs.
func dominated(seen []DBCSet, dbcs DBCSet) bool {
	for _, d := range seen {
		if d.SubsetOf(dbcs) {
			return true
		}
	}
	return false
}

// splitAlpha replaces the init state by the alpha states. The checks an
// init arc carries that depend only on the start offset are folded into
// the class of the alpha state owning the arc. Consecutive arcs with equal
// classes share a state, so arc priority is preserved across states.
func (b *builder) splitAlpha() []*bstate {
	var alpha []*bstate
	for _, arc := range b.init.arcs {
		arc = arc.clone()
		cc := charclass.AllInit
		for _, d := range arc.DBCs.Slice() {
			if initDBCs.Has(d) {
				cc = cc.Intersect(d.Class())
				arc.DBCs = arc.DBCs.Without(d)
			}
		}
		if n := len(alpha); n == 0 || !alpha[n-1].cc.Equal(cc) {
			s := &bstate{id: StateID(-1 - n), cc: cc}
			b.states[s.id] = s
			alpha = append(alpha, s)
		}
		s := alpha[len(alpha)-1]
		s.arcs = append(s.arcs, arc)
	}
	b.init = nil
	return alpha
}

// convertStatic replaces boundary checks on arcs into omega by a class test
// on the character after the match. Such an arc is redirected to a single
// synthetic state accepting that class, or left alone when no class can
// express its checks.
func (b *builder) convertStatic(alpha []*bstate) {
	synth := make(map[string]*bstate)
	last := StateID(b.npos) // the loop state
	seen := make(map[StateID]bool)
	var q deque.Deque[*bstate]
	for _, s := range alpha {
		seen[s.id] = true
		q.PushBack(s)
	}
	for q.Len() > 0 {
		s := q.PopFront()
		for i := range s.arcs {
			arc := &s.arcs[i]
			if arc.Next == b.omega && !arc.DBCs.IsEmpty() && arc.DBCs.SubsetOf(staticDBCs) {
				if cc := staticClass(s.cc, arc.DBCs); !cc.IsEmpty() {
					ns, ok := synth[cc.Key()]
					if !ok {
						last++
						ns = &bstate{id: last, cc: cc, arcs: []Arc{b.newArc(b.accept)}}
						synth[cc.Key()] = ns
						b.states[last] = ns
					}
					*arc = Arc{Next: ns.id, Attrs: Attrs{Tags: arc.Tags}}
				}
			}
			if !seen[arc.Next] {
				seen[arc.Next] = true
				q.PushBack(b.states[arc.Next])
			}
		}
	}
}

// staticClass returns the class of characters after a match ending in a
// state of class src that satisfy every check in dbcs, or the empty class.
func staticClass(src *charclass.CharClass, dbcs DBCSet) *charclass.CharClass {
	cc := charclass.Omega
	for _, d := range dbcs.Slice() {
		switch d {
		case CheckWordB, CheckWordNB:
			var same, other *charclass.CharClass
			switch {
			case charclass.Word.ContainsClass(src):
				same, other = charclass.Word, charclass.NWordEOF
			case charclass.NWord.ContainsClass(src):
				same, other = charclass.NWordEOF, charclass.Word
			default:
				return charclass.Empty
			}
			if d == CheckWordB {
				cc = cc.Intersect(other)
			} else {
				cc = cc.Intersect(same)
			}
		default:
			cc = cc.Intersect(d.Class())
		}
	}
	return cc
}

// order returns the states reachable from alpha in topological order:
// reverse postorder of a depth first search visiting arcs by priority.
func (b *builder) order(alpha []*bstate) []*bstate {
	seen := make(map[StateID]bool)
	var post []*bstate
	var visit func(s *bstate)
	visit = func(s *bstate) {
		seen[s.id] = true
		for _, arc := range s.arcs {
			if !seen[arc.Next] {
				visit(b.states[arc.Next])
			}
		}
		post = append(post, s)
	}
	for _, s := range alpha {
		if !seen[s.id] {
			visit(s)
		}
	}
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// requirements computes the features needed to evaluate the states in
// order. Checks on arcs into the loop state are only a signal; checks on
// arcs out of it are reported separately since an engine can replace the
// loop state with an explicit search loop.
func (b *builder) requirements(order []*bstate, longest bool) Features {
	req := b.req &^ DynamicBoundaries
	loop := b.loop.id
	for _, s := range order {
		for _, arc := range s.arcs {
			if arc.DBCs.IsEmpty() || arc.Next == loop {
				continue
			}
			if s.id == loop {
				req |= LoopDBC
			} else {
				req |= DynamicBoundaries
			}
		}
	}
	if b.ngroups > 1 {
		req |= CapturingGroups
	}
	if !longest {
		req |= LeftmostFirst
	}
	return req
}
