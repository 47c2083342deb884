package nfa

import (
	"github.com/ndwade/xtrms/charclass"
	"github.com/ndwade/xtrms/syntax"
)

// nodeAttrs are the pass one attributes of a syntax tree node.
type nodeAttrs struct {
	nullable bool
	em       Attrs // attributes of the empty match, meaningful when nullable
	fp       *FP
	lp       *LP
}

// bstate is a state under construction.
type bstate struct {
	id   StateID
	cc   *charclass.CharClass
	fwp  *FWP
	arcs []Arc // set by freeze
}

// builder holds the working set of one NFA construction.
type builder struct {
	a       arena
	ngroups int
	attrs   map[*syntax.Node]*nodeAttrs
	states  map[StateID]*bstate
	npos    int

	init, loop    *bstate
	omega, accept StateID
	req           Features
}

func newBuilder(ngroups int) *builder {
	return &builder{
		ngroups: ngroups,
		attrs:   make(map[*syntax.Node]*nodeAttrs),
		states:  make(map[StateID]*bstate),
		omega:   InvalidState,
		accept:  InvalidState,
	}
}

func (b *builder) newAttrs() Attrs {
	return Attrs{Tags: newTags(b.ngroups)}
}

func (b *builder) newArc(next StateID) Arc {
	return Arc{Next: next, Attrs: b.newAttrs()}
}

// augment wraps root so that every match is followed by the omega
// position, which consumes the character after the match, and the accept
// position.
func augment(root *syntax.Node) *syntax.Node {
	return syntax.Cat(
		syntax.Group(0, "", root),
		syntax.Cat(syntax.Terminal(charclass.Omega), syntax.Terminal(charclass.Accept)))
}

// positions runs pass one: it numbers the leaves and computes nullable,
// firstpos, lastpos and the empty match attributes bottom up.
func (b *builder) positions(root *syntax.Node) {
	syntax.Walk(root, syntax.PostOrder, func(n *syntax.Node) {
		if _, seen := b.attrs[n]; seen {
			invariant(ErrReconvergent, InvalidState, "node "+n.String())
		}
		na := &nodeAttrs{em: b.newAttrs()}
		b.attrs[n] = na

		switch n.Kind {
		case syntax.KindTerminal:
			b.terminal(n, na)

		case syntax.KindAlt:
			na1, na2 := b.attrs[n.Sub[0]], b.attrs[n.Sub[1]]
			na.nullable = na1.nullable || na2.nullable
			if na1.nullable {
				na.em.merge(na1.em)
			} else {
				na.em.merge(na2.em)
			}
			na.fp = na1.fp.copy()
			na.fp.appendAndAdjustCursor(na2.fp.copy())
			na.lp = na1.lp.copy()
			na.lp.addAll(na2.lp.copy())

		case syntax.KindCat:
			na1, na2 := b.attrs[n.Sub[0]], b.attrs[n.Sub[1]]
			na.nullable = na1.nullable && na2.nullable
			na.em.merge(na1.em)
			na.em.merge(na2.em)
			na.fp = na1.fp.copy()
			if na1.nullable {
				ps := na2.fp.copy()
				ps.mergeAll(na1.em)
				na.fp.addAllAtCursor(ps)
			}
			na.lp = na2.lp.copy()
			if na2.nullable {
				ps := na1.lp.copy()
				ps.mergeAll(na2.em)
				na.lp.addAll(ps)
			}

		case syntax.KindStar, syntax.KindQuestion:
			child := b.attrs[n.Sub[0]]
			na.nullable = true
			if child.nullable && n.Mood != syntax.Reluctant {
				na.em.merge(child.em)
			}
			na.fp = child.fp.copy()
			switch {
			case n.Mood == syntax.Reluctant:
				na.fp.setCursorStart()
			case n.Kind == syntax.KindStar:
				na.fp.setCursorEnd()
			default:
				na.fp.maybeSetCursorEnd()
			}
			na.lp = child.lp.copy()

		case syntax.KindPlus:
			child := b.attrs[n.Sub[0]]
			na.nullable = child.nullable
			na.em.merge(child.em)
			na.fp = child.fp.copy()
			na.lp = child.lp.copy()
			if child.nullable {
				na.fp.mergeAll(child.em)
				na.lp.mergeAll(child.em)
			}

		case syntax.KindGroup:
			child := b.attrs[n.Sub[0]]
			na.nullable = child.nullable
			na.fp = child.fp.copy()
			na.lp = child.lp.copy()
			na.em.merge(child.em)
			ts := 2 * n.Index
			na.em.Tags.Set(ts)
			na.em.Tags.Set(ts + 1)
			na.fp.each(func(arc *Arc) { arc.Tags.Set(ts) })
			na.lp.each(func(arc *Arc) { arc.Tags.Set(ts + 1) })
		}
	})
}

func (b *builder) terminal(n *syntax.Node, na *nodeAttrs) {
	id := StateID(b.npos)
	b.npos++
	b.states[id] = &bstate{id: id, cc: n.Class, fwp: newFWP(&b.a)}

	na.fp, na.lp = newFP(&b.a), newLP(&b.a)
	fa, la := b.newArc(id), b.newArc(id)
	if d, ok := DBCOf(n.Class); ok {
		b.req |= DynamicBoundaries
		fa.DBCs = fa.DBCs.With(d)
	}
	na.fp.add(fa)
	na.lp.add(la)

	switch n.Class {
	case charclass.Omega:
		b.omega = id
	case charclass.Accept:
		b.accept = id
	}
}

// follows runs pass two: it computes the followpos set of every position
// from the concatenations and repeating quantifiers of the tree.
func (b *builder) follows(root *syntax.Node) {
	syntax.Walk(root, syntax.PostOrder, func(n *syntax.Node) {
		switch n.Kind {
		case syntax.KindCat:
			fp := b.attrs[n.Sub[1]].fp
			for _, lpa := range b.attrs[n.Sub[0]].lp.arcs() {
				temp := fp.copy()
				temp.mergeAll(lpa.Attrs)
				b.states[lpa.Next].fwp.addAllAtCursor(temp)
			}
		case syntax.KindStar, syntax.KindPlus:
			na := b.attrs[n]
			for _, lpa := range na.lp.arcs() {
				temp := na.fp.copy()
				temp.mergeAll(lpa.Attrs)
				b.states[lpa.Next].fwp.mergeAndAdjustCursor(temp, n.Mood)
			}
		}
		if n.Kind.IsQuantifier() {
			switch n.Mood {
			case syntax.Reluctant:
				b.req |= ReluctantQuantifiers
			case syntax.Possessive:
				b.req |= PossessiveQuantifiers
			}
		}
	})
}

// entry creates the init state from the firstpos set of the augmented root,
// and the find loop state, which restarts the automaton at every character.
func (b *builder) entry(root *syntax.Node) {
	ifwp := newListFWP(&b.a, &b.attrs[root].fp.list)
	b.init = &bstate{id: -1, cc: charclass.AllInit, fwp: ifwp}

	loopID := StateID(b.npos)
	lfwp := ifwp.copy()
	lfwp.add(b.newArc(loopID))
	b.loop = &bstate{id: loopID, cc: charclass.DotAll, fwp: lfwp}
	b.states[loopID] = b.loop

	loopArc := b.newArc(loopID)
	loopArc.DBCs = loopArc.DBCs.With(CheckLoop)
	ifwp.add(loopArc)
}

// freeze converts every followpos container into an arc slice. The arena is
// not used afterwards.
func (b *builder) freeze() {
	b.init.arcs = b.init.fwp.arcs()
	b.init.fwp = nil
	for _, s := range b.states {
		s.arcs = s.fwp.arcs()
		s.fwp = nil
	}
	b.a.nodes = nil
}
