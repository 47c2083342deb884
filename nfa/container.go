package nfa

import "github.com/ndwade/xtrms/syntax"

// The position set containers below are doubly linked lists of arcs living
// in one arena per build. Every list owns a sentinel node; splicing a whole
// list into another is O(1) and leaves the source empty.
//
// A cursor marks an insertion point. It is stored as the index of the node
// it follows, the sentinel meaning "at the start", or noCursor.

const noCursor int32 = -1

type node struct {
	arc        Arc
	prev, next int32
}

type arena struct {
	nodes []node
}

func (a *arena) alloc(arc Arc) int32 {
	a.nodes = append(a.nodes, node{arc: arc, prev: -1, next: -1})
	return int32(len(a.nodes) - 1)
}

// list is the common core of LP, FP and FWP.
type list struct {
	a    *arena
	head int32
	size int
}

func newList(a *arena) list {
	h := a.alloc(Arc{})
	a.nodes[h].prev, a.nodes[h].next = h, h
	return list{a: a, head: h}
}

func (l *list) first() int32 { return l.a.nodes[l.head].next }
func (l *list) last() int32  { return l.a.nodes[l.head].prev }
func (l *list) next(i int32) int32 {
	return l.a.nodes[i].next
}

func (l *list) isEmpty() bool { return l.size == 0 }

// each calls f with a pointer to every arc in order.
func (l *list) each(f func(arc *Arc)) {
	for i := l.first(); i != l.head; i = l.next(i) {
		f(&l.a.nodes[i].arc)
	}
}

func (l *list) arcs() []Arc {
	out := make([]Arc, 0, l.size)
	l.each(func(arc *Arc) { out = append(out, *arc) })
	return out
}

// linkAfter links the detached node n after node at.
func (l *list) linkAfter(at, n int32) {
	nodes := l.a.nodes
	nx := nodes[at].next
	nodes[n].prev, nodes[n].next = at, nx
	nodes[at].next = n
	nodes[nx].prev = n
	l.size++
}

// spliceAfter moves every node of o after node at and empties o. It returns
// the last moved node, or at when o is empty.
func (l *list) spliceAfter(at int32, o *list) int32 {
	if o.isEmpty() {
		return at
	}
	nodes := l.a.nodes
	f, la := o.first(), o.last()
	nx := nodes[at].next
	nodes[at].next, nodes[f].prev = f, at
	nodes[la].next, nodes[nx].prev = nx, la
	l.size += o.size
	o.clear()
	return la
}

func (l *list) clear() {
	l.a.nodes[l.head].prev, l.a.nodes[l.head].next = l.head, l.head
	l.size = 0
}

func (l *list) add(arc Arc) int32 {
	n := l.a.alloc(arc)
	l.linkAfter(l.last(), n)
	return n
}

// copyFrom appends deep copies of the arcs of o. It returns the mapping from
// o's nodes to the new ones, with o's sentinel mapped to l's.
func (l *list) copyFrom(o *list) map[int32]int32 {
	m := map[int32]int32{o.head: l.head}
	for i := o.first(); i != o.head; i = o.next(i) {
		m[i] = l.add(o.a.nodes[i].arc.clone())
	}
	return m
}

// mergeAll merges attrs into every arc.
func (l *list) mergeAll(attrs Attrs) {
	l.each(func(arc *Arc) { arc.merge(attrs) })
}

func (l *list) nextStates() map[StateID]bool {
	m := make(map[StateID]bool, l.size)
	l.each(func(arc *Arc) { m[arc.Next] = true })
	return m
}

func assertDisjoint(l, o *list) {
	if l.isEmpty() || o.isEmpty() {
		return
	}
	seen := l.nextStates()
	o.each(func(arc *Arc) {
		if seen[arc.Next] {
			invariant(ErrNonDisjointMerge, arc.Next, "duplicate next state")
		}
	})
}

// LP is a lastpos set: an ordered list of arcs.
type LP struct {
	list
}

func newLP(a *arena) *LP {
	return &LP{list: newList(a)}
}

func (l *LP) copy() *LP {
	c := newLP(l.a)
	c.copyFrom(&l.list)
	return c
}

// addAll appends ac and empties it.
func (l *LP) addAll(ac *LP) {
	assertDisjoint(&l.list, &ac.list)
	l.spliceAfter(l.last(), &ac.list)
}

// FP is a firstpos set: an ordered list of arcs with an optional cursor.
// A firstpos set has a cursor exactly when its node is nullable; the cursor
// marks where the positions following an empty match are inserted.
type FP struct {
	list
	cursor int32
}

func newFP(a *arena) *FP {
	return &FP{list: newList(a), cursor: noCursor}
}

func (f *FP) copy() *FP {
	c := newFP(f.a)
	m := c.copyFrom(&f.list)
	if f.cursor != noCursor {
		c.cursor = m[f.cursor]
	}
	return c
}

// importCursor translates the cursor of ac, whose nodes are about to be
// moved after node at, into a cursor of the receiving list.
func importCursor(ac *FP, at int32) int32 {
	switch ac.cursor {
	case noCursor:
		return noCursor
	case ac.head:
		return at
	default:
		return ac.cursor
	}
}

// addAllAtCursor inserts ac at the cursor. The cursor then moves to the
// cursor of ac, or is cleared when ac has none. ac is emptied.
func (f *FP) addAllAtCursor(ac *FP) {
	if f.cursor == noCursor {
		invariant(ErrNoCursor, InvalidState, "FP.addAllAtCursor")
	}
	assertDisjoint(&f.list, &ac.list)
	at := f.cursor
	cur := importCursor(ac, at)
	f.spliceAfter(at, &ac.list)
	f.cursor = cur
	ac.cursor = noCursor
}

// appendAndAdjustCursor appends ac. The cursor of ac is adopted only when f
// has none. ac is emptied.
func (f *FP) appendAndAdjustCursor(ac *FP) {
	assertDisjoint(&f.list, &ac.list)
	at := f.last()
	cur := importCursor(ac, at)
	f.spliceAfter(at, &ac.list)
	if f.cursor == noCursor {
		f.cursor = cur
	}
	ac.cursor = noCursor
}

func (f *FP) setCursorStart() { f.cursor = f.head }
func (f *FP) setCursorEnd()   { f.cursor = f.last() }

func (f *FP) maybeSetCursorEnd() {
	if f.cursor == noCursor {
		f.setCursorEnd()
	}
}

// FWP is a followpos set. In SET mode it has a cursor and drops arcs to a
// next state it already holds; the arc already present keeps its priority.
// Losing the cursor switches it to LIST mode for good, after which arcs are
// only appended.
type FWP struct {
	list
	cursor int32
	index  map[StateID]int32
}

func newFWP(a *arena) *FWP {
	w := &FWP{list: newList(a)}
	w.cursor = w.head
	w.index = make(map[StateID]int32)
	return w
}

// newListFWP returns a LIST mode FWP holding copies of the arcs of l.
func newListFWP(a *arena, l *list) *FWP {
	w := &FWP{list: newList(a), cursor: noCursor}
	if l != nil {
		w.copyFrom(l)
	}
	return w
}

func (w *FWP) copy() *FWP {
	if w.cursor != noCursor {
		invariant(ErrNoCursor, InvalidState, "FWP.copy requires LIST mode")
	}
	return newListFWP(w.a, &w.list)
}

func (w *FWP) clearCursor() {
	w.cursor = noCursor
	w.index = nil
}

// hashAddAll moves the arcs of ac to the cursor, skipping next states
// already present, and advances the cursor past them. ac is emptied.
func (w *FWP) hashAddAll(ac *list) {
	for i := ac.first(); i != ac.head; {
		nx := ac.next(i)
		id := w.a.nodes[i].arc.Next
		if _, dup := w.index[id]; !dup {
			w.linkAfter(w.cursor, i)
			w.index[id] = i
			w.cursor = i
		}
		i = nx
	}
	ac.clear()
}

// addAllAtCursor inserts fp at the cursor. The cursor then moves to the
// cursor of fp, or is cleared when fp has none.
func (w *FWP) addAllAtCursor(fp *FP) {
	if w.cursor == noCursor {
		invariant(ErrNoCursor, InvalidState, "FWP.addAllAtCursor")
	}
	assertDisjoint(&w.list, &fp.list)
	at := w.cursor
	cur := importCursor(fp, at)
	w.hashAddAll(&fp.list)
	if cur == noCursor {
		w.clearCursor()
	} else {
		w.cursor = cur
	}
	fp.cursor = noCursor
}

// mergeAndAdjustCursor merges the positions of a repeating quantifier's
// next iteration. An existing arc to the same state is never displaced.
// For a greedy quantifier the cursor ends after the merged arcs, so later
// insertions rank below the repetition; otherwise it stays in front of them.
func (w *FWP) mergeAndAdjustCursor(fp *FP, mood syntax.Mood) {
	if w.cursor == noCursor {
		invariant(ErrNoCursor, InvalidState, "FWP.mergeAndAdjustCursor")
	}
	before := w.cursor
	w.hashAddAll(&fp.list)
	if mood != syntax.Greedy {
		w.cursor = before
	}
	fp.cursor = noCursor
}
