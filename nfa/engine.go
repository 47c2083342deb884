package nfa

import (
	"github.com/ndwade/xtrms/charclass"
	"github.com/ndwade/xtrms/internal/conv"
	"github.com/ndwade/xtrms/internal/sparse"
)

// Engine evaluates an NFA by simulating every live path, a strand, in
// priority order. A strand is a state, the checks on the arc that led to
// it, and its own capture group array.
//
// Engine is immutable and safe for concurrent use; the per-attempt scratch
// space lives in a Cache owned by the Scanner.
type Engine struct {
	states  []tableState
	alpha   []int32
	omega   int32
	accept  int32
	ngroups int
	longest bool
}

type tableState struct {
	class *charclass.CharClass
	arcs  []tableArc
}

type tableArc struct {
	next int32
	tags []int // slots of the group array stamped when the arc is taken
	dbcs DBCSet
}

// NewEngine flattens n into a table indexed by topological order.
func NewEngine(n *NFA) *Engine {
	order := n.States()
	index := make(map[StateID]int32, len(order))
	for i, s := range order {
		index[s.ID] = conv.IntToInt32(i)
	}
	e := &Engine{
		states:  make([]tableState, len(order)),
		omega:   -1,
		accept:  -1,
		ngroups: n.CaptureCount(),
		longest: n.LeftmostLongest(),
	}
	if i, ok := index[n.Omega()]; ok {
		e.omega = i
	}
	if i, ok := index[n.Accept()]; ok {
		e.accept = i
	}
	for i, s := range order {
		ts := tableState{class: s.Class, arcs: make([]tableArc, len(s.Arcs))}
		for j, a := range s.Arcs {
			ts.arcs[j] = tableArc{next: index[a.Next], tags: a.Tags.Indexes(), dbcs: a.DBCs}
		}
		e.states[i] = ts
	}
	for _, id := range n.Alpha() {
		e.alpha = append(e.alpha, index[id])
	}
	return e
}

// StateCount returns the number of states in the table.
func (e *Engine) StateCount() int { return len(e.states) }

// Cache is the scratch space of the engine: two strand lists and the set of
// states already advanced to in the current step. It grows geometrically
// and never shrinks.
type Cache struct {
	curr, next strandList
	advanced   *sparse.Set[int32]
}

// strandList stores strands in parallel slices; the group arrays share one
// flat buffer.
type strandList struct {
	states []int32
	dbcs   []DBCSet
	groups []int
	width  int
	n      int
}

func (l *strandList) reset(width int) {
	if l.width != width {
		l.width = width
		l.groups = l.groups[:0]
		l.states, l.dbcs = l.states[:0], l.dbcs[:0]
	}
	l.n = 0
}

// push appends a strand and returns its index.
func (l *strandList) push(state int32, dbcs DBCSet) int {
	i := l.n
	if i == len(l.states) {
		l.states = append(l.states, 0)
		l.dbcs = append(l.dbcs, 0)
		for k := 0; k < l.width; k++ {
			l.groups = append(l.groups, -1)
		}
	}
	l.states[i], l.dbcs[i] = state, dbcs
	l.n++
	return i
}

func (l *strandList) pop() { l.n-- }

func (l *strandList) group(i int) Groups {
	return Groups(l.groups[i*l.width : (i+1)*l.width])
}

func (c *Cache) swap() {
	c.curr, c.next = c.next, c.curr
	c.next.n = 0
}

// cache returns the cache of s, sized for e.
func (e *Engine) cache(s *Scanner) *Cache {
	c := s.cache
	if c == nil {
		c = &Cache{advanced: sparse.New[int32](len(e.states))}
		s.cache = c
	} else if c.advanced.Cap() < len(e.states) {
		c.advanced.Grow(len(e.states))
	}
	w := 2 * e.ngroups
	c.curr.reset(w)
	c.next.reset(w)
	return c
}

// Eval runs one attempt from the start offset of s. The match, if any, is
// left in s.Groups(); group 0 is unset otherwise.
//
// Strands are advanced in priority order. Once a strand reaches accept, no
// strand starting later than the match may continue. Under leftmost-first
// semantics the lower priority strands of the same step are dropped as
// well; under leftmost-longest the longest of the leftmost matches wins.
// A state is advanced to at most once per step unless the arc leading to it
// is guarded by checks.
func (e *Engine) Eval(s *Scanner) {
	c := e.cache(s)
	m := s.Groups()

	for _, a := range e.alpha {
		i := c.next.push(a, 0)
		c.next.group(i).Clear()
	}

	for {
		c.swap()
		c.advanced.Clear()
		ch, stamp := s.Char(), s.Stamp()

	strands:
		for i := 0; i < c.curr.n; i++ {
			src := c.curr.group(i)
			if m[0] != -1 && (src[0] == -1 || m[0] < src[0]) {
				break
			}
			if d := c.curr.dbcs[i]; d != 0 && !s.CheckAll(d) {
				continue
			}
			st := &e.states[c.curr.states[i]]
			if !st.class.Contains(ch) {
				continue
			}
			for k := range st.arcs {
				arc := &st.arcs[k]
				if c.advanced.Has(arc.next) {
					continue
				}
				j := c.next.push(arc.next, arc.dbcs)
				dst := c.next.group(j)
				dst.propagate(src, arc.tags, stamp)
				if arc.next == e.accept {
					c.next.pop()
					if !e.longest {
						copy(m, dst)
						break strands
					}
					if lefterLonger(dst, m) {
						copy(m, dst)
					}
				}
				if arc.dbcs == 0 {
					c.advanced.Add(arc.next)
				}
			}
		}
		if c.next.n == 0 {
			break
		}
		s.Advance()
	}

	e.epilog(s, c, m)
}

// epilog sets the end of input flags from the strands of the last step
// that started with the first of them. They are pessimistic: a strand
// that did not reach omega might have matched more input, and a match is
// only known to survive more input if a strand of its start was at omega.
func (e *Engine) epilog(s *Scanner, c *Cache, m Groups) {
	if !s.AtEOF() {
		return
	}
	var stranded, atOmega bool
	if c.curr.n > 0 {
		start0 := c.curr.group(0)[0]
		for i := 0; i < c.curr.n && c.curr.group(i)[0] == start0; i++ {
			if c.curr.states[i] == e.omega {
				atOmega = true
			} else {
				stranded = true
			}
		}
	}
	matched := m[0] != -1
	s.SetEnd(stranded, matched && m[1] == s.RegionEnd() && !atOmega)
}
