package nfa

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/ndwade/xtrms/charclass"
)

// StateID identifies an NFA state by its position.
//
// Leaves of the syntax tree get positions 0..npos-1 in left to right order.
// The find loop state is npos, the synthetic states created by static
// boundary conversion follow it, and the alpha (initial) states are -1, -2,
// and so on.
type StateID int32

// InvalidState is never assigned to a state.
const InvalidState StateID = -1 << 31

// Tags is a bitset with two bits per capture group: bit 2g marks an arc that
// enters group g, bit 2g+1 an arc that leaves it.
type Tags []uint64

func newTags(ngroups int) Tags {
	return make(Tags, (2*ngroups+63)/64)
}

// Has reports whether tag i is set.
func (t Tags) Has(i int) bool {
	return t[i/64]&(1<<(i%64)) != 0
}

// Set sets tag i.
func (t Tags) Set(i int) {
	t[i/64] |= 1 << (i % 64)
}

// Or sets every tag set in o.
func (t Tags) Or(o Tags) {
	for i, w := range o {
		t[i] |= w
	}
}

// IsZero reports whether no tag is set.
func (t Tags) IsZero() bool {
	for _, w := range t {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of t.
func (t Tags) Clone() Tags {
	return append(Tags(nil), t...)
}

// Indexes returns the set tags in ascending order.
func (t Tags) Indexes() []int {
	var out []int
	for i, w := range t {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, 64*i+b)
			w &^= 1 << b
		}
	}
	return out
}

func (t Tags) String() string {
	idx := t.Indexes()
	if len(idx) == 0 {
		return ""
	}
	parts := make([]string, len(idx))
	for i, x := range idx {
		parts[i] = strconv.Itoa(x)
	}
	return "t<" + strings.Join(parts, ",") + ">"
}

// DBC is a dynamic boundary check: a zero-width assertion that cannot be
// decided from the character being consumed alone and is evaluated against
// the Scanner when a strand is about to advance.
type DBC uint8

const (
	CheckBOF           DBC = iota // \A
	CheckMatch                    // \G
	CheckCaret                    // ^
	CheckWordB                    // \b
	CheckWordNB                   // \B
	CheckDollarUnicode            // $ with Unicode line terminators
	CheckDollarUnix               // $ with \n only
	CheckBigZed                   // \Z
	CheckEOF                      // \z
	CheckLoop                     // the find loop was requested

	numDBC
)

// dbcClasses maps every check to its anchor class. Anchors are recognized by
// identity, never by membership.
var dbcClasses = [numDBC]*charclass.CharClass{
	CheckBOF:           charclass.BOF,
	CheckMatch:         charclass.Match,
	CheckCaret:         charclass.Caret,
	CheckWordB:         charclass.WordB,
	CheckWordNB:        charclass.WordNB,
	CheckDollarUnicode: charclass.DollarUnicode,
	CheckDollarUnix:    charclass.DollarUnix,
	CheckBigZed:        charclass.BigZed,
	CheckEOF:           charclass.EOFClass,
	CheckLoop:          charclass.Loop,
}

// Class returns the anchor class of d.
func (d DBC) Class() *charclass.CharClass {
	return dbcClasses[d]
}

func (d DBC) String() string {
	if d < numDBC {
		return dbcClasses[d].String()
	}
	return fmt.Sprintf("DBC(%d)", d)
}

// DBCOf returns the check whose anchor class is cc.
func DBCOf(cc *charclass.CharClass) (DBC, bool) {
	for d, c := range dbcClasses {
		if c == cc {
			return DBC(d), true
		}
	}
	return 0, false
}

// isDB reports whether cc is an anchor class.
func isDB(cc *charclass.CharClass) bool {
	_, ok := DBCOf(cc)
	return ok
}

// DBCSet is a set of checks.
type DBCSet uint16

// Has reports whether d is in s.
func (s DBCSet) Has(d DBC) bool { return s&(1<<d) != 0 }

// With returns s with d added.
func (s DBCSet) With(d DBC) DBCSet { return s | 1<<d }

// Without returns s with d removed.
func (s DBCSet) Without(d DBC) DBCSet { return s &^ (1 << d) }

// IsEmpty reports whether s has no checks.
func (s DBCSet) IsEmpty() bool { return s == 0 }

// SubsetOf reports whether every check in s is in o.
func (s DBCSet) SubsetOf(o DBCSet) bool { return s&^o == 0 }

// Slice returns the checks of s in declaration order.
func (s DBCSet) Slice() []DBC {
	var out []DBC
	for d := DBC(0); d < numDBC; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s DBCSet) String() string {
	var parts []string
	for _, d := range s.Slice() {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ",")
}

var (
	// initDBCs are the checks decided entirely by the init status.
	initDBCs = DBCSet(0).With(CheckBOF).With(CheckMatch).With(CheckCaret).
			With(CheckWordB).With(CheckWordNB).With(CheckLoop)

	// staticDBCs are the checks on an arc into omega that can be replaced by
	// a class test on the character after the match.
	staticDBCs = DBCSet(0).With(CheckDollarUnicode).With(CheckDollarUnix).
			With(CheckEOF).With(CheckWordB).With(CheckWordNB)
)

// Attrs are the attributes carried along an arc.
type Attrs struct {
	Tags Tags
	DBCs DBCSet
}

func (a Attrs) clone() Attrs {
	return Attrs{Tags: a.Tags.Clone(), DBCs: a.DBCs}
}

// merge adds the tags and checks of o to a in place.
func (a *Attrs) merge(o Attrs) {
	a.Tags.Or(o.Tags)
	a.DBCs |= o.DBCs
}

func (a Attrs) isEmpty() bool {
	return a.Tags.IsZero() && a.DBCs.IsEmpty()
}

func (a Attrs) String() string {
	ts, ds := a.Tags.String(), a.DBCs.String()
	if ts != "" && ds != "" {
		return "{" + ts + "," + ds + "}"
	}
	return "{" + ts + ds + "}"
}

// Arc is a prioritized transition to Next.
type Arc struct {
	Next StateID
	Attrs
}

func (a Arc) clone() Arc {
	return Arc{Next: a.Next, Attrs: a.Attrs.clone()}
}

func (a Arc) String() string {
	return strconv.Itoa(int(a.Next)) + ":" + a.Attrs.String()
}

// State is a position of the NFA. It consumes one character of Class and
// then follows its arcs in priority order.
type State struct {
	ID    StateID
	Class *charclass.CharClass
	Arcs  []Arc
}

func (s *State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pos:%d,cc:%v,fwp:[", s.ID, s.Class)
	for i, a := range s.Arcs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// NFA is a tagged position automaton built from a syntax tree.
// It is immutable and safe for concurrent use.
type NFA struct {
	states map[StateID]*State
	order  []*State // reachable states, topologically sorted from alpha

	alpha  []StateID
	omega  StateID
	accept StateID
	loop   StateID

	ngroups      int // including group 0
	names        []string
	longest      bool
	requirements Features
}

// State returns the state with the given id, or nil.
func (n *NFA) State(id StateID) *State {
	return n.states[id]
}

// States returns the states reachable from the alpha states, in
// topological order.
func (n *NFA) States() []*State {
	return n.order
}

// Alpha returns the initial states in priority order.
func (n *NFA) Alpha() []StateID {
	return n.alpha
}

// Omega returns the state that consumes the character after a match.
func (n *NFA) Omega() StateID { return n.omega }

// Accept returns the accepting state.
func (n *NFA) Accept() StateID { return n.accept }

// Loop returns the find loop state.
func (n *NFA) Loop() StateID { return n.loop }

// CaptureCount returns the number of capture groups including group 0.
func (n *NFA) CaptureCount() int {
	return n.ngroups
}

// SubexpNames returns the group names indexed by group number.
func (n *NFA) SubexpNames() []string {
	return n.names
}

// LeftmostLongest reports whether the NFA was built for leftmost-longest
// matching.
func (n *NFA) LeftmostLongest() bool {
	return n.longest
}

// Requirements returns the features an engine needs to evaluate n.
func (n *NFA) Requirements() Features {
	return n.requirements
}

// String returns a listing of the reachable states in topological order.
func (n *NFA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "req=%v\n", n.requirements)
	for _, s := range n.order {
		sb.WriteString(s.String())
		switch s.ID {
		case n.omega:
			sb.WriteString(" (omega)")
		case n.accept:
			sb.WriteString(" (accept)")
		case n.loop:
			sb.WriteString(" (loop)")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
