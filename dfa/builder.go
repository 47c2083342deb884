package dfa

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/gammazero/deque"

	"github.com/ndwade/xtrms/charclass"
	"github.com/ndwade/xtrms/nfa"
)

// builder interns state sets during subset construction.
type builder struct {
	n      *nfa.NFA
	config Config
	states []*State
	keys   [][]nfa.StateID      // sorted members, by state id
	index  map[uint64][]StateID // xxhash of the sorted members
	buf    []byte
}

// New builds the DFA of n by breadth first subset construction starting
// from the set of alpha states.
//
// For every DFA state the classes of its members are partitioned; each
// block leads to the set of targets of the unconditional arcs of every
// member whose class contains the block. The loop state is never a target.
//
// New returns ErrStateLimitExceeded when more than config.MaxStates states
// would be needed, and ErrUnsupported when n needs dynamic boundary checks.
func New(n *nfa.NFA, config Config) (*DFA, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if n.Requirements().Has(nfa.DynamicBoundaries) {
		return nil, ErrUnsupported
	}
	b := &builder{
		n:      n,
		config: config,
		index:  make(map[uint64][]StateID),
	}

	init, _ := b.intern(n.Alpha())
	var q deque.Deque[*State]
	q.PushBack(init)
	for q.Len() > 0 {
		s := q.PopFront()
		classes := make([]*charclass.CharClass, len(s.Members))
		for i, m := range s.Members {
			classes[i] = n.State(m).Class
		}
		var (
			blocks  []*charclass.CharClass
			targets []StateID
		)
		for _, block := range charclass.Partition(classes) {
			next := b.step(s, block)
			if len(next) == 0 {
				continue
			}
			t, created := b.intern(next)
			if created {
				if len(b.states) > b.config.MaxStates {
					return nil, ErrStateLimitExceeded
				}
				q.PushBack(t)
			}
			blocks = append(blocks, block)
			targets = append(targets, t.ID)
		}
		s.Arcs = charclass.IntervalMap(blocks, targets)
	}
	return &DFA{states: b.states, nfa: n}, nil
}

// step returns the NFA states reached from s on any character of block,
// deduplicated in first reached order.
func (b *builder) step(s *State, block *charclass.CharClass) []nfa.StateID {
	var next []nfa.StateID
	loop := b.n.Loop()
	for _, m := range s.Members {
		ns := b.n.State(m)
		if !ns.Class.ContainsClass(block) {
			continue
		}
		for _, arc := range ns.Arcs {
			if arc.Next == loop || !arc.DBCs.IsEmpty() {
				continue
			}
			if !slices.Contains(next, arc.Next) {
				next = append(next, arc.Next)
			}
		}
	}
	return next
}

// intern returns the state for members, creating it if needed.
func (b *builder) intern(members []nfa.StateID) (*State, bool) {
	key := slices.Clone(members)
	slices.Sort(key)
	h := b.hash(key)
	for _, id := range b.index[h] {
		if slices.Equal(b.keys[id], key) {
			return b.states[id], false
		}
	}
	s := &State{
		ID:      StateID(len(b.states)),
		Members: slices.Clone(members),
		Flags:   b.flags(members),
	}
	b.states = append(b.states, s)
	b.keys = append(b.keys, key)
	b.index[h] = append(b.index[h], s.ID)
	return s, true
}

func (b *builder) hash(key []nfa.StateID) uint64 {
	b.buf = b.buf[:0]
	for _, id := range key {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(id))
	}
	return xxhash.Sum64(b.buf)
}

func (b *builder) flags(members []nfa.StateID) Flags {
	var f Flags
	if len(b.states) == 0 {
		f |= FlagInit
	}
	omega := slices.Contains(members, b.n.Omega())
	accept := slices.Contains(members, b.n.Accept())
	if omega {
		f |= FlagContainsOmega
	}
	if accept {
		f |= FlagAccept
		if len(members) == 1 {
			f |= FlagPureAccept
		}
	}
	// members other than omega and accept keep the match open; a set
	// without omega counts every member
	account := 0
	if omega {
		account = 1
		if accept {
			account = 2
		}
	}
	if len(members) > account {
		f |= FlagStranded
	}
	return f
}
