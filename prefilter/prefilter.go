// Package prefilter finds the positions in a haystack where a match can
// start, using the literal prefixes extracted from a pattern.
//
// A prefilter is used to quickly reject positions that cannot begin a
// match. The matcher runs its automaton only from candidate positions,
// skipping the input in between.
//
// The strategy depends on the extracted literals:
//   - Single byte: memchr (bytes.IndexByte)
//   - Single substring: memmem (bytes.Index)
//   - Several literals: Aho-Corasick automaton
//
// Example usage:
//
//	tree, _ := syntax.Parse(`hello|world`, 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(tree.Root)
//	pf, _ := prefilter.Build(prefixes)
//
//	pos := pf.Find([]byte("foo hello bar world baz"), 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/coregx/ahocorasick"

	"github.com/ndwade/xtrms/literal"
)

// Prefilter is used to quickly find candidate match positions before running
// the full automaton.
//
// Implementations are immutable and safe for concurrent use.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start, or
	// -1 if there is none.
	//
	// A candidate is a position where one of the prefilter literals begins.
	// This does NOT guarantee a match; the caller must verify it.
	Find(haystack []byte, start int) int

	// LiteralCount returns the number of literals searched for.
	LiteralCount() int

	// HeapBytes returns the number of bytes of heap memory used by this prefilter.
	//
	// Memchr uses none; Memmem holds its needle and Aho-Corasick its
	// patterns.
	HeapBytes() int

	// String names the strategy and its literals.
	String() string
}

// Build constructs the prefilter for a set of required prefixes.
//
// Returns (nil, nil) when seq is empty: no prefilter applies.
//
// The selection logic:
//  1. Single byte literal: Memchr
//  2. Single substring literal: Memmem
//  3. Two or more literals: Aho-Corasick
func Build(seq *literal.Seq) (Prefilter, error) {
	if seq.IsEmpty() {
		return nil, nil
	}
	if seq.Len() == 1 {
		lit := seq.Get(0)
		if lit.Len() == 1 {
			return newMemchr(lit.Bytes[0]), nil
		}
		return newMemmem(lit.Bytes), nil
	}
	ac, err := newAhoCorasick(seq)
	if err != nil {
		return nil, err
	}
	return ac, nil
}

// memchr searches for a single byte.
//
// Example patterns:
//
//	/a.*/    search for 'a'
//	/x\d+/   search for 'x'
type memchr struct {
	needle byte
}

func newMemchr(needle byte) *memchr {
	return &memchr{needle: needle}
}

func (p *memchr) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchr) LiteralCount() int { return 1 }
func (p *memchr) HeapBytes() int    { return 0 }

func (p *memchr) String() string {
	return "memchr(" + strconv.QuoteRune(rune(p.needle)) + ")"
}

// memmem searches for a single substring.
//
// Example patterns:
//
//	/hello/       search for "hello"
//	/foo|foobar/  after minimization, search for "foo"
//	/prefix.*/    search for "prefix"
type memmem struct {
	needle []byte
}

// newMemmem copies needle to prevent aliasing.
func newMemmem(needle []byte) *memmem {
	return &memmem{needle: bytes.Clone(needle)}
}

func (p *memmem) Find(haystack []byte, start int) int {
	if start < 0 || start+len(p.needle) > len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmem) LiteralCount() int { return 1 }
func (p *memmem) HeapBytes() int    { return len(p.needle) }

func (p *memmem) String() string {
	return "memmem(" + strconv.Quote(string(p.needle)) + ")"
}

// ahoCorasickPrefilter searches for any of several literals with one pass.
//
// The automaton reports the occurrence that ends first, which need not be
// the one that starts first: in "abbac", "b" ends before "abb" does. A
// literal starting earlier than the reported one must end no earlier, so
// it starts within maxLen bytes before the reported end; Find checks those
// positions directly.
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	literals [][]byte
	maxLen   int
	size     int
}

func newAhoCorasick(seq *literal.Seq) (*ahoCorasickPrefilter, error) {
	builder := ahocorasick.NewBuilder().SetMatchKind(ahocorasick.LeftmostFirst)
	p := &ahoCorasickPrefilter{literals: make([][]byte, 0, seq.Len())}
	for _, b := range seq.Bytes() {
		builder.AddPattern(b)
		p.literals = append(p.literals, bytes.Clone(b))
		p.maxLen = max(p.maxLen, len(b))
		p.size += len(b)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("prefilter: aho-corasick: %w", err)
	}
	p.auto = auto
	return p, nil
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	for i := max(start, m.End-p.maxLen); i < m.Start; i++ {
		if p.startsAt(haystack, i) {
			return i
		}
	}
	return m.Start
}

// startsAt reports whether one of the literals occurs at haystack[i:].
func (p *ahoCorasickPrefilter) startsAt(haystack []byte, i int) bool {
	for _, lit := range p.literals {
		if bytes.HasPrefix(haystack[i:], lit) {
			return true
		}
	}
	return false
}

func (p *ahoCorasickPrefilter) LiteralCount() int { return len(p.literals) }
func (p *ahoCorasickPrefilter) HeapBytes() int    { return p.size }

func (p *ahoCorasickPrefilter) String() string {
	return "aho-corasick(" + literal.NewSeq(literals(p.literals)...).String() + ")"
}

func literals(bs [][]byte) []literal.Literal {
	out := make([]literal.Literal, len(bs))
	for i, b := range bs {
		out[i] = literal.NewLiteral(b, true)
	}
	return out
}
