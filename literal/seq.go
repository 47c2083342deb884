// Package literal extracts the literal byte strings every match of a
// pattern must begin with. A prefilter searches for them to skip input
// where no match can start.
package literal

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
)

// Literal is a byte string a match starts with. Complete reports whether
// the literal is the whole match of the subtree it was extracted from, so
// that what follows the subtree may extend it.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns the quoted bytes, followed by "..." when the literal is
// incomplete.
func (l Literal) String() string {
	s := strconv.Quote(string(l.Bytes))
	if !l.Complete {
		s += "..."
	}
	return s
}

// Seq is a set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Bytes returns the byte strings of the literals.
func (s *Seq) Bytes() [][]byte {
	out := make([][]byte, s.Len())
	for i := range out {
		out[i] = s.literals[i].Bytes
	}
	return out
}

// MinLen returns the length of the shortest literal, or 0.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := s.literals[0].Len()
	for _, l := range s.literals[1:] {
		n = min(n, l.Len())
	}
	return n
}

// Minimize drops every literal that has another literal as a prefix, and
// duplicates. A search for the remaining literals finds the same starts.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return a.Len() - b.Len()
	})
	kept := s.literals[:0]
	for _, l := range s.literals {
		if !slices.ContainsFunc(kept, func(k Literal) bool { return bytes.HasPrefix(l.Bytes, k.Bytes) }) {
			kept = append(kept, l)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest prefix shared by every literal.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return nil
	}
	prefix := s.literals[0].Bytes
	for _, l := range s.literals[1:] {
		n := 0
		for n < len(prefix) && n < l.Len() && prefix[n] == l.Bytes[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return slices.Clone(prefix)
}

func (s *Seq) String() string {
	parts := make([]string, s.Len())
	for i := range parts {
		parts[i] = s.literals[i].String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
