package charclass

import (
	"encoding/binary"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Partition refines a collection of possibly overlapping classes into a
// disjoint collection with the same union. Every returned class is the set
// of members shared by exactly the same inputs, so each input is the union
// of some of the returned classes.
//
// Classes are returned ordered by their smallest member.
func Partition(classes []*CharClass) []*CharClass {
	type event struct {
		at    int64 // int64 so Hi+1 never overflows
		class int
		open  bool
	}
	var events []event
	for i, c := range classes {
		for _, iv := range c.ivs {
			events = append(events,
				event{at: int64(iv.Lo), class: i, open: true},
				event{at: int64(iv.Hi) + 1, class: i})
		}
	}
	if len(events) == 0 {
		return nil
	}
	sort.Slice(events, func(i, j int) bool { return events[i].at < events[j].at })

	words := (len(classes) + 63) / 64
	sig := make([]uint64, words)
	buf := make([]byte, 8*words)
	active := 0

	var (
		blocks   []*Builder
		blockSig [][]uint64
		index    = make(map[uint64][]int)
	)
	lookup := func() int {
		for i, w := range sig {
			binary.LittleEndian.PutUint64(buf[8*i:], w)
		}
		h := xxhash.Sum64(buf)
		for _, b := range index[h] {
			if slices.Equal(blockSig[b], sig) {
				return b
			}
		}
		b := len(blocks)
		blocks = append(blocks, NewBuilder())
		blockSig = append(blockSig, slices.Clone(sig))
		index[h] = append(index[h], b)
		return b
	}

	for i := 0; i < len(events); {
		at := events[i].at
		for ; i < len(events) && events[i].at == at; i++ {
			e := events[i]
			if e.open {
				sig[e.class/64] |= 1 << (e.class % 64)
				active++
			} else {
				sig[e.class/64] &^= 1 << (e.class % 64)
				active--
			}
		}
		if active == 0 || i == len(events) {
			continue
		}
		b := lookup()
		blocks[b].AddRange(rune(at), rune(events[i].at-1))
	}

	out := make([]*CharClass, len(blocks))
	for i, b := range blocks {
		out[i] = b.Build()
	}
	return out
}

// Span maps an inclusive interval to a target.
type Span[T comparable] struct {
	Lo, Hi rune
	Target T
}

// IntervalMap flattens disjoint classes, each paired with a target, into a
// sorted span table. Adjacent spans with equal targets are merged. The
// result is searchable with Search.
func IntervalMap[T comparable](classes []*CharClass, targets []T) []Span[T] {
	var spans []Span[T]
	for i, c := range classes {
		for _, iv := range c.ivs {
			spans = append(spans, Span[T]{Lo: iv.Lo, Hi: iv.Hi, Target: targets[i]})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Lo < spans[j].Lo })
	out := spans[:0]
	for _, s := range spans {
		if n := len(out); n > 0 && out[n-1].Target == s.Target && int64(out[n-1].Hi)+1 == int64(s.Lo) {
			out[n-1].Hi = s.Hi
			continue
		}
		out = append(out, s)
	}
	return out
}

// Search returns the target of the span containing r.
func Search[T comparable](spans []Span[T], r rune) (T, bool) {
	lo, hi := 0, len(spans)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		switch s := spans[m]; {
		case r < s.Lo:
			hi = m
		case r > s.Hi:
			lo = m + 1
		default:
			return s.Target, true
		}
	}
	var zero T
	return zero, false
}
