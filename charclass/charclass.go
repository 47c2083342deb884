// Package charclass implements immutable character classes: sorted sets of
// disjoint, inclusive code point intervals.
//
// A class ranges over int32 values. Non-negative values are ordinary code
// points in [0, unicode.MaxRune]. Negative values are pseudo-characters that
// never occur in input text:
//
//   - EOF (-1) is delivered by the scanner once input is exhausted.
//   - Accept, Epsilon and BigZed mark automaton sentinels and anchors.
//   - Init statuses (math.MinInt32 | flags) describe the boundary conditions
//     that hold where an evaluation starts; see InitFlags.
//
// Automata compare classes with Equal and ContainsClass, refine overlapping
// classes with Partition, and turn disjoint classes into binary-searchable
// transition tables with IntervalMap.
package charclass

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Interval is an inclusive range of code points or pseudo-characters.
type Interval struct {
	Lo, Hi rune
}

// Contains reports whether r lies in the interval.
func (iv Interval) Contains(r rune) bool {
	return iv.Lo <= r && r <= iv.Hi
}

// CharClass is an immutable set of code points and pseudo-characters.
// The zero value is the empty class.
type CharClass struct {
	ivs  []Interval // sorted, disjoint, never adjacent
	name string     // display label for named classes
}

// New returns the class containing the given inclusive ranges.
// Ranges may overlap and appear in any order.
func New(ranges ...Interval) *CharClass {
	b := NewBuilder()
	for _, iv := range ranges {
		b.AddRange(iv.Lo, iv.Hi)
	}
	return b.Build()
}

// Rune returns the class containing exactly r.
func Rune(r rune) *CharClass {
	return &CharClass{ivs: []Interval{{r, r}}}
}

// Runes returns the class containing the given code points.
func Runes(rs ...rune) *CharClass {
	b := NewBuilder()
	for _, r := range rs {
		b.AddRune(r)
	}
	return b.Build()
}

// FromPairs converts a regexp/syntax style rune slice of inclusive
// [lo, hi] pairs into a class.
func FromPairs(pairs []rune) *CharClass {
	b := NewBuilder()
	for i := 0; i+1 < len(pairs); i += 2 {
		b.AddRange(pairs[i], pairs[i+1])
	}
	return b.Build()
}

// named returns a copy of c labeled for display.
func named(c *CharClass, name string) *CharClass {
	return &CharClass{ivs: c.ivs, name: name}
}

// Intervals returns the sorted intervals of c.
// The returned slice must not be modified.
func (c *CharClass) Intervals() []Interval {
	return c.ivs
}

// IsEmpty reports whether c contains nothing.
func (c *CharClass) IsEmpty() bool {
	return len(c.ivs) == 0
}

// IsSpecial reports whether c contains any pseudo-character.
func (c *CharClass) IsSpecial() bool {
	return len(c.ivs) > 0 && c.ivs[0].Lo < 0
}

// Contains reports whether r is a member of c.
func (c *CharClass) Contains(r rune) bool {
	i := sort.Search(len(c.ivs), func(i int) bool { return c.ivs[i].Hi >= r })
	return i < len(c.ivs) && c.ivs[i].Lo <= r
}

// ContainsClass reports whether every member of o is a member of c.
func (c *CharClass) ContainsClass(o *CharClass) bool {
	i := 0
	for _, iv := range o.ivs {
		for i < len(c.ivs) && c.ivs[i].Hi < iv.Lo {
			i++
		}
		if i == len(c.ivs) || c.ivs[i].Lo > iv.Lo || c.ivs[i].Hi < iv.Hi {
			return false
		}
	}
	return true
}

// Intersects reports whether c and o share a member.
func (c *CharClass) Intersects(o *CharClass) bool {
	i, j := 0, 0
	for i < len(c.ivs) && j < len(o.ivs) {
		a, b := c.ivs[i], o.ivs[j]
		if a.Hi < b.Lo {
			i++
		} else if b.Hi < a.Lo {
			j++
		} else {
			return true
		}
	}
	return false
}

// Equal reports whether c and o have the same members. Names are ignored.
func (c *CharClass) Equal(o *CharClass) bool {
	if c == o {
		return true
	}
	if len(c.ivs) != len(o.ivs) {
		return false
	}
	for i := range c.ivs {
		if c.ivs[i] != o.ivs[i] {
			return false
		}
	}
	return true
}

// Union returns the union of c and o.
func (c *CharClass) Union(o *CharClass) *CharClass {
	return NewBuilder().AddClass(c).AddClass(o).Build()
}

// Intersect returns the intersection of c and o.
func (c *CharClass) Intersect(o *CharClass) *CharClass {
	var out []Interval
	i, j := 0, 0
	for i < len(c.ivs) && j < len(o.ivs) {
		a, b := c.ivs[i], o.ivs[j]
		lo, hi := max(a.Lo, b.Lo), min(a.Hi, b.Hi)
		if lo <= hi {
			out = append(out, Interval{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return &CharClass{ivs: out}
}

// Difference returns c \ o.
func (c *CharClass) Difference(o *CharClass) *CharClass {
	var out []Interval
	j := 0
	for _, iv := range c.ivs {
		lo := iv.Lo
		for j < len(o.ivs) && o.ivs[j].Hi < lo {
			j++
		}
		k := j
		for ; k < len(o.ivs) && o.ivs[k].Lo <= iv.Hi; k++ {
			if o.ivs[k].Lo > lo {
				out = append(out, Interval{lo, o.ivs[k].Lo - 1})
			}
			if o.ivs[k].Hi >= iv.Hi {
				lo = iv.Hi + 1
				break
			}
			lo = o.ivs[k].Hi + 1
		}
		if lo <= iv.Hi {
			out = append(out, Interval{lo, iv.Hi})
		}
	}
	return &CharClass{ivs: out}
}

// Complement returns the ordinary code points not in c. Pseudo-characters
// never appear in a complement.
func (c *CharClass) Complement() *CharClass {
	return DotAll.Difference(c)
}

// Key returns a compact binary encoding of the members of c, suitable as a
// map key. Equal classes have equal keys.
func (c *CharClass) Key() string {
	buf := make([]byte, 8*len(c.ivs))
	for i, iv := range c.ivs {
		//nolint:gosec // G115: reinterpretation of the rune bits is intended
		binary.LittleEndian.PutUint32(buf[8*i:], uint32(iv.Lo))
		//nolint:gosec // G115: as above
		binary.LittleEndian.PutUint32(buf[8*i+4:], uint32(iv.Hi))
	}
	return string(buf)
}

// Name returns the display label of a named class, or "".
func (c *CharClass) Name() string {
	return c.name
}

// String returns the display label of a named class, or a bracket
// expression listing the members of c.
func (c *CharClass) String() string {
	if c.name != "" {
		return c.name
	}
	if n := specialName(c); n != "" {
		return n
	}
	if len(c.ivs) == 1 && c.ivs[0].Lo == c.ivs[0].Hi && c.ivs[0].Lo >= 0 {
		return quoteRune(c.ivs[0].Lo, false)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for _, iv := range c.ivs {
		switch {
		case iv.Lo < 0 && iv.Hi < 0:
			sb.WriteString(pseudoRangeString(iv))
		case iv.Lo < 0:
			sb.WriteString(pseudoRangeString(Interval{iv.Lo, -1}))
			sb.WriteString(rangeString(Interval{0, iv.Hi}))
		default:
			sb.WriteString(rangeString(iv))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func rangeString(iv Interval) string {
	if iv.Lo == iv.Hi {
		return quoteRune(iv.Lo, true)
	}
	return quoteRune(iv.Lo, true) + "-" + quoteRune(iv.Hi, true)
}

func pseudoRangeString(iv Interval) string {
	var parts []string
	for r := iv.Lo; ; r++ {
		parts = append(parts, pseudoName(r))
		if r == iv.Hi || len(parts) > 8 {
			break
		}
	}
	if iv.Hi-iv.Lo >= int32(len(parts)) {
		parts = append(parts, "...")
	}
	return strings.Join(parts, "")
}

func quoteRune(r rune, inClass bool) string {
	switch {
	case r == unicode.MaxRune:
		return `\x{10ffff}`
	case r < ' ' || r == 0x7f || !unicode.IsPrint(r):
		if r <= 0xff {
			return fmt.Sprintf(`\x%02x`, r)
		}
		return fmt.Sprintf(`\x{%x}`, r)
	case inClass && strings.ContainsRune(`\]-^[`, r):
		return `\` + string(r)
	case !inClass && strings.ContainsRune(`\.+*?()|[]{}^$`, r):
		return `\` + string(r)
	}
	return string(r)
}

// Builder accumulates ranges and produces a normalized CharClass.
type Builder struct {
	ivs []Interval
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddRange adds the inclusive range [lo, hi]. Empty ranges are ignored.
func (b *Builder) AddRange(lo, hi rune) *Builder {
	if lo <= hi {
		b.ivs = append(b.ivs, Interval{lo, hi})
	}
	return b
}

// AddRune adds a single code point or pseudo-character.
func (b *Builder) AddRune(r rune) *Builder {
	return b.AddRange(r, r)
}

// AddClass adds every member of c.
func (b *Builder) AddClass(c *CharClass) *Builder {
	b.ivs = append(b.ivs, c.ivs...)
	return b
}

// Build returns the normalized class. The Builder may be reused afterwards.
func (b *Builder) Build() *CharClass {
	ivs := make([]Interval, len(b.ivs))
	copy(ivs, b.ivs)
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Lo < ivs[j].Lo })
	out := ivs[:0]
	for _, iv := range ivs {
		n := len(out)
		// int64 keeps Hi+1 from overflowing at math.MaxInt32
		if n > 0 && int64(iv.Lo) <= int64(out[n-1].Hi)+1 {
			if iv.Hi > out[n-1].Hi {
				out[n-1].Hi = iv.Hi
			}
			continue
		}
		out = append(out, iv)
	}
	if len(out) == 0 {
		out = nil
	}
	return &CharClass{ivs: out}
}
