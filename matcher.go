package xtrms

import (
	"fmt"

	"github.com/ndwade/xtrms/meta"
	"github.com/ndwade/xtrms/nfa"
	"github.com/ndwade/xtrms/prefilter"
)

// Matcher steps through the matches of a Regexp in one input.
//
// Offsets are byte offsets into the input. The region limits matching to a
// part of the input; anchors treat the region bounds as the input bounds.
//
// A Matcher is not safe for concurrent use.
type Matcher struct {
	re      *Regexp
	prog    *meta.Program
	s       *nfa.Scanner
	tracker *prefilter.Tracker
	text    []byte

	matched bool
	// bump moves the next attempt one character past an empty match
	bump      bool
	appendPos int
}

// Matcher returns a new Matcher of re over b.
func (re *Regexp) Matcher(b []byte) *Matcher {
	m := re.newMatcher()
	m.Reset(b)
	return m
}

func (re *Regexp) newMatcher() *Matcher {
	m := &Matcher{s: nfa.NewScanner(re.NumSubexp() + 1)}
	m.use(re)
	return m
}

func (m *Matcher) use(re *Regexp) {
	m.re, m.prog = re, re.prog
	m.tracker = re.prog.NewTracker()
	m.s.SetUnicodeLines(re.flags&UnicodeLines != 0)
}

// Regexp returns the pattern m matches.
func (m *Matcher) Regexp() *Regexp {
	return m.re
}

// Reset installs b as the input. The region becomes the whole input and
// the match state is cleared.
func (m *Matcher) Reset(b []byte) *Matcher {
	m.text = b
	m.reset()
	return m
}

// ResetString installs s as the input.
func (m *Matcher) ResetString(s string) *Matcher {
	return m.Reset([]byte(s))
}

func (m *Matcher) reset() {
	m.s.Reset(m.text)
	m.tracker.Reset()
	m.matched, m.bump = false, false
	m.appendPos = 0
}

// Find searches for the next match, starting at the end of the previous
// one. After an empty match the search starts one character further.
func (m *Matcher) Find() bool {
	start := m.s.MatchEnd()
	if m.bump {
		start = m.s.NextOffset(start)
	}
	if start > m.s.RegionEnd() {
		m.s.Groups().ClearGroup(0)
		m.matched = false
		return false
	}
	m.s.SetStart(start)
	if !m.prog.Find(m.s, m.tracker) {
		m.s.SetMatchEnd(m.s.RegionEnd())
		m.matched, m.bump = false, true
		return false
	}
	m.found()
	return true
}

// FindFrom resets m and searches for a match starting at offset i, which
// also counts as the end of the previous match for \G. It panics if i is
// outside the input.
func (m *Matcher) FindFrom(i int) bool {
	if i < 0 || i > len(m.text) {
		panic(fmt.Sprintf("xtrms: offset %d out of range [0,%d]", i, len(m.text)))
	}
	m.reset()
	m.s.SetMatchEnd(i)
	return m.Find()
}

// LookingAt reports whether a match starts at the region start. The match
// need not extend to the region end.
func (m *Matcher) LookingAt() bool {
	if !m.prog.LookingAt(m.s) {
		m.matched = false
		return false
	}
	m.found()
	return true
}

// Matches reports whether the whole region matches.
//
// Under leftmost-first semantics the match chosen by LookingAt need not be
// the one spanning the region: `a|ab` matches "ab" although LookingAt
// stops at "a".
func (m *Matcher) Matches() bool {
	prog := m.re.anchoredProgram()
	if prog == nil {
		return m.LookingAt() && m.End() == m.s.RegionEnd()
	}
	if !prog.LookingAt(m.s) {
		m.matched = false
		return false
	}
	m.found()
	return true
}

func (m *Matcher) found() {
	g := m.s.Groups()
	m.s.SetMatchEnd(g.End(0))
	m.matched = true
	m.bump = g.Start(0) == g.End(0)
}

// Region limits matching to [start, end) and resets m. The region start
// counts as the end of the previous match. It panics if the bounds are
// outside the input.
func (m *Matcher) Region(start, end int) *Matcher {
	if start < 0 || start > end || end > len(m.text) {
		panic(fmt.Sprintf("xtrms: region [%d,%d) out of range [0,%d]", start, end, len(m.text)))
	}
	m.reset()
	m.s.SetRegion(start, end)
	return m
}

// RegionStart returns the start of the region.
func (m *Matcher) RegionStart() int { return m.s.RegionStart() }

// RegionEnd returns the end of the region.
func (m *Matcher) RegionEnd() int { return m.s.RegionEnd() }

// UsePattern switches m to re, keeping the input, the region and the
// position. The offsets of the current match are kept; the other groups
// are cleared.
func (m *Matcher) UsePattern(re *Regexp) *Matcher {
	if re == nil {
		panic("xtrms: UsePattern(nil)")
	}
	m.use(re)
	m.s.SetGroupCount(re.NumSubexp() + 1)
	return m
}

func (m *Matcher) mustMatch() nfa.Groups {
	if !m.matched {
		panic("xtrms: no match available")
	}
	return m.s.Groups()
}

// Start returns the start offset of the current match. It panics if there
// is none.
func (m *Matcher) Start() int { return m.mustMatch().Start(0) }

// End returns the end offset of the current match. It panics if there is
// none.
func (m *Matcher) End() int { return m.mustMatch().End(0) }

// GroupCount returns the number of capture groups, not counting group 0.
func (m *Matcher) GroupCount() int { return m.re.NumSubexp() }

// Group returns the text of group i of the current match, or "" when the
// group did not participate. Group 0 is the whole match. It panics if there
// is no match or i is out of range.
func (m *Matcher) Group(i int) string {
	g := m.mustMatch()
	if i < 0 || i >= g.Len() {
		panic(fmt.Sprintf("xtrms: no group %d", i))
	}
	if !g.Matched(i) {
		return ""
	}
	return string(m.text[g.Start(i):g.End(i)])
}

// GroupNamed returns the text of the group called name. It panics if there
// is no such group.
func (m *Matcher) GroupNamed(name string) string {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		panic(fmt.Sprintf("xtrms: no group named %q", name))
	}
	return m.Group(i)
}

// Result returns the offsets of the current match and its groups: group i
// spans [r[2*i], r[2*i+1]), or -1 for a group that did not participate.
func (m *Matcher) Result() []int {
	g := m.mustMatch()
	out := make([]int, len(g))
	copy(out, g)
	return out
}

// HitEnd reports whether the last search read the end of input. When it
// did, more input could have changed the result.
func (m *Matcher) HitEnd() bool { return m.s.HitEnd() }

// RequireEnd reports whether more input could have turned the last match
// into a non-match. It implies HitEnd.
func (m *Matcher) RequireEnd() bool { return m.s.RequireEnd() }

func (m *Matcher) String() string {
	if !m.matched {
		return fmt.Sprintf("xtrms.Matcher[pattern=%s region=%d,%d no match]", m.re, m.RegionStart(), m.RegionEnd())
	}
	return fmt.Sprintf("xtrms.Matcher[pattern=%s region=%d,%d match=%s]", m.re, m.RegionStart(), m.RegionEnd(), m.s.Groups())
}
