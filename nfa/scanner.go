package nfa

import (
	"fmt"
	"unicode/utf8"

	"github.com/ndwade/xtrms/charclass"
)

// Scanner is the evaluation context of a match attempt: the input text,
// the region, the offset the attempt starts at, the end of the previous
// match and the capture group array the engines write their result to.
//
// Input is UTF-8 and offsets are absolute byte offsets. The character
// before offset 0 reads as '\n'; characters at or after the region end read
// as charclass.EOF. When the engine reaches the region end the More hook,
// if set, is asked for more input.
//
// An engine evaluates one attempt as follows:
//
//	s.Init(loop)             // the current symbol is the init status
//	for ... {
//	    c := s.Char()        // consume c
//	    s.Advance()
//	}
//	s.SetEnd(hitEnd, requireEnd)
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	text []byte
	base int // offset of text[0]

	regionStart, regionEnd int
	more                   func() bool
	unicodeLines           bool

	start, matchEnd int
	loop            bool

	at, width int
	cur, prev rune

	groups             Groups
	hitEnd, requireEnd bool

	cache *Cache
}

// NewScanner returns a scanner with room for ngroups capture groups,
// including group 0, and no input.
func NewScanner(ngroups int) *Scanner {
	return &Scanner{groups: NewGroups(ngroups)}
}

// Reset installs text as the input. The region becomes the whole text, and
// both the start and the previous match end become 0.
func (s *Scanner) Reset(text []byte) {
	s.text, s.base = text, 0
	s.regionStart, s.regionEnd = 0, len(text)
	s.start, s.matchEnd = 0, 0
	s.hitEnd, s.requireEnd = false, false
	s.groups.Clear()
}

// SetRegion limits matching to [start, end). The region start becomes both
// the start and the previous match end. It panics if the bounds are not
// within the text.
func (s *Scanner) SetRegion(start, end int) {
	if start < s.base || end < start || end > s.base+len(s.text) {
		panic(fmt.Sprintf("nfa: region [%d,%d) out of range [%d,%d)", start, end, s.base, s.base+len(s.text)))
	}
	s.regionStart, s.regionEnd = start, end
	s.start, s.matchEnd = start, start
	s.groups.Clear()
}

// RegionStart returns the start of the region.
func (s *Scanner) RegionStart() int { return s.regionStart }

// RegionEnd returns the end of the region.
func (s *Scanner) RegionEnd() int { return s.regionEnd }

// SetMore installs the hook asked for more input at the region end. It
// returns whether it appended any.
func (s *Scanner) SetMore(more func() bool) { s.more = more }

// Append adds p to the input. A region ending at the end of the text grows
// with it.
func (s *Scanner) Append(p []byte) {
	end := s.base + len(s.text)
	s.text = append(s.text, p...)
	if s.regionEnd == end {
		s.regionEnd = s.base + len(s.text)
	}
}

// Discard releases the input before off, keeping enough of it to decode the
// character before off.
func (s *Scanner) Discard(off int) {
	off -= utf8.UTFMax
	if off <= s.base {
		return
	}
	n := copy(s.text, s.text[off-s.base:])
	s.text = s.text[:n]
	s.base = off
}

// Bytes returns the input in [from, to). The result aliases the input.
func (s *Scanner) Bytes(from, to int) []byte {
	return s.text[from-s.base : to-s.base]
}

// Text returns the input in [from, to) when it is complete, that is when
// no More hook is installed. It returns nil otherwise.
func (s *Scanner) Text(from, to int) []byte {
	if s.more != nil {
		return nil
	}
	return s.Bytes(from, to)
}

// NextOffset returns the offset of the character after the one at off. At
// or past the region end it returns off+1.
func (s *Scanner) NextOffset(off int) int {
	if _, w := s.decode(off); w > 0 {
		return off + w
	}
	return off + 1
}

// SetUnicodeLines selects every Unicode line terminator, instead of '\n'
// alone, as a line end for ^, $ and \Z. A \r\n pair counts as one.
func (s *Scanner) SetUnicodeLines(on bool) { s.unicodeLines = on }

// SetStart sets the offset the next attempt starts at.
func (s *Scanner) SetStart(off int) { s.start = off }

// Start returns the offset of the current attempt.
func (s *Scanner) Start() int { return s.start }

// SetMatchEnd sets the end of the previous match, the offset \G matches.
func (s *Scanner) SetMatchEnd(off int) { s.matchEnd = off }

// MatchEnd returns the end of the previous match.
func (s *Scanner) MatchEnd() int { return s.matchEnd }

// Groups returns the capture group array of the last attempt.
func (s *Scanner) Groups() Groups { return s.groups }

// SetGroupCount resizes the group array for n groups, including group 0.
// Group 0 is kept and every other group is cleared.
func (s *Scanner) SetGroupCount(n int) {
	g := NewGroups(n)
	if len(s.groups) >= 2 {
		g.CopyGroup(s.groups, 0)
	}
	s.groups = g
}

// HitEnd reports whether the last attempt read the end of input while it
// could still have changed its result.
func (s *Scanner) HitEnd() bool { return s.hitEnd }

// RequireEnd reports whether more input could have turned the match of the
// last attempt into a non-match.
func (s *Scanner) RequireEnd() bool { return s.requireEnd }

// SetEnd records the end of input flags of the attempt.
func (s *Scanner) SetEnd(hitEnd, requireEnd bool) {
	s.hitEnd, s.requireEnd = hitEnd, requireEnd
}

// Init prepares an attempt at the start offset. The current symbol becomes
// the init status describing the boundaries at the start; group 0 and the
// end of input flags are cleared. loop asks the engine to run the find
// loop itself.
func (s *Scanner) Init(loop bool) {
	s.loop = loop

	var f charclass.InitFlags
	if s.start == s.regionStart {
		f |= charclass.FlagBOF
	}
	if s.matchEnd == s.start {
		f |= charclass.FlagMatch
	}
	prev := s.charBefore(s.start)
	cur, _ := s.decode(s.start)
	if s.start == s.regionStart || s.afterLineStart(prev, cur) {
		f |= charclass.FlagBOL
	}
	if isWord(prev) != isWord(cur) {
		f |= charclass.FlagWordB
	} else {
		f |= charclass.FlagWordNB
	}
	if loop {
		f |= charclass.FlagLoop
	}

	s.at, s.width = s.start, 0
	s.cur, s.prev = charclass.InitStatus(f), prev
	s.groups.ClearGroup(0)
	s.hitEnd, s.requireEnd = false, false
}

// Char returns the current symbol: the init status right after Init, then
// the characters of the input and finally charclass.EOF.
func (s *Scanner) Char() rune { return s.cur }

// Offset returns the offset of the current character.
func (s *Scanner) Offset() int { return s.at }

// Stamp returns the offset after the current character, the offset a tag
// set while consuming it records.
func (s *Scanner) Stamp() int { return s.at + s.width }

// AtEOF reports whether the current symbol is the end of input.
func (s *Scanner) AtEOF() bool { return s.cur == charclass.EOF }

// Advance moves to the next character.
func (s *Scanner) Advance() {
	if !charclass.IsInitStatus(s.cur) {
		s.prev = s.cur
	}
	s.at += s.width
	s.cur, s.width = s.decode(s.at)
}

// Check evaluates d at the boundary before the current character.
func (s *Scanner) Check(d DBC) bool {
	switch d {
	case CheckBOF:
		return s.atBOF()
	case CheckMatch:
		return s.matchEnd == s.start && s.at == s.start
	case CheckCaret:
		return s.atBOF() || s.afterLineStart(s.prev, s.cur)
	case CheckWordB:
		return isWord(s.prev) != isWord(s.cur)
	case CheckWordNB:
		return isWord(s.prev) == isWord(s.cur)
	case CheckDollarUnicode, CheckDollarUnix:
		return s.atDollar()
	case CheckBigZed:
		return s.atBigZed()
	case CheckEOF:
		return s.cur == charclass.EOF
	case CheckLoop:
		return s.loop
	default:
		return false
	}
}

// CheckAll reports whether every check in set holds.
func (s *Scanner) CheckAll(set DBCSet) bool {
	for d := DBC(0); set != 0; d++ {
		if set.Has(d) {
			if !s.Check(d) {
				return false
			}
			set = set.Without(d)
		}
	}
	return true
}

func (s *Scanner) atBOF() bool {
	return s.start == s.regionStart && s.at == s.start
}

// afterLineStart reports whether the boundary between prev and cur starts
// a line. A final line terminator does not start one.
func (s *Scanner) afterLineStart(prev, cur rune) bool {
	if cur == charclass.EOF {
		return false
	}
	if !s.unicodeLines {
		return prev == '\n'
	}
	switch prev {
	case '\n', '\u0085', '\u2028', '\u2029':
		return true
	case '\r':
		return cur != '\n'
	}
	return false
}

func (s *Scanner) dollarClass() *charclass.CharClass {
	if s.unicodeLines {
		return charclass.DollarUnicode
	}
	return charclass.DollarUnix
}

// atDollar reports whether the current character ends a line. The middle
// of a \r\n pair is not a line end.
func (s *Scanner) atDollar() bool {
	if !s.dollarClass().Contains(s.cur) {
		return false
	}
	return !s.unicodeLines || s.prev != '\r' || s.cur != '\n'
}

// atBigZed reports whether only a final line terminator, if any, remains.
func (s *Scanner) atBigZed() bool {
	if !s.atDollar() {
		return false
	}
	if s.cur == charclass.EOF {
		return true
	}
	next, w := s.decode(s.at + s.width)
	if next == charclass.EOF {
		return true
	}
	if s.cur == '\r' && next == '\n' {
		next2, _ := s.decode(s.at + s.width + w)
		return next2 == charclass.EOF
	}
	return false
}

// decode returns the character at off and its width, asking for more input
// at the region end or in the middle of a character.
func (s *Scanner) decode(off int) (rune, int) {
	for {
		if off >= s.regionEnd {
			if s.grow() {
				continue
			}
			return charclass.EOF, 0
		}
		b := s.text[off-s.base : s.regionEnd-s.base]
		if b[0] < utf8.RuneSelf {
			return rune(b[0]), 1
		}
		if !utf8.FullRune(b) && s.grow() {
			continue
		}
		return utf8.DecodeRune(b)
	}
}

func (s *Scanner) grow() bool {
	if s.more == nil {
		return false
	}
	end := s.regionEnd
	return s.more() && s.regionEnd > end
}

// charBefore returns the character ending at off, looking behind the
// region start if needed.
func (s *Scanner) charBefore(off int) rune {
	if off <= s.base {
		return '\n'
	}
	r, _ := utf8.DecodeLastRune(s.text[:off-s.base])
	return r
}

func isWord(r rune) bool {
	return r < utf8.RuneSelf && r >= 0 && wordTable[r]
}

var wordTable = func() (t [utf8.RuneSelf]bool) {
	for r := rune(0); r < utf8.RuneSelf; r++ {
		t[r] = charclass.Word.Contains(r)
	}
	return t
}()
