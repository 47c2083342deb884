package xtrms

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/ndwade/xtrms/nfa"
)

// streamChunk is the number of bytes read from the source per refill.
const streamChunk = 4096

// StreamMatcher finds the matches of a Regexp in an io.Reader. Input is
// read as the engines reach the end of what has been read so far, and
// released once no match can need it.
//
// Offsets are absolute offsets in the stream. The prefilter is not used.
//
// A StreamMatcher is not safe for concurrent use.
type StreamMatcher struct {
	re  *Regexp
	s   *nfa.Scanner
	r   *bufio.Reader
	buf []byte
	err error

	matched bool
	bump    bool
}

// StreamMatcher returns a StreamMatcher of re reading from r.
func (re *Regexp) StreamMatcher(r io.Reader) *StreamMatcher {
	m := &StreamMatcher{
		re:  re,
		s:   nfa.NewScanner(re.NumSubexp() + 1),
		r:   bufio.NewReaderSize(r, streamChunk),
		buf: make([]byte, streamChunk),
	}
	m.s.SetUnicodeLines(re.flags&UnicodeLines != 0)
	m.s.Reset(nil)
	m.s.SetMore(m.more)
	return m
}

// more appends the next chunk of the source to the scanner.
func (m *StreamMatcher) more() bool {
	if m.err != nil {
		return false
	}
	for {
		n, err := m.r.Read(m.buf)
		if n > 0 {
			m.s.Append(m.buf[:n])
		}
		if err != nil {
			m.err = err
		}
		if n > 0 || err != nil {
			return n > 0
		}
	}
}

// Err returns the first error reading the source, other than io.EOF.
func (m *StreamMatcher) Err() error {
	if errors.Is(m.err, io.EOF) {
		return nil
	}
	return m.err
}

// FindNext searches for the next match. The text of the previous match is
// no longer available once it is called.
func (m *StreamMatcher) FindNext() bool {
	m.s.Discard(m.s.MatchEnd())
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
	if !m.re.prog.Find(m.s, nil) {
		m.s.SetMatchEnd(m.s.RegionEnd())
		m.matched, m.bump = false, true
		return false
	}
	g := m.s.Groups()
	m.s.SetMatchEnd(g.End(0))
	m.matched = true
	m.bump = g.Start(0) == g.End(0)
	return true
}

func (m *StreamMatcher) mustMatch() nfa.Groups {
	if !m.matched {
		panic("xtrms: no match available")
	}
	return m.s.Groups()
}

// Start returns the stream offset of the start of the current match.
func (m *StreamMatcher) Start() int { return m.mustMatch().Start(0) }

// End returns the stream offset of the end of the current match.
func (m *StreamMatcher) End() int { return m.mustMatch().End(0) }

// Group returns the text of group i of the current match, or "" when the
// group did not participate.
func (m *StreamMatcher) Group(i int) string {
	g := m.mustMatch()
	if i < 0 || i >= g.Len() {
		panic("xtrms: group index out of range")
	}
	if !g.Matched(i) {
		return ""
	}
	return string(m.s.Bytes(g.Start(i), g.End(i)))
}

// HitEnd reports whether the last search read the end of the stream.
func (m *StreamMatcher) HitEnd() bool { return m.s.HitEnd() }

// RequireEnd reports whether more input could have turned the last match
// into a non-match.
func (m *StreamMatcher) RequireEnd() bool { return m.s.RequireEnd() }

// ReplaceAll copies the rest of the stream to w with every match replaced
// by the expansion of tmpl, as in Matcher.AppendReplacement. It returns
// the number of bytes written.
func (m *StreamMatcher) ReplaceAll(w io.Writer, tmpl string) (int64, error) {
	var (
		sb      strings.Builder
		total   int64
		written = m.s.MatchEnd()
	)
	flush := func() error {
		n, err := io.WriteString(w, sb.String())
		total += int64(n)
		sb.Reset()
		return err
	}
	for m.FindNext() {
		g := m.s.Groups()
		sb.Write(m.s.Bytes(written, g.Start(0)))
		expandTemplate(&sb, tmpl, m.re, func(i int) (string, bool) {
			if i >= g.Len() || !g.Matched(i) {
				return "", false
			}
			return string(m.s.Bytes(g.Start(i), g.End(i))), true
		})
		written = g.End(0)
		if err := flush(); err != nil {
			return total, err
		}
	}
	sb.Write(m.s.Bytes(written, m.s.RegionEnd()))
	if err := flush(); err != nil {
		return total, err
	}
	return total, m.Err()
}
