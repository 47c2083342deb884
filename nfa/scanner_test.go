package nfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndwade/xtrms/charclass"
)

func TestScannerInitStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		start    int
		matchEnd int
		loop     bool
		want     charclass.InitFlags
	}{
		{"region start", "ab cd", 0, 0, false, charclass.FlagBOF | charclass.FlagBOL | charclass.FlagMatch | charclass.FlagWordB},
		{"after word", "ab cd", 2, 0, false, charclass.FlagWordB},
		{"inside word", "ab cd", 1, 1, true, charclass.FlagMatch | charclass.FlagWordNB | charclass.FlagLoop},
		{"after newline", "a\nb", 2, 0, false, charclass.FlagBOL | charclass.FlagWordB},
		{"final newline", "a\n", 2, 0, false, charclass.FlagWordNB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(1)
			s.Reset([]byte(tt.input))
			s.SetStart(tt.start)
			s.SetMatchEnd(tt.matchEnd)
			s.Init(tt.loop)
			assert.Equal(t, charclass.InitStatus(tt.want), s.Char())
			assert.Equal(t, tt.start, s.Offset())
			assert.Equal(t, tt.loop, s.Check(CheckLoop))
		})
	}
}

func TestScannerAdvance(t *testing.T) {
	s := NewScanner(1)
	s.Reset([]byte("a\u00e9"))
	s.Init(false)

	var got []rune
	var stamps []int
	for {
		s.Advance()
		got = append(got, s.Char())
		stamps = append(stamps, s.Stamp())
		if s.AtEOF() {
			break
		}
	}
	assert.Equal(t, []rune{'a', '\u00e9', charclass.EOF}, got)
	assert.Equal(t, []int{1, 3, 3}, stamps)
}

func TestScannerChecks(t *testing.T) {
	// each case advances to offset at and evaluates the check there
	tests := []struct {
		name    string
		input   string
		unicode bool
		at      int
		dbc     DBC
		want    bool
	}{
		{"bof at start", "ab", false, 0, CheckBOF, true},
		{"bof later", "ab", false, 1, CheckBOF, false},
		{"word boundary", "a b", false, 1, CheckWordB, true},
		{"no word boundary", "ab", false, 1, CheckWordNB, true},
		{"word boundary at end", "ab", false, 2, CheckWordB, true},
		{"caret after newline", "a\nb", false, 2, CheckCaret, true},
		{"caret not before final newline", "a\nb", false, 1, CheckCaret, false},
		{"unix dollar at newline", "a\nb", false, 1, CheckDollarUnix, true},
		{"unix dollar ignores cr", "a\r\n", false, 1, CheckDollarUnix, false},
		{"unicode dollar at cr", "a\r\n", true, 1, CheckDollarUnicode, true},
		{"unicode dollar inside crlf", "a\r\n", true, 2, CheckDollarUnicode, false},
		{"eof", "a", false, 1, CheckEOF, true},
		{"not eof", "a", false, 0, CheckEOF, false},
		{"big zed before final newline", "a\n", false, 1, CheckBigZed, true},
		{"big zed before inner newline", "a\nb", false, 1, CheckBigZed, false},
		{"big zed before final crlf", "a\r\n", true, 1, CheckBigZed, true},
		{"match at start", "ab", false, 0, CheckMatch, true},
		{"match later", "ab", false, 1, CheckMatch, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(1)
			s.SetUnicodeLines(tt.unicode)
			s.Reset([]byte(tt.input))
			s.Init(false)
			s.Advance()
			for s.Offset() < tt.at {
				s.Advance()
			}
			assert.Equal(t, tt.want, s.Check(tt.dbc))
		})
	}
}

func TestScannerCheckAll(t *testing.T) {
	s := NewScanner(1)
	s.Reset([]byte("a"))
	s.Init(false)
	s.Advance()
	s.Advance()
	require.True(t, s.AtEOF())
	assert.True(t, s.CheckAll(DBCSet(0).With(CheckEOF).With(CheckWordB)))
	assert.False(t, s.CheckAll(DBCSet(0).With(CheckEOF).With(CheckWordNB)))
	assert.True(t, s.CheckAll(0))
}

func TestScannerRegion(t *testing.T) {
	s := NewScanner(1)
	s.Reset([]byte("xxabxx"))
	s.SetRegion(2, 4)
	assert.Equal(t, 2, s.Start())
	assert.Equal(t, 2, s.MatchEnd())

	s.Init(false)
	assert.True(t, s.Check(CheckBOF))
	s.Advance()
	s.Advance()
	s.Advance()
	assert.True(t, s.AtEOF(), "region end reads as end of input")
	assert.Equal(t, []byte("ab"), s.Bytes(2, 4))

	assert.Panics(t, func() { s.SetRegion(3, 7) })
	assert.Panics(t, func() { s.SetRegion(3, 2) })
}

func TestScannerAppendDiscard(t *testing.T) {
	s := NewScanner(1)
	s.Reset([]byte("hello"))
	s.Append([]byte(" world"))
	assert.Equal(t, 11, s.RegionEnd())

	s.Discard(8)
	assert.Equal(t, []byte("o world"), s.Bytes(4, 11))
	assert.Equal(t, []byte("rld"), s.Bytes(8, 11))

	assert.Panics(t, func() { s.SetRegion(0, 4) }, "discarded input")
	s.SetRegion(5, 5)
	s.Append([]byte("!"))
	assert.Equal(t, 5, s.RegionEnd(), "a region short of the text end does not grow")
}

func TestScannerMore(t *testing.T) {
	s := NewScanner(1)
	s.Reset(nil)
	calls := 0
	s.SetMore(func() bool {
		calls++
		if calls > 2 {
			return false
		}
		s.Append([]byte{0xc3})
		s.Append([]byte{0xa9})
		return true
	})
	s.Init(false)
	s.Advance()
	assert.Equal(t, '\u00e9', s.Char())
	s.Advance()
	assert.Equal(t, '\u00e9', s.Char())
	s.Advance()
	assert.True(t, s.AtEOF())
	assert.Equal(t, 3, calls)
}

func TestScannerSetGroupCount(t *testing.T) {
	s := NewScanner(1)
	s.Groups()[0], s.Groups()[1] = 2, 5
	s.SetGroupCount(3)
	assert.Equal(t, "(2,5)(?,?)(?,?)", s.Groups().String())
}

func TestScannerNextOffsetAndText(t *testing.T) {
	s := NewScanner(1)
	s.Reset([]byte("a\u00e9b"))
	assert.Equal(t, 1, s.NextOffset(0))
	assert.Equal(t, 3, s.NextOffset(1))
	assert.Equal(t, 4, s.NextOffset(3))
	assert.Equal(t, 5, s.NextOffset(4), "past the region end")
	assert.Equal(t, "\u00e9b", string(s.Text(1, 4)))

	s.SetMore(func() bool { return false })
	assert.Nil(t, s.Text(0, 4))
}
