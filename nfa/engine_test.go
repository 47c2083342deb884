package nfa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndwade/xtrms/syntax"
)

func compileEngine(t *testing.T, pattern string, flags syntax.Flags, longest bool) (*NFA, *Engine) {
	t.Helper()
	tree, err := syntax.Parse(pattern, flags)
	require.NoError(t, err)
	n := NewCompiler(CompilerConfig{LeftmostLongest: longest}).Compile(tree)
	return n, NewEngine(n)
}

// findAll runs the engine's own find loop over input and formats every
// match. After an empty match the next attempt starts one byte later.
func findAll(n *NFA, e *Engine, input string, unicodeLines bool) []string {
	s := NewScanner(n.CaptureCount())
	s.SetUnicodeLines(unicodeLines)
	s.Reset([]byte(input))
	var out []string
	matchEnd, bump := 0, 0
	for matchEnd+bump <= len(input) {
		s.SetStart(matchEnd + bump)
		s.SetMatchEnd(matchEnd)
		s.Init(true)
		e.Eval(s)
		g := s.Groups()
		if !g.Matched(0) {
			break
		}
		out = append(out, g.String())
		matchEnd, bump = g.End(0), 0
		if g.Start(0) == g.End(0) {
			bump = 1
		}
	}
	return out
}

func TestEngineFind(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   syntax.Flags
		longest bool
		input   string
		want    []string
	}{
		{"star of alternated groups", `((a)|(b))*`, 0, false, "ab", []string{"(0,2)(1,2)(0,1)(1,2)", "(2,2)(?,?)(?,?)(?,?)"}},
		{"reluctant then greedy", `(a+?b*)((?:a|b)+)`, 0, false, "aaab", []string{"(0,4)(0,1)(1,4)"}},
		{"bounded repeat", `a{3,5}`, 0, false, "aaaa", []string{"(0,4)"}},
		{"bounded repeat twice", `a{3,5}`, 0, false, "aaaaaaaa", []string{"(0,5)", "(5,8)"}},
		{"bof alternative", `\Afoo|bar`, 0, false, "foobar", []string{"(0,3)", "(3,6)"}},
		{"first alternative wins", `(ab|a)(bc|c)`, 0, false, "abc", []string{"(0,3)(0,2)(2,3)"}},
		{"leftmost first", `(a*)(b|abc)`, 0, false, "abc", []string{"(0,2)(0,1)(1,2)"}},
		{"leftmost longest", `(a*)(b|abc)`, 0, true, "abc", []string{"(0,3)(0,0)(0,3)"}},
		{"first class wins", `([ab])|([ac])`, 0, false, "a", []string{"(0,1)(0,1)(?,?)"}},
		{"either boundary", `foo(\b|\B)bar`, 0, false, "foobar", []string{"(0,6)(3,3)"}},
		{"optional boundary", `foo(\b)?.*`, 0, false, "foo bar", []string{"(0,7)(3,3)"}},
		{"boundary inside", `.(\b)?.`, 0, false, "a ", []string{"(0,2)(1,1)"}},
		{"boundary then end", `foo(\b)(\z)`, 0, false, "foo", []string{"(0,3)(3,3)(3,3)"}},
		{"words or lines", `\bfoo\b|^bar$`, syntax.Multiline, false, "foo foobar foo barfoo foo", []string{"(0,3)", "(11,14)", "(22,25)"}},
		{"caret once", `^`, 0, false, "\n\n", []string{"(0,0)"}},
		{"multiline caret", `(?m)^`, 0, false, "\n\n\n", []string{"(0,0)", "(1,1)", "(2,2)"}},
		{"multiline dollar", `(?m)$`, 0, false, "\n\n\n", []string{"(0,0)", "(1,1)", "(2,2)", "(3,3)"}},
		{"optional caret", `(^)?`, 0, false, "-", []string{"(0,0)(0,0)", "(1,1)(?,?)"}},
		{"previous match end", `\Afoo|\Gbar`, 0, false, "barbarfoo", []string{"(0,3)", "(3,6)"}},
		{"no match", `xyz`, 0, false, "abc", nil},
		{"utf8", `\x{e9}+`, 0, false, "caf\u00e9\u00e9!", []string{"(3,7)"}},
		{"dot excludes newline", `a.c`, 0, false, "a\nc abc", []string{"(4,7)"}},
		{"big zed before final newline", `foo\Z`, 0, false, "foo\n", []string{"(0,3)"}},
		{"big zed not before inner newline", `foo\Z`, 0, false, "foo\nx", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, e := compileEngine(t, tt.pattern, tt.flags, tt.longest)
			got := findAll(n, e, tt.input, false)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("find %q in %q mismatch (-want +got):\n%s", tt.pattern, tt.input, diff)
			}
		})
	}
}

func TestEngineUnicodeLines(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		unicode bool
		input   string
		want    []string
	}{
		{"unix dollar ignores cr", `(?m)a$`, false, "a\r\na", []string{"(3,4)"}},
		{"unicode dollar at cr", `(?m)a$`, true, "a\r\na", []string{"(0,1)", "(3,4)"}},
		{"unicode caret after crlf once", `(?m)^`, true, "\r\nx", []string{"(0,0)", "(2,2)"}},
		{"unicode caret after paragraph separator", `(?m)^x`, true, "a\u2029x", []string{"(4,5)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := syntax.Flags(0)
			if tt.unicode {
				flags |= syntax.UnicodeLines
			}
			n, e := compileEngine(t, tt.pattern, flags, false)
			got := findAll(n, e, tt.input, tt.unicode)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngineEndFlags(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		input      string
		matched    bool
		hitEnd     bool
		requireEnd bool
	}{
		{"optional end anchor", `foo($)?`, "foo", true, true, false},
		{"end anchor", `foo$`, "foo", true, true, true},
		{"partial literal", `foo`, "fo", false, true, false},
		{"complete literal", `foo`, "foox", true, false, false},
		{"greedy tail", `fo+`, "foo", true, true, false},
		{"early mismatch", `foo`, "bar", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, e := compileEngine(t, tt.pattern, 0, false)
			s := NewScanner(n.CaptureCount())
			s.Reset([]byte(tt.input))
			s.Init(true)
			e.Eval(s)
			assert.Equal(t, tt.matched, s.Groups().Matched(0), "matched")
			assert.Equal(t, tt.hitEnd, s.HitEnd(), "hitEnd")
			assert.Equal(t, tt.requireEnd, s.RequireEnd(), "requireEnd")
			if s.RequireEnd() {
				assert.True(t, s.HitEnd(), "requireEnd implies hitEnd")
			}
		})
	}
}

func TestEngineHitEndMutation(t *testing.T) {
	// When hitEnd is false, appending input must not change the match.
	patterns := []string{`foo`, `a+b`, `\bcat\b`, `(x|xy)z?`, `[0-9]+`}
	inputs := []string{"foo bar", "aab", "a cat!", "xyzw", "12a"}
	for _, p := range patterns {
		n, e := compileEngine(t, p, 0, false)
		for _, in := range inputs {
			s := NewScanner(n.CaptureCount())
			s.Reset([]byte(in))
			s.Init(true)
			e.Eval(s)
			if s.HitEnd() {
				continue
			}
			before := s.Groups().String()

			s.Reset([]byte(in + "zzz1 b"))
			s.Init(true)
			e.Eval(s)
			assert.Equal(t, before, s.Groups().String(), "%q on %q", p, in)
		}
	}
}

func TestEngineWithoutLoop(t *testing.T) {
	n, e := compileEngine(t, `b+`, 0, false)
	s := NewScanner(n.CaptureCount())
	s.Reset([]byte("abb"))

	s.Init(false)
	e.Eval(s)
	assert.False(t, s.Groups().Matched(0), "anchored attempt at 0")

	s.SetStart(1)
	s.Init(false)
	e.Eval(s)
	assert.Equal(t, "(1,3)", s.Groups().String())
}

func TestEngineMoreInput(t *testing.T) {
	n, e := compileEngine(t, `ab+c`, 0, false)
	chunks := []string{"xa", "bb", "bc", "d"}
	s := NewScanner(n.CaptureCount())
	s.Reset([]byte{})
	s.SetMore(func() bool {
		if len(chunks) == 0 {
			return false
		}
		s.Append([]byte(chunks[0]))
		chunks = chunks[1:]
		return true
	})
	s.Init(true)
	e.Eval(s)
	assert.Equal(t, "(1,6)", s.Groups().String())
	assert.False(t, s.HitEnd())
}

func TestEngineCacheReuse(t *testing.T) {
	small, se := compileEngine(t, `a`, 0, false)
	big, be := compileEngine(t, `(a)(b)(c)(d)|x{20}`, 0, false)
	s := NewScanner(small.CaptureCount())
	s.Reset([]byte("abcd"))
	s.Init(true)
	se.Eval(s)
	require.Equal(t, "(0,1)", s.Groups().String())

	s.SetGroupCount(big.CaptureCount())
	s.Init(true)
	be.Eval(s)
	assert.Equal(t, "(0,4)(0,1)(1,2)(2,3)(3,4)", s.Groups().String())
}
