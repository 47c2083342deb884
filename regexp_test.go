package xtrms

import (
	"errors"
	"regexp"
	"regexp/syntax"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndwade/xtrms/meta"
	"github.com/ndwade/xtrms/nfa"
)

func TestCompileErrors(t *testing.T) {
	_, err := Compile(`a(`, 0)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, `a(`, e.Pattern)
	var se *syntax.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, syntax.ErrMissingParen, se.Code)
	assert.Contains(t, err.Error(), `xtrms: Compile("a(")`)

	_, err = Compile(`a++`, 0)
	var ce *meta.CapabilityError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Missing.Has(nfa.PossessiveQuantifiers))

	config := meta.DefaultConfig()
	config.MaxDFAStates = 0
	_, err = CompileWithConfig(`a`, 0, config)
	var cfg *meta.ConfigError
	assert.ErrorAs(t, err, &cfg)

	assert.Panics(t, func() { MustCompile(`[`, 0) })
}

func TestFlags(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		input   string
		want    string
	}{
		{`hello`, CaseInsensitive, "say HeLLo", "HeLLo"},
		{`^b$`, Multiline, "a\nb\nc", "b"},
		{`^b$`, 0, "a\nb\nc", ""},
		{`a.b`, DotAll, "a\nb", "a\nb"},
		{`a.b`, 0, "a\nb", ""},
		{`a.b`, Literal, "axb a.b", "a.b"},
		{`a$`, Multiline, "a\r\n", ""},
		{`a$`, Multiline | UnicodeLines, "a\r\n", "a"},
		{`a|ab`, 0, "ab", "a"},
		{`a|ab`, LeftmostLongest, "ab", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+strconv.Itoa(int(tt.flags)), func(t *testing.T) {
			re := MustCompile(tt.pattern, tt.flags)
			assert.Equal(t, tt.want, re.FindString(tt.input))
			assert.Equal(t, tt.flags, re.Flags())
		})
	}
}

func TestAgreesWithRegexp(t *testing.T) {
	const input = "Go gopher: go1.22, see https://go.dev and mail gopher@go.dev; 42 x 7\n"
	patterns := []string{
		`\d+`,
		`go+`,
		`(?i)go`,
		`\bgo\b`,
		`[a-z]+@[a-z]+\.[a-z]+`,
		`https?://[^\s]+`,
		`(\w+)\.(\w+)`,
		`x|y|z`,
		`\d+\n`,
		`[^a-z ]+`,
		`abb|b`,
		`b|abb`,
		`x*abc|bc`,
		`go:|:|o`,
		`(?:\b|^|$)*go`,
		`(?:\B|\b)+\d+`,
	}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			want := regexp.MustCompile(pattern)
			re := MustCompile(pattern, 0)

			assert.Equal(t, want.MatchString(input), re.MatchString(input))
			assert.Equal(t, want.FindString(input), re.FindString(input))
			assert.Equal(t, want.FindStringIndex(input), re.FindStringIndex(input))
			assert.Equal(t, want.FindStringSubmatchIndex(input), re.FindStringSubmatchIndex(input))
			if diff := cmp.Diff(want.FindAllString(input, -1), re.FindAllString(input, -1)); diff != "" {
				t.Errorf("FindAllString mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want.FindAllStringSubmatchIndex(input, 2), re.FindAllStringSubmatchIndex(input, 2)); diff != "" {
				t.Errorf("FindAllStringSubmatchIndex mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindAllEmptyMatches(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    [][]int
	}{
		// an empty match right after a match is reported
		{`a*`, "baaac", [][]int{{0, 0}, {1, 4}, {4, 4}, {5, 5}}},
		{`x*`, "", [][]int{{0, 0}}},
		// the bump after an empty match is one character
		{`x*`, "\u00e9", [][]int{{0, 0}, {2, 2}}},
		{`\b`, "ab cd", [][]int{{0, 0}, {2, 2}, {3, 3}, {5, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := MustCompile(tt.pattern, 0)
			assert.Equal(t, tt.want, re.FindAllStringSubmatchIndex(tt.input, -1))
		})
	}
}

func TestFindAllLimit(t *testing.T) {
	re := MustCompile(`\d`, 0)
	assert.Equal(t, []string{"1", "2"}, re.FindAllString("1 2 3", 2))
	assert.Nil(t, re.FindAllString("1 2 3", 0))
	assert.Nil(t, re.FindAllString("abc", -1))
	assert.Nil(t, re.FindStringIndex("abc"))
	assert.Nil(t, re.FindStringSubmatchIndex("abc"))
	assert.Equal(t, "", re.FindString("abc"))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		limit   int
		want    []string
	}{
		{`,`, "a,b,,", -1, []string{"a", "b", "", ""}},
		{`,`, "a,b,,", 0, []string{"a", "b"}},
		{`,`, "a,b,,", 2, []string{"a", "b,,"}},
		{`,`, "a,b,,", 1, []string{"a,b,,"}},
		{`,`, ",a", 0, []string{"", "a"}},
		{`,`, "abc", -1, []string{"abc"}},
		{`\s+`, "one  two\tthree", 0, []string{"one", "two", "three"}},
		{`x*`, "abc", -1, []string{"", "a", "b", "c", ""}},
		{`x*`, "abc", 0, []string{"", "a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re := MustCompile(tt.pattern, 0)
			assert.Equal(t, tt.want, re.Split(tt.input, tt.limit))
		})
	}

	assert.Empty(t, MustCompile(`,`, 0).Split("", 0))
	assert.Equal(t, []string{""}, MustCompile(`,`, 0).Split("", -1))
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"1.5", `1\.5`},
		{`a+b*c?`, `a\+b\*c\?`},
		{"[x]{2}", `\[x\]\{2\}`},
		{`\$^|()`, `\\\$\^\|\(\)`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := QuoteMeta(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, MustCompile(got, 0).FindString("<"+tt.in+">"))
		})
	}
}

func TestMatchString(t *testing.T) {
	ok, err := MatchString(`\d{3}`, "abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MatchString(`\d{4}`, "abc123")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = MatchString(`(`, "")
	assert.Error(t, err)
}

func TestSubexp(t *testing.T) {
	re := MustCompile(`(?P<user>\w+)@(\w+)\.(?P<tld>com|org)`, 0)
	assert.Equal(t, 3, re.NumSubexp())
	assert.Equal(t, []string{"", "user", "", "tld"}, re.SubexpNames())
	assert.Equal(t, 1, re.SubexpIndex("user"))
	assert.Equal(t, 3, re.SubexpIndex("tld"))
	assert.Equal(t, -1, re.SubexpIndex("host"))
	assert.Equal(t, -1, re.SubexpIndex(""))

	names := re.SubexpNames()
	names[1] = "changed"
	assert.Equal(t, "user", re.SubexpNames()[1])
}

func TestStyleAndRequirements(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		style   meta.Style
		has     nfa.Features
	}{
		{`abc`, LeftmostLongest, meta.StyleDFA, 0},
		{`a(b)c`, LeftmostLongest, meta.StyleNFA, nfa.CapturingGroups},
		{`abc`, 0, meta.StyleNFA, nfa.LeftmostFirst},
		{`a\bb`, LeftmostLongest, meta.StyleNFA, nfa.DynamicBoundaries},
		{`a+?`, LeftmostLongest, meta.StyleNFA, nfa.ReluctantQuantifiers},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := MustCompile(tt.pattern, tt.flags)
			assert.Equal(t, tt.style, re.Style())
			assert.True(t, re.Requirements().Has(tt.has), "requirements %s", re.Requirements())
			assert.Equal(t, tt.pattern, re.String())
			assert.NotNil(t, re.Program())
		})
	}
}

func TestDFAAndNFAAgree(t *testing.T) {
	patterns := []string{`ab+`, `[a-c]+d?`, `x|yz|y`, `(?:ab)*c`, `^a+`, `b+$`, `abb|b`, `b|abb`, `x*abc|bc`}
	inputs := []string{"", "abbbcd", "xyzyy", "ababc abc c", "aab", "ccbb", "abbac", "xxabc bc"}
	for _, pattern := range patterns {
		d := MustCompile(pattern, LeftmostLongest)
		require.Equal(t, meta.StyleDFA, d.Style(), pattern)

		config := meta.DefaultConfig()
		config.Style = meta.StyleNFA
		n, err := CompileWithConfig(pattern, LeftmostLongest, config)
		require.NoError(t, err)

		for _, in := range inputs {
			assert.Equal(t, n.FindAllStringSubmatchIndex(in, -1), d.FindAllStringSubmatchIndex(in, -1),
				"%q on %q", pattern, in)
		}
	}
}

func TestPrefilterDoesNotChangeResults(t *testing.T) {
	patterns := []string{
		`abb|b`,
		`b|abb`,
		`x*abc|bc`,
		`(((?:b)+)?aba)`,
		`foo|oo|o`,
		`she|he|hers|his`,
		`(a|ab)(c|bcd)`,
		`hello|world`,
	}
	inputs := []string{"", "abbac", "xxabc bc abc", "abaacc bbaba", "ushers his foo", "abcd ac", "hello world"}
	for _, flags := range []Flags{0, LeftmostLongest} {
		for _, pattern := range patterns {
			t.Run(pattern+"/"+flags.String(), func(t *testing.T) {
				with := MustCompile(pattern, flags)
				config := meta.DefaultConfig()
				config.EnablePrefilter = false
				without, err := CompileWithConfig(pattern, flags, config)
				require.NoError(t, err)
				require.Nil(t, without.Program().Prefilter())

				for _, in := range inputs {
					if diff := cmp.Diff(without.FindAllStringSubmatchIndex(in, -1), with.FindAllStringSubmatchIndex(in, -1)); diff != "" {
						t.Errorf("%q on %q (-without +with):\n%s", pattern, in, diff)
					}
				}
			})
		}
	}
}

func TestManyAnchorsInLoop(t *testing.T) {
	re := MustCompile(`(?:(\b)|(\B)|(^)|($)|(\A)|(\z)|(\G)|(\Z)|(\b))*x`, 0)
	assert.Equal(t, []int{2, 3}, re.FindStringIndex("a x"))
	assert.Equal(t, []int{0, 1}, re.FindStringIndex("x"))
	assert.Nil(t, re.FindStringIndex("abc"))
}

func TestConcurrentUse(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.com`, 0)
	const input = "x a@b.com y c@d.com"
	want := [][]int{{2, 9, 2, 3, 4, 5}, {12, 19, 12, 13, 14, 15}}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := re.FindAllStringSubmatchIndex(input, -1); !cmp.Equal(want, got) {
					errs <- errors.New(cmp.Diff(want, got))
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags("i", "longest")
	require.NoError(t, err)
	assert.Equal(t, CaseInsensitive|LeftmostLongest, f)
	assert.Equal(t, "i|longest", f.String())

	f, err = ParseFlags()
	require.NoError(t, err)
	assert.Equal(t, Flags(0), f)
	assert.Equal(t, "0", f.String())

	_, err = ParseFlags("m", "x")
	assert.EqualError(t, err, `xtrms: unknown flag "x"`)
}
