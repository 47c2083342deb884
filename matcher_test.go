package xtrms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherScenarios(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    [][]int
	}{
		{"bounded repeat", `a{3,5}`, "aaaa", [][]int{{0, 4}}},
		{"reluctant then greedy", `(a+?b*)((?:a|b)+)`, "aaab", [][]int{{0, 4, 0, 1, 1, 4}}},
		{"star of groups", `(?:(a)|(b))*`, "ab", [][]int{{0, 2, 0, 1, 1, 2}, {2, 2, -1, -1, -1, -1}}},
		{"bof alternative", `\Afoo|bar`, "foobar", [][]int{{0, 3}, {3, 6}}},
		{"previous match end", `\Gab`, "ababxab", [][]int{{0, 2}, {2, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustCompile(tt.pattern, 0).Matcher([]byte(tt.input))
			var got [][]int
			for m.Find() {
				got = append(got, m.Result())
			}
			assert.Equal(t, tt.want, got)
			assert.False(t, m.Find(), "find after the last match")
		})
	}
}

func TestMatcherEndFlags(t *testing.T) {
	tests := []struct {
		pattern    string
		input      string
		matched    bool
		hitEnd     bool
		requireEnd bool
	}{
		{`foo($)?`, "foo", true, true, false},
		{`foo$`, "foo", true, true, true},
		{`foo`, "fo", false, true, false},
		{`foo`, "foox", true, false, false},
		{`fo+`, "foo", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			m := MustCompile(tt.pattern, 0).Matcher([]byte(tt.input))
			require.Equal(t, tt.matched, m.Find())
			assert.Equal(t, tt.hitEnd, m.HitEnd(), "hitEnd")
			assert.Equal(t, tt.requireEnd, m.RequireEnd(), "requireEnd")
		})
	}

	m := MustCompile(`foo($)?`, 0).Matcher([]byte("foo"))
	require.True(t, m.Find())
	assert.Equal(t, []int{0, 3, 3, 3}, m.Result())
}

func TestMatcherRegion(t *testing.T) {
	m := MustCompile(`^b`, 0).Matcher([]byte("abc"))
	assert.False(t, m.Find())

	m.Region(1, 3)
	assert.Equal(t, 1, m.RegionStart())
	assert.Equal(t, 3, m.RegionEnd())
	require.True(t, m.Find())
	assert.Equal(t, 1, m.Start())
	assert.Equal(t, 2, m.End())

	m = MustCompile(`b$`, 0).Matcher([]byte("abc"))
	assert.False(t, m.Find())
	require.True(t, m.Region(0, 2).Find())
	assert.Equal(t, "b", m.Group(0))

	m = MustCompile(`\Gx`, 0).Matcher([]byte("axx"))
	m.Region(1, 3)
	assert.True(t, m.Find(), "the region start is the previous match end")

	assert.Panics(t, func() { m.Region(2, 1) })
	assert.Panics(t, func() { m.Region(0, 4) })
}

func TestMatcherFindFrom(t *testing.T) {
	m := MustCompile(`\Gbar`, 0).Matcher([]byte("foobar"))
	assert.False(t, m.FindFrom(0))
	require.True(t, m.FindFrom(3))
	assert.Equal(t, "bar", m.Group(0))

	m = MustCompile(`o`, 0).Matcher([]byte("foo"))
	m.Region(0, 1)
	require.True(t, m.FindFrom(2), "FindFrom resets the region")
	assert.Equal(t, 2, m.Start())

	assert.Panics(t, func() { m.FindFrom(4) })
	assert.Panics(t, func() { m.FindFrom(-1) })
}

func TestMatcherLookingAtAndMatches(t *testing.T) {
	tests := []struct {
		pattern   string
		flags     Flags
		input     string
		lookingAt bool
		matches   bool
	}{
		{`fo+`, 0, "foox", true, false},
		{`fo+`, 0, "xfoo", false, false},
		{`fo+`, 0, "foo", true, true},
		{`a|ab`, 0, "ab", true, true},
		{`a|ab`, LeftmostLongest, "ab", true, true},
		{`(a)(b)?`, 0, "ab", true, true},
		{`b`, 0, "ab", false, false},
		{``, 0, "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re := MustCompile(tt.pattern, tt.flags)
			assert.Equal(t, tt.lookingAt, re.Matcher([]byte(tt.input)).LookingAt(), "LookingAt")
			m := re.Matcher([]byte(tt.input))
			assert.Equal(t, tt.matches, m.Matches(), "Matches")
			if tt.matches {
				assert.Equal(t, 0, m.Start())
				assert.Equal(t, len(tt.input), m.End())
			}
		})
	}

	m := MustCompile(`a|ab`, 0).Matcher([]byte("ab"))
	require.True(t, m.LookingAt())
	assert.Equal(t, "a", m.Group(0))
	require.True(t, m.Matches())
	assert.Equal(t, "ab", m.Group(0))

	m = MustCompile(`fo+`, 0).Matcher([]byte("xfoox"))
	m.Region(1, 4)
	assert.True(t, m.Matches())
	assert.Equal(t, "foo", m.Group(0))
}

func TestMatcherGroups(t *testing.T) {
	re := MustCompile(`(?P<user>\w+)@(?P<host>\w+)(\.org)?`, 0)
	m := re.Matcher([]byte("mail me@here now"))
	require.True(t, m.Find())
	assert.Equal(t, 3, m.GroupCount())
	assert.Equal(t, "me@here", m.Group(0))
	assert.Equal(t, "me", m.GroupNamed("user"))
	assert.Equal(t, "here", m.GroupNamed("host"))
	assert.Equal(t, "", m.Group(3))
	assert.Equal(t, []int{5, 12, 5, 7, 8, 12, -1, -1}, m.Result())
	assert.Same(t, re, m.Regexp())

	assert.Panics(t, func() { m.Group(4) })
	assert.Panics(t, func() { m.GroupNamed("nope") })

	assert.False(t, m.Find())
	assert.Panics(t, func() { m.Start() })
	assert.Panics(t, func() { m.End() })
	assert.Panics(t, func() { m.Group(0) })
	assert.Panics(t, func() { m.Result() })
}

func TestMatcherUsePattern(t *testing.T) {
	m := MustCompile(`(o+)`, 0).Matcher([]byte("foo bar"))
	require.True(t, m.Find())
	assert.Equal(t, "oo", m.Group(1))

	bar := MustCompile(`b(a)(r)`, 0)
	m.UsePattern(bar)
	assert.Equal(t, 2, m.GroupCount())
	assert.Equal(t, 1, m.Start(), "the current match is kept")
	assert.Equal(t, 3, m.End())
	assert.Equal(t, "", m.Group(1), "the other groups are cleared")

	require.True(t, m.Find())
	assert.Equal(t, []int{4, 7, 5, 6, 6, 7}, m.Result())

	assert.Panics(t, func() { m.UsePattern(nil) })
}

func TestMatcherReset(t *testing.T) {
	m := MustCompile(`\d+`, 0).Matcher([]byte("a1b22"))
	require.True(t, m.Find())
	require.True(t, m.Find())
	assert.Equal(t, "22", m.Group(0))
	assert.False(t, m.Find())

	m.ResetString("x333")
	require.True(t, m.Find())
	assert.Equal(t, "333", m.Group(0))
	assert.Contains(t, m.String(), "match=(1,4)")

	m.Reset(nil)
	assert.False(t, m.Find())
	assert.Contains(t, m.String(), "no match")
}
