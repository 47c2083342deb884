package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	const src = `
# bounded repeats
find ` + "`a{3,5}`" + ` in "aaaa" expect (0,4)
find "(a)|(b)" [i longest] in "B" expect (0,1)(?,?)(0,1), (1,1)(?,?)(?,?)
find "foo$" in "foo" expect (0,3) hitend requireend
find "z" in "abc" expect none noend
`
	s, err := ParseString("test.xt", src)
	require.NoError(t, err)
	require.Len(t, s.Cases, 4)

	c := s.Cases[0]
	assert.Equal(t, `a{3,5}`, c.Pattern)
	assert.Equal(t, "aaaa", c.Text)
	assert.Equal(t, []string{"(0,4)"}, c.Want())
	assert.Equal(t, 3, c.Pos.Line)

	c = s.Cases[1]
	assert.Equal(t, []string{"i", "longest"}, c.Flags)
	assert.True(t, c.HasFlag("longest"))
	assert.False(t, c.HasFlag("m"))
	assert.Equal(t, "B", c.Text)
	assert.Equal(t, []string{"(0,1)(?,?)(0,1)", "(1,1)(?,?)(?,?)"}, c.Want())

	assert.Equal(t, []string{"hitend", "requireend"}, s.Cases[2].End)

	c = s.Cases[3]
	assert.True(t, c.Expect.None)
	assert.Nil(t, c.Want())
	assert.Equal(t, []string{"noend"}, c.End)
}

func TestParseEscapes(t *testing.T) {
	s, err := ParseString("test.xt", `find "\\d+\t" in "a1\t" expect (1,3) find `+"`\\d+`"+` in "1" expect (0,1)`)
	require.NoError(t, err)
	require.Len(t, s.Cases, 2)
	assert.Equal(t, "\\d+\t", s.Cases[0].Pattern)
	assert.Equal(t, "a1\t", s.Cases[0].Text)
	assert.Equal(t, `\d+`, s.Cases[1].Pattern)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unknown flag", `find "a" [x] in "a" expect none`, `unknown flag "x"`},
		{"span count", `find "(a)" in "aa" expect (0,1)(0,1), (1,2)`, "result 2 has 1 spans, want 2"},
		{"missing expect", `find "a" in "a"`, ""},
		{"bad span", `find "a" in "a" expect (0)`, ""},
		{"bare word", `match "a"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseString("test.xt", tt.src)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseReader(t *testing.T) {
	s, err := Parse("r.xt", strings.NewReader(`find "a" in "a" expect (0,1)`))
	require.NoError(t, err)
	assert.Len(t, s.Cases, 1)
	assert.Equal(t, "r.xt", s.Cases[0].Pos.Filename)
}

func TestOutcomeGot(t *testing.T) {
	o := Outcome{Matches: [][]int{{0, 2, -1, -1}, {3, 4, 3, 4}}}
	assert.Equal(t, []string{"(0,2)(?,?)", "(3,4)(3,4)"}, o.Got())
	assert.Nil(t, Outcome{}.Got())
}

func TestRun(t *testing.T) {
	s, err := ParseString("run.xt", `
find "a" in "aa" expect (0,1), (1,2)
find "b" in "aa" expect none
find "c" in "c" expect (0,1) hitend
find "d" in "d" expect (0,1) noend
find "e" in "e" expect (0,1)
`)
	require.NoError(t, err)

	outcomes := map[string]Outcome{
		"a": {Matches: [][]int{{0, 1}, {1, 2}}},
		"b": {Matches: [][]int{{0, 1}}},
		"c": {Matches: [][]int{{0, 1}}, HitEnd: true},
		"d": {Matches: [][]int{{0, 1}}, HitEnd: true},
	}
	failures := s.Run(func(c *Case) (Outcome, error) {
		o, ok := outcomes[c.Pattern]
		if !ok {
			return Outcome{}, errors.New("no such pattern")
		}
		return o, nil
	})

	var got []string
	for _, f := range failures {
		got = append(got, f.Error())
	}
	want := []string{
		`run.xt:3:1: find "b" in "aa": got (0,1), want none`,
		`run.xt:5:1: find "d" in "d": got hitend=true requireend=false, want hitend=false requireend=false`,
		`run.xt:6:1: find "e" in "e": no such pattern`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
}
