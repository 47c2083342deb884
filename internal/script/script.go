// Package script parses and runs match scenario files.
//
// A scenario file holds one case per find statement:
//
//	# comments run to the end of the line
//	find `a{3,5}` in "aaaa" expect (0,4)
//	find "(a)|(b)" in "b" expect (0,1)(?,?)(0,1)
//	find "foo$" in "foo" expect (0,3) hitend requireend
//	find "a|ab" [longest] in "ab" expect (0,2)
//	find "z" in "abc" expect none
//
// Each result lists the spans of group 0 and of every capturing group, in
// order. The optional hitend and requireend keywords assert the end flags
// after the first search, and noend asserts both are clear. A case that
// names none of them does not check the flags. Raw strings in backquotes
// take no escapes.
package script

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a parsed scenario file.
type Script struct {
	Cases []*Case `parser:"@@*"`
}

// Case is one find statement.
type Case struct {
	Pos lexer.Position

	Pattern string   `parser:"'find' @( String | RawString )"`
	Flags   []string `parser:"( '[' @Ident* ']' )?"`
	Text    string   `parser:"'in' @( String | RawString )"`
	Expect  *Expect  `parser:"'expect' @@"`
	End     []string `parser:"@( 'hitend' | 'requireend' | 'noend' )*"`
}

type Expect struct {
	None    bool      `parser:"  @'none'"`
	Results []*Result `parser:"| @@ ( ',' @@ )*"`
}

// Result is the group spans of one match.
type Result struct {
	Spans []*Span `parser:"@@+"`
}

// Span is a group span; a nil bound is written "?" and means the group did
// not take part in the match.
type Span struct {
	Start *int `parser:"'(' ( @Int | '?' )"`
	End   *int `parser:"',' ( @Int | '?' ) ')'"`
}

func (s *Span) String() string {
	return "(" + bound(s.Start) + "," + bound(s.End) + ")"
}

func bound(p *int) string {
	if p == nil {
		return "?"
	}
	return strconv.Itoa(*p)
}

// FlagNames lists the flags a case may name.
var FlagNames = []string{"i", "m", "s", "literal", "unicodelines", "longest"}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "RawString", Pattern: "`[^`]*`"},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[()\[\],?]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Script](
	participle.Lexer(scriptLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.Map(func(t lexer.Token) (lexer.Token, error) {
		t.Value = t.Value[1 : len(t.Value)-1]
		return t, nil
	}, "RawString"),
)

// Parse reads a scenario file. The name is used in positions.
func Parse(name string, r io.Reader) (*Script, error) {
	s, err := parser.Parse(name, r)
	if err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseString is like Parse for a string.
func ParseString(name, data string) (*Script, error) {
	s, err := parser.ParseString(name, data)
	if err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) validate() error {
	for _, c := range s.Cases {
		for _, f := range c.Flags {
			if !slices.Contains(FlagNames, f) {
				return fmt.Errorf("%s: unknown flag %q (want one of %s)", c.Pos, f, strings.Join(FlagNames, ", "))
			}
		}
		for i, r := range c.Expect.Results {
			if len(r.Spans) != len(c.Expect.Results[0].Spans) {
				return fmt.Errorf("%s: result %d has %d spans, want %d", c.Pos, i+1, len(r.Spans), len(c.Expect.Results[0].Spans))
			}
		}
	}
	return nil
}

// HasFlag reports whether the case names the flag.
func (c *Case) HasFlag(name string) bool {
	return slices.Contains(c.Flags, name)
}

// Want renders the expected results in the form Outcome.Got uses.
func (c *Case) Want() []string {
	if c.Expect.None {
		return nil
	}
	out := make([]string, len(c.Expect.Results))
	for i, r := range c.Expect.Results {
		var sb strings.Builder
		for _, sp := range r.Spans {
			sb.WriteString(sp.String())
		}
		out[i] = sb.String()
	}
	return out
}

// Outcome is what running a case produced.
type Outcome struct {
	// Matches holds the group offsets of every match, two per group with
	// -1 for a group that did not take part.
	Matches    [][]int
	HitEnd     bool
	RequireEnd bool
}

// Got renders the matches like Case.Want.
func (o Outcome) Got() []string {
	if len(o.Matches) == 0 {
		return nil
	}
	out := make([]string, len(o.Matches))
	for i, m := range o.Matches {
		var sb strings.Builder
		for j := 0; j+1 < len(m); j += 2 {
			sb.WriteByte('(')
			sb.WriteString(offset(m[j]))
			sb.WriteByte(',')
			sb.WriteString(offset(m[j+1]))
			sb.WriteByte(')')
		}
		out[i] = sb.String()
	}
	return out
}

func offset(i int) string {
	if i < 0 {
		return "?"
	}
	return strconv.Itoa(i)
}

// Finder runs one case.
type Finder func(c *Case) (Outcome, error)

// Failure is a case whose outcome differed from its expectation.
type Failure struct {
	Case *Case
	Msg  string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: find %q in %q: %s", f.Case.Pos, f.Case.Pattern, f.Case.Text, f.Msg)
}

// Run runs every case and returns the failures.
func (s *Script) Run(find Finder) []*Failure {
	var failures []*Failure
	for _, c := range s.Cases {
		if f := c.run(find); f != nil {
			failures = append(failures, f)
		}
	}
	return failures
}

func (c *Case) run(find Finder) *Failure {
	out, err := find(c)
	if err != nil {
		return &Failure{Case: c, Msg: err.Error()}
	}
	want, got := c.Want(), out.Got()
	if !slices.Equal(want, got) {
		return &Failure{Case: c, Msg: fmt.Sprintf("got %s, want %s", render(got), render(want))}
	}
	if len(c.End) == 0 {
		return nil
	}
	hitEnd, requireEnd := slices.Contains(c.End, "hitend"), slices.Contains(c.End, "requireend")
	if out.HitEnd != hitEnd || out.RequireEnd != requireEnd {
		return &Failure{Case: c, Msg: fmt.Sprintf("got hitend=%t requireend=%t, want hitend=%t requireend=%t",
			out.HitEnd, out.RequireEnd, hitEnd, requireEnd)}
	}
	return nil
}

func render(results []string) string {
	if len(results) == 0 {
		return "none"
	}
	return strings.Join(results, ", ")
}
