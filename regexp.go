// Package xtrms compiles regular expressions into tagged automata and
// matches them against text.
//
// A pattern is parsed into a syntax tree, compiled into a tagged NFA and,
// when the pattern allows it, into a DFA. The engine evaluating matches is
// chosen from the features the pattern requires:
//   - DFA table walker: no capture groups, leftmost-longest, static anchors
//   - NFA strand simulator: capture groups, \b, \G, reluctant quantifiers
//   - Literal prefilter: skips to the required prefixes of a match
//
// Basic usage:
//
//	re, err := xtrms.Compile(`(\w+)@(\w+)\.com`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(re.FindString("mail bob@example.com")) // "bob@example.com"
//
// A Matcher steps through the matches of one input and exposes the match
// state between steps:
//
//	m := re.Matcher([]byte("a@b.com c@d.com"))
//	for m.Find() {
//	    fmt.Println(m.Start(), m.End(), m.Group(1))
//	}
//
// Beyond the syntax of regexp/syntax, patterns accept \G (the end of the
// previous match) and \Z (the end of input, ignoring a final line
// terminator). Possessive quantifiers are parsed but no engine runs them.
package xtrms

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ndwade/xtrms/charclass"
	"github.com/ndwade/xtrms/meta"
	"github.com/ndwade/xtrms/nfa"
	"github.com/ndwade/xtrms/syntax"
)

// Flags modify how a pattern is compiled.
type Flags uint16

const (
	// CaseInsensitive matches letters regardless of case.
	CaseInsensitive Flags = 1 << iota
	// Multiline makes ^ and $ match at line boundaries.
	Multiline
	// DotAll makes . match line terminators.
	DotAll
	// Literal treats the pattern as literal text.
	Literal
	// UnicodeLines makes every Unicode line terminator end a line for .,
	// ^, $ and \Z. By default only '\n' does.
	UnicodeLines
	// LeftmostLongest selects the longest of the leftmost matches instead
	// of the first one in priority order.
	LeftmostLongest
)

func (f Flags) syntax() syntax.Flags {
	var sf syntax.Flags
	if f&CaseInsensitive != 0 {
		sf |= syntax.FoldCase
	}
	if f&Multiline != 0 {
		sf |= syntax.Multiline
	}
	if f&DotAll != 0 {
		sf |= syntax.DotAll
	}
	if f&Literal != 0 {
		sf |= syntax.Literal
	}
	if f&UnicodeLines != 0 {
		sf |= syntax.UnicodeLines
	}
	return sf
}

var flagNames = []struct {
	name string
	flag Flags
}{
	{"i", CaseInsensitive},
	{"m", Multiline},
	{"s", DotAll},
	{"literal", Literal},
	{"unicodelines", UnicodeLines},
	{"longest", LeftmostLongest},
}

// ParseFlags returns the flags named by names: i, m, s, literal,
// unicodelines and longest.
func ParseFlags(names ...string) (Flags, error) {
	var f Flags
next:
	for _, name := range names {
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				continue next
			}
		}
		return 0, fmt.Errorf("xtrms: unknown flag %q", name)
	}
	return f, nil
}

// String returns the flag names joined by '|', or "0" when no flag is set.
func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// Error is returned by Compile when a pattern cannot be compiled.
type Error struct {
	Pattern string
	Err     error
}

func (e *Error) Error() string {
	return "xtrms: Compile(" + strconv.Quote(e.Pattern) + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Regexp is a compiled regular expression.
//
// A Regexp is safe for concurrent use by multiple goroutines. The
// convenience methods draw their Matcher from a pool.
type Regexp struct {
	pattern string
	flags   Flags
	config  meta.Config
	tree    *syntax.Tree
	prog    *meta.Program

	// end anchored variant of prog, built by the first Matches
	anchoredOnce sync.Once
	anchored     *meta.Program

	matchers sync.Pool
}

// Compile parses a pattern and returns a Regexp that matches it.
//
// Example:
//
//	re, err := xtrms.Compile(`\d{3}-\d{4}`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags Flags) (*Regexp, error) {
	return CompileWithConfig(pattern, flags, meta.DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(pattern string, flags Flags) *Regexp {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic(err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with a custom engine configuration.
// The LeftmostLongest flag overrides config.LeftmostLongest when set.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.Style = meta.StyleNFA
//	re, err := xtrms.CompileWithConfig(`a+b`, 0, config)
func CompileWithConfig(pattern string, flags Flags, config meta.Config) (*Regexp, error) {
	if flags&LeftmostLongest != 0 {
		config.LeftmostLongest = true
	}
	tree, err := syntax.Parse(pattern, flags.syntax())
	if err != nil {
		return nil, &Error{Pattern: pattern, Err: err}
	}
	prog, err := meta.Compile(tree, config)
	if err != nil {
		return nil, &Error{Pattern: pattern, Err: err}
	}
	re := &Regexp{
		pattern: pattern,
		flags:   flags,
		config:  config,
		tree:    tree,
		prog:    prog,
	}
	re.matchers.New = func() any { return re.newMatcher() }
	return re, nil
}

// MatchString reports whether s contains any match of pattern.
func MatchString(pattern, s string) (bool, error) {
	re, err := Compile(pattern, 0)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a regular
// expression matching the literal text.
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// String returns the source text of the pattern.
func (re *Regexp) String() string {
	return re.pattern
}

// Flags returns the flags the pattern was compiled with.
func (re *Regexp) Flags() Flags {
	return re.flags
}

// NumSubexp returns the number of parenthesized subexpressions.
func (re *Regexp) NumSubexp() int {
	return re.tree.NumGroups
}

// SubexpNames returns the names of the parenthesized subexpressions, indexed
// by group number. Names[0] and the names of unnamed groups are "".
func (re *Regexp) SubexpNames() []string {
	names := make([]string, len(re.tree.Names))
	copy(names, re.tree.Names)
	return names
}

// SubexpIndex returns the index of the first group named name, or -1.
func (re *Regexp) SubexpIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range re.tree.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Requirements returns the features an engine needs to evaluate the
// pattern.
func (re *Regexp) Requirements() nfa.Features {
	return re.prog.NFA().Requirements()
}

// Style returns the style of the engine selected for the pattern.
func (re *Regexp) Style() meta.Style {
	return re.prog.Style()
}

// Tree returns the parsed pattern. It must not be modified.
func (re *Regexp) Tree() *syntax.Tree {
	return re.tree
}

// Program returns the compiled program.
func (re *Regexp) Program() *meta.Program {
	return re.prog
}

// anchoredProgram returns the program of the pattern followed by \z, or
// nil when it cannot be compiled.
func (re *Regexp) anchoredProgram() *meta.Program {
	re.anchoredOnce.Do(func() {
		tree := &syntax.Tree{
			Root:      syntax.Cat(syntax.Copy(re.tree.Root), syntax.Terminal(charclass.EOFClass)),
			NumGroups: re.tree.NumGroups,
			Names:     re.tree.Names,
		}
		config := re.config
		config.EnablePrefilter = false
		prog, err := meta.Compile(tree, config)
		if err != nil {
			if config.Logger != nil {
				config.Logger.Debug("end anchored variant rejected", "pattern", re.pattern, "err", err)
			}
			return
		}
		re.anchored = prog
	})
	return re.anchored
}

func (re *Regexp) get(b []byte) *Matcher {
	m := re.matchers.Get().(*Matcher)
	m.Reset(b)
	return m
}

func (re *Regexp) put(m *Matcher) {
	m.Reset(nil)
	re.matchers.Put(m)
}

// Match reports whether b contains any match of the pattern.
func (re *Regexp) Match(b []byte) bool {
	m := re.get(b)
	defer re.put(m)
	return m.Find()
}

// MatchString reports whether s contains any match of the pattern.
func (re *Regexp) MatchString(s string) bool {
	return re.Match([]byte(s))
}

// FindString returns the text of the leftmost match in s, or "" if there
// is none. Use FindStringIndex to tell an empty match from no match.
func (re *Regexp) FindString(s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	return s[loc[0]:loc[1]]
}

// FindStringIndex returns the location of the leftmost match in s as
// s[loc[0]:loc[1]], or nil if there is none.
func (re *Regexp) FindStringIndex(s string) []int {
	m := re.get([]byte(s))
	defer re.put(m)
	if !m.Find() {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// FindStringSubmatchIndex returns the locations of the leftmost match and
// its groups: group i spans s[loc[2*i]:loc[2*i+1]], or -1 for a group that
// did not participate. It returns nil if there is no match.
func (re *Regexp) FindStringSubmatchIndex(s string) []int {
	m := re.get([]byte(s))
	defer re.put(m)
	if !m.Find() {
		return nil
	}
	return m.Result()
}

// FindAllString returns up to n successive matches of the pattern in s, or
// all of them if n < 0. It returns nil if there is no match.
//
// An empty match directly after a previous match is reported; the next
// attempt then starts one character further.
func (re *Regexp) FindAllString(s string, n int) []string {
	var out []string
	re.findAll(s, n, func(m *Matcher) {
		out = append(out, s[m.Start():m.End()])
	})
	return out
}

// FindAllStringSubmatchIndex is the 'All' version of
// FindStringSubmatchIndex.
func (re *Regexp) FindAllStringSubmatchIndex(s string, n int) [][]int {
	var out [][]int
	re.findAll(s, n, func(m *Matcher) {
		out = append(out, m.Result())
	})
	return out
}

func (re *Regexp) findAll(s string, n int, deliver func(*Matcher)) {
	if n == 0 {
		return
	}
	m := re.get([]byte(s))
	defer re.put(m)
	for count := 0; (n < 0 || count < n) && m.Find(); count++ {
		deliver(m)
	}
}

// ReplaceAllString returns a copy of src with every match replaced by the
// expansion of tmpl. See Matcher.AppendReplacement for the template syntax.
func (re *Regexp) ReplaceAllString(src, tmpl string) string {
	m := re.get([]byte(src))
	defer re.put(m)
	return m.ReplaceAll(tmpl)
}

// ReplaceFirstString returns a copy of src with the leftmost match replaced
// by the expansion of tmpl.
func (re *Regexp) ReplaceFirstString(src, tmpl string) string {
	m := re.get([]byte(src))
	defer re.put(m)
	return m.ReplaceFirst(tmpl)
}

// Split slices s around the matches of the pattern.
//
// The limit determines the number of pieces returned:
//
//	limit > 0: at most limit pieces; the last piece is the unsplit remainder
//	limit == 0: all pieces, without trailing empty strings
//	limit < 0: all pieces
//
// A leading empty piece is kept. If there is no match, the result is s
// alone.
//
// Example:
//
//	re := xtrms.MustCompile(`,`, 0)
//	re.Split("a,b,,", -1) // ["a" "b" "" ""]
//	re.Split("a,b,,", 0)  // ["a" "b"]
//	re.Split("a,b,,", 2)  // ["a" "b,,"]
func (re *Regexp) Split(s string, limit int) []string {
	m := re.get([]byte(s))
	defer re.put(m)

	var out []string
	last := 0
	for (limit <= 0 || len(out) < limit-1) && m.Find() {
		out = append(out, s[last:m.Start()])
		last = m.End()
	}
	out = append(out, s[last:])

	if limit == 0 {
		for len(out) > 0 && out[len(out)-1] == "" {
			out = out[:len(out)-1]
		}
	}
	return out
}
