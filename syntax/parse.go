package syntax

import (
	"regexp/syntax"
	"strconv"
	"strings"
	"unicode"

	"github.com/ndwade/xtrms/charclass"
)

// Flags control parsing.
type Flags uint16

const (
	FoldCase     Flags = 1 << iota // case-insensitive matching
	Multiline                      // ^ and $ match at line boundaries
	DotAll                         // . matches line terminators
	Literal                        // the pattern is literal text
	UnicodeLines                   // every Unicode line terminator ends a line, not just \n
)

// reservedPrefix names the empty groups \G and \Z are rewritten into before
// the text reaches regexp/syntax.
const reservedPrefix = "_xtrms"

// Tree is a parsed pattern.
type Tree struct {
	Root *Node
	// NumGroups is the number of capture groups, not counting group 0.
	NumGroups int
	// Names holds the group names indexed by group number; Names[0] and the
	// names of unnamed groups are "".
	Names []string
}

// Parse parses pattern into a tree.
//
// The accepted syntax is that of regexp/syntax with Perl extensions, plus
// \G (end of the previous match), \Z (end of input, ignoring one final
// line terminator) and possessive quantifiers (x*+, x++, x?+, x{n,m}+).
// Errors are *syntax.Error values from regexp/syntax.
func Parse(pattern string, flags Flags) (*Tree, error) {
	text, markers := pattern, map[string]*charclass.CharClass(nil)
	if flags&Literal == 0 {
		text, markers = rewriteExtensions(pattern)
	}
	re, err := syntax.Parse(text, syntaxFlags(flags))
	if err != nil {
		if se, ok := err.(*syntax.Error); ok {
			// report the caller's text, not the rewritten one
			return nil, &syntax.Error{Code: se.Code, Expr: restoreExtensions(se.Expr)}
		}
		return nil, err
	}

	c := &converter{flags: flags, markers: markers, index: map[int]int{}, names: []string{""}}
	if err := c.number(re); err != nil {
		return nil, err
	}
	root := c.convert(re)
	if c.err != nil {
		return nil, c.err
	}
	return &Tree{Root: root, NumGroups: len(c.names) - 1, Names: c.names}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string, flags Flags) *Tree {
	t, err := Parse(pattern, flags)
	if err != nil {
		panic(`syntax: Parse(` + strconv.Quote(pattern) + `): ` + err.Error())
	}
	return t
}

func syntaxFlags(flags Flags) syntax.Flags {
	f := syntax.Perl
	if flags&Multiline != 0 {
		f &^= syntax.OneLine
	}
	if flags&FoldCase != 0 {
		f |= syntax.FoldCase
	}
	if flags&DotAll != 0 {
		f |= syntax.DotNL
	}
	if flags&Literal != 0 {
		f |= syntax.Literal
	}
	return f
}

// rewriteExtensions replaces \G and \Z outside character classes and \Q..\E
// quotes with uniquely named empty groups, and returns the rewritten text
// with the group name to anchor mapping. The '+' making a quantifier
// possessive becomes an empty group as well, mapped to a nil anchor.
func rewriteExtensions(pattern string) (string, map[string]*charclass.CharClass) {
	var (
		sb      strings.Builder
		markers map[string]*charclass.CharClass
		inClass bool
		quant   bool // the last byte written ends a quantifier
	)
	mark := func(kind byte, anchor *charclass.CharClass) {
		if markers == nil {
			markers = make(map[string]*charclass.CharClass)
		}
		name := reservedPrefix + string(kind) + strconv.Itoa(len(markers))
		markers[name] = anchor
		sb.WriteString("(?P<" + name + ">)")
	}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		wasQuant := quant
		quant = false
		switch {
		case c == '\\' && i+1 < len(pattern):
			next := pattern[i+1]
			switch {
			case next == 'Q':
				end := strings.Index(pattern[i+2:], `\E`)
				if end < 0 {
					sb.WriteString(pattern[i:])
					return sb.String(), markers
				}
				sb.WriteString(pattern[i : i+2+end+2])
				i += 2 + end + 1
			case !inClass && next == 'G':
				mark(next, charclass.Match)
				i++
			case !inClass && next == 'Z':
				mark(next, charclass.BigZed)
				i++
			default:
				sb.WriteString(pattern[i : i+2])
				i++
			}
		case c == '[' && !inClass:
			inClass = true
			sb.WriteByte(c)
			// a ']' right after the opening bracket is a literal
			j := i + 1
			if j < len(pattern) && pattern[j] == '^' {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			sb.WriteString(pattern[i+1 : j])
			i = j - 1
		case c == '[' && inClass && i+1 < len(pattern) && pattern[i+1] == ':':
			end := strings.Index(pattern[i+2:], ":]")
			if end < 0 {
				sb.WriteByte(c)
				continue
			}
			sb.WriteString(pattern[i : i+2+end+2])
			i += 2 + end + 1
		case c == ']' && inClass:
			inClass = false
			sb.WriteByte(c)
		case c == '+' && !inClass && wasQuant:
			mark('P', nil)
		default:
			sb.WriteByte(c)
			quant = !inClass && endsQuantifier(pattern, i, wasQuant)
		}
	}
	return sb.String(), markers
}

// endsQuantifier reports whether pattern[i] ends a quantifier. A '?' right
// after a quantifier makes it reluctant and ends none.
func endsQuantifier(pattern string, i int, afterQuant bool) bool {
	switch pattern[i] {
	case '*', '+':
		return true
	case '?':
		return !afterQuant && i > 0 && pattern[i-1] != '('
	case '}':
		j := strings.LastIndexByte(pattern[:i], '{')
		if j < 0 || (j > 0 && pattern[j-1] == '\\') {
			return false
		}
		body := pattern[j+1 : i]
		if body == "" || body[0] == ',' {
			return false
		}
		for k := 0; k < len(body); k++ {
			if (body[k] < '0' || body[k] > '9') && body[k] != ',' {
				return false
			}
		}
		return strings.Count(body, ",") <= 1
	}
	return false
}

// restoreExtensions undoes rewriteExtensions in an error fragment.
func restoreExtensions(expr string) string {
	for {
		i := strings.Index(expr, "(?P<"+reservedPrefix)
		if i < 0 {
			return expr
		}
		j := strings.Index(expr[i:], ">)")
		if j < 0 {
			return expr
		}
		restored := `\` + string(expr[i+len("(?P<")+len(reservedPrefix)])
		if restored == `\P` {
			restored = "+"
		}
		expr = expr[:i] + restored + expr[i+j+2:]
	}
}

type converter struct {
	flags      Flags
	markers    map[string]*charclass.CharClass
	index      map[int]int // regexp/syntax capture index -> group index
	names      []string
	possessive map[*syntax.Regexp]bool
	err        error
}

// number assigns group indexes to user captures in order of their opening
// parenthesis, skipping extension markers.
func (c *converter) number(re *syntax.Regexp) error {
	var caps []*syntax.Regexp
	var collect func(re *syntax.Regexp)
	collect = func(re *syntax.Regexp) {
		if re.Op == syntax.OpCapture {
			caps = append(caps, re)
		}
		for _, s := range re.Sub {
			collect(s)
		}
	}
	collect(re)
	// regexp/syntax numbers captures by opening parenthesis already
	for _, cp := range caps {
		if _, ok := c.markers[cp.Name]; ok {
			continue
		}
		if strings.HasPrefix(cp.Name, reservedPrefix) {
			return &syntax.Error{Code: syntax.ErrInvalidNamedCapture, Expr: "(?P<" + cp.Name + ">"}
		}
		c.index[cp.Cap] = len(c.names)
		c.names = append(c.names, cp.Name)
	}
	return nil
}

func (c *converter) mood(re *syntax.Regexp) Mood {
	if c.possessive[re] {
		return Possessive
	}
	if re.Flags&syntax.NonGreedy != 0 {
		return Reluctant
	}
	return Greedy
}

func (c *converter) convert(re *syntax.Regexp) *Node {
	switch re.Op {
	case syntax.OpNoMatch:
		return Terminal(charclass.Empty)
	case syntax.OpEmptyMatch:
		return Empty()
	case syntax.OpLiteral:
		nodes := make([]*Node, len(re.Rune))
		for i, r := range re.Rune {
			nodes[i] = Terminal(c.literal(r, re.Flags&syntax.FoldCase != 0))
		}
		return CatAll(nodes...)
	case syntax.OpCharClass:
		return Terminal(charclass.FromPairs(re.Rune))
	case syntax.OpAnyCharNotNL:
		if c.flags&UnicodeLines != 0 {
			return Terminal(charclass.DotAll.Difference(charclass.LSUnicode))
		}
		return Terminal(charclass.DotAll.Difference(charclass.LSUnix))
	case syntax.OpAnyChar:
		return Terminal(charclass.DotAll)
	case syntax.OpBeginLine:
		return Terminal(charclass.Caret)
	case syntax.OpEndLine:
		if c.flags&UnicodeLines != 0 {
			return Terminal(charclass.DollarUnicode)
		}
		return Terminal(charclass.DollarUnix)
	case syntax.OpBeginText:
		return Terminal(charclass.BOF)
	case syntax.OpEndText:
		return Terminal(charclass.EOFClass)
	case syntax.OpWordBoundary:
		return Terminal(charclass.WordB)
	case syntax.OpNoWordBoundary:
		return Terminal(charclass.WordNB)
	case syntax.OpCapture:
		if anchor, ok := c.markers[re.Name]; ok {
			if anchor == nil {
				// a possessive marker not following its quantifier
				c.err = &syntax.Error{Code: syntax.ErrInvalidRepeatOp, Expr: "+"}
				return Empty()
			}
			return Terminal(anchor)
		}
		idx := c.index[re.Cap]
		return Group(idx, c.names[idx], c.convert(re.Sub[0]))
	case syntax.OpStar:
		return Star(c.convert(re.Sub[0]), c.mood(re))
	case syntax.OpPlus:
		return Plus(c.convert(re.Sub[0]), c.mood(re))
	case syntax.OpQuest:
		return Question(c.convert(re.Sub[0]), c.mood(re))
	case syntax.OpRepeat:
		return c.repeat(re)
	case syntax.OpConcat:
		nodes := make([]*Node, 0, len(re.Sub))
		for i := 0; i < len(re.Sub); i++ {
			sub := re.Sub[i]
			if i+1 < len(re.Sub) && c.isPossessiveMarker(re.Sub[i+1]) && isQuantifier(sub.Op) {
				if c.possessive == nil {
					c.possessive = make(map[*syntax.Regexp]bool)
				}
				c.possessive[sub] = true
				i++
			}
			nodes = append(nodes, c.convert(sub))
		}
		return CatAll(nodes...)
	case syntax.OpAlternate:
		nodes := make([]*Node, len(re.Sub))
		for i, s := range re.Sub {
			nodes[i] = c.convert(s)
		}
		return AltAll(nodes...)
	}
	panic("syntax: unexpected op " + re.Op.String())
}

func (c *converter) isPossessiveMarker(re *syntax.Regexp) bool {
	if re.Op != syntax.OpCapture {
		return false
	}
	anchor, ok := c.markers[re.Name]
	return ok && anchor == nil
}

func isQuantifier(op syntax.Op) bool {
	return op == syntax.OpStar || op == syntax.OpPlus || op == syntax.OpQuest || op == syntax.OpRepeat
}

// repeat expands x{n,m} into n copies of x followed by m-n nested optional
// copies, and x{n,} into n-1 copies followed by x+. Every copy is converted
// afresh so the result stays non-reconvergent.
func (c *converter) repeat(re *syntax.Regexp) *Node {
	sub, mood := re.Sub[0], c.mood(re)
	if re.Max == -1 {
		if re.Min == 0 {
			return Star(c.convert(sub), mood)
		}
		nodes := make([]*Node, 0, re.Min)
		for i := 0; i < re.Min-1; i++ {
			nodes = append(nodes, c.convert(sub))
		}
		return CatAll(append(nodes, Plus(c.convert(sub), mood))...)
	}
	var nodes []*Node
	for i := 0; i < re.Min; i++ {
		nodes = append(nodes, c.convert(sub))
	}
	var tail *Node
	for i := re.Min; i < re.Max; i++ {
		if tail == nil {
			tail = Question(c.convert(sub), mood)
		} else {
			tail = Question(Cat(c.convert(sub), tail), mood)
		}
	}
	if tail != nil {
		nodes = append(nodes, tail)
	}
	return CatAll(nodes...)
}

// literal returns the class for r, closed under simple case folding when
// fold is set.
func (c *converter) literal(r rune, fold bool) *charclass.CharClass {
	if !fold {
		return charclass.Rune(r)
	}
	rs := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		rs = append(rs, f)
	}
	return charclass.Runes(rs...)
}
