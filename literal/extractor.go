package literal

import (
	"unicode/utf8"

	"github.com/ndwade/xtrms/charclass"
	"github.com/ndwade/xtrms/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: longer literals are cut and marked incomplete
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals. A pattern needing more has
	// no prefix set. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal in bytes. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Character classes like [abc] are expanded to ["a", "b", "c"].
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor computes required prefixes of syntax trees.
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns a set of literals such that every match of root
// starts with one of them. It returns an empty Seq when no such set exists
// within the limits, in particular when root can match the empty string.
//
// Anchors match no characters and do not interrupt a literal:
//
//	"hello"          => ["hello"]
//	"(foo|bar)"      => ["foo", "bar"]
//	"[ab]c+"         => ["ac"..., "bc"...]
//	"\bfoo\b"        => ["foo"]
//	"a*b"            => ["b", "a"...]
//	"x?"             => []
func (e *Extractor) ExtractPrefixes(root *syntax.Node) *Seq {
	lits, ok := e.prefixes(root)
	if !ok {
		return NewSeq()
	}
	for _, l := range lits {
		if l.Len() == 0 {
			return NewSeq()
		}
	}
	s := NewSeq(lits...)
	s.Minimize()
	return s
}

// prefixes returns the prefix set of n, or false when it is unbounded.
func (e *Extractor) prefixes(n *syntax.Node) ([]Literal, bool) {
	switch n.Kind {
	case syntax.KindTerminal:
		return e.terminal(n)

	case syntax.KindCat:
		first, ok := e.prefixes(n.Sub[0])
		if !ok {
			return nil, false
		}
		if !anyComplete(first) {
			return first, true
		}
		second, ok := e.prefixes(n.Sub[1])
		if !ok || len(first)*len(second) > e.config.MaxLiterals {
			return incomplete(first), true
		}
		return e.cross(first, second), true

	case syntax.KindAlt:
		a, ok := e.prefixes(n.Sub[0])
		if !ok {
			return nil, false
		}
		b, ok := e.prefixes(n.Sub[1])
		if !ok || len(a)+len(b) > e.config.MaxLiterals {
			return nil, false
		}
		return append(a, b...), true

	case syntax.KindQuestion, syntax.KindStar:
		child, ok := e.prefixes(n.Sub[0])
		if !ok || len(child)+1 > e.config.MaxLiterals {
			return nil, false
		}
		if n.Kind == syntax.KindStar {
			child = incomplete(child)
		}
		return append([]Literal{NewLiteral(nil, true)}, child...), true

	case syntax.KindPlus:
		child, ok := e.prefixes(n.Sub[0])
		if !ok {
			return nil, false
		}
		return incomplete(child), true

	case syntax.KindGroup:
		return e.prefixes(n.Sub[0])
	}
	return nil, false
}

func (e *Extractor) terminal(n *syntax.Node) ([]Literal, bool) {
	if n.IsAnchor() || n.Class == charclass.Epsilon {
		return []Literal{NewLiteral(nil, true)}, true
	}
	var lits []Literal
	for _, iv := range n.Class.Intervals() {
		if iv.Lo < 0 || int(iv.Hi-iv.Lo)+1+len(lits) > e.config.MaxClassSize {
			return nil, false
		}
		for r := iv.Lo; r <= iv.Hi; r++ {
			lits = append(lits, NewLiteral(utf8.AppendRune(nil, r), true))
		}
	}
	if len(lits) == 0 {
		return nil, false
	}
	return lits, true
}

// cross extends every complete literal of first with every literal of
// second.
func (e *Extractor) cross(first, second []Literal) []Literal {
	var out []Literal
	for _, f := range first {
		if !f.Complete {
			out = append(out, f)
			continue
		}
		for _, s := range second {
			b := append(append([]byte(nil), f.Bytes...), s.Bytes...)
			complete := s.Complete
			if len(b) > e.config.MaxLiteralLen {
				b, complete = b[:e.config.MaxLiteralLen], false
			}
			out = append(out, NewLiteral(b, complete))
		}
	}
	return out
}

func anyComplete(lits []Literal) bool {
	for _, l := range lits {
		if l.Complete {
			return true
		}
	}
	return false
}

func incomplete(lits []Literal) []Literal {
	out := make([]Literal, len(lits))
	for i, l := range lits {
		out[i] = NewLiteral(l.Bytes, false)
	}
	return out
}
