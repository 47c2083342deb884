// Package syntax defines the regular expression trees consumed by the
// automaton builders, and a parser producing them from pattern text.
//
// A tree is built from seven node kinds: terminals carrying a character
// class, binary concatenation and alternation, the three quantifiers and
// capture groups. Anchors are terminals whose class is one of the anchor
// classes of package charclass, such as charclass.WordB or charclass.BOF.
//
// Trees must not be reconvergent: a node may be the child of at most one
// parent. The constructors do not check this; the NFA builder does.
package syntax

import (
	"fmt"

	"github.com/ndwade/xtrms/charclass"
)

// Kind identifies the kind of a Node.
type Kind uint8

const (
	KindTerminal Kind = iota + 1 // matches one character of Class
	KindCat                      // Sub[0] followed by Sub[1]
	KindAlt                      // Sub[0], else Sub[1]
	KindStar                     // zero or more Sub[0]
	KindPlus                     // one or more Sub[0]
	KindQuestion                 // zero or one Sub[0]
	KindGroup                    // capture group Index around Sub[0]
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "Terminal"
	case KindCat:
		return "Cat"
	case KindAlt:
		return "Alt"
	case KindStar:
		return "Star"
	case KindPlus:
		return "Plus"
	case KindQuestion:
		return "Question"
	case KindGroup:
		return "Group"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsQuantifier reports whether k is Star, Plus or Question.
func (k Kind) IsQuantifier() bool {
	return k == KindStar || k == KindPlus || k == KindQuestion
}

// Mood selects how a quantifier prioritizes repetition over exit.
type Mood uint8

const (
	Greedy Mood = iota
	Reluctant
	Possessive
)

func (m Mood) String() string {
	switch m {
	case Greedy:
		return "greedy"
	case Reluctant:
		return "reluctant"
	case Possessive:
		return "possessive"
	default:
		return fmt.Sprintf("Mood(%d)", m)
	}
}

// glyph returns the quantifier suffix for m.
func (m Mood) glyph() string {
	switch m {
	case Reluctant:
		return "?"
	case Possessive:
		return "+"
	default:
		return ""
	}
}

// Node is a node of a regular expression tree.
type Node struct {
	Kind  Kind
	Class *charclass.CharClass // KindTerminal
	Sub   []*Node              // one child for quantifiers and groups, two for Cat and Alt
	Mood  Mood                 // quantifiers
	Index int                  // KindGroup
	Name  string               // KindGroup, optional
}

// Terminal returns a node matching one character of cc.
func Terminal(cc *charclass.CharClass) *Node {
	return &Node{Kind: KindTerminal, Class: cc}
}

// Cat returns the concatenation of a and b.
func Cat(a, b *Node) *Node {
	return &Node{Kind: KindCat, Sub: []*Node{a, b}}
}

// Alt returns the alternation of a and b. a has priority.
func Alt(a, b *Node) *Node {
	return &Node{Kind: KindAlt, Sub: []*Node{a, b}}
}

// Star returns child repeated zero or more times.
func Star(child *Node, mood Mood) *Node {
	return &Node{Kind: KindStar, Sub: []*Node{child}, Mood: mood}
}

// Plus returns child repeated one or more times.
func Plus(child *Node, mood Mood) *Node {
	return &Node{Kind: KindPlus, Sub: []*Node{child}, Mood: mood}
}

// Question returns child repeated zero or one times.
func Question(child *Node, mood Mood) *Node {
	return &Node{Kind: KindQuestion, Sub: []*Node{child}, Mood: mood}
}

// Group returns capture group index around child. name may be empty.
func Group(index int, name string, child *Node) *Node {
	return &Node{Kind: KindGroup, Sub: []*Node{child}, Index: index, Name: name}
}

// Empty returns a node matching only the empty string.
func Empty() *Node {
	return Question(Terminal(charclass.Epsilon), Greedy)
}

// CatAll concatenates nodes left to right. It returns Empty for no nodes.
func CatAll(nodes ...*Node) *Node {
	return fold(Cat, nodes)
}

// AltAll alternates nodes in priority order. It returns Empty for no nodes.
func AltAll(nodes ...*Node) *Node {
	return fold(Alt, nodes)
}

func fold(op func(a, b *Node) *Node, nodes []*Node) *Node {
	if len(nodes) == 0 {
		return Empty()
	}
	n := nodes[0]
	for _, m := range nodes[1:] {
		n = op(n, m)
	}
	return n
}

// Order is a traversal order for Walk.
type Order uint8

const (
	// PreOrder visits a node before its children.
	PreOrder Order = iota
	// PostOrder visits a node after its children.
	PostOrder
	// NodeDefined visits only the root; the visitor recurses itself.
	NodeDefined
)

// Visitor is called by Walk for each visited node.
type Visitor func(n *Node)

// Walk traverses the tree rooted at n in the given order.
func Walk(n *Node, order Order, visit Visitor) {
	switch order {
	case PreOrder:
		visit(n)
		for _, s := range n.Sub {
			Walk(s, order, visit)
		}
	case PostOrder:
		for _, s := range n.Sub {
			Walk(s, order, visit)
		}
		visit(n)
	case NodeDefined:
		visit(n)
	}
}

// Copy returns a deep copy of the tree rooted at n. Classes are shared.
func Copy(n *Node) *Node {
	c := *n
	if n.Sub != nil {
		c.Sub = make([]*Node, len(n.Sub))
		for i, s := range n.Sub {
			c.Sub[i] = Copy(s)
		}
	}
	return &c
}

// IsAnchor reports whether n is a terminal matching an anchor class.
func (n *Node) IsAnchor() bool {
	if n.Kind != KindTerminal {
		return false
	}
	for _, a := range anchors {
		if n.Class == a {
			return true
		}
	}
	return false
}

// anchors are the zero-width assertion classes, compared by identity.
var anchors = []*charclass.CharClass{
	charclass.BOF, charclass.Match, charclass.Caret,
	charclass.WordB, charclass.WordNB,
	charclass.DollarUnicode, charclass.DollarUnix,
	charclass.BigZed, charclass.EOFClass, charclass.Loop,
}
