package syntax

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ndwade/xtrms/charclass"
)

func lit(r rune) *Node { return Terminal(charclass.Rune(r)) }

func TestWalkOrder(t *testing.T) {
	// (a|b)c*
	root := Cat(Group(1, "", Alt(lit('a'), lit('b'))), Star(lit('c'), Greedy))

	tests := []struct {
		order Order
		want  []string
	}{
		{PreOrder, []string{"Cat", "Group", "Alt", "a", "b", "Star", "c"}},
		{PostOrder, []string{"a", "b", "Alt", "Group", "c", "Star", "Cat"}},
		{NodeDefined, []string{"Cat"}},
	}
	for _, tt := range tests {
		var got []string
		Walk(root, tt.order, func(n *Node) {
			if n.Kind == KindTerminal {
				got = append(got, n.Class.String())
				return
			}
			got = append(got, n.Kind.String())
		})
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Walk order %d mismatch (-want +got):\n%s", tt.order, diff)
		}
	}
}

func TestCopyIsDeep(t *testing.T) {
	orig := Cat(lit('a'), Plus(lit('b'), Reluctant))
	cp := Copy(orig)
	if cp == orig || cp.Sub[0] == orig.Sub[0] || cp.Sub[1].Sub[0] == orig.Sub[1].Sub[0] {
		t.Fatal("Copy shares nodes with the original")
	}
	if cp.Sub[0].Class != orig.Sub[0].Class {
		t.Error("Copy should share classes")
	}
	if cp.String() != orig.String() {
		t.Errorf("Copy().String() = %q, want %q", cp.String(), orig.String())
	}
}

func TestCatAllAltAll(t *testing.T) {
	if got := CatAll(); got.String() != "(?:)" {
		t.Errorf("CatAll() = %q, want empty", got)
	}
	n := AltAll(lit('a'), lit('b'), lit('c'))
	if n.Kind != KindAlt || n.Sub[0].Kind != KindAlt || n.Sub[1].Class.String() != "c" {
		t.Errorf("AltAll should fold left, got %s", TreeString(n))
	}
	if got := CatAll(lit('x')); got.Kind != KindTerminal {
		t.Errorf("CatAll of one node = %v, want the node itself", got.Kind)
	}
}

func TestIsAnchor(t *testing.T) {
	for _, cc := range []*charclass.CharClass{charclass.BOF, charclass.Caret, charclass.WordB, charclass.BigZed, charclass.EOFClass, charclass.DollarUnix} {
		if !Terminal(cc).IsAnchor() {
			t.Errorf("Terminal(%v).IsAnchor() = false", cc)
		}
	}
	// equal members are not enough; anchors are recognized by identity
	if Terminal(charclass.Rune(charclass.EOF)).IsAnchor() {
		t.Error("an unnamed EOF class should not be an anchor")
	}
	if lit('a').IsAnchor() || Star(Terminal(charclass.BOF), Greedy).IsAnchor() {
		t.Error("non-anchor reported as anchor")
	}
}

func TestNodeString(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{Cat(lit('a'), Star(lit('b'), Greedy)), "ab*"},
		{Alt(lit('a'), lit('b')), "(?:a|b)"},
		{Group(1, "", Alt(lit('a'), lit('b'))), "(a|b)"},
		{Group(2, "word", lit('w')), "(?P<word>w)"},
		{Star(Cat(lit('a'), lit('b')), Reluctant), "(?:ab)*?"},
		{Plus(Question(lit('a'), Greedy), Possessive), "(?:a?)++"},
		{Question(Alt(lit('x'), Empty()), Greedy), "(?:x|(?:))?"},
		{Empty(), "(?:)"},
		{Cat(Terminal(charclass.Caret), Terminal(charclass.EOFClass)), `^\z`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeString(t *testing.T) {
	root := Cat(Group(1, "x", lit('a')), Star(lit('b'), Reluctant))
	got := TreeString(root)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "Cat" {
		t.Errorf("root line = %q, want %q", lines[0], "Cat")
	}
	for _, want := range []string{"Group 1 <x>", "a {0}", "Star reluctant", "b {1}"} {
		if !strings.Contains(got, want) {
			t.Errorf("TreeString missing %q:\n%s", want, got)
		}
	}
	if len(lines) != 5 {
		t.Errorf("TreeString has %d lines, want 5:\n%s", len(lines), got)
	}
}
