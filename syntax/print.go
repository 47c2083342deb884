package syntax

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/ndwade/xtrms/charclass"
)

// String returns regular expression text equivalent to the tree rooted at n.
// Anchors and pseudo-characters print with their class names.
func (n *Node) String() string {
	var sb strings.Builder
	writeNode(&sb, n, false)
	return sb.String()
}

func isEmpty(n *Node) bool {
	return n.Kind == KindQuestion && n.Sub[0].Kind == KindTerminal && n.Sub[0].Class == charclass.Epsilon
}

func writeNode(sb *strings.Builder, n *Node, inGroup bool) {
	if isEmpty(n) {
		sb.WriteString("(?:)")
		return
	}
	switch n.Kind {
	case KindTerminal:
		sb.WriteString(n.Class.String())
	case KindCat:
		writeNode(sb, n.Sub[0], false)
		writeNode(sb, n.Sub[1], false)
	case KindAlt:
		if !inGroup {
			sb.WriteString("(?:")
		}
		writeNode(sb, n.Sub[0], false)
		sb.WriteByte('|')
		writeNode(sb, n.Sub[1], false)
		if !inGroup {
			sb.WriteByte(')')
		}
	case KindStar, KindPlus, KindQuestion:
		child := n.Sub[0]
		paren := child.Kind == KindCat || child.Kind.IsQuantifier()
		if paren {
			sb.WriteString("(?:")
		}
		writeNode(sb, child, false)
		if paren {
			sb.WriteByte(')')
		}
		switch n.Kind {
		case KindStar:
			sb.WriteByte('*')
		case KindPlus:
			sb.WriteByte('+')
		default:
			sb.WriteByte('?')
		}
		sb.WriteString(n.Mood.glyph())
	case KindGroup:
		if n.Name != "" {
			sb.WriteString("(?P<" + n.Name + ">")
		} else {
			sb.WriteByte('(')
		}
		writeNode(sb, n.Sub[0], true)
		sb.WriteByte(')')
	}
}

// TreeString renders the tree rooted at n, one node per line. Terminals
// are labeled with the position the NFA builder assigns them.
func TreeString(n *Node) string {
	pos := 0
	var add func(parent treeprint.Tree, n *Node) treeprint.Tree
	add = func(parent treeprint.Tree, n *Node) treeprint.Tree {
		label := nodeLabel(n, &pos)
		var branch treeprint.Tree
		if parent == nil {
			branch = treeprint.NewWithRoot(label)
		} else if n.Kind == KindTerminal {
			parent.AddNode(label)
			return parent
		} else {
			branch = parent.AddBranch(label)
		}
		for _, s := range n.Sub {
			add(branch, s)
		}
		return branch
	}
	return add(nil, n).String()
}

func nodeLabel(n *Node, pos *int) string {
	switch n.Kind {
	case KindTerminal:
		label := fmt.Sprintf("%v {%d}", n.Class, *pos)
		*pos++
		return label
	case KindGroup:
		if n.Name != "" {
			return fmt.Sprintf("Group %d <%s>", n.Index, n.Name)
		}
		return fmt.Sprintf("Group %d", n.Index)
	case KindStar, KindPlus, KindQuestion:
		if n.Mood != Greedy {
			return n.Kind.String() + " " + n.Mood.String()
		}
	}
	return n.Kind.String()
}
