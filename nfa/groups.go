package nfa

import (
	"strconv"
	"strings"
)

// Groups is a capture group array: two slots per group holding the start
// and end offsets of the group, -1 when the group did not participate.
// Group 0 is the whole match.
type Groups []int

// NewGroups returns a cleared array for n groups, including group 0.
func NewGroups(n int) Groups {
	g := make(Groups, 2*n)
	g.Clear()
	return g
}

// Len returns the number of groups, including group 0.
func (g Groups) Len() int { return len(g) / 2 }

// Start returns the start offset of group i, or -1.
func (g Groups) Start(i int) int { return g[2*i] }

// End returns the end offset of group i, or -1.
func (g Groups) End(i int) int { return g[2*i+1] }

// Matched reports whether group i participated in the match.
func (g Groups) Matched(i int) bool { return g[2*i] != -1 }

// Clear unsets every group.
func (g Groups) Clear() {
	for i := range g {
		g[i] = -1
	}
}

// ClearGroup unsets group i.
func (g Groups) ClearGroup(i int) {
	g[2*i], g[2*i+1] = -1, -1
}

// CopyGroup copies group i of src.
func (g Groups) CopyGroup(src Groups, i int) {
	g[2*i], g[2*i+1] = src[2*i], src[2*i+1]
}

// propagate copies src into g, stamping at every tag index in tags.
func (g Groups) propagate(src Groups, tags []int, at int) {
	copy(g, src)
	for _, t := range tags {
		g[t] = at
	}
}

// lefterLonger reports whether the whole match of a starts before that of
// b, or starts at the same offset and ends later. An unset a never wins.
func lefterLonger(a, b Groups) bool {
	switch {
	case a[0] == -1:
		return false
	case b[0] == -1 || a[0] < b[0]:
		return true
	default:
		return a[0] == b[0] && a[1] > b[1]
	}
}

// String formats every group as (start,end), with ? for unset offsets.
func (g Groups) String() string {
	var sb strings.Builder
	off := func(v int) string {
		if v == -1 {
			return "?"
		}
		return strconv.Itoa(v)
	}
	for i := 0; i < g.Len(); i++ {
		sb.WriteString("(" + off(g.Start(i)) + "," + off(g.End(i)) + ")")
	}
	return sb.String()
}
