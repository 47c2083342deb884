package xtrms

import (
	"strings"
)

// AppendReplacement writes to sb the input between the end of the previous
// replacement and the start of the current match, followed by the
// expansion of tmpl. It panics if there is no current match.
//
// In tmpl, the following references are replaced by group text:
//
//	$n       group n; digits are taken while they name an existing group
//	${n}     group n
//	${name}  the group called name
//	$$       a literal $
//
// A reference to a group that does not exist or did not participate
// expands to nothing. A $ starting no reference is copied literally.
func (m *Matcher) AppendReplacement(sb *strings.Builder, tmpl string) *Matcher {
	g := m.mustMatch()
	sb.Write(m.text[m.appendPos:g.Start(0)])
	m.expand(sb, tmpl)
	m.appendPos = g.End(0)
	return m
}

// AppendTail writes to sb the input after the end of the last replacement.
func (m *Matcher) AppendTail(sb *strings.Builder) {
	sb.Write(m.text[m.appendPos:])
}

// ReplaceAll resets m and returns the input with every match replaced by
// the expansion of tmpl.
func (m *Matcher) ReplaceAll(tmpl string) string {
	m.reset()
	if !m.Find() {
		return string(m.text)
	}
	var sb strings.Builder
	sb.Grow(len(m.text))
	for {
		m.AppendReplacement(&sb, tmpl)
		if !m.Find() {
			break
		}
	}
	m.AppendTail(&sb)
	return sb.String()
}

// ReplaceFirst resets m and returns the input with the leftmost match
// replaced by the expansion of tmpl.
func (m *Matcher) ReplaceFirst(tmpl string) string {
	m.reset()
	if !m.Find() {
		return string(m.text)
	}
	var sb strings.Builder
	sb.Grow(len(m.text))
	m.AppendReplacement(&sb, tmpl)
	m.AppendTail(&sb)
	return sb.String()
}

func (m *Matcher) expand(sb *strings.Builder, tmpl string) {
	expandTemplate(sb, tmpl, m.re, func(i int) (string, bool) {
		g := m.s.Groups()
		if i >= g.Len() || !g.Matched(i) {
			return "", false
		}
		return string(m.text[g.Start(i):g.End(i)]), true
	})
}

// expandTemplate writes tmpl to sb with the group references replaced by
// the text group returns.
func expandTemplate(sb *strings.Builder, tmpl string, re *Regexp, group func(int) (string, bool)) {
	for len(tmpl) > 0 {
		i := strings.IndexByte(tmpl, '$')
		if i < 0 {
			sb.WriteString(tmpl)
			return
		}
		sb.WriteString(tmpl[:i])
		tmpl = tmpl[i:]

		ref, rest, ok := parseReference(tmpl, re)
		if !ok {
			sb.WriteByte('$')
			tmpl = tmpl[1:]
			continue
		}
		tmpl = rest
		if ref < 0 {
			sb.WriteByte('$')
			continue
		}
		if text, ok := group(ref); ok {
			sb.WriteString(text)
		}
	}
}

// parseReference parses the reference at the start of tmpl, which begins
// with '$'. It returns the group number, or -1 for $$, and the text after
// the reference. ok is false when no reference starts there.
func parseReference(tmpl string, re *Regexp) (group int, rest string, ok bool) {
	if len(tmpl) < 2 {
		return 0, "", false
	}
	switch c := tmpl[1]; {
	case c == '$':
		return -1, tmpl[2:], true
	case isDigit(c):
		// take digits while the number names an existing group
		n, i := int(c-'0'), 2
		for i < len(tmpl) && isDigit(tmpl[i]) {
			next := n*10 + int(tmpl[i]-'0')
			if next > re.NumSubexp() {
				break
			}
			n, i = next, i+1
		}
		return n, tmpl[i:], true
	case c == '{':
		end := strings.IndexByte(tmpl, '}')
		if end < 0 {
			return 0, "", false
		}
		name := tmpl[2:end]
		if name == "" {
			return 0, "", false
		}
		if n, ok := atoi(name); ok {
			return n, tmpl[end+1:], true
		}
		if !isName(name) {
			return 0, "", false
		}
		n := re.SubexpIndex(name)
		if n < 0 {
			n = re.NumSubexp() + 1
		}
		return n, tmpl[end+1:], true
	}
	return 0, "", false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func atoi(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) || n > 1e6 {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

func isName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && !isDigit(c) && (c|0x20 < 'a' || c|0x20 > 'z') {
			return false
		}
	}
	return true
}
