package xtrms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceAllString(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		tmpl    string
		want    string
	}{
		{"literal", `\d+`, "age: 42", "XX", "age: XX"},
		{"every match", `\d+`, "1 2 3", "<$0>", "<1> <2> <3>"},
		{"no match", `\d+`, "abc", "X", "abc"},
		{"swap groups", `(\w+)@(\w+)`, "a@b c@d", "$2@$1", "b@a d@c"},
		{"braced number", `(\w+)`, "ab", "${1}x", "abx"},
		{"named", `(?P<first>\w+) (?P<last>\w+)`, "Ada Lovelace", "${last}, ${first}", "Lovelace, Ada"},
		{"dollar escape", `\d+`, "cost 5", "$$$0", "cost $5"},
		{"missing group", `(a)`, "a", "[$2]", "[]"},
		{"missing name", `(a)`, "a", "[${nope}]", "[]"},
		{"unmatched group", `(a)|(b)`, "b", "[$1|$2]", "[|b]"},
		{"dollar at end", `a`, "a", "x$", "x$"},
		{"unterminated brace", `a`, "a", "${1", "${1"},
		{"dollar before letter", `a`, "a", "$x", "$x"},
		{"empty braces", `a`, "a", "${}", "${}"},
		{"empty matches", `x*`, "abc", "-", "-a-b-c-"},
		{"unicode", `\x{e9}`, "caf\u00e9", "e", "cafe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern, 0)
			assert.Equal(t, tt.want, re.ReplaceAllString(tt.input, tt.tmpl))
		})
	}
}

func TestReplaceMultiDigitGroups(t *testing.T) {
	re := MustCompile(`(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)(k)`, 0)
	const input = "abcdefghijk"
	assert.Equal(t, "k", re.ReplaceAllString(input, "$11"))
	// $12 names no group: $1 followed by "2"
	assert.Equal(t, "a2", re.ReplaceAllString(input, "$12"))
	assert.Equal(t, "a1", re.ReplaceAllString(input, "${1}1"))
}

func TestReplaceFirstString(t *testing.T) {
	re := MustCompile(`o+`, 0)
	assert.Equal(t, "f0 boo", re.ReplaceFirstString("foo boo", "0"))
	assert.Equal(t, "bar", re.ReplaceFirstString("bar", "0"))
}

func TestAppendReplacement(t *testing.T) {
	m := MustCompile(`cat`, 0).Matcher([]byte("one cat two cats in the yard"))
	var sb strings.Builder
	for m.Find() {
		m.AppendReplacement(&sb, "dog")
	}
	m.AppendTail(&sb)
	assert.Equal(t, "one dog two dogs in the yard", sb.String())

	// replace only the matches that pass a test
	m = MustCompile(`\d+`, 0).Matcher([]byte("1 22 333 4444"))
	sb.Reset()
	for m.Find() {
		if len(m.Group(0))%2 == 0 {
			m.AppendReplacement(&sb, "<$0>")
		}
	}
	m.AppendTail(&sb)
	assert.Equal(t, "1 <22> 333 <4444>", sb.String())

	m = MustCompile(`x`, 0).Matcher([]byte("abc"))
	assert.Panics(t, func() { m.AppendReplacement(&sb, "y") })
}

func TestMatcherReplaceResets(t *testing.T) {
	m := MustCompile(`b`, 0).Matcher([]byte("abab"))
	m.Find()
	m.Find()
	assert.Equal(t, "aBaB", m.ReplaceAll("B"))
	assert.Equal(t, "aBab", m.ReplaceFirst("B"))
}
