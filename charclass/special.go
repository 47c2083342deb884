package charclass

import (
	"math"
	"strings"
	"unicode"
)

// Pseudo-characters. They are negative so they can never collide with
// decoded input.
const (
	EOF     rune = -1
	accept  rune = -'#'
	bigZed  rune = -'Z'
	epsilon rune = -'e'
)

// InitFlags describes the boundary conditions that hold at the offset where
// an evaluation starts. An engine's first input symbol is the init status
// InitStatus(flags) instead of a real character, so boundary checks that
// only depend on the start offset become ordinary class membership tests.
type InitFlags uint8

const (
	// FlagBOF: the evaluation starts at the beginning of the region (\A).
	FlagBOF InitFlags = 1 << iota
	// FlagBOL: the evaluation starts at the beginning of a line (^).
	FlagBOL
	// FlagMatch: the evaluation starts where the previous match ended (\G).
	FlagMatch
	// FlagWordB: the start offset is a word boundary (\b).
	FlagWordB
	// FlagWordNB: the start offset is not a word boundary (\B).
	FlagWordNB
	// FlagLoop: the engine is asked to run its own search loop.
	FlagLoop

	numInitFlags   = 6
	maxInitCombos  = 1 << numInitFlags
	initStatusBase = rune(math.MinInt32)
)

var initFlagGlyphs = [numInitFlags]byte{'A', '^', 'G', 'b', 'B', 'L'}

// InitStatus returns the pseudo-character encoding flags.
func InitStatus(flags InitFlags) rune {
	return initStatusBase | rune(flags)
}

// IsInitStatus reports whether r is an init status pseudo-character.
func IsInitStatus(r rune) bool {
	return r >= initStatusBase && r < initStatusBase+maxInitCombos
}

// String returns the flag glyphs, e.g. "A^b".
func (f InitFlags) String() string {
	var sb strings.Builder
	for i := 0; i < numInitFlags; i++ {
		if f&(1<<i) != 0 {
			sb.WriteByte(initFlagGlyphs[i])
		}
	}
	return sb.String()
}

// initAnchor returns the class of every init status with flag set.
func initAnchor(flag InitFlags, name string) *CharClass {
	b := NewBuilder()
	for f := 0; f < maxInitCombos; f++ {
		if InitFlags(f)&flag != 0 {
			b.AddRune(InitStatus(InitFlags(f)))
		}
	}
	return named(b.Build(), name)
}

// Ordinary classes.
var (
	Empty = &CharClass{}

	// DotAll is every ordinary code point.
	DotAll = named(New(Interval{0, unicode.MaxRune}), "(?s:.)")

	// LSUnix is the Unix line terminator.
	LSUnix = Rune('\n')

	// LSUnicode is every Unicode line terminator.
	LSUnicode = Runes('\n', '\r', '\u0085', '\u2028', '\u2029')

	// Word is the ASCII word class used by \b and \B.
	Word = named(New(Interval{'0', '9'}, Interval{'A', 'Z'}, Interval{'_', '_'}, Interval{'a', 'z'}), `\w`)

	// NWord is every ordinary non-word code point.
	NWord = named(Word.Complement(), `\W`)
)

// Special classes. The anchor classes double as dynamic boundary markers
// in syntax trees.
var (
	EOFClass      = named(Rune(EOF), `\z`)
	Accept        = named(Rune(accept), "_#_")
	Epsilon       = named(Rune(epsilon), "_epsilon_")
	BigZed        = named(Rune(bigZed), `\Z`)
	Omega         = named(EOFClass.Union(DotAll), "_omega_")
	DollarUnix    = named(EOFClass.Union(LSUnix), "$")
	DollarUnicode = named(EOFClass.Union(LSUnicode), "$u")

	// NWordEOF is every non-word code point plus end of input.
	NWordEOF = named(NWord.Union(EOFClass), `(?:\W|\z)`)

	BOF    = initAnchor(FlagBOF, `\A`)
	Caret  = initAnchor(FlagBOL, "^")
	Match  = initAnchor(FlagMatch, `\G`)
	WordB  = initAnchor(FlagWordB, `\b`)
	WordNB = initAnchor(FlagWordNB, `\B`)
	Loop   = initAnchor(FlagLoop, `\L`)

	// AllInit is every init status.
	AllInit = named(New(Interval{initStatusBase, initStatusBase + maxInitCombos - 1}), "_init_")
)

var specialNames = map[rune]string{
	EOF:     `\z`,
	accept:  "_#_",
	bigZed:  `\Z`,
	epsilon: "_epsilon_",
}

func pseudoName(r rune) string {
	if IsInitStatus(r) {
		return "<" + InitFlags(r-initStatusBase).String() + ">"
	}
	if n, ok := specialNames[r]; ok {
		return n
	}
	return "<?>"
}

var namedSpecials = []*CharClass{
	EOFClass, Accept, Epsilon, BigZed, Omega, DollarUnix, DollarUnicode,
	BOF, Caret, Match, WordB, WordNB, Loop, AllInit, DotAll,
}

func specialName(c *CharClass) string {
	for _, s := range namedSpecials {
		if c.Equal(s) {
			return s.name
		}
	}
	return ""
}
