package nfa

import "strings"

// Features is a set of evaluation features. An NFA reports the features it
// requires; an engine style advertises the features it provides.
type Features uint16

const (
	// CapturingGroups: the pattern has user capture groups.
	CapturingGroups Features = 1 << iota
	// DynamicBoundaries: some arc carries a boundary check that was not
	// resolved statically.
	DynamicBoundaries
	// ReluctantQuantifiers: the pattern has a non-greedy quantifier.
	ReluctantQuantifiers
	// PossessiveQuantifiers: the pattern has a possessive quantifier.
	PossessiveQuantifiers
	// FindLoop: the engine runs the find loop itself when asked to.
	FindLoop
	// LoopDBC: arcs out of the find loop state carry boundary checks.
	LoopDBC
	// LeftmostFirst: alternatives are prioritized in pattern order.
	LeftmostFirst

	numFeatures = 7
)

var featureNames = [numFeatures]string{
	"CAPTURING_GROUPS",
	"DYNAMIC_BOUNDARIES",
	"RELUCTANT_QUANTIFIERS",
	"POSSESSIVE_QUANTIFIERS",
	"FIND_LOOP",
	"LOOP_DBC",
	"LEFTMOST_FIRST",
}

// Has reports whether every feature in o is in f.
func (f Features) Has(o Features) bool {
	return f&o == o
}

// Missing returns the features of want that f lacks.
func (f Features) Missing(want Features) Features {
	return want &^ f
}

func (f Features) String() string {
	var parts []string
	for i := 0; i < numFeatures; i++ {
		if f&(1<<i) != 0 {
			parts = append(parts, featureNames[i])
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
