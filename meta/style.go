package meta

import (
	"fmt"
	"strings"

	"github.com/ndwade/xtrms/nfa"
)

// Style names an engine implementation.
type Style uint8

const (
	// StyleDynamic is not an engine: it asks Compile to try every style in
	// preference order.
	StyleDynamic Style = iota

	// StyleDFA walks a subset-construction table. It handles boundary
	// checks only on the find loop seam, has no capture groups and reports
	// leftmost-longest matches.
	StyleDFA

	// StyleNFA simulates the tagged NFA strand by strand.
	StyleNFA
)

// Styles lists the engine styles in preference order.
var Styles = []Style{StyleDFA, StyleNFA}

func (s Style) String() string {
	switch s {
	case StyleDynamic:
		return "dynamic"
	case StyleDFA:
		return "dfa"
	case StyleNFA:
		return "nfa"
	default:
		return fmt.Sprintf("Style(%d)", uint8(s))
	}
}

// ParseStyle returns the style named name, ignoring case.
func ParseStyle(name string) (Style, error) {
	for _, s := range []Style{StyleDynamic, StyleDFA, StyleNFA} {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("meta: unknown engine style %q", name)
}

// Capabilities returns the features the style provides. StyleDynamic
// provides every feature some style provides.
func (s Style) Capabilities() nfa.Features {
	switch s {
	case StyleDFA:
		return nfa.LoopDBC
	case StyleNFA:
		return nfa.CapturingGroups | nfa.DynamicBoundaries | nfa.ReluctantQuantifiers |
			nfa.FindLoop | nfa.LoopDBC | nfa.LeftmostFirst
	case StyleDynamic:
		return StyleDFA.Capabilities() | StyleNFA.Capabilities()
	default:
		return 0
	}
}

// CapabilityError reports that a style lacks features a pattern requires.
type CapabilityError struct {
	Style   Style
	Missing nfa.Features
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("meta: engine style %v is missing required features %v", e.Style, e.Missing)
}

// Select returns the first of styles whose capabilities cover required.
// When none does, the error describes the last style tried.
func Select(required nfa.Features, styles ...Style) (Style, error) {
	err := &CapabilityError{Style: StyleDynamic, Missing: required}
	for _, s := range styles {
		missing := s.Capabilities().Missing(required)
		if missing == 0 {
			return s, nil
		}
		err = &CapabilityError{Style: s, Missing: missing}
	}
	return 0, err
}
