package meta

import (
	"github.com/ndwade/xtrms/dfa"
	"github.com/ndwade/xtrms/nfa"
)

// Engine evaluates one attempt against a Scanner: starting from the init
// status at s.Start(), it leaves the match, if any, in s.Groups() and sets
// the end of input flags.
//
// Engines are immutable and safe for concurrent use; the scratch space of
// an attempt belongs to the Scanner.
type Engine interface {
	Eval(s *nfa.Scanner)
	Style() Style
}

type dfaEngine struct {
	*dfa.Engine
}

func (dfaEngine) Style() Style { return StyleDFA }

type nfaEngine struct {
	*nfa.Engine
}

func (nfaEngine) Style() Style { return StyleNFA }
