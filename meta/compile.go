package meta

import (
	"errors"
	"log/slog"

	"github.com/ndwade/xtrms/dfa"
	"github.com/ndwade/xtrms/literal"
	"github.com/ndwade/xtrms/nfa"
	"github.com/ndwade/xtrms/prefilter"
	"github.com/ndwade/xtrms/syntax"
)

// Program is a compiled pattern: its NFA, the engine selected to evaluate
// it and an optional prefilter. It is immutable and safe for concurrent
// use.
type Program struct {
	nfa       *nfa.NFA
	dfa       *dfa.DFA
	engine    Engine
	prefilter prefilter.Prefilter
	prefixes  *literal.Seq
}

// NFA returns the tagged NFA of the pattern.
func (p *Program) NFA() *nfa.NFA { return p.nfa }

// DFA returns the DFA the engine walks, or nil when the style is not
// StyleDFA.
func (p *Program) DFA() *dfa.DFA { return p.dfa }

// Engine returns the selected engine.
func (p *Program) Engine() Engine { return p.engine }

// Style returns the style of the selected engine.
func (p *Program) Style() Style { return p.engine.Style() }

// Prefilter returns the prefilter, or nil.
func (p *Program) Prefilter() prefilter.Prefilter { return p.prefilter }

// Prefixes returns the literals every match begins with. The sequence is
// empty when there is no such set.
func (p *Program) Prefixes() *literal.Seq { return p.prefixes }

// Compile builds the program of tree.
//
// Steps:
//  1. Compile the tagged NFA and compute its requirements
//  2. Try the styles in preference order (or only config.Style): skip a
//     style lacking a required feature, fall back when the DFA exceeds
//     its state limit
//  3. Extract the required prefixes and build the prefilter
//
// Returns a *ConfigError for an invalid config, and the *CapabilityError
// of the last style tried when no style can evaluate the pattern.
func Compile(tree *syntax.Tree, config Config) (*Program, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log := config.logger()

	n := nfa.NewCompiler(nfa.CompilerConfig{LeftmostLongest: config.LeftmostLongest}).Compile(tree)
	req := n.Requirements()
	log.Debug("nfa compiled", "states", len(n.States()), "requirements", req.String())

	styles := Styles
	if config.Style != StyleDynamic {
		styles = []Style{config.Style}
	}

	p := &Program{nfa: n}
	var lastErr error
	for _, style := range styles {
		if _, err := Select(req, style); err != nil {
			log.Debug("engine style rejected", "style", style.String(), "reason", err)
			lastErr = err
			continue
		}
		engine, d, err := build(style, n, config)
		if err != nil {
			log.Debug("engine construction failed", "style", style.String(), "err", err)
			lastErr = err
			if errors.Is(err, dfa.ErrStateLimitExceeded) {
				continue
			}
			return nil, err
		}
		p.engine, p.dfa = engine, d
		break
	}
	if p.engine == nil {
		return nil, lastErr
	}
	log.Debug("engine style selected", "style", p.engine.Style().String())

	p.prefixes = literal.NewSeq()
	if config.EnablePrefilter {
		p.buildPrefilter(tree, config, log)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(tree *syntax.Tree, config Config) *Program {
	p, err := Compile(tree, config)
	if err != nil {
		panic("meta: Compile: " + err.Error())
	}
	return p
}

func build(style Style, n *nfa.NFA, config Config) (Engine, *dfa.DFA, error) {
	switch style {
	case StyleDFA:
		d, err := dfa.New(n, dfa.DefaultConfig().WithMaxStates(config.MaxDFAStates))
		if err != nil {
			return nil, nil, err
		}
		return dfaEngine{dfa.NewEngine(d)}, d, nil
	case StyleNFA:
		return nfaEngine{nfa.NewEngine(n)}, nil, nil
	default:
		return nil, nil, &CapabilityError{Style: style, Missing: n.Requirements()}
	}
}

func (p *Program) buildPrefilter(tree *syntax.Tree, config Config, log *slog.Logger) {
	ec := literal.DefaultConfig()
	ec.MaxLiterals = config.MaxLiterals
	p.prefixes = literal.New(ec).ExtractPrefixes(tree.Root)
	pf, err := prefilter.Build(p.prefixes)
	if err != nil {
		log.Debug("prefilter construction failed", "err", err)
		return
	}
	if pf != nil {
		log.Debug("prefilter built", "prefilter", pf.String(), "heapBytes", pf.HeapBytes())
	}
	p.prefilter = pf
}
