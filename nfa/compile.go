package nfa

import (
	"github.com/ndwade/xtrms/syntax"
)

// CompilerConfig configures NFA construction.
type CompilerConfig struct {
	// LeftmostLongest builds the NFA for leftmost-longest matching. The
	// automaton is the same; only the reported requirements differ, so an
	// engine without leftmost-first prioritization may be selected.
	LeftmostLongest bool
}

// DefaultCompilerConfig returns a configuration for leftmost-first matching.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{}
}

// Compiler builds tagged NFAs from syntax trees.
type Compiler struct {
	config CompilerConfig
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile builds the NFA of tree.
//
// The tree is augmented with capture group 0 and the omega and accept
// positions, then:
//
//  1. pass one computes firstpos, lastpos and the empty match attributes;
//  2. pass two computes followpos;
//  3. anchor states are collapsed into checks on arcs;
//  4. the init state is split into alpha states by init status;
//  5. checks before omega are turned into synthetic states where possible.
//
// The tree is not modified. Compile panics with a *BuildError if tree is
// reconvergent.
func (c *Compiler) Compile(tree *syntax.Tree) *NFA {
	root := augment(tree.Root)

	b := newBuilder(tree.NumGroups + 1)
	b.positions(root)
	b.entry(root)
	b.follows(root)
	b.freeze()
	b.collapse()
	alpha := b.splitAlpha()
	b.convertStatic(alpha)

	if b.omega == InvalidState || b.accept == InvalidState {
		invariant(ErrMissingSentinel, InvalidState, "augmented tree")
	}

	order := b.order(alpha)
	n := &NFA{
		states:       make(map[StateID]*State, len(order)),
		order:        make([]*State, len(order)),
		omega:        b.omega,
		accept:       b.accept,
		loop:         b.loop.id,
		ngroups:      tree.NumGroups + 1,
		names:        tree.Names,
		longest:      c.config.LeftmostLongest,
		requirements: b.requirements(order, c.config.LeftmostLongest),
	}
	for i, bs := range order {
		s := &State{ID: bs.id, Class: bs.cc, Arcs: bs.arcs}
		n.states[s.ID] = s
		n.order[i] = s
	}
	for _, s := range alpha {
		n.alpha = append(n.alpha, s.id)
	}
	return n
}

// Compile builds the NFA of tree with the default configuration.
func Compile(tree *syntax.Tree) *NFA {
	return NewDefaultCompiler().Compile(tree)
}
