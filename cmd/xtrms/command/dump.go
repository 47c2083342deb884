package command

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndwade/xtrms"
	"github.com/ndwade/xtrms/dfa"
	"github.com/ndwade/xtrms/meta"
	"github.com/ndwade/xtrms/syntax"
)

var Dump = &cobra.Command{
	Use:   "dump <pattern>",
	Short: "Print the syntax tree, NFA and DFA a pattern compiles to.",
	Long: "Prints a summary of the compiled pattern followed by the forms selected with --tree, --nfa and --dfa, or all of them when none is selected.\n" +
		"The DFA is always the leftmost-longest one; a pattern the DFA cannot evaluate reports why.",
	Args: cobra.ExactArgs(1),
	RunE: commandDump,
}

func commandDump(cmd *cobra.Command, args []string) error {
	re, err := compile(args[0])
	if err != nil {
		return err
	}
	showTree, showNFA, showDFA := boolFlag(cmd.Flags(), "tree"), boolFlag(cmd.Flags(), "nfa"), boolFlag(cmd.Flags(), "dfa")
	if !showTree && !showNFA && !showDFA {
		showTree, showNFA, showDFA = true, true, true
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	defer w.Flush()

	prog := re.Program()
	fmt.Fprintf(w, "pattern: %s\n", re.Tree().Root)
	fmt.Fprintf(w, "flags: %s\n", re.Flags())
	fmt.Fprintf(w, "groups: %d\n", re.NumSubexp())
	fmt.Fprintf(w, "style: %s\n", re.Style())
	fmt.Fprintf(w, "requirements: %s\n", re.Requirements())
	if prog.Prefilter() != nil {
		fmt.Fprintf(w, "prefixes: %s\n", prog.Prefixes())
	}

	if showTree {
		fmt.Fprintf(w, "\ntree:\n%s", syntax.TreeString(re.Tree().Root))
	}
	if showNFA {
		fmt.Fprintf(w, "\nnfa:\n%s", prog.NFA())
	}
	if showDFA {
		d, err := longestDFA(re)
		if err != nil {
			fmt.Fprintf(w, "\ndfa: unavailable: %v\n", err)
		} else {
			fmt.Fprintf(w, "\ndfa (%d states):\n%s", d.StateCount(), d)
		}
	}
	return nil
}

// longestDFA returns the DFA of the leftmost-longest form of re.
func longestDFA(re *xtrms.Regexp) (*dfa.DFA, error) {
	if d := re.Program().DFA(); d != nil {
		return d, nil
	}
	config, err := engineConfig()
	if err != nil {
		return nil, err
	}
	config.Style = meta.StyleDFA
	config.EnablePrefilter = false
	longest, err := xtrms.CompileWithConfig(re.String(), re.Flags()|xtrms.LeftmostLongest, config)
	if err != nil {
		return nil, err
	}
	return longest.Program().DFA(), nil
}

func init() {
	Dump.Flags().Bool("tree", false, "print the syntax tree")
	Dump.Flags().Bool("nfa", false, "print the NFA states")
	Dump.Flags().Bool("dfa", false, "print the DFA states")

	Root.AddCommand(Dump)
}
