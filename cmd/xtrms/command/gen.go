package command

import (
	"bytes"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ndwade/xtrms/dfa"
)

var (
	genArgs = struct {
		Package string
		Func    string
	}{
		Package: "main",
		Func:    "Match",
	}

	Gen = &cobra.Command{
		Use:   "gen <pattern>",
		Short: "Write Go source matching a pattern with a precomputed DFA table.",
		Long: "Writes a Go file to standard output holding the DFA transition table of the pattern and a function\n\n" +
			"    func F(b []byte) int\n\n" +
			"returning the end of the longest match anchored at the start of b, or -1.\n" +
			"Patterns that need capture groups or \\b cannot be generated.",
		Example: "xtrms gen --package lexer --func MatchNumber '[0-9]+(\\.[0-9]+)?' > number.go",
		Args:    cobra.ExactArgs(1),
		RunE:    commandGen,
	}
)

func commandGen(cmd *cobra.Command, args []string) error {
	re, err := compile(args[0])
	if err != nil {
		return err
	}
	if re.NumSubexp() > 0 {
		return errors.New("gen: capture groups cannot be generated; use (?:...)")
	}
	d, err := longestDFA(re)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dfa.Generate(&buf, d, dfa.GenerateOptions{
		Package: genArgs.Package,
		Func:    genArgs.Func,
		Pattern: args[0],
	}); err != nil {
		return err
	}
	_, err = buf.WriteTo(cmd.OutOrStdout())
	return err
}

func init() {
	Gen.Flags().StringVar(&genArgs.Package, "package", genArgs.Package, "package clause of the generated file")
	Gen.Flags().StringVar(&genArgs.Func, "func", genArgs.Func, "name of the generated function")

	Root.AddCommand(Gen)
}
