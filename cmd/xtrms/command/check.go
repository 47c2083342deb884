package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndwade/xtrms"
	"github.com/ndwade/xtrms/internal/script"
	"github.com/ndwade/xtrms/meta"
)

var Check = &cobra.Command{
	Use:   "check <file.xt>...",
	Short: "Run match scenario files and report the cases that fail.",
	Long: "Each case of a scenario file has the form\n\n" +
		"    find \"pattern\" [flags] in \"text\" expect (0,3)(?,?), (4,4)(4,4)\n\n" +
		"and passes when the pattern finds exactly the listed matches in the text.\n" +
		"The engine style comes from --style; the compile flags come from the case.",
	Args: cobra.MinimumNArgs(1),
	RunE: commandCheck,
}

func commandCheck(cmd *cobra.Command, args []string) error {
	config, err := engineConfig()
	if err != nil {
		return err
	}
	run := func(c *script.Case) (script.Outcome, error) {
		return runCase(c, config)
	}

	var cases, failed int
	for _, path := range args {
		s, err := parseScript(path)
		if err != nil {
			return err
		}
		failures := s.Run(run)
		for _, f := range failures {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		slog.Debug("scenario file checked", "file", path, "cases", len(s.Cases), "failed", len(failures))
		cases += len(s.Cases)
		failed += len(failures)
	}
	if failed > 0 {
		return fmt.Errorf("check: %d of %d cases failed", failed, cases)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d cases\n", cases)
	return nil
}

func parseScript(path string) (*script.Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return script.Parse(path, f)
}

// runCase finds every match of a case, recording the end flags after the
// first search.
func runCase(c *script.Case, config meta.Config) (script.Outcome, error) {
	flags, err := xtrms.ParseFlags(c.Flags...)
	if err != nil {
		return script.Outcome{}, err
	}
	re, err := xtrms.CompileWithConfig(c.Pattern, flags, config)
	if err != nil {
		return script.Outcome{}, err
	}
	var out script.Outcome
	m := re.Matcher([]byte(c.Text))
	first := true
	for m.Find() {
		if first {
			out.HitEnd, out.RequireEnd = m.HitEnd(), m.RequireEnd()
			first = false
		}
		out.Matches = append(out.Matches, m.Result())
	}
	if first {
		out.HitEnd, out.RequireEnd = m.HitEnd(), m.RequireEnd()
	}
	return out, nil
}

func init() {
	Root.AddCommand(Check)
}
