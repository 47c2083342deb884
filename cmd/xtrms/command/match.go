package command

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ndwade/xtrms"
)

var (
	matchArgs = struct {
		Groups bool
		Count  bool
	}{}

	Match = &cobra.Command{
		Use:   "match <pattern> [<file>...]",
		Short: "Print every match of a pattern in files or standard input.",
		Long: "Prints one line per match: the file name, the start and end byte offsets and the matched text, quoted.\n" +
			"Standard input is read as a stream when no file is given.",
		Example: "xtrms match -i 'go+gle' access.log\n" +
			"xtrms match --groups '(\\w+)=(\\d+)' < settings.txt",
		Args: cobra.MinimumNArgs(1),
		RunE: commandMatch,
	}
)

func commandMatch(cmd *cobra.Command, args []string) error {
	re, err := compile(args[0])
	if err != nil {
		return err
	}
	slog.Debug("pattern compiled", "pattern", re.String(), "flags", re.Flags().String(),
		"style", re.Style().String(), "requirements", re.Requirements().String())

	w := bufio.NewWriter(cmd.OutOrStdout())
	defer w.Flush()

	var total int
	if len(args) == 1 {
		total, err = matchStream(w, re, "(stdin)", cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	for _, path := range args[1:] {
		n, err := matchFile(w, re, path)
		if err != nil {
			return err
		}
		total += n
	}
	slog.Info("match finished", "files", max(len(args)-1, 1), "matches", total)
	return nil
}

func matchFile(w io.Writer, re *xtrms.Regexp, path string) (n int, err error) {
	data, release, err := readInput(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	m := re.Matcher(data)
	for m.Find() {
		n++
		if !matchArgs.Count {
			writeMatch(w, path, m.Start(), m.End(), m.GroupCount(), m.Group)
		}
	}
	if matchArgs.Count {
		fmt.Fprintf(w, "%s:%d\n", path, n)
	}
	return n, nil
}

func matchStream(w io.Writer, re *xtrms.Regexp, name string, r io.Reader) (int, error) {
	m := re.StreamMatcher(r)
	n := 0
	for m.FindNext() {
		n++
		if !matchArgs.Count {
			writeMatch(w, name, m.Start(), m.End(), re.NumSubexp(), m.Group)
		}
	}
	if err := m.Err(); err != nil {
		return n, fmt.Errorf("%s: %w", name, err)
	}
	if matchArgs.Count {
		fmt.Fprintf(w, "%s:%d\n", name, n)
	}
	return n, nil
}

func writeMatch(w io.Writer, name string, start, end, ngroups int, group func(int) string) {
	fmt.Fprintf(w, "%s:%d-%d:%q", name, start, end, group(0))
	if matchArgs.Groups {
		for i := 1; i <= ngroups; i++ {
			fmt.Fprintf(w, " %d=%q", i, group(i))
		}
	}
	fmt.Fprintln(w)
}

func init() {
	Match.Flags().BoolVarP(&matchArgs.Groups, "groups", "g", false, "print the capture groups of each match")
	Match.Flags().BoolVarP(&matchArgs.Count, "count", "c", false, "print only the number of matches per input")

	Root.AddCommand(Match)
}
