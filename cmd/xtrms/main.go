// Command xtrms compiles patterns, matches them against files and dumps
// their automata.
package main

import (
	"os"

	"github.com/ndwade/xtrms/cmd/xtrms/command"
)

func main() {
	if err := command.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
