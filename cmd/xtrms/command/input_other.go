//go:build !unix

package command

import "os"

// readInput returns the contents of a file and a function releasing them.
func readInput(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, noRelease, nil
}

func noRelease() error { return nil }
