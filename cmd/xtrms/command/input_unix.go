//go:build unix

package command

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// readInput returns the contents of a file and a function releasing them.
// Regular files are memory mapped read-only.
func readInput(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := fi.Size()
	if !fi.Mode().IsRegular() || size == 0 {
		data, err := io.ReadAll(f)
		return data, noRelease, err
	}
	if int64(int(size)) != size {
		return nil, nil, fmt.Errorf("%s: file too large to map", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}

func noRelease() error { return nil }
