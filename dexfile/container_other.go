//go:build !unix

package dexfile

import (
	"fmt"
	"os"
)

// FileContainer is the non-unix fallback: golang.org/x/sys/unix's mmap
// wrapper only covers unix targets, so on other GOOS values (Windows,
// wasm, plan9) this reads the whole file into memory once and never
// touches it again.
type FileContainer struct {
	data []byte
}

// OpenFile reads path fully and returns a Container over its contents.
func OpenFile(path string) (*FileContainer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dexfile: opening %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("dexfile: %s: %w", path, ErrOutOfBounds)
	}
	return &FileContainer{data: data}, nil
}

func (c *FileContainer) Bytes() []byte { return c.data }
func (c *FileContainer) Close() error  { c.data = nil; return nil }
