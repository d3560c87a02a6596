//go:build unix

package dexfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileContainer maps a DEX file read-only and private, giving the lazy
// accessors an image whose pages are faulted in on demand rather than
// copied up front.
type FileContainer struct {
	data []byte
	f    *os.File
}

// OpenFile mmaps path and returns a Container over its contents.
func OpenFile(path string) (*FileContainer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dexfile: opening %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dexfile: stat %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("dexfile: %s: %w", path, ErrOutOfBounds)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dexfile: mmap %s: %w", path, err)
	}

	return &FileContainer{data: data, f: f}, nil
}

func (c *FileContainer) Bytes() []byte { return c.data }

func (c *FileContainer) Close() error {
	var err error
	if c.data != nil {
		err = unix.Munmap(c.data)
		c.data = nil
	}
	if cerr := c.f.Close(); err == nil {
		err = cerr
	}
	return err
}
