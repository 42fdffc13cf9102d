package osuapi

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// diskCache stores downloaded images under the xxhash of their URL.
// A nil cache never hits and silently drops writes.
type diskCache struct {
	dir string
}

func newDiskCache(dir string) *diskCache {
	if dir == "" {
		return nil
	}
	return &diskCache{dir: dir}
}

func (c *diskCache) path(u string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x", xxhash.Sum64String(u)))
}

func (c *diskCache) get(u string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := os.ReadFile(c.path(u))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// put is best effort; a cache that cannot be written behaves like no cache.
func (c *diskCache) put(u string, data []byte) {
	if c == nil {
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}
	tmp, err := os.CreateTemp(c.dir, ".part-*")
	if err != nil {
		return
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), c.path(u)); err != nil {
		os.Remove(tmp.Name())
	}
}
