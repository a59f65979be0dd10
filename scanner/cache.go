package scanner

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is how many file bodies a Cache retains.
const DefaultCacheSize = 256

// fileKey identifies one version of one file. A change to mtime or size
// invalidates the entry naturally, so stale content is never served.
type fileKey struct {
	path  string
	mtime int64
	size  int64
}

// Cache memoizes manifest and source reads across invocations that share
// it (the MCP server keeps one alive between tool calls). It is always an
// explicit, passed-in object: a nil *Cache is valid and simply reads
// through to the filesystem.
type Cache struct {
	files *lru.Cache[fileKey, []byte]
}

// NewCache creates a Cache holding up to size file bodies; size <= 0 uses
// DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	files, _ := lru.New[fileKey, []byte](size)
	return &Cache{files: files}
}

// ReadFile returns the file's content, from cache when the stat signature
// matches a previous read.
func (c *Cache) ReadFile(path string) ([]byte, error) {
	if c == nil {
		return os.ReadFile(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fileKey{path: path, mtime: info.ModTime().UnixNano(), size: info.Size()}
	if b, ok := c.files.Get(key); ok {
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.files.Add(key, b)
	return b, nil
}

// Len reports how many entries the cache currently holds.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.files.Len()
}
