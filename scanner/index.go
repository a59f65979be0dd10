package scanner

import (
	"path/filepath"
	"sort"
	"strings"
)

// largeTreeFiles is the size past which manifest lookup is bounded to two
// directory levels below the root, so a huge monorepo does not turn manifest
// collection into a full-tree scan.
const largeTreeFiles = 2000

// Index is a flattened, read-only view over a walked tree: every file path
// in lexicographic order plus a basename lookup. Passes share it instead of
// re-walking the tree.
type Index struct {
	Root   string
	Paths  []string             // all file paths, sorted ascending
	Nodes  map[string]*TreeNode // path -> file node
	byName map[string][]string  // basename -> paths, shallow first

	files int
}

// NewIndex flattens tree into an Index. Root is the absolute root the tree
// was walked from, used by callers to read file contents.
func NewIndex(root string, tree *TreeNode) *Index {
	ix := &Index{
		Root:   root,
		Nodes:  map[string]*TreeNode{},
		byName: map[string][]string{},
	}
	tree.WalkFiles(func(f *TreeNode) {
		ix.Paths = append(ix.Paths, f.Path)
		ix.Nodes[f.Path] = f
		ix.byName[f.Name] = append(ix.byName[f.Name], f.Path)
		ix.files++
	})
	sort.Strings(ix.Paths)
	for name := range ix.byName {
		paths := ix.byName[name]
		sort.Slice(paths, func(i, j int) bool {
			di, dj := Depth(paths[i]), Depth(paths[j])
			if di != dj {
				return di < dj
			}
			return paths[i] < paths[j]
		})
	}
	return ix
}

// Lookup returns the paths of files with the given basename, shallowest
// first. On large trees results are bounded to two levels below the root.
func (ix *Index) Lookup(name string) []string {
	paths := ix.byName[name]
	if ix.files <= largeTreeFiles {
		return paths
	}
	var bounded []string
	for _, p := range paths {
		if Depth(p) <= 2 {
			bounded = append(bounded, p)
		}
	}
	return bounded
}

// Has reports whether a file with the given basename exists (same bound as
// Lookup).
func (ix *Index) Has(name string) bool { return len(ix.Lookup(name)) > 0 }

// Abs converts a root-relative path from the index into a filesystem path.
func (ix *Index) Abs(rel string) string {
	return filepath.Join(ix.Root, filepath.FromSlash(rel))
}

// Depth counts the directory levels of a root-relative path; a file at the
// root has depth 0.
func Depth(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(rel, "/")
}
