package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ErrNotFound is returned when the root path does not exist or is not a
// directory. It is the only fatal error a walk can produce; everything else
// degrades to a Warning.
var ErrNotFound = errors.New("root path not found")

// DefaultMaxDepth bounds directory enumeration when the caller does not ask
// for something else.
const DefaultMaxDepth = 3

// binaryProbeSize is how many leading bytes are checked for a NUL byte to
// classify a file as binary. Binary files count toward file totals but never
// toward line totals; each skip is recorded as a warning.
const binaryProbeSize = 8 * 1024

// DefaultExcludes are directory names that are never descended into:
// version control metadata, dependency caches, virtual environments and
// build output.
var DefaultExcludes = map[string]bool{
	".git":             true,
	".hg":              true,
	".svn":             true,
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"__pycache__":      true,
	".venv":            true,
	"venv":             true,
	".tox":             true,
	".pytest_cache":    true,
	".mypy_cache":      true,
	"dist":             true,
	"build":            true,
	"target":           true,
	".next":            true,
	".nuxt":            true,
	".cache":           true,
	".gradle":          true,
	".idea":            true,
	".vscode":          true,
	"Pods":             true,
	"DerivedData":      true,
	"coverage":         true,
}

// keptDotfiles are hidden entries that stay visible even without
// IncludeHidden, because manifest and config detection depends on them.
var keptDotfiles = map[string]bool{
	".gitignore":     true,
	".gitattributes": true,
	".dockerignore":  true,
	".github":        true,
	".gitlab-ci.yml": true,
	".travis.yml":    true,
	".flake8":        true,
}

var keptDotPrefixes = []string{".env", ".eslintrc", ".prettierrc"}

// WalkOptions configure a single walk. The zero value means: root only
// (MaxDepth 0; negative selects DefaultMaxDepth), default excludes, hidden
// entries skipped, no gitignore.
type WalkOptions struct {
	// MaxDepth limits directory enumeration. 0 enumerates no children of the
	// root, but aggregate stats for files directly under the root are still
	// computed. Negative means DefaultMaxDepth.
	MaxDepth int
	// ExcludeNames replaces DefaultExcludes when non-nil.
	ExcludeNames map[string]bool
	// IncludeHidden also visits dot-entries beyond the kept set.
	IncludeHidden bool
	// Ignore, when set, filters entries matching the root .gitignore.
	Ignore *ignore.GitIgnore
}

// LoadGitignore compiles the root .gitignore if one exists, nil otherwise.
func LoadGitignore(root string) *ignore.GitIgnore {
	p := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(p); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(p)
	if err != nil {
		return nil
	}
	return gi
}

// walker carries per-walk state. The visited set holds canonical
// (symlink-resolved) directory paths and is what guarantees termination on
// cyclic symlinks; it is local to one walk, never shared between passes.
type walker struct {
	opts     WalkOptions
	excludes map[string]bool
	visited  map[string]bool
	warnings []Warning
}

// Walk builds the TreeNode tree for root. It is a pure read: unreadable
// entries and symlink cycles become warnings, never errors. The only error
// condition is an invalid root.
func Walk(root string, opts WalkOptions) (*TreeNode, []Warning, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}

	if opts.MaxDepth < 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	excludes := opts.ExcludeNames
	if excludes == nil {
		excludes = DefaultExcludes
	}

	w := &walker{
		opts:     opts,
		excludes: excludes,
		visited:  map[string]bool{},
	}

	node := &TreeNode{Name: filepath.Base(absRoot), Path: ".", Kind: KindDirectory}
	canon := canonical(absRoot)
	w.visited[canon] = true
	w.walkDir(node, absRoot, 0)
	return node, w.warnings, nil
}

// walkDir fills in node's children and aggregates. depth is the directory's
// own depth (root = 0). Children are enumerated while depth < MaxDepth; at
// the boundary only the directory's immediate files contribute aggregates,
// so a depth-limited tree still reports correct counts for what it shows.
func (w *walker) walkDir(node *TreeNode, dir string, depth int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.warn("walk", node.Path, ReasonInaccessible)
		return
	}

	// Directories first, then files, both ascending by name. This ordering
	// is part of the output contract.
	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return entries[i].Name() < entries[j].Name()
	})

	emit := depth < w.opts.MaxDepth

	for _, entry := range entries {
		name := entry.Name()
		if w.skipName(name) {
			continue
		}
		rel := childPath(node.Path, name)
		full := filepath.Join(dir, name)

		// os.Stat follows symlinks so a link to a directory is treated as
		// a directory; broken links surface as inaccessible.
		info, err := os.Stat(full)
		if err != nil {
			w.warn("walk", rel, ReasonInaccessible)
			continue
		}

		if w.ignored(rel, info.IsDir()) {
			continue
		}

		if info.IsDir() {
			if !emit {
				continue
			}
			canon := canonical(full)
			if w.visited[canon] {
				w.warn("walk", rel, ReasonCycleSkip)
				continue
			}
			w.visited[canon] = true

			child := &TreeNode{Name: name, Path: rel, Kind: KindDirectory}
			w.walkDir(child, full, depth+1)
			node.Children = append(node.Children, child)
			node.TotalFiles += child.TotalFiles
			node.TotalLines += child.TotalLines
			node.Size += child.Size
			continue
		}

		child := &TreeNode{
			Name:       name,
			Path:       rel,
			Kind:       KindFile,
			Size:       info.Size(),
			TotalFiles: 1,
		}
		child.Lines = w.countLines(full, rel)
		child.TotalLines = child.Lines
		if emit {
			node.Children = append(node.Children, child)
		}
		node.TotalFiles++
		node.TotalLines += child.TotalLines
		node.Size += child.Size
	}
}

// skipName applies name-based exclusion: the exclude set and, unless
// IncludeHidden is set, dot-entries outside the kept list.
func (w *walker) skipName(name string) bool {
	if w.excludes[name] {
		return true
	}
	if w.opts.IncludeHidden || !strings.HasPrefix(name, ".") {
		return false
	}
	if keptDotfiles[name] {
		return false
	}
	for _, p := range keptDotPrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}

func (w *walker) ignored(rel string, isDir bool) bool {
	if w.opts.Ignore == nil {
		return false
	}
	if w.opts.Ignore.MatchesPath(rel) {
		return true
	}
	// gitignore directory patterns like "build/" only match with the slash
	if isDir && w.opts.Ignore.MatchesPath(rel+"/") {
		return true
	}
	return false
}

// countLines returns the line count for a text file and 0 for binary or
// unreadable files. Unreadable files are recorded as inaccessible, binary
// files as binary-skip.
func (w *walker) countLines(full, rel string) int {
	b, err := os.ReadFile(full)
	if err != nil {
		w.warn("walk", rel, ReasonInaccessible)
		return 0
	}
	probe := b
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		w.warn("walk", rel, ReasonBinarySkip)
		return 0
	}
	if len(b) == 0 {
		return 0
	}
	n := bytes.Count(b, []byte{'\n'})
	if b[len(b)-1] != '\n' {
		n++
	}
	return n
}

func (w *walker) warn(stage, rel, reason string) {
	w.warnings = append(w.warnings, Warning{Stage: stage, Path: rel, Reason: reason})
}

func canonical(p string) string {
	if c, err := filepath.EvalSymlinks(p); err == nil {
		return c
	}
	return p
}

func childPath(parent, name string) string {
	if parent == "." {
		return name
	}
	return path.Join(parent, name)
}
