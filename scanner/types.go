package scanner

// Node kinds for TreeNode.Kind.
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// TreeNode is one entry in the profiled tree. Directories carry children
// (directories first, then files, each sorted by name) and aggregate counts
// summed over their subtree; files carry their own size and line count.
type TreeNode struct {
	Name       string      `json:"name"`
	Path       string      `json:"path"` // root-relative, forward slashes, "." for the root
	Kind       string      `json:"kind"`
	Size       int64       `json:"size"`
	Lines      int         `json:"lines,omitempty"` // 0 for directories and binary files
	Children   []*TreeNode `json:"children,omitempty"`
	TotalFiles int         `json:"totalFiles"`
	TotalLines int         `json:"totalLines"`
}

// IsDir reports whether the node is a directory.
func (n *TreeNode) IsDir() bool { return n.Kind == KindDirectory }

// WalkFiles visits every file node in the subtree in tree order
// (directories-first sibling order, which keeps visits deterministic).
func (n *TreeNode) WalkFiles(fn func(f *TreeNode)) {
	if n.Kind == KindFile {
		fn(n)
		return
	}
	for _, c := range n.Children {
		c.WalkFiles(fn)
	}
}

// Warning records a non-fatal condition encountered during a pass.
// Warnings never abort a run; they are surfaced on the final report.
type Warning struct {
	Stage  string `json:"stage"`  // walk, manifest, entrypoints, routes
	Path   string `json:"path"`   // root-relative path the condition applies to
	Reason string `json:"reason"` // cycle-skip, inaccessible, parse-degraded, ...
}

// Warning reasons.
const (
	ReasonCycleSkip     = "cycle-skip"
	ReasonInaccessible  = "inaccessible"
	ReasonParseDegraded = "parse-degraded"
	ReasonBinarySkip    = "binary-skip"
)
