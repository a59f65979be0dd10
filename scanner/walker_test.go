package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkAggregates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc A() {}\n")
	writeFile(t, root, "sub/b.go", "package b\n")
	writeFile(t, root, "sub/deep/c.txt", "one\ntwo")

	tree, warnings, err := Walk(root, WalkOptions{MaxDepth: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if tree.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", tree.TotalFiles)
	}
	// 3 + 1 + 2 lines; "one\ntwo" has no trailing newline but still 2 lines
	if tree.TotalLines != 6 {
		t.Errorf("TotalLines = %d, want 6", tree.TotalLines)
	}
	checkAggregateInvariant(t, tree)
}

// checkAggregateInvariant verifies a directory's totals equal the sum over
// its children, recursively.
func checkAggregateInvariant(t *testing.T, node *TreeNode) {
	t.Helper()
	if !node.IsDir() {
		if node.TotalFiles != 1 || node.TotalLines != node.Lines {
			t.Errorf("%s: leaf aggregates files=%d lines=%d self=%d", node.Path, node.TotalFiles, node.TotalLines, node.Lines)
		}
		return
	}
	files, lines := 0, 0
	for _, c := range node.Children {
		checkAggregateInvariant(t, c)
		files += c.TotalFiles
		lines += c.TotalLines
	}
	if node.TotalFiles != files || node.TotalLines != lines {
		t.Errorf("%s: aggregates files=%d lines=%d, children sum files=%d lines=%d",
			node.Path, node.TotalFiles, node.TotalLines, files, lines)
	}
}

func TestWalkChildOrdering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zz.txt", "x\n")
	writeFile(t, root, "aa.txt", "x\n")
	writeFile(t, root, "beta/f.txt", "x\n")
	writeFile(t, root, "alpha/f.txt", "x\n")

	tree, _, err := Walk(root, WalkOptions{MaxDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "beta", "aa.txt", "zz.txt"}
	if len(tree.Children) != len(want) {
		t.Fatalf("children = %d, want %d", len(tree.Children), len(want))
	}
	for i, name := range want {
		if tree.Children[i].Name != name {
			t.Errorf("child[%d] = %s, want %s", i, tree.Children[i].Name, name)
		}
	}
}

func TestWalkMaxDepthZero(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "top.txt", "a\nb\n")
	writeFile(t, root, "sub/inner.txt", "c\n")

	tree, _, err := Walk(root, WalkOptions{MaxDepth: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("children = %d, want 0 at depth 0", len(tree.Children))
	}
	// direct files still counted; the unexpanded subdirectory is not
	if tree.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", tree.TotalFiles)
	}
	if tree.TotalLines != 2 {
		t.Errorf("TotalLines = %d, want 2", tree.TotalLines)
	}
}

func TestWalkExcludesAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/index.js", "x\n")
	writeFile(t, root, ".secret/key", "x\n")
	writeFile(t, root, ".gitignore", "dist/\n")
	writeFile(t, root, "main.go", "package main\n")

	tree, _, err := Walk(root, WalkOptions{MaxDepth: 3})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, c := range tree.Children {
		names = append(names, c.Name)
	}
	if len(names) != 2 || names[0] != ".gitignore" || names[1] != "main.go" {
		t.Errorf("children = %v, want [.gitignore main.go]", names)
	}
}

func TestWalkGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n*.log\n")
	writeFile(t, root, "generated/out.txt", "x\n")
	writeFile(t, root, "debug.log", "x\n")
	writeFile(t, root, "keep.txt", "x\n")

	tree, _, err := Walk(root, WalkOptions{MaxDepth: 3, Ignore: LoadGitignore(root)})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range tree.Children {
		if c.Name == "generated" || c.Name == "debug.log" {
			t.Errorf("ignored entry %s still present", c.Name)
		}
	}
	if tree.TotalFiles != 2 { // .gitignore + keep.txt
		t.Errorf("TotalFiles = %d, want 2", tree.TotalFiles)
	}
}

func TestWalkSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/f.txt", "x\n")
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tree, warnings, err := Walk(root, WalkOptions{MaxDepth: 10})
	if err != nil {
		t.Fatal(err)
	}
	if tree.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", tree.TotalFiles)
	}
	found := false
	for _, w := range warnings {
		if w.Reason == ReasonCycleSkip && w.Path == "sub/loop" {
			found = true
		}
	}
	if !found {
		t.Errorf("no cycle-skip warning, got %v", warnings)
	}
}

func TestWalkBinaryFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blob.bin", "he\x00llo\nworld\n")
	writeFile(t, root, "text.txt", "hello\n")

	tree, warnings, err := Walk(root, WalkOptions{MaxDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	if tree.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", tree.TotalFiles)
	}
	if tree.TotalLines != 1 {
		t.Errorf("TotalLines = %d, want 1 (binary contributes none)", tree.TotalLines)
	}
	found := false
	for _, w := range warnings {
		if w.Reason == ReasonBinarySkip && w.Path == "blob.bin" {
			found = true
		}
	}
	if !found {
		t.Errorf("no binary-skip warning, got %v", warnings)
	}
}

func TestWalkInvalidRoot(t *testing.T) {
	_, _, err := Walk(filepath.Join(t.TempDir(), "missing"), WalkOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
