package entrypoint

import (
	"os"
	"path/filepath"
	"testing"

	"repoprof/scanner"
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

func buildIndex(t *testing.T, root string) *scanner.Index {
	t.Helper()
	tree, _, err := scanner.Walk(root, scanner.WalkOptions{MaxDepth: 6})
	if err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatal(err)
	}
	return scanner.NewIndex(abs, tree)
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "server.js", "require('express')\n")
	writeFile(t, root, "main.py", "print('hi')\n")
	writeFile(t, root, "src/index.ts", "export {}\n")
	writeFile(t, root, "cmd/tool/main.go", "package main\n")
	writeFile(t, root, "lib/helper.py", "pass\n")

	ix := buildIndex(t, root)
	got := Find(ix, []string{"server.js"})

	want := []struct {
		path  string
		basis string
	}{
		{"server.js", BasisDeclared},
		{"main.py", BasisConvention},
		{"src/index.ts", BasisConvention},
		{"cmd/tool/main.go", BasisConvention},
	}
	if len(got) != len(want) {
		t.Fatalf("candidates = %d, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Path != w.path || got[i].Basis != w.basis {
			t.Errorf("candidate[%d] = %+v, want %s (%s)", i, got[i], w.path, w.basis)
		}
	}
	if got[0].Rank != 0 || got[1].Rank != 1 {
		t.Errorf("ranks = %d, %d; declared must rank 0", got[0].Rank, got[1].Rank)
	}
	if got[3].Language != "Go" {
		t.Errorf("cmd/tool/main.go language = %s, want Go", got[3].Language)
	}
}

func TestFindDropsMissingDeclared(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "print('hi')\n")

	ix := buildIndex(t, root)
	got := Find(ix, []string{"dist/index.js"})
	for _, c := range got {
		if c.Path == "dist/index.js" {
			t.Errorf("nonexistent declared entry reported")
		}
	}
}

func TestFindConfigFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tsconfig.json", "{}\n")
	writeFile(t, root, "Dockerfile", "FROM scratch\n")
	writeFile(t, root, ".github/workflows/ci.yml", "on: push\n")
	writeFile(t, root, "vite.config.ts", "export default {}\n")
	writeFile(t, root, "notes.txt", "x\n")

	ix := buildIndex(t, root)
	got := FindConfigFiles(ix)

	byPath := map[string]string{}
	for _, c := range got {
		byPath[c.Path] = c.Category
	}
	want := map[string]string{
		"tsconfig.json":            "javascript",
		"Dockerfile":               "docker",
		".github/workflows/ci.yml": "ci",
		"vite.config.ts":           "general",
	}
	for p, cat := range want {
		if byPath[p] != cat {
			t.Errorf("%s category = %q, want %q", p, byPath[p], cat)
		}
	}
	if _, ok := byPath["notes.txt"]; ok {
		t.Errorf("notes.txt should not be a config file")
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Path >= got[i].Path {
			t.Errorf("config files not sorted: %s before %s", got[i-1].Path, got[i].Path)
		}
	}
}
