package profile

import (
	"bytes"
	"context"
	"encoding/json"
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

func fixtureProject(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{
  "name": "demo",
  "main": "src/index.js",
  "dependencies": {"express": "4.18.2"},
  "devDependencies": {"jest": "29.7.0"}
}`)
	writeFile(t, root, "src/index.js", "const app = require('express')()\napp.get('/ping', handler)\n")
	writeFile(t, root, "src/util.js", "module.exports = {}\n")
	writeFile(t, root, "README.md", "# demo\n")
	return root
}

func TestRun(t *testing.T) {
	root := fixtureProject(t)

	report, err := Run(context.Background(), root, Options{MaxDepth: 3})
	if err != nil {
		t.Fatal(err)
	}

	if report.Structure.Stats.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", report.Structure.Stats.TotalFiles)
	}
	if report.Structure.PrimaryLanguage != "JavaScript" {
		t.Errorf("PrimaryLanguage = %s, want JavaScript", report.Structure.PrimaryLanguage)
	}
	if report.TechStack.PackageManager == nil || *report.TechStack.PackageManager != "npm" {
		t.Errorf("packageManager = %v, want npm", report.TechStack.PackageManager)
	}
	if len(report.TechStack.Frameworks) != 1 || report.TechStack.Frameworks[0].Name != "Express" {
		t.Errorf("frameworks = %+v", report.TechStack.Frameworks)
	}

	if len(report.EntryPoints.EntryPoints) == 0 {
		t.Fatal("no entry points")
	}
	first := report.EntryPoints.EntryPoints[0]
	if first.Path != "src/index.js" || first.Basis != "config-declared" || first.Rank != 0 {
		t.Errorf("first entry = %+v, want declared src/index.js", first)
	}
	if len(report.EntryPoints.Routes) != 1 || report.EntryPoints.Routes[0].Pattern != "/ping" {
		t.Errorf("routes = %+v", report.EntryPoints.Routes)
	}
	if report.Warnings == nil {
		t.Errorf("warnings must serialize as [], not null")
	}
}

func TestRunInvalidRoot(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{MaxDepth: 3})
	if err == nil {
		t.Fatal("want error for missing root")
	}
}

func TestRunByteIdenticalReruns(t *testing.T) {
	root := fixtureProject(t)

	encode := func() []byte {
		t.Helper()
		report, err := Run(context.Background(), root, Options{MaxDepth: 3, Cache: scanner.NewCache(0)})
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := EncodeJSON(&buf, report); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	first := encode()
	for i := 0; i < 3; i++ {
		if next := encode(); !bytes.Equal(next, first) {
			t.Fatalf("run %d output differs", i)
		}
	}
}

func TestRunEmptyProject(t *testing.T) {
	report, err := Run(context.Background(), t.TempDir(), Options{MaxDepth: 3})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, report); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	ts := decoded["techStack"].(map[string]any)
	if ts["packageManager"] != nil {
		t.Errorf("packageManager = %v, want null", ts["packageManager"])
	}
	for _, key := range []string{"languages", "frameworks", "buildTools", "testTools", "dependencies"} {
		if _, ok := ts[key].([]any); !ok {
			t.Errorf("%s = %v, want []", key, ts[key])
		}
	}
	eps := decoded["entryPoints"].(map[string]any)
	for _, key := range []string{"entryPoints", "configFiles", "routes"} {
		if _, ok := eps[key].([]any); !ok {
			t.Errorf("%s = %v, want []", key, eps[key])
		}
	}
	if _, ok := decoded["warnings"].([]any); !ok {
		t.Errorf("warnings = %v, want []", decoded["warnings"])
	}
}

func TestWriteArtifacts(t *testing.T) {
	root := fixtureProject(t)
	out := t.TempDir()

	report, err := Run(context.Background(), root, Options{MaxDepth: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := report.WriteArtifacts(out); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{StructureFile, TechStackFile, EntryPointsFile} {
		b, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var v map[string]any
		if err := json.Unmarshal(b, &v); err != nil {
			t.Errorf("%s is not valid JSON: %v", name, err)
		}
	}

	var b map[string]any
	raw, _ := os.ReadFile(filepath.Join(out, StructureFile))
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatal(err)
	}
	stats := b["stats"].(map[string]any)
	if stats["totalFiles"].(float64) != 4 {
		t.Errorf("structure stats.totalFiles = %v, want 4", stats["totalFiles"])
	}
}

func TestStructureArtifactSchema(t *testing.T) {
	root := fixtureProject(t)

	report, err := Run(context.Background(), root, Options{MaxDepth: 3})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, report.Structure); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}

	if _, ok := decoded["tree"].(map[string]any); !ok {
		t.Fatalf("structure artifact has no tree object: %v", decoded)
	}
	stats, ok := decoded["stats"].(map[string]any)
	if !ok {
		t.Fatalf("structure artifact has no stats object: %v", decoded)
	}
	for _, key := range []string{"totalFiles", "totalLines"} {
		if _, ok := stats[key].(float64); !ok {
			t.Errorf("stats.%s = %v, want a number", key, stats[key])
		}
	}
	langs, ok := stats["languages"].([]any)
	if !ok || len(langs) == 0 {
		t.Fatalf("stats.languages = %v, want per-language entries", stats["languages"])
	}
	first := langs[0].(map[string]any)
	if first["language"] != "JavaScript" {
		t.Errorf("top language = %v, want JavaScript", first["language"])
	}
	if first["files"].(float64) != 2 {
		t.Errorf("JavaScript files = %v, want 2", first["files"])
	}
}
