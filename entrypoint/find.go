// Package entrypoint locates the files a reader would start from: entry
// candidates by manifest declaration or filename convention, well-known
// configuration files, and HTTP route definitions matched by framework
// regexes. Everything works off the walked tree; no file is parsed beyond
// line-level pattern matching.
package entrypoint

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"repoprof/scanner"
)

// Basis values for Candidate.
const (
	BasisDeclared   = "config-declared"
	BasisConvention = "filename-convention"
)

// Candidate is one entry-point file. Rank 0 means a manifest declared it;
// convention matches rank 1.
type Candidate struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Basis    string `json:"basis"`
	Rank     int    `json:"rank"`
}

// conventions maps a language to the filename patterns that usually mark
// its entry point. Patterns with a slash anchor at the root; bare names
// match anywhere in the tree.
var conventions = []struct {
	language string
	patterns []string
}{
	{"Python", []string{
		"main.py", "app.py", "run.py", "server.py", "wsgi.py", "asgi.py",
		"manage.py", "__main__.py", "cli.py",
	}},
	{"JavaScript", []string{
		"index.js", "main.js", "app.js", "server.js", "cli.js",
		"src/index.js", "src/main.js", "src/App.jsx",
		"pages/index.js", "pages/_app.js", "app/page.js", "app/layout.js",
	}},
	{"TypeScript", []string{
		"index.ts", "main.ts", "app.ts", "server.ts", "cli.ts",
		"src/index.ts", "src/index.tsx", "src/main.ts", "src/main.tsx", "src/App.tsx",
		"pages/index.tsx", "pages/_app.tsx", "app/page.tsx", "app/layout.tsx",
	}},
	{"Vue", []string{"App.vue", "app.vue", "src/App.vue", "src/main.js", "src/main.ts", "pages/index.vue"}},
	{"Go", []string{"main.go", "cmd/*/main.go"}},
	{"Rust", []string{"src/main.rs", "src/bin/*.rs"}},
	{"Java", []string{"src/main/java/**/Main.java", "src/main/java/**/*Application.java"}},
	{"Ruby", []string{"config.ru", "app.rb", "main.rb"}},
	{"PHP", []string{"index.php", "public/index.php"}},
}

// Find returns entry-point candidates: declared paths first (rank 0), then
// convention matches (rank 1), each group ordered by depth then path.
// Declared paths that do not exist in the tree are dropped; a package.json
// "main" often points at build output the walk excluded.
func Find(ix *scanner.Index, declared []string) []Candidate {
	out := []Candidate{}
	seen := map[string]bool{}

	for _, p := range declared {
		p = path.Clean(p)
		if seen[p] || ix.Nodes[p] == nil {
			continue
		}
		seen[p] = true
		out = append(out, Candidate{
			Path:     p,
			Language: scanner.LanguageForExt(path.Ext(p)),
			Basis:    BasisDeclared,
		})
	}

	for _, conv := range conventions {
		for _, p := range ix.Paths {
			if seen[p] || !matchesAny(conv.patterns, p) {
				continue
			}
			seen[p] = true
			out = append(out, Candidate{
				Path:     p,
				Language: conv.language,
				Basis:    BasisConvention,
				Rank:     1,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		di, dj := scanner.Depth(out[i].Path), scanner.Depth(out[j].Path)
		if di != dj {
			return di < dj
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// matchesAny reports whether rel matches one of the patterns. A pattern
// containing a slash is matched against the whole root-relative path,
// otherwise against the basename.
func matchesAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pat := range patterns {
		target := base
		if strings.Contains(pat, "/") {
			target = rel
		}
		if ok, err := doublestar.Match(pat, target); err == nil && ok {
			return true
		}
	}
	return false
}
