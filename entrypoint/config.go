package entrypoint

import (
	"sort"

	"repoprof/scanner"
)

// ConfigFile is a recognized configuration file with its category.
type ConfigFile struct {
	Path     string `json:"path"`
	Category string `json:"category"`
}

// configPatterns categorize well-known configuration files. The first
// category whose patterns match a path claims it.
var configPatterns = []struct {
	category string
	patterns []string
}{
	{"general", []string{".env*", "*.config.js", "*.config.ts", "*.config.mjs"}},
	{"javascript", []string{"tsconfig.json", "jsconfig.json", ".eslintrc*", ".prettierrc*", ".babelrc*"}},
	{"python", []string{"setup.py", "setup.cfg", "pyproject.toml", "pytest.ini", "tox.ini", ".flake8"}},
	{"go", []string{"go.mod", "go.sum"}},
	{"rust", []string{"Cargo.toml", "Cargo.lock"}},
	{"java", []string{"pom.xml", "build.gradle", "build.gradle.kts", "application.properties", "application.yml"}},
	{"testing", []string{"jest.config.*", "vitest.config.*", "cypress.config.*", "playwright.config.*"}},
	{"docker", []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml", ".dockerignore"}},
	{"ci", []string{".gitlab-ci.yml", ".github/workflows/*.yml", ".github/workflows/*.yaml", ".travis.yml"}},
}

// FindConfigFiles returns the recognized config files in the tree, unique
// by path, sorted by path ascending.
func FindConfigFiles(ix *scanner.Index) []ConfigFile {
	out := []ConfigFile{}
	for _, p := range ix.Paths {
		for _, group := range configPatterns {
			if matchesAny(group.patterns, p) {
				out = append(out, ConfigFile{Path: p, Category: group.category})
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
