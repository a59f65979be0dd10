// Package detect locates ecosystem manifests, parses their dependency
// declarations, and matches them against signature tables to surface the
// package manager, frameworks and tooling of a project. All detection is
// deterministic file-presence and file-content logic; nothing talks to a
// registry or network.
package detect

import "repoprof/scanner"

// Dependency is one declared dependency, deduplicated by (name, ecosystem).
type Dependency struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Ecosystem string `json:"ecosystem"`
}

// Match is a recognized framework or tool. Name is the display label from
// the signature table; Dependency is the declared name that matched.
type Match struct {
	Name       string `json:"name"`
	Dependency string `json:"dependency"`
	Ecosystem  string `json:"ecosystem"`

	rank int // table position, used for ordering only
}

// Detection is what one ecosystem probe reports. A nil Detection means the
// ecosystem is absent from the tree.
type Detection struct {
	Ecosystem      string
	PackageManager string
	Dependencies   []Dependency // declaration order, deduplicated by name
	EntryHints     []string     // manifest-declared entry files, root-relative
	Warnings       []scanner.Warning
}

// addDep appends a dependency unless the name was already declared; the
// first declaration wins and keeps its position.
func (d *Detection) addDep(name, version string) {
	if name == "" {
		return
	}
	for _, dep := range d.Dependencies {
		if dep.Name == name {
			return
		}
	}
	d.Dependencies = append(d.Dependencies, Dependency{Name: name, Version: version, Ecosystem: d.Ecosystem})
}

func (d *Detection) warn(path string) {
	d.Warnings = append(d.Warnings, scanner.Warning{Stage: "manifest", Path: path, Reason: scanner.ReasonParseDegraded})
}

// TechStack is the tech-stack pass result. Field order is part of the
// serialized contract.
type TechStack struct {
	PackageManager *string                `json:"packageManager"`
	Languages      []scanner.LanguageStat `json:"languages"`
	Frameworks     []Match                `json:"frameworks"`
	BuildTools     []Match                `json:"buildTools"`
	TestTools      []Match                `json:"testTools"`
	Dependencies   []Dependency           `json:"dependencies"`

	entryHints []string
}

// EntryHints returns manifest-declared entry files collected by the probes,
// for the entry-point pass.
func (t *TechStack) EntryHints() []string { return t.entryHints }

// FrameworkNames returns the matched framework labels, for route scanning.
func (t *TechStack) FrameworkNames() []string {
	names := make([]string, 0, len(t.Frameworks))
	for _, m := range t.Frameworks {
		names = append(names, m.Name)
	}
	return names
}
