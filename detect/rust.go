package detect

import (
	"sort"

	toml "github.com/pelletier/go-toml/v2"

	"repoprof/scanner"
)

type rustProbe struct{}

func (rustProbe) Ecosystem() string { return "rust" }

func (rustProbe) Detect(ix *scanner.Index, cache *scanner.Cache) *Detection {
	manifests := ix.Lookup("Cargo.toml")
	if len(manifests) == 0 {
		return nil
	}
	det := &Detection{Ecosystem: "rust", PackageManager: "cargo"}

	manifest := manifests[0]
	b, err := cache.ReadFile(ix.Abs(manifest))
	if err != nil {
		det.warn(manifest)
		return det
	}

	var f cargoFile
	if err := toml.Unmarshal(b, &f); err != nil {
		det.warn(manifest)
		return det
	}
	addCargoTable(det, f.Dependencies)
	addCargoTable(det, f.DevDependencies)
	addCargoTable(det, f.BuildDependencies)
	// virtual workspaces declare shared deps at the workspace level
	addCargoTable(det, f.Workspace.Dependencies)
	return det
}

type cargoFile struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
	Workspace         struct {
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
}

func addCargoTable(det *Detection, table map[string]any) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		version := ""
		switch v := table[name].(type) {
		case string:
			version = v
		case map[string]any:
			if s, ok := v["version"].(string); ok {
				version = s
			}
		}
		det.addDep(name, version)
	}
}
