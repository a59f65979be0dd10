package detect

import (
	"golang.org/x/mod/modfile"

	"repoprof/scanner"
)

type goProbe struct{}

func (goProbe) Ecosystem() string { return "go" }

func (goProbe) Detect(ix *scanner.Index, cache *scanner.Cache) *Detection {
	mods := ix.Lookup("go.mod")
	if len(mods) == 0 {
		return nil
	}
	det := &Detection{Ecosystem: "go", PackageManager: "go modules"}

	manifest := mods[0]
	b, err := cache.ReadFile(ix.Abs(manifest))
	if err != nil {
		det.warn(manifest)
		return det
	}
	f, err := modfile.Parse(manifest, b, nil)
	if err != nil {
		det.warn(manifest)
		return det
	}
	// Indirect requirements are not part of what the project declares.
	for _, r := range f.Require {
		if r.Indirect {
			continue
		}
		det.addDep(r.Mod.Path, r.Mod.Version)
	}
	return det
}
