package detect

import (
	"repoprof/scanner"
)

type phpProbe struct{}

func (phpProbe) Ecosystem() string { return "php" }

func (phpProbe) Detect(ix *scanner.Index, cache *scanner.Cache) *Detection {
	manifests := ix.Lookup("composer.json")
	if len(manifests) == 0 {
		return nil
	}
	det := &Detection{Ecosystem: "php", PackageManager: "composer"}

	manifest := manifests[0]
	b, err := cache.ReadFile(ix.Abs(manifest))
	if err != nil {
		det.warn(manifest)
		return det
	}
	fields, err := parseOrderedObject(b)
	if err != nil {
		det.warn(manifest)
		return det
	}
	for _, section := range []string{"require", "require-dev"} {
		raw := fieldByKey(fields, section)
		if raw == nil {
			continue
		}
		deps, err := parseOrderedObject(raw)
		if err != nil {
			det.warn(manifest)
			continue
		}
		for _, d := range deps {
			// the php platform requirement is a runtime constraint, not a package
			if d.key == "php" {
				continue
			}
			det.addDep(d.key, jsonString(d.value))
		}
	}
	return det
}
