package detect

import (
	"repoprof/scanner"
)

// maxDependencies caps the dependency list in the tech-stack result.
// Recognized dependencies (ones that matched a signature) are kept first,
// then the rest in declaration order.
const maxDependencies = 20

// Probe inspects the index for one ecosystem. Detect returns nil when the
// ecosystem is absent.
type Probe interface {
	Ecosystem() string
	Detect(ix *scanner.Index, cache *scanner.Cache) *Detection
}

// probes is the fixed probe order. It doubles as the tie-break for the
// overall packageManager: the first probe that reports one wins.
var probes = []Probe{
	nodeProbe{},
	pythonProbe{},
	goProbe{},
	rustProbe{},
	javaProbe{},
	rubyProbe{},
	phpProbe{},
}

// Run executes every ecosystem probe against the index and assembles the
// tech-stack result. stats is the language classification for the same tree.
func Run(ix *scanner.Index, stats []scanner.LanguageStat, cache *scanner.Cache) (*TechStack, []scanner.Warning) {
	ts := &TechStack{
		Languages:    stats,
		Frameworks:   []Match{},
		BuildTools:   []Match{},
		TestTools:    []Match{},
		Dependencies: []Dependency{},
	}
	if ts.Languages == nil {
		ts.Languages = []scanner.LanguageStat{}
	}

	var warnings []scanner.Warning
	var detections []*Detection
	for _, p := range probes {
		det := p.Detect(ix, cache)
		if det == nil {
			continue
		}
		detections = append(detections, det)
		warnings = append(warnings, det.Warnings...)
		if ts.PackageManager == nil && det.PackageManager != "" {
			pm := det.PackageManager
			ts.PackageManager = &pm
		}
		ts.entryHints = append(ts.entryHints, det.EntryHints...)
	}

	var deps []Dependency
	for _, det := range detections {
		deps = append(deps, det.Dependencies...)
	}

	ts.Frameworks = matchSignatures(frameworkTables, detections)
	ts.BuildTools = matchSignatures(buildToolTables, detections)
	ts.TestTools = matchSignatures(testToolTables, detections)

	recognized := map[string]bool{}
	for _, set := range [][]Match{ts.Frameworks, ts.BuildTools, ts.TestTools} {
		for _, m := range set {
			recognized[m.Ecosystem+"\x00"+m.Dependency] = true
		}
	}
	ts.Dependencies = capDependencies(deps, recognized)

	return ts, warnings
}

// capDependencies keeps at most maxDependencies entries, recognized ones
// first; within each group declaration order is preserved.
func capDependencies(deps []Dependency, recognized map[string]bool) []Dependency {
	out := make([]Dependency, 0, maxDependencies)
	for _, d := range deps {
		if recognized[d.Ecosystem+"\x00"+d.Name] {
			out = append(out, d)
			if len(out) == maxDependencies {
				return out
			}
		}
	}
	for _, d := range deps {
		if !recognized[d.Ecosystem+"\x00"+d.Name] {
			out = append(out, d)
			if len(out) == maxDependencies {
				return out
			}
		}
	}
	return out
}
