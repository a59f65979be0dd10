package detect

import (
	"regexp"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"repoprof/scanner"
)

type pythonProbe struct{}

func (pythonProbe) Ecosystem() string { return "python" }

func (pythonProbe) Detect(ix *scanner.Index, cache *scanner.Cache) *Detection {
	hasReq := ix.Has("requirements.txt")
	hasPyproject := ix.Has("pyproject.toml")
	hasPipfile := ix.Has("Pipfile")
	hasSetup := ix.Has("setup.py") || ix.Has("setup.cfg")
	if !hasReq && !hasPyproject && !hasPipfile && !hasSetup {
		return nil
	}

	det := &Detection{Ecosystem: "python"}

	var pyproject *pyprojectFile
	if hasPyproject {
		p := ix.Lookup("pyproject.toml")[0]
		b, err := cache.ReadFile(ix.Abs(p))
		if err != nil {
			det.warn(p)
		} else {
			var f pyprojectFile
			if err := toml.Unmarshal(b, &f); err != nil {
				det.warn(p)
			} else {
				pyproject = &f
			}
		}
	}

	// Lockfile and manifest evidence decides the manager; a plain
	// requirements.txt or setup.py means pip.
	switch {
	case ix.Has("poetry.lock") || (pyproject != nil && pyproject.Tool.Poetry != nil):
		det.PackageManager = "poetry"
	case hasPipfile || ix.Has("Pipfile.lock"):
		det.PackageManager = "pipenv"
	case ix.Has("uv.lock") || (pyproject != nil && pyproject.Tool.UV != nil):
		det.PackageManager = "uv"
	default:
		det.PackageManager = "pip"
	}

	if hasReq {
		p := ix.Lookup("requirements.txt")[0]
		if b, err := cache.ReadFile(ix.Abs(p)); err != nil {
			det.warn(p)
		} else {
			parseRequirements(det, b)
		}
	}
	if pyproject != nil {
		addPyprojectDeps(det, pyproject)
	}
	if hasPipfile {
		p := ix.Lookup("Pipfile")[0]
		if b, err := cache.ReadFile(ix.Abs(p)); err != nil {
			det.warn(p)
		} else {
			parsePipfile(det, p, b)
		}
	}
	return det
}

// requirementRe splits "name[extra]>=1.2" into name and the version
// constraint that follows it.
var requirementRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(?:\[[^\]]*\])?\s*(.*)$`)

func parseRequirements(det *Detection, b []byte) {
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		// skip blanks, pip options (-r, -e, --index-url) and URL requirements
		if line == "" || strings.HasPrefix(line, "-") || strings.Contains(line, "://") {
			continue
		}
		m := requirementRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		det.addDep(strings.ToLower(m[1]), strings.TrimSpace(m[2]))
	}
}

type pyprojectFile struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry *struct {
			Dependencies map[string]any `toml:"dependencies"`
			Group        map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
		UV *struct {
			DevDependencies []string `toml:"dev-dependencies"`
		} `toml:"uv"`
	} `toml:"tool"`
}

func addPyprojectDeps(det *Detection, f *pyprojectFile) {
	for _, spec := range f.Project.Dependencies {
		if m := requirementRe.FindStringSubmatch(strings.TrimSpace(spec)); m != nil {
			det.addDep(strings.ToLower(m[1]), strings.TrimSpace(m[2]))
		}
	}
	if f.Tool.Poetry != nil {
		addPoetryTable(det, f.Tool.Poetry.Dependencies)
		groups := make([]string, 0, len(f.Tool.Poetry.Group))
		for g := range f.Tool.Poetry.Group {
			groups = append(groups, g)
		}
		sort.Strings(groups)
		for _, g := range groups {
			addPoetryTable(det, f.Tool.Poetry.Group[g].Dependencies)
		}
	}
	if f.Tool.UV != nil {
		for _, spec := range f.Tool.UV.DevDependencies {
			if m := requirementRe.FindStringSubmatch(strings.TrimSpace(spec)); m != nil {
				det.addDep(strings.ToLower(m[1]), strings.TrimSpace(m[2]))
			}
		}
	}
}

// addPoetryTable flattens one poetry dependency table. TOML tables decode
// to maps, so entries are sorted by name to stay deterministic.
func addPoetryTable(det *Detection, table map[string]any) {
	names := make([]string, 0, len(table))
	for name := range table {
		if name == "python" {
			continue
		}
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
		det.addDep(strings.ToLower(name), version)
	}
}

type pipfileFile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

func parsePipfile(det *Detection, path string, b []byte) {
	var f pipfileFile
	if err := toml.Unmarshal(b, &f); err != nil {
		det.warn(path)
		return
	}
	addPoetryTable(det, f.Packages)
	addPoetryTable(det, f.DevPackages)
}
