package detect

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"repoprof/scanner"
)

// nodeLockfiles lists lockfile names with the package manager each implies.
// The order is the resolution priority when several are present.
var nodeLockfiles = []struct{ file, pm string }{
	{"package-lock.json", "npm"},
	{"yarn.lock", "yarn"},
	{"pnpm-lock.yaml", "pnpm"},
	{"bun.lockb", "bun"},
}

type nodeProbe struct{}

func (nodeProbe) Ecosystem() string { return "node" }

func (nodeProbe) Detect(ix *scanner.Index, cache *scanner.Cache) *Detection {
	manifests := ix.Lookup("package.json")

	lockPM := ""
	lockPath := ""
	for _, lf := range nodeLockfiles {
		if paths := ix.Lookup(lf.file); len(paths) > 0 {
			lockPM = lf.pm
			lockPath = paths[0]
			break
		}
	}
	if len(manifests) == 0 && lockPM == "" {
		return nil
	}

	det := &Detection{Ecosystem: "node", PackageManager: lockPM}
	if det.PackageManager == "" {
		det.PackageManager = "npm"
	}

	parsed := false
	if len(manifests) > 0 {
		manifest := manifests[0]
		if b, err := cache.ReadFile(ix.Abs(manifest)); err != nil {
			det.warn(manifest)
		} else if fields, err := parseOrderedObject(b); err != nil {
			det.warn(manifest)
		} else {
			parsed = true
			parsePackageJSON(det, manifest, fields, lockPM == "")
		}
	}

	// Without a readable manifest the lockfile is the next best source of
	// declared dependencies; those come out sorted, not declaration-ordered.
	if !parsed && lockPath != "" {
		parseNodeLockfile(det, ix, cache, lockPath)
	}
	return det
}

func parsePackageJSON(det *Detection, manifest string, fields []jsonField, pmFromField bool) {
	// "packageManager": "pnpm@9.1.0" pins the manager directly; it only
	// decides when no lockfile already did.
	if pmFromField {
		if spec := jsonString(fieldByKey(fields, "packageManager")); spec != "" {
			if name, _, ok := strings.Cut(spec, "@"); ok && name != "" {
				det.PackageManager = name
			}
		}
	}

	for _, section := range []string{"dependencies", "devDependencies", "peerDependencies"} {
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
			det.addDep(d.key, jsonString(d.value))
		}
	}

	dir := path.Dir(manifest)
	for _, key := range []string{"main", "module"} {
		if v := jsonString(fieldByKey(fields, key)); isSourcePath(v) {
			det.EntryHints = append(det.EntryHints, joinManifestDir(dir, v))
		}
	}
	if raw := fieldByKey(fields, "bin"); raw != nil {
		if v := jsonString(raw); isSourcePath(v) {
			det.EntryHints = append(det.EntryHints, joinManifestDir(dir, v))
		} else if bins, err := parseOrderedObject(raw); err == nil {
			for _, b := range bins {
				if v := jsonString(b.value); isSourcePath(v) {
					det.EntryHints = append(det.EntryHints, joinManifestDir(dir, v))
				}
			}
		}
	}
	if raw := fieldByKey(fields, "scripts"); raw != nil {
		if scripts, err := parseOrderedObject(raw); err == nil {
			for _, s := range scripts {
				if s.key != "start" && s.key != "dev" {
					continue
				}
				if f := scriptEntryFile(jsonString(s.value)); f != "" {
					det.EntryHints = append(det.EntryHints, joinManifestDir(dir, f))
				}
			}
		}
	}
}

var scriptFileRe = regexp.MustCompile(`(?:^|\s)(\S+\.(?:js|mjs|cjs|ts))(?:\s|$)`)

// scriptEntryFile pulls the script file out of commands like
// "node server.js" or "ts-node src/index.ts".
func scriptEntryFile(cmd string) string {
	m := scriptFileRe.FindStringSubmatch(cmd)
	if m == nil {
		return ""
	}
	return m[1]
}

func isSourcePath(v string) bool {
	switch strings.ToLower(path.Ext(v)) {
	case ".js", ".mjs", ".cjs", ".ts", ".tsx", ".jsx":
		return true
	}
	return false
}

func joinManifestDir(dir, rel string) string {
	rel = strings.TrimPrefix(rel, "./")
	if dir == "." {
		return rel
	}
	return path.Join(dir, rel)
}

func parseNodeLockfile(det *Detection, ix *scanner.Index, cache *scanner.Cache, lockPath string) {
	b, err := cache.ReadFile(ix.Abs(lockPath))
	if err != nil {
		det.warn(lockPath)
		return
	}
	switch path.Base(lockPath) {
	case "package-lock.json":
		parseNpmLock(det, lockPath, b)
	case "yarn.lock":
		parseYarnLock(det, b)
	case "pnpm-lock.yaml":
		parsePnpmLock(det, lockPath, b)
	}
}

func parseNpmLock(det *Detection, lockPath string, b []byte) {
	fields, err := parseOrderedObject(b)
	if err != nil {
		det.warn(lockPath)
		return
	}
	packages := fieldByKey(fields, "packages")
	if packages == nil {
		return
	}
	pkgFields, err := parseOrderedObject(packages)
	if err != nil {
		det.warn(lockPath)
		return
	}
	// The "" entry is the root package and carries its declared deps.
	root := fieldByKey(pkgFields, "")
	if root == nil {
		return
	}
	rootFields, err := parseOrderedObject(root)
	if err != nil {
		det.warn(lockPath)
		return
	}
	for _, section := range []string{"dependencies", "devDependencies"} {
		raw := fieldByKey(rootFields, section)
		if raw == nil {
			continue
		}
		if deps, err := parseOrderedObject(raw); err == nil {
			for _, d := range deps {
				det.addDep(d.key, jsonString(d.value))
			}
		}
	}
}

// yarnEntryRe matches the header of a yarn.lock v1 entry, e.g.
// "react@^18.2.0:" or `"@babel/core@^7.0.0":`.
var yarnEntryRe = regexp.MustCompile(`(?m)^"?(@?[^@"\s]+)@([^":,]+)"?(?:,.*)?:\s*$`)

func parseYarnLock(det *Detection, b []byte) {
	seen := map[string]string{}
	for _, m := range yarnEntryRe.FindAllStringSubmatch(string(b), -1) {
		if _, ok := seen[m[1]]; !ok {
			seen[m[1]] = m[2]
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		det.addDep(name, seen[name])
	}
}

type pnpmDep struct {
	Specifier string
	Version   string
}

// UnmarshalYAML accepts both lockfile generations: v5 maps a name to a bare
// version string, v6+ to a {specifier, version} object.
func (d *pnpmDep) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Version = node.Value
		return nil
	}
	var v struct {
		Specifier string `yaml:"specifier"`
		Version   string `yaml:"version"`
	}
	if err := node.Decode(&v); err != nil {
		return err
	}
	d.Specifier = v.Specifier
	d.Version = v.Version
	return nil
}

type pnpmImporter struct {
	Dependencies    map[string]pnpmDep `yaml:"dependencies"`
	DevDependencies map[string]pnpmDep `yaml:"devDependencies"`
}

type pnpmLock struct {
	pnpmImporter `yaml:",inline"`
	Importers    map[string]pnpmImporter `yaml:"importers"`
}

func parsePnpmLock(det *Detection, lockPath string, b []byte) {
	var lock pnpmLock
	if err := yaml.Unmarshal(b, &lock); err != nil {
		det.warn(lockPath)
		return
	}
	root := lock.pnpmImporter
	if imp, ok := lock.Importers["."]; ok {
		root = imp
	}
	for _, section := range []map[string]pnpmDep{root.Dependencies, root.DevDependencies} {
		names := make([]string, 0, len(section))
		for name := range section {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			d := section[name]
			version := d.Specifier
			if version == "" {
				version = d.Version
			}
			det.addDep(name, version)
		}
	}
}
