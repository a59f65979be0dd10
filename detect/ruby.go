package detect

import (
	"regexp"
	"strings"

	"repoprof/scanner"
)

type rubyProbe struct{}

func (rubyProbe) Ecosystem() string { return "ruby" }

// gemRe matches `gem 'name', '~> 1.0'` and the double-quoted variant.
var gemRe = regexp.MustCompile(`(?m)^\s*gem\s+["']([^"']+)["'](?:\s*,\s*["']([^"']+)["'])?`)

func (rubyProbe) Detect(ix *scanner.Index, cache *scanner.Cache) *Detection {
	gemfiles := ix.Lookup("Gemfile")
	gemspecs := lookupSuffix(ix, ".gemspec")
	if len(gemfiles) == 0 && len(gemspecs) == 0 {
		return nil
	}

	det := &Detection{Ecosystem: "ruby", PackageManager: "bundler"}
	paths := gemfiles
	if len(paths) == 0 {
		paths = gemspecs[:1]
	}
	p := paths[0]
	b, err := cache.ReadFile(ix.Abs(p))
	if err != nil {
		det.warn(p)
		return det
	}
	for _, m := range gemRe.FindAllStringSubmatch(string(b), -1) {
		det.addDep(m[1], m[2])
	}
	return det
}

// lookupSuffix scans the sorted path list for basenames with the given
// suffix, used for manifests with variable names like *.gemspec.
func lookupSuffix(ix *scanner.Index, suffix string) []string {
	var out []string
	for _, p := range ix.Paths {
		if strings.HasSuffix(p, suffix) {
			out = append(out, p)
		}
	}
	return out
}
