package entrypoint

import (
	"context"
	"regexp"
	"strings"

	"repoprof/scanner"
)

// MaxRoutes caps route extraction across the whole tree. Twenty routes is
// plenty of signal for the consumer; scanning stops mid-file once reached.
const MaxRoutes = 20

// Route is one HTTP route definition found by pattern matching.
type Route struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

// routeRule matches one declaration shape. When methodGroup is 0 the rule's
// fixed method applies (Flask and Django routes default to GET).
type routeRule struct {
	re           *regexp.Regexp
	methodGroup  int
	patternGroup int
	method       string
}

type routeScanner struct {
	exts  []string
	rules []routeRule
}

var routeScanners = map[string]routeScanner{
	"Express": {
		exts: []string{".js", ".ts", ".mjs", ".cjs"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`(?:\bapp|\brouter)\.(get|post|put|delete|patch|all)\(\s*['"` + "`" + `]([^'"` + "`" + `]+)`),
			methodGroup:  1,
			patternGroup: 2,
		}},
	},
	"NestJS": {
		exts: []string{".ts"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`@(Get|Post|Put|Delete|Patch)\(\s*(?:['"]([^'"]*)['"])?`),
			methodGroup:  1,
			patternGroup: 2,
		}},
	},
	"Flask": {
		exts: []string{".py"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`@(?:app|bp|blueprint)\.route\(\s*['"]([^'"]+)`),
			patternGroup: 1,
			method:       "GET",
		}},
	},
	"FastAPI": {
		exts: []string{".py"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`@(?:app|router|api)\.(get|post|put|delete|patch)\(\s*['"]([^'"]+)`),
			methodGroup:  1,
			patternGroup: 2,
		}},
	},
	"Django": {
		exts: []string{".py"},
		rules: []routeRule{
			{re: regexp.MustCompile(`\bpath\(\s*['"]([^'"]+)`), patternGroup: 1, method: "GET"},
			{re: regexp.MustCompile(`\bre_path\(\s*r?['"]([^'"]+)`), patternGroup: 1, method: "GET"},
		},
	},
	"Gin": {
		exts: []string{".go"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`\.(GET|POST|PUT|DELETE|PATCH)\(\s*"([^"]+)`),
			methodGroup:  1,
			patternGroup: 2,
		}},
	},
	"Fiber": {
		exts: []string{".go"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`\.(Get|Post|Put|Delete|Patch)\(\s*"([^"]+)`),
			methodGroup:  1,
			patternGroup: 2,
		}},
	},
	"Ruby on Rails": {
		exts: []string{".rb"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`^\s*(get|post|put|patch|delete)\s+['"]([^'"]+)`),
			methodGroup:  1,
			patternGroup: 2,
		}},
	},
	"Laravel": {
		exts: []string{".php"},
		rules: []routeRule{{
			re:           regexp.MustCompile(`Route::(get|post|put|patch|delete)\(\s*['"]([^'"]+)`),
			methodGroup:  1,
			patternGroup: 2,
		}},
	},
}

// Echo and Chi share Gin's method-call shape; Koa and Fastify share
// Express's.
func init() {
	routeScanners["Echo"] = routeScanners["Gin"]
	routeScanners["Chi"] = routeScanners["Gin"]
	routeScanners["Gorilla Mux"] = routeScanners["Gin"]
	routeScanners["Koa"] = routeScanners["Express"]
	routeScanners["Fastify"] = routeScanners["Express"]
	routeScanners["Sinatra"] = routeScanners["Ruby on Rails"]
}

// ExtractRoutes scans for route definitions belonging to the hinted
// frameworks. Without hints nothing is scanned and the result is empty.
// Files go in lexicographic path order, lines top to bottom, and the scan
// stops the moment MaxRoutes definitions are found. Cancellation is checked
// between files.
func ExtractRoutes(ctx context.Context, ix *scanner.Index, cache *scanner.Cache, frameworks []string) ([]Route, error) {
	var rules []routeRule
	exts := map[string]bool{}
	seen := map[string]bool{}
	for _, fw := range frameworks {
		sc, ok := routeScanners[fw]
		if !ok || seen[fw] {
			continue
		}
		seen[fw] = true
		rules = append(rules, sc.rules...)
		for _, e := range sc.exts {
			exts[e] = true
		}
	}

	routes := []Route{}
	if len(rules) == 0 {
		return routes, nil
	}

	for _, p := range ix.Paths {
		if len(routes) >= MaxRoutes {
			break
		}
		if !exts[extOf(p)] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return routes, err
		}
		b, err := cache.ReadFile(ix.Abs(p))
		if err != nil {
			continue
		}
		scanRouteFile(p, string(b), rules, &routes)
	}
	return routes, nil
}

func scanRouteFile(path, content string, rules []routeRule, routes *[]Route) {
	for i, line := range strings.Split(content, "\n") {
		for _, rule := range rules {
			m := rule.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			method := rule.method
			if rule.methodGroup > 0 {
				method = strings.ToUpper(m[rule.methodGroup])
			}
			pattern := m[rule.patternGroup]
			if pattern == "" {
				pattern = "/"
			}
			*routes = append(*routes, Route{
				Method:  method,
				Pattern: pattern,
				File:    path,
				Line:    i + 1,
			})
			if len(*routes) >= MaxRoutes {
				return
			}
			break
		}
	}
}

func extOf(p string) string {
	if i := strings.LastIndexByte(p, '.'); i >= 0 && !strings.ContainsRune(p[i:], '/') {
		return strings.ToLower(p[i:])
	}
	return ""
}
