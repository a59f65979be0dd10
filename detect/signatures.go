package detect

import (
	"sort"
	"strings"
)

// signature maps a declared dependency name to a display label. A match
// pattern ending in '*' is a prefix match ("@angular/*" matches every
// package in the @angular scope); anything else is an exact match.
type signature struct {
	match string
	label string
}

var frameworkTables = map[string][]signature{
	"node": {
		{"next", "Next.js"},
		{"react", "React.js"},
		{"react-dom", "React.js"},
		{"vue", "Vue.js"},
		{"nuxt", "Nuxt"},
		{"@angular/*", "Angular"},
		{"svelte", "Svelte"},
		{"@sveltejs/kit", "SvelteKit"},
		{"solid-js", "Solid"},
		{"preact", "Preact"},
		{"astro", "Astro"},
		{"gatsby", "Gatsby"},
		{"@remix-run/*", "Remix"},
		{"express", "Express"},
		{"koa", "Koa"},
		{"fastify", "Fastify"},
		{"hapi", "hapi"},
		{"@hapi/hapi", "hapi"},
		{"@nestjs/*", "NestJS"},
		{"electron", "Electron"},
		{"react-native", "React Native"},
		{"tailwindcss", "Tailwind CSS"},
		{"bootstrap", "Bootstrap"},
		{"@mui/*", "Material UI"},
		{"antd", "Ant Design"},
		{"@chakra-ui/*", "Chakra UI"},
	},
	"python": {
		{"django", "Django"},
		{"flask", "Flask"},
		{"fastapi", "FastAPI"},
		{"tornado", "Tornado"},
		{"pyramid", "Pyramid"},
		{"sanic", "Sanic"},
		{"aiohttp", "aiohttp"},
		{"starlette", "Starlette"},
		{"celery", "Celery"},
		{"sqlalchemy", "SQLAlchemy"},
		{"pandas", "pandas"},
		{"numpy", "NumPy"},
		{"torch", "PyTorch"},
		{"tensorflow", "TensorFlow"},
		{"scikit-learn", "scikit-learn"},
	},
	"go": {
		{"github.com/gin-gonic/gin", "Gin"},
		{"github.com/labstack/echo*", "Echo"},
		{"github.com/gofiber/fiber*", "Fiber"},
		{"github.com/go-chi/chi*", "Chi"},
		{"github.com/gorilla/mux", "Gorilla Mux"},
		{"google.golang.org/grpc", "gRPC"},
		{"github.com/spf13/cobra", "Cobra"},
		{"gorm.io/gorm", "GORM"},
	},
	"rust": {
		{"actix-web", "Actix Web"},
		{"rocket", "Rocket"},
		{"axum", "Axum"},
		{"warp", "Warp"},
		{"tokio", "Tokio"},
		{"serde", "Serde"},
		{"diesel", "Diesel"},
	},
	"java": {
		{"org.springframework.boot:*", "Spring Boot"},
		{"org.springframework:*", "Spring"},
		{"org.hibernate*", "Hibernate"},
		{"io.quarkus:*", "Quarkus"},
		{"io.micronaut:*", "Micronaut"},
	},
	"ruby": {
		{"rails", "Ruby on Rails"},
		{"sinatra", "Sinatra"},
		{"hanami", "Hanami"},
	},
	"php": {
		{"laravel/framework", "Laravel"},
		{"symfony/*", "Symfony"},
		{"slim/slim", "Slim"},
		{"cakephp/cakephp", "CakePHP"},
	},
}

var buildToolTables = map[string][]signature{
	"node": {
		{"vite", "Vite"},
		{"webpack", "webpack"},
		{"rollup", "Rollup"},
		{"esbuild", "esbuild"},
		{"parcel", "Parcel"},
		{"turbo", "Turborepo"},
		{"nx", "Nx"},
		{"gulp", "Gulp"},
		{"grunt", "Grunt"},
		{"@babel/core", "Babel"},
		{"typescript", "TypeScript"},
		{"eslint", "ESLint"},
		{"prettier", "Prettier"},
	},
	"python": {
		{"black", "Black"},
		{"ruff", "Ruff"},
		{"mypy", "Mypy"},
		{"flake8", "Flake8"},
		{"isort", "isort"},
	},
	"ruby": {
		{"rake", "Rake"},
		{"rubocop", "RuboCop"},
	},
	"php": {
		{"friendsofphp/php-cs-fixer", "PHP CS Fixer"},
		{"phpstan/phpstan", "PHPStan"},
	},
}

var testToolTables = map[string][]signature{
	"node": {
		{"jest", "Jest"},
		{"vitest", "Vitest"},
		{"mocha", "Mocha"},
		{"cypress", "Cypress"},
		{"@playwright/test", "Playwright"},
		{"@testing-library/*", "Testing Library"},
	},
	"python": {
		{"pytest", "pytest"},
		{"tox", "tox"},
		{"hypothesis", "Hypothesis"},
	},
	"go": {
		{"github.com/stretchr/testify", "Testify"},
		{"github.com/onsi/ginkgo*", "Ginkgo"},
	},
	"rust": {
		{"criterion", "Criterion"},
		{"proptest", "Proptest"},
	},
	"java": {
		{"junit:junit", "JUnit"},
		{"org.junit*", "JUnit"},
		{"org.mockito:*", "Mockito"},
		{"org.testng:*", "TestNG"},
	},
	"ruby": {
		{"rspec", "RSpec"},
		{"minitest", "Minitest"},
	},
	"php": {
		{"phpunit/phpunit", "PHPUnit"},
		{"pestphp/pest", "Pest"},
	},
}

func (s signature) matches(dep string) bool {
	if prefix, ok := strings.CutSuffix(s.match, "*"); ok {
		return strings.HasPrefix(dep, prefix)
	}
	return s.match == dep
}

// matchSignatures runs every detection's dependencies through its
// ecosystem's table. One match per label per ecosystem; the earliest table
// entry wins. Results are ordered by table position, then dependency name.
func matchSignatures(tables map[string][]signature, detections []*Detection) []Match {
	out := []Match{}
	for _, det := range detections {
		table := tables[det.Ecosystem]
		if len(table) == 0 {
			continue
		}
		seen := map[string]bool{}
		var found []Match
		for _, dep := range det.Dependencies {
			for rank, sig := range table {
				if !sig.matches(dep.Name) {
					continue
				}
				if seen[sig.label] {
					break
				}
				seen[sig.label] = true
				found = append(found, Match{
					Name:       sig.label,
					Dependency: dep.Name,
					Ecosystem:  det.Ecosystem,
					rank:       rank,
				})
				break
			}
		}
		sort.Slice(found, func(i, j int) bool {
			if found[i].rank != found[j].rank {
				return found[i].rank < found[j].rank
			}
			return found[i].Dependency < found[j].Dependency
		})
		out = append(out, found...)
	}
	return out
}
