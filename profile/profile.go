// Package profile ties the analysis passes together: one walk, three
// result objects, one serialized contract. Output is deterministic for
// unchanged input; concurrency never leaks into observable order.
package profile

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"repoprof/detect"
	"repoprof/entrypoint"
	"repoprof/scanner"
)

// Options configure one profiling run.
type Options struct {
	// MaxDepth bounds the walk; negative means scanner.DefaultMaxDepth.
	MaxDepth int
	// ExcludeNames are added on top of the default exclude set.
	ExcludeNames []string
	// IncludeHidden also walks dot-entries.
	IncludeHidden bool
	// NoGitignore disables root .gitignore filtering.
	NoGitignore bool
	// Cache, when set, memoizes file reads across runs.
	Cache *scanner.Cache
}

// StructureStats are the aggregate totals with their per-language split.
type StructureStats struct {
	TotalFiles int                    `json:"totalFiles"`
	TotalLines int                    `json:"totalLines"`
	Languages  []scanner.LanguageStat `json:"languages"`
}

// StructureResult is the structure artifact.
type StructureResult struct {
	Root            string            `json:"root"`
	PrimaryLanguage string            `json:"primaryLanguage,omitempty"`
	Tree            *scanner.TreeNode `json:"tree"`
	Stats           StructureStats    `json:"stats"`
}

// EntryPointsResult is the entry-points artifact.
type EntryPointsResult struct {
	EntryPoints []entrypoint.Candidate  `json:"entryPoints"`
	ConfigFiles []entrypoint.ConfigFile `json:"configFiles"`
	Routes      []entrypoint.Route      `json:"routes"`
}

// Report bundles the three results with the non-fatal warnings collected
// along the way.
type Report struct {
	Structure   *StructureResult   `json:"structure"`
	TechStack   *detect.TechStack  `json:"techStack"`
	EntryPoints *EntryPointsResult `json:"entryPoints"`
	Warnings    []scanner.Warning  `json:"warnings"`
}

// Run profiles root: walks once, then runs the structure pass and the
// detection chain (tech stack, then entry points, which consume its hints)
// in parallel over the read-only tree. The only fatal error besides
// cancellation is an invalid root.
func Run(ctx context.Context, root string, opts Options) (*Report, error) {
	tree, ix, warnings, err := walkTree(root, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("walk complete", "root", ix.Root, "files", tree.TotalFiles, "warnings", len(warnings))

	report := &Report{}
	var detectWarnings []scanner.Warning

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Structure = buildStructure(ix.Root, tree)
		return gctx.Err()
	})
	g.Go(func() error {
		stats := scanner.Classify(tree)
		ts, w := detect.Run(ix, stats, opts.Cache)
		detectWarnings = w
		report.TechStack = ts

		eps := entrypoint.Find(ix, ts.EntryHints())
		cfgs := entrypoint.FindConfigFiles(ix)
		routes, err := entrypoint.ExtractRoutes(gctx, ix, opts.Cache, ts.FrameworkNames())
		if err != nil {
			return err
		}
		report.EntryPoints = &EntryPointsResult{
			EntryPoints: eps,
			ConfigFiles: cfgs,
			Routes:      routes,
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Warnings = append(warnings, detectWarnings...)
	if report.Warnings == nil {
		report.Warnings = []scanner.Warning{}
	}
	return report, nil
}

// RunStructure is the structure pass alone.
func RunStructure(root string, opts Options) (*StructureResult, []scanner.Warning, error) {
	tree, ix, warnings, err := walkTree(root, opts)
	if err != nil {
		return nil, nil, err
	}
	return buildStructure(ix.Root, tree), warnings, nil
}

// RunTechStack is the tech-stack pass alone.
func RunTechStack(root string, opts Options) (*detect.TechStack, []scanner.Warning, error) {
	tree, ix, warnings, err := walkTree(root, opts)
	if err != nil {
		return nil, nil, err
	}
	ts, w := detect.Run(ix, scanner.Classify(tree), opts.Cache)
	return ts, append(warnings, w...), nil
}

// RunEntryPoints is the entry-points pass alone. It still runs detection
// internally for declared-entry and framework hints.
func RunEntryPoints(ctx context.Context, root string, opts Options) (*EntryPointsResult, []scanner.Warning, error) {
	tree, ix, warnings, err := walkTree(root, opts)
	if err != nil {
		return nil, nil, err
	}
	ts, w := detect.Run(ix, scanner.Classify(tree), opts.Cache)
	warnings = append(warnings, w...)

	routes, err := entrypoint.ExtractRoutes(ctx, ix, opts.Cache, ts.FrameworkNames())
	if err != nil {
		return nil, nil, err
	}
	return &EntryPointsResult{
		EntryPoints: entrypoint.Find(ix, ts.EntryHints()),
		ConfigFiles: entrypoint.FindConfigFiles(ix),
		Routes:      routes,
	}, warnings, nil
}

func walkTree(root string, opts Options) (*scanner.TreeNode, *scanner.Index, []scanner.Warning, error) {
	walkOpts := scanner.WalkOptions{
		MaxDepth:      opts.MaxDepth,
		IncludeHidden: opts.IncludeHidden,
	}
	if len(opts.ExcludeNames) > 0 {
		excludes := make(map[string]bool, len(scanner.DefaultExcludes)+len(opts.ExcludeNames))
		for name := range scanner.DefaultExcludes {
			excludes[name] = true
		}
		for _, name := range opts.ExcludeNames {
			excludes[name] = true
		}
		walkOpts.ExcludeNames = excludes
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, nil, err
	}
	if !opts.NoGitignore {
		walkOpts.Ignore = scanner.LoadGitignore(absRoot)
	}

	tree, warnings, err := scanner.Walk(absRoot, walkOpts)
	if err != nil {
		return nil, nil, nil, err
	}
	return tree, scanner.NewIndex(absRoot, tree), warnings, nil
}

func buildStructure(absRoot string, tree *scanner.TreeNode) *StructureResult {
	stats := scanner.Classify(tree)
	return &StructureResult{
		Root:            filepath.Base(absRoot),
		PrimaryLanguage: scanner.PrimaryLanguage(stats),
		Tree:            tree,
		Stats: StructureStats{
			TotalFiles: tree.TotalFiles,
			TotalLines: tree.TotalLines,
			Languages:  stats,
		},
	}
}
