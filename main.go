// Command repoprof profiles a source tree and emits structure, tech-stack
// and entry-point signals as JSON artifacts or a rendered summary.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"repoprof/profile"
	"repoprof/render"
	"repoprof/scanner"
)

var version = "0.1.0"

type cliFlags struct {
	maxDepth      int
	excludes      []string
	includeHidden bool
	noGitignore   bool
	verbose       bool
	jsonOut       bool
	outDir        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:           "repoprof",
		Short:         "Heuristic source-tree profiler",
		Long:          "repoprof walks a source tree and reports its structure, tech stack\nand entry points as deterministic JSON for downstream tooling.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	pf := root.PersistentFlags()
	pf.IntVar(&flags.maxDepth, "max-depth", scanner.DefaultMaxDepth, "directory depth to enumerate")
	pf.StringArrayVar(&flags.excludes, "exclude", nil, "additional directory names to skip (repeatable)")
	pf.BoolVar(&flags.includeHidden, "include-hidden", false, "also walk hidden files and directories")
	pf.BoolVar(&flags.noGitignore, "no-gitignore", false, "ignore the root .gitignore")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newAnalyzeCmd(flags),
		newTreeCmd(flags),
		newTechStackCmd(flags),
		newEntryPointsCmd(flags),
		newVersionCmd(),
	)
	return root
}

func (f *cliFlags) options() profile.Options {
	return profile.Options{
		MaxDepth:      f.maxDepth,
		ExcludeNames:  f.excludes,
		IncludeHidden: f.includeHidden,
		NoGitignore:   f.noGitignore,
		Cache:         scanner.NewCache(0),
	}
}

func argPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func newAnalyzeCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Run all passes and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := profile.Run(ctx, argPath(args), flags.options())
			if err != nil {
				return err
			}
			if flags.outDir != "" {
				if err := report.WriteArtifacts(flags.outDir); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "artifacts written to %s\n", flags.outDir)
			}
			if flags.jsonOut {
				return profile.EncodeJSON(os.Stdout, report)
			}
			render.Tree(os.Stdout, report.Structure.Tree, !color.NoColor)
			fmt.Fprintln(os.Stdout)
			render.Summary(os.Stdout, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the full report as JSON")
	cmd.Flags().StringVar(&flags.outDir, "out", "", "write the three artifact files into this directory")
	return cmd
}

func newTreeCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [path]",
		Short: "Structure pass only, rendered as a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			structure, warnings, err := profile.RunStructure(argPath(args), flags.options())
			if err != nil {
				return err
			}
			render.Tree(os.Stdout, structure.Tree, !color.NoColor)
			printWarnings(warnings)
			return nil
		},
	}
}

func newTechStackCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "techstack [path]",
		Short: "Tech-stack pass only, JSON to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, warnings, err := profile.RunTechStack(argPath(args), flags.options())
			if err != nil {
				return err
			}
			printWarnings(warnings)
			return profile.EncodeJSON(os.Stdout, ts)
		},
	}
}

func newEntryPointsCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "entrypoints [path]",
		Short: "Entry-point pass only, JSON to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eps, warnings, err := profile.RunEntryPoints(ctx, argPath(args), flags.options())
			if err != nil {
				return err
			}
			printWarnings(warnings)
			return profile.EncodeJSON(os.Stdout, eps)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("repoprof %s\n", version)
		},
	}
}

func printWarnings(warnings []scanner.Warning) {
	yellow := color.New(color.FgYellow)
	for _, w := range warnings {
		yellow.Fprintf(os.Stderr, "warning: %s: %s (%s)\n", w.Reason, w.Path, w.Stage)
	}
}
