package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"repoprof/profile"
)

// Summary writes the human overview of a full report: totals, stack
// highlights and warnings. The JSON artifacts carry the complete data.
func Summary(w io.Writer, report *profile.Report) {
	header := color.New(color.Bold)
	label := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)

	width := TerminalWidth()
	if width > 72 {
		width = 72
	}
	rule := strings.Repeat("─", width)

	header.Fprintf(w, "%s\n", report.Structure.Root)
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "%s %d files, %d lines\n", label.Sprint("size:"),
		report.Structure.Stats.TotalFiles, report.Structure.Stats.TotalLines)
	if report.Structure.PrimaryLanguage != "" {
		fmt.Fprintf(w, "%s %s\n", label.Sprint("language:"), report.Structure.PrimaryLanguage)
	}
	if pm := report.TechStack.PackageManager; pm != nil {
		fmt.Fprintf(w, "%s %s\n", label.Sprint("package manager:"), *pm)
	}
	if names := report.TechStack.FrameworkNames(); len(names) > 0 {
		fmt.Fprintf(w, "%s %s\n", label.Sprint("frameworks:"), strings.Join(names, ", "))
	}
	if n := len(report.EntryPoints.EntryPoints); n > 0 {
		first := report.EntryPoints.EntryPoints[0]
		fmt.Fprintf(w, "%s %d (start at %s)\n", label.Sprint("entry points:"), n, first.Path)
	}
	if n := len(report.EntryPoints.Routes); n > 0 {
		fmt.Fprintf(w, "%s %d\n", label.Sprint("routes:"), n)
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(w, rule)
		for _, wn := range report.Warnings {
			warn.Fprintf(w, "warning: %s: %s (%s)\n", wn.Reason, wn.Path, wn.Stage)
		}
	}
}
