// Package render draws the human-readable tree diagram and the run
// summary. Machine output lives elsewhere; everything here is for eyes.
package render

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	White     = "\033[37m"
	Cyan      = "\033[36m"
	Yellow    = "\033[33m"
	Magenta   = "\033[35m"
	Green     = "\033[32m"
	Red       = "\033[31m"
	Blue      = "\033[34m"
	BoldWhite = "\033[1;37m"
	BoldRed   = "\033[1;31m"
	BoldBlue  = "\033[1;34m"
	DimWhite  = "\033[2;37m"
)

// FileColor returns an ANSI color code based on file extension
func FileColor(ext string) string {
	ext = strings.ToLower(ext)
	switch {
	case ext == ".go" || ext == ".mod" || ext == ".sum" || ext == ".dart":
		return Cyan
	case ext == ".py" || ext == ".js" || ext == ".ts" || ext == ".jsx" || ext == ".tsx" ||
		ext == ".mjs" || ext == ".cjs" || ext == ".vue" || ext == ".svelte" || ext == ".sql":
		return Yellow
	case ext == ".html" || ext == ".css" || ext == ".scss" || ext == ".sass" ||
		ext == ".less" || ext == ".php" || ext == ".hs" || ext == ".tf" || ext == ".hcl":
		return Magenta
	case ext == ".md" || ext == ".txt" || ext == ".rst" || ext == ".adoc":
		return Green
	case ext == ".json" || ext == ".yaml" || ext == ".yml" || ext == ".toml" ||
		ext == ".xml" || ext == ".csv" || ext == ".ini" || ext == ".conf" ||
		ext == ".env" || ext == ".rb" || ext == ".erb" || ext == ".gemspec":
		return Red
	case ext == ".sh" || ext == ".bat" || ext == ".ps1":
		return BoldWhite
	case ext == ".swift" || ext == ".kt" || ext == ".java" || ext == ".scala" ||
		ext == ".groovy" || ext == ".rs":
		return BoldRed
	case ext == ".c" || ext == ".cpp" || ext == ".h" || ext == ".hpp" ||
		ext == ".cc" || ext == ".m" || ext == ".mm" || ext == ".cs" || ext == ".fs":
		return BoldBlue
	case ext == ".lua" || ext == ".r" || ext == ".rmd":
		return Blue
	case ext == ".gitignore" || ext == ".dockerignore" || ext == ".gitattributes":
		return DimWhite
	default:
		return White
	}
}

// TerminalWidth returns terminal width or a default
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
