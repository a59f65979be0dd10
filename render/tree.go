package render

import (
	"fmt"
	"io"
	"path"
	"strings"

	"repoprof/scanner"
)

// keyDirectories annotate well-known directory names in the diagram so a
// reader can orient without opening anything.
var keyDirectories = map[string]string{
	"src":         "Source code",
	"lib":         "Library code",
	"app":         "Application code",
	"cmd":         "Command binaries",
	"internal":    "Internal packages",
	"components":  "UI components",
	"pages":       "Page components",
	"views":       "View components",
	"api":         "API endpoints",
	"routes":      "Route definitions",
	"controllers": "Controller logic",
	"services":    "Business logic services",
	"models":      "Data models",
	"migrations":  "Database migrations",
	"utils":       "Utility functions",
	"helpers":     "Helper functions",
	"config":      "Configuration files",
	"tests":       "Test files",
	"test":        "Test files",
	"__tests__":   "Test files",
	"spec":        "Test specifications",
	"docs":        "Documentation",
	"assets":      "Static assets",
	"public":      "Public files",
	"static":      "Static files",
	"styles":      "Stylesheets",
	"scripts":     "Build/deploy scripts",
}

// Tree writes a box-drawing diagram of the walked tree to w. When colored
// is false no ANSI codes are emitted, so output stays pipe-friendly.
func Tree(w io.Writer, root *scanner.TreeNode, colored bool) {
	name := root.Name
	if colored {
		name = Bold + name + Reset
	}
	fmt.Fprintf(w, "%s/  (%d files, %d lines)\n", name, root.TotalFiles, root.TotalLines)
	writeChildren(w, root, "", colored)
}

func writeChildren(w io.Writer, node *scanner.TreeNode, prefix string, colored bool) {
	for i, child := range node.Children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(node.Children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		if child.IsDir() {
			name := child.Name + "/"
			if colored {
				name = BoldBlue + name + Reset
			}
			note := ""
			if label, ok := keyDirectories[strings.ToLower(child.Name)]; ok {
				note = "  " + dim(label, colored)
			}
			fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, note)
			writeChildren(w, child, childPrefix, colored)
			continue
		}

		name := child.Name
		if colored {
			name = FileColor(path.Ext(child.Name)) + name + Reset
		}
		note := ""
		if child.Lines > 0 {
			note = "  " + dim(fmt.Sprintf("(%d lines)", child.Lines), colored)
		}
		fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, note)
	}
}

func dim(s string, colored bool) string {
	if !colored {
		return s
	}
	return Dim + s + Reset
}
