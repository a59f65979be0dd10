// MCP server for repoprof - exposes the profiling passes as tools so an
// LLM-side documentation generator can pull signals directly.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"repoprof/profile"
	"repoprof/render"
	"repoprof/scanner"
)

const serverVersion = "0.1.0"

// cache persists across tool calls for the lifetime of the server, so
// repeated questions about the same project skip re-reading manifests.
var cache = scanner.NewCache(0)

// PathInput is the common input for the analysis tools.
type PathInput struct {
	Path          string `json:"path" jsonschema:"Path to the project directory to analyze"`
	MaxDepth      int    `json:"maxDepth,omitempty" jsonschema:"Directory depth to enumerate (default: 3)"`
	IncludeHidden bool   `json:"includeHidden,omitempty" jsonschema:"Also walk hidden files and directories"`
}

// EmptyInput for tools that don't need parameters
type EmptyInput struct{}

func main() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "repoprof",
		Version: serverVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_structure",
		Description: "Get the project structure as a tree with per-file line counts, directory annotations and totals. Use this to understand how a codebase is organized before reading any file.",
	}, handleGetStructure)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_tech_stack",
		Description: "Get the project's tech stack as JSON: package manager, languages with file/line counts, detected frameworks, build tools, test tools, and the top declared dependencies.",
	}, handleGetTechStack)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_entry_points",
		Description: "Get the project's entry points as JSON: manifest-declared and conventional entry files, recognized configuration files, and HTTP route definitions found for the detected frameworks.",
	}, handleGetEntryPoints)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Check repoprof MCP server status. Returns version and confirms local filesystem access is available.",
	}, handleStatus)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Printf("Server error: %v", err)
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func options(input PathInput) profile.Options {
	depth := input.MaxDepth
	if depth <= 0 {
		depth = scanner.DefaultMaxDepth
	}
	return profile.Options{
		MaxDepth:      depth,
		IncludeHidden: input.IncludeHidden,
		Cache:         cache,
	}
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		p = filepath.Join(os.Getenv("HOME"), p[2:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func handleGetStructure(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	structure, warnings, err := profile.RunStructure(expandPath(input.Path), options(input))
	if err != nil {
		return errorResult("Scan error: " + err.Error()), nil, nil
	}

	var buf bytes.Buffer
	render.Tree(&buf, structure.Tree, false)
	if structure.PrimaryLanguage != "" {
		fmt.Fprintf(&buf, "\nPrimary language: %s\n", structure.PrimaryLanguage)
	}
	appendWarnings(&buf, warnings)
	return textResult(buf.String()), nil, nil
}

func handleGetTechStack(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	ts, warnings, err := profile.RunTechStack(expandPath(input.Path), options(input))
	if err != nil {
		return errorResult("Scan error: " + err.Error()), nil, nil
	}

	var buf bytes.Buffer
	if err := profile.EncodeJSON(&buf, ts); err != nil {
		return errorResult("Encode error: " + err.Error()), nil, nil
	}
	appendWarnings(&buf, warnings)
	return textResult(buf.String()), nil, nil
}

func handleGetEntryPoints(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	eps, warnings, err := profile.RunEntryPoints(ctx, expandPath(input.Path), options(input))
	if err != nil {
		return errorResult("Scan error: " + err.Error()), nil, nil
	}

	var buf bytes.Buffer
	if err := profile.EncodeJSON(&buf, eps); err != nil {
		return errorResult("Encode error: " + err.Error()), nil, nil
	}
	appendWarnings(&buf, warnings)
	return textResult(buf.String()), nil, nil
}

func handleStatus(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	cwd, _ := os.Getwd()

	return textResult(fmt.Sprintf(`repoprof MCP server v%s
Status: connected
Local filesystem access: enabled
Working directory: %s
Cached file reads: %d

Available tools:
  get_structure    - Project tree with line counts and totals
  get_tech_stack   - Package manager, languages, frameworks, dependencies
  get_entry_points - Entry files, config files, HTTP routes`, serverVersion, cwd, cache.Len())), nil, nil
}

func appendWarnings(buf *bytes.Buffer, warnings []scanner.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(buf, "\n%d warnings:\n", len(warnings))
	for i, w := range warnings {
		if i >= 10 {
			fmt.Fprintf(buf, "  ... and %d more\n", len(warnings)-10)
			break
		}
		fmt.Fprintf(buf, "  %s: %s (%s)\n", w.Reason, w.Path, w.Stage)
	}
}
