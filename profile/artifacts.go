package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Artifact filenames written by WriteArtifacts.
const (
	StructureFile   = "structure.json"
	TechStackFile   = "tech-stack.json"
	EntryPointsFile = "entry-points.json"
)

// EncodeJSON writes v as two-space-indented JSON with a trailing newline.
// Struct tag order fixes field order, so repeated runs on unchanged input
// produce byte-identical output.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteArtifacts writes the three result files into dir, creating it if
// needed.
func (r *Report) WriteArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	files := []struct {
		name string
		v    any
	}{
		{StructureFile, r.Structure},
		{TechStackFile, r.TechStack},
		{EntryPointsFile, r.EntryPoints},
	}
	for _, f := range files {
		if err := writeJSONFile(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := EncodeJSON(out, v); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}
