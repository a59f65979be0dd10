package scanner

import (
	"path"
	"sort"
	"strings"
)

// OtherLanguage is the explicit bucket for files whose extension is not in
// the language table. They are reported, never silently dropped.
const OtherLanguage = "Other"

// languageByExt maps a lowercased extension (with dot) to a display name.
var languageByExt = map[string]string{
	".py":     "Python",
	".js":     "JavaScript",
	".mjs":    "JavaScript",
	".cjs":    "JavaScript",
	".jsx":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".vue":    "Vue",
	".svelte": "Svelte",
	".go":     "Go",
	".rs":     "Rust",
	".java":   "Java",
	".kt":     "Kotlin",
	".kts":    "Kotlin",
	".c":      "C",
	".h":      "C",
	".cpp":    "C++",
	".cc":     "C++",
	".hpp":    "C++",
	".cs":     "C#",
	".fs":     "F#",
	".swift":  "Swift",
	".m":      "Objective-C",
	".mm":     "Objective-C",
	".rb":     "Ruby",
	".erb":    "Ruby",
	".php":    "PHP",
	".scala":  "Scala",
	".dart":   "Dart",
	".lua":    "Lua",
	".r":      "R",
	".ex":     "Elixir",
	".exs":    "Elixir",
	".hs":     "Haskell",
	".sql":    "SQL",
	".sh":     "Shell",
	".bash":   "Shell",
	".zsh":    "Shell",
	".ps1":    "PowerShell",
	".html":   "HTML",
	".css":    "CSS",
	".scss":   "CSS",
	".sass":   "CSS",
	".less":   "CSS",
	".md":     "Markdown",
	".rst":    "Markdown",
	".json":   "JSON",
	".yaml":   "YAML",
	".yml":    "YAML",
	".toml":   "TOML",
	".xml":    "XML",
	".proto":  "Protobuf",
	".tf":     "Terraform",
	".hcl":    "Terraform",
}

// LanguageStat aggregates file and line counts for one language.
type LanguageStat struct {
	Language   string   `json:"language"`
	Extensions []string `json:"extensions"`
	Files      int      `json:"files"`
	Lines      int      `json:"lines"`
}

// LanguageForExt returns the language for an extension, or OtherLanguage.
func LanguageForExt(ext string) string {
	if lang, ok := languageByExt[strings.ToLower(ext)]; ok {
		return lang
	}
	return OtherLanguage
}

// Classify tallies per-language file and line counts over the walked tree.
// Every counted file maps to exactly one language. Ordering: file count
// descending, ties broken by language name ascending.
func Classify(tree *TreeNode) []LanguageStat {
	byLang := map[string]*LanguageStat{}
	exts := map[string]map[string]bool{}

	tree.WalkFiles(func(f *TreeNode) {
		ext := strings.ToLower(path.Ext(f.Name))
		lang := LanguageForExt(ext)
		st, ok := byLang[lang]
		if !ok {
			st = &LanguageStat{Language: lang}
			byLang[lang] = st
			exts[lang] = map[string]bool{}
		}
		st.Files++
		st.Lines += f.Lines
		if ext != "" {
			exts[lang][ext] = true
		}
	})

	stats := make([]LanguageStat, 0, len(byLang))
	for lang, st := range byLang {
		for e := range exts[lang] {
			st.Extensions = append(st.Extensions, e)
		}
		sort.Strings(st.Extensions)
		if st.Extensions == nil {
			st.Extensions = []string{}
		}
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Files != stats[j].Files {
			return stats[i].Files > stats[j].Files
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}

// PrimaryLanguage returns the most common real language, skipping the
// markup/data buckets that rarely identify a project. Empty when nothing
// qualifies.
func PrimaryLanguage(stats []LanguageStat) string {
	secondary := map[string]bool{
		OtherLanguage: true, "Markdown": true, "JSON": true, "YAML": true,
		"TOML": true, "XML": true, "HTML": true, "CSS": true, "SQL": true,
	}
	for _, st := range stats {
		if !secondary[st.Language] {
			return st.Language
		}
	}
	return ""
}
