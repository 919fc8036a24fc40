package language

import (
	"path/filepath"
	"strings"
)

// Unknown is the label returned for extensions that are not in the table.
const Unknown = "Unknown"

// ExtensionToLanguage maps lowercased file extensions (without dot) to language labels.
// The table is fixed: cohesion decisions count distinct labels, so adding an entry
// can change how a directory is grouped.
var ExtensionToLanguage = map[string]string{
	"py":    "Python",
	"js":    "JavaScript",
	"ts":    "TypeScript",
	"java":  "Java",
	"cpp":   "C++",
	"c":     "C",
	"cs":    "C#",
	"php":   "PHP",
	"rb":    "Ruby",
	"go":    "Go",
	"rs":    "Rust",
	"swift": "Swift",
	"kt":    "Kotlin",
	"scala": "Scala",
	"r":     "R",
	"m":     "MATLAB",
	"pl":    "Perl",
	"sh":    "Shell",
	"sql":   "SQL",
	"html":  "HTML",
	"css":   "CSS",
	"json":  "JSON",
	"yaml":  "YAML",
	"yml":   "YAML",
	"ipynb": "Jupyter Notebook",
}

// Classify returns the language label for an extension. The leading dot is optional
// and matching is case-insensitive. Returns Unknown if the extension is not recognized.
func Classify(extension string) string {
	ext := normalizeExtension(extension)
	if lang, ok := ExtensionToLanguage[ext]; ok {
		return lang
	}
	return Unknown
}

// DetectLanguage returns the language label for a file path based on its extension.
func DetectLanguage(filePath string) string {
	return Classify(filepath.Ext(filePath))
}

func normalizeExtension(extension string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
}
