package ignore

// DefaultExcludedDirs are directory names that never hold project files: version
// control metadata, dependency caches, build output and editor state. They are
// skipped at any depth, compared case-insensitively.
var DefaultExcludedDirs = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Dependencies and virtual environments
	"node_modules",
	"bower_components",
	".venv",
	"venv",
	"env",

	// Caches
	"__pycache__",
	".pytest_cache",
	".mypy_cache",

	// Build output
	"dist",
	"build",
	"target",

	// IDE / Editor
	".idea",
	".vscode",
	".vs",
}

// IgnoreFileName is the per-root ignore file read in addition to .gitignore.
const IgnoreFileName = ".organizeignore"
