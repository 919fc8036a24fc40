package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides which paths the scanner skips. It combines the default excluded
// directory names, the root .gitignore (optional), the root .organizeignore, custom
// doublestar patterns and explicitly excluded absolute paths.
// Thread-safe: Reload() acquires a write lock, ShouldIgnore() acquires a read lock.
type Matcher struct {
	mu               sync.RWMutex
	rootDir          string
	respectGitignore bool
	gitIgnore        gitignore.GitIgnore
	organizeIgnore   gitignore.GitIgnore
	excludedDirs     map[string]bool
	customPatterns   []string
	excludedPaths    []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir string
	// RespectGitignore applies the root .gitignore when set.
	RespectGitignore bool
	// CustomPatterns are doublestar globs matched against root-relative paths and base names.
	CustomPatterns []string
	// ExcludePaths are absolute paths skipped together with everything below them,
	// typically the output directory when it lives inside the scanned tree.
	ExcludePaths []string
}

// NewMatcher creates an ignore matcher for the given root.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:          options.RootDir,
		respectGitignore: options.RespectGitignore,
		excludedDirs:     make(map[string]bool, len(DefaultExcludedDirs)),
	}
	for _, name := range DefaultExcludedDirs {
		matcher.excludedDirs[strings.ToLower(name)] = true
	}
	for _, pattern := range options.CustomPatterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			continue
		}
		matcher.customPatterns = append(matcher.customPatterns, pattern)
	}
	for _, p := range options.ExcludePaths {
		if abs, err := filepath.Abs(p); err == nil {
			matcher.excludedPaths = append(matcher.excludedPaths, filepath.Clean(abs))
		}
	}

	matcher.gitIgnore, matcher.organizeIgnore = matcher.loadIgnoreFiles()
	return matcher
}

// ShouldIgnore returns true if the given absolute path should be excluded from the scan.
func (m *Matcher) ShouldIgnore(absolutePath string, isDir bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.isExcludedPath(absolutePath) {
		return true
	}

	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	if m.hasExcludedDirComponent(relativePath, isDir) {
		return true
	}

	// Relative() does not require the file to exist on disk
	for _, gi := range []gitignore.GitIgnore{m.gitIgnore, m.organizeIgnore} {
		if gi == nil {
			continue
		}
		if match := gi.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(relativePath)
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely during traversal.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	if m.excludedDirs[strings.ToLower(filepath.Base(absolutePath))] {
		return true
	}
	return m.ShouldIgnore(absolutePath, true)
}

// IsExcludedDirName reports whether a bare directory name is on the default exclusion list.
func (m *Matcher) IsExcludedDirName(name string) bool {
	return m.excludedDirs[strings.ToLower(name)]
}

func (m *Matcher) isExcludedPath(absolutePath string) bool {
	clean := filepath.Clean(absolutePath)
	for _, excluded := range m.excludedPaths {
		if clean == excluded || strings.HasPrefix(clean, excluded+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// hasExcludedDirComponent checks the directory components of a relative path. The
// last component only counts when the path itself is a directory.
func (m *Matcher) hasExcludedDirComponent(relativePath string, isDir bool) bool {
	parts := strings.Split(relativePath, "/")
	if !isDir {
		parts = parts[:len(parts)-1]
	}
	for _, part := range parts {
		if m.excludedDirs[strings.ToLower(part)] {
			return true
		}
	}
	return false
}

func (m *Matcher) matchesCustomPatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.customPatterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// Reload re-reads .gitignore and .organizeignore from disk.
// Used when the watcher detects changes to these files.
func (m *Matcher) Reload() {
	gitIgnore, organizeIgnore := m.loadIgnoreFiles()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = gitIgnore
	m.organizeIgnore = organizeIgnore
}

func (m *Matcher) loadIgnoreFiles() (gitignore.GitIgnore, gitignore.GitIgnore) {
	var gitIgnore gitignore.GitIgnore
	if m.respectGitignore {
		gitIgnore = loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)
	}
	return gitIgnore, loadIgnoreFile(filepath.Join(m.rootDir, IgnoreFileName), m.rootDir)
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
