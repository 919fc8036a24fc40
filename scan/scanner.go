package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/organize-mcp/ignore"
)

// DefaultMaxDepth is the deepest directory level (root = 0) whose files are scanned.
// Subtrees below it are skipped.
const DefaultMaxDepth = 4

// ErrRootNotFound is returned when the scan root is missing or not a directory.
var ErrRootNotFound = errors.New("scan root not found")

// Scanner walks a directory tree and produces FileRecords.
type Scanner struct {
	Matcher  *ignore.Matcher
	MaxDepth int
	Logger   *slog.Logger
}

// Result holds the outcome of one scan.
type Result struct {
	Root       string
	Files      []FileRecord
	TotalBytes int64
	// Skipped lists root-relative paths that could not be read. Their subtrees
	// contributed zero files; the walk continued elsewhere.
	Skipped []string
	// Truncated lists directories at the depth limit whose children were not visited.
	Truncated []string
}

// NewScanner creates a scanner. A nil matcher uses only the default exclusions.
func NewScanner(matcher *ignore.Matcher, maxDepth int, logger *slog.Logger) *Scanner {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Scanner{Matcher: matcher, MaxDepth: maxDepth, Logger: logger}
}

// Scan walks rootDir in lexical order and returns every eligible file.
// Unreadable subtrees are recorded in Result.Skipped and never abort the walk.
func (s *Scanner) Scan(rootDir string) (*Result, error) {
	rootAbs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", rootDir, err)
	}
	info, err := os.Stat(rootAbs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, rootAbs)
	}

	matcher := s.Matcher
	if matcher == nil {
		matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: rootAbs})
	}
	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	result := &Result{Root: rootAbs}

	filepath.WalkDir(rootAbs, func(path string, d fs.DirEntry, err error) error {
		relPath, relErr := filepath.Rel(rootAbs, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if err != nil {
			logger.Debug("skipped unreadable path", "path", relPath, "error", err)
			result.Skipped = append(result.Skipped, relPath)
			if d != nil && d.IsDir() && path != rootAbs {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == rootAbs {
				return nil
			}
			if matcher.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if depthOf(relPath) > maxDepth {
				result.Truncated = append(result.Truncated, relPath)
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if matcher.ShouldIgnore(path, false) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Debug("skipped unreadable file", "path", relPath, "error", err)
			result.Skipped = append(result.Skipped, relPath)
			return nil
		}

		result.Files = append(result.Files, NewFileRecord(path, relPath, info.Size()))
		result.TotalBytes += info.Size()
		return nil
	})

	logger.Info("scan complete",
		"root", rootAbs,
		"files", len(result.Files),
		"skipped", len(result.Skipped),
		"truncated", len(result.Truncated),
	)
	return result, nil
}

// depthOf returns the directory depth of a root-relative directory path ("a" = 1, "a/b" = 2).
func depthOf(relDir string) int {
	if relDir == "" || relDir == "." {
		return 0
	}
	return strings.Count(relDir, "/") + 1
}
