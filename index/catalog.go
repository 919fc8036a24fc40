package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexandro/organize-mcp/detect"
	"github.com/lexandro/organize-mcp/scan"
)

const defaultMaxResults = 50

// Entry is one scanned file and the project that owns it.
type Entry struct {
	File    scan.FileRecord
	Project string
}

// Catalog maps every scanned file to its owning project for fast path and glob lookups.
// It is replaced wholesale after each detection.
type Catalog struct {
	mu          sync.RWMutex
	entries     map[string]*Entry // key: relative path (forward slashes)
	sortedPaths []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*Entry)}
}

// Load replaces the catalog contents with the files of grouping.
func (c *Catalog) Load(grouping *detect.Grouping) {
	entries := make(map[string]*Entry, grouping.FileCount())
	paths := make([]string, 0, grouping.FileCount())
	for _, group := range grouping.Groups {
		for _, f := range group.Files {
			entries[f.RelativePath] = &Entry{File: f, Project: group.Name}
			paths = append(paths, f.RelativePath)
		}
	}
	sort.Strings(paths)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.sortedPaths = paths
}

// Get returns the entry for a relative path, or nil if it is not cataloged.
func (c *Catalog) Get(relativePath string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[strings.ReplaceAll(relativePath, "\\", "/")]
}

// FileCount returns the number of cataloged files.
func (c *Catalog) FileCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TotalSizeBytes returns the total size of all cataloged files.
func (c *Catalog) TotalSizeBytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int64
	for _, e := range c.entries {
		total += e.File.SizeBytes
	}
	return total
}

// LanguageCounts returns language -> file count over code files.
func (c *Catalog) LanguageCounts() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range c.entries {
		if e.File.IsCode {
			counts[e.File.Language()]++
		}
	}
	return counts
}

// FindByGlob returns entries whose relative path matches a doublestar pattern, in path order.
func (c *Catalog) FindByGlob(pattern string, maxResults int) ([]Entry, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []Entry
	for _, path := range c.sortedPaths {
		if len(results) >= maxResults {
			break
		}
		matched, err := doublestar.Match(pattern, path)
		if err != nil || !matched {
			continue
		}
		results = append(results, *c.entries[path])
	}
	return results, nil
}
