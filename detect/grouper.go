package detect

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexandro/organize-mcp/scan"
)

// ProjectGroup is a named bundle of files treated as one codebase.
type ProjectGroup struct {
	Name        string
	Files       []scan.FileRecord
	Language    string
	Description string
	SourceDir   string // bucket directory the files came from, "" for the root and for misc
	Split       bool   // carved from a non-cohesive directory
}

// IsMisc reports whether this is the catch-all group.
func (g *ProjectGroup) IsMisc() bool {
	return g.Name == MiscName
}

// CodeFiles returns the group's code files in order.
func (g *ProjectGroup) CodeFiles() []scan.FileRecord {
	return codeOnly(g.Files)
}

// DataFiles returns the group's data asset files in order.
func (g *ProjectGroup) DataFiles() []scan.FileRecord {
	var out []scan.FileRecord
	for _, f := range g.Files {
		if f.IsData {
			out = append(out, f)
		}
	}
	return out
}

// Grouping is the ordered result of grouping one scan.
type Grouping struct {
	Groups []*ProjectGroup
	byName map[string]*ProjectGroup
}

func newGrouping() *Grouping {
	return &Grouping{byName: make(map[string]*ProjectGroup)}
}

func (g *Grouping) add(group *ProjectGroup) {
	g.Groups = append(g.Groups, group)
	g.byName[group.Name] = group
}

// Get returns the group with the given name.
func (g *Grouping) Get(name string) (*ProjectGroup, bool) {
	group, ok := g.byName[name]
	return group, ok
}

// Names returns the group names in output order.
func (g *Grouping) Names() []string {
	names := make([]string, len(g.Groups))
	for i, group := range g.Groups {
		names[i] = group.Name
	}
	return names
}

// Len returns the number of groups.
func (g *Grouping) Len() int {
	return len(g.Groups)
}

// FileCount returns the total number of files across all groups.
func (g *Grouping) FileCount() int {
	n := 0
	for _, group := range g.Groups {
		n += len(group.Files)
	}
	return n
}

// Grouper partitions scanned files into project groups.
type Grouper struct {
	Analyzer *Analyzer
	Logger   *slog.Logger
}

// NewGrouper creates a grouper.
func NewGrouper(analyzer *Analyzer, logger *slog.Logger) *Grouper {
	return &Grouper{Analyzer: analyzer, Logger: logger}
}

type bucket struct {
	dir   string
	files []scan.FileRecord
}

// Group assigns every file to exactly one group. Groups follow the first-appearance
// order of their directories; the misc group, if any, comes last.
func (g *Grouper) Group(files []scan.FileRecord) (*Grouping, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	analyzer := g.Analyzer
	if analyzer == nil {
		analyzer = &Analyzer{Logger: logger}
	}

	grouping := newGrouping()
	names := newNameRegistry()
	var misc []scan.FileRecord

	for _, b := range bucketByDirectory(files) {
		code := codeOnly(b.files)
		if len(code) == 0 {
			misc = append(misc, b.files...)
			continue
		}

		verdict, err := analyzer.Analyze(code)
		if err != nil {
			return nil, fmt.Errorf("analyzing %q: %w", b.dir, err)
		}

		if verdict.Cohesive {
			grouping.add(&ProjectGroup{
				Name:        names.claim(ProjectName(b.dir, code)),
				Files:       b.files,
				Language:    verdict.Language,
				Description: verdict.Description,
				SourceDir:   b.dir,
			})
			continue
		}

		logger.Debug("splitting directory", "dir", b.dir, "codeFiles", len(code), "languages", verdict.Languages)
		groups, leftovers := splitBucket(b)
		for _, group := range groups {
			group.Name = names.claim(group.Name)
			grouping.add(group)
		}
		misc = append(misc, leftovers...)
	}

	if len(misc) > 0 {
		grouping.add(&ProjectGroup{
			Name:        MiscName,
			Files:       misc,
			Language:    MiscLanguage,
			Description: MiscDescription,
		})
	}

	logger.Info("grouping complete", "files", len(files), "projects", grouping.Len())
	return grouping, nil
}

// splitBucket makes one group per code file. Each non-code sibling goes to the code
// file with the longest base name that prefixes its name; unmatched siblings are returned.
func splitBucket(b bucket) ([]*ProjectGroup, []scan.FileRecord) {
	var groups []*ProjectGroup
	var bases []string
	for _, f := range b.files {
		if !f.IsCode {
			continue
		}
		groups = append(groups, &ProjectGroup{
			Name:        SplitProjectName(f),
			Files:       []scan.FileRecord{f},
			Language:    f.Language(),
			Description: fmt.Sprintf("Project based on %s", f.Name),
			SourceDir:   b.dir,
			Split:       true,
		})
		bases = append(bases, f.BaseName())
	}

	var leftovers []scan.FileRecord
	for _, f := range b.files {
		if f.IsCode {
			continue
		}
		owner := -1
		for i, base := range bases {
			if base == "" || !strings.HasPrefix(f.Name, base) {
				continue
			}
			if owner < 0 || len(base) > len(bases[owner]) {
				owner = i
			}
		}
		if owner < 0 {
			leftovers = append(leftovers, f)
			continue
		}
		groups[owner].Files = append(groups[owner].Files, f)
	}
	return groups, leftovers
}

func bucketByDirectory(files []scan.FileRecord) []bucket {
	var buckets []bucket
	index := make(map[string]int)
	for _, f := range files {
		i, ok := index[f.Directory]
		if !ok {
			i = len(buckets)
			index[f.Directory] = i
			buckets = append(buckets, bucket{dir: f.Directory})
		}
		buckets[i].files = append(buckets[i].files, f)
	}
	return buckets
}

func codeOnly(files []scan.FileRecord) []scan.FileRecord {
	var out []scan.FileRecord
	for _, f := range files {
		if f.IsCode {
			out = append(out, f)
		}
	}
	return out
}
