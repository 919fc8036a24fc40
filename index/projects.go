package index

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/lexandro/organize-mcp/detect"
	"github.com/lexandro/organize-mcp/inspect"
)

// SignalSource extracts content signals from a file.
type SignalSource interface {
	Inspect(path string) inspect.Result
}

// ProjectIndex provides full-text search over detected projects using an in-memory Bleve index.
type ProjectIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewProjectIndex creates an empty in-memory project index.
func NewProjectIndex() (*ProjectIndex, error) {
	bleveIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return &ProjectIndex{index: bleveIndex}, nil
}

// projectDocument is the document stored per project.
type projectDocument struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Language     string `json:"language"`
	Files        string `json:"files"`
	Declarations string `json:"declarations"`
	Imports      string `json:"imports"`
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	stored := func(name string) {
		fm := bleve.NewTextFieldMapping()
		fm.Store = true
		fm.IncludeInAll = true
		docMapping.AddFieldMappingsAt(name, fm)
	}
	stored("name")
	stored("description")

	for _, name := range []string{"files", "declarations", "imports"} {
		fm := bleve.NewTextFieldMapping()
		fm.Store = false
		fm.IncludeInAll = true
		docMapping.AddFieldMappingsAt(name, fm)
	}

	langFieldMapping := bleve.NewKeywordFieldMapping()
	langFieldMapping.Store = true
	langFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("language", langFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Rebuild replaces the index contents with one document per group. Code files are
// inspected through source for declarations and imports; nil source indexes names only.
func (pi *ProjectIndex) Rebuild(grouping *detect.Grouping, source SignalSource) error {
	newIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating bleve index: %w", err)
	}

	batch := newIndex.NewBatch()
	for _, group := range grouping.Groups {
		if err := batch.Index(group.Name, newProjectDocument(group, source)); err != nil {
			newIndex.Close()
			return fmt.Errorf("indexing project %s: %w", group.Name, err)
		}
	}
	if err := newIndex.Batch(batch); err != nil {
		newIndex.Close()
		return fmt.Errorf("writing project batch: %w", err)
	}

	pi.mu.Lock()
	old := pi.index
	pi.index = newIndex
	pi.mu.Unlock()
	return old.Close()
}

func newProjectDocument(group *detect.ProjectGroup, source SignalSource) projectDocument {
	var files, declarations, imports []string
	for _, f := range group.Files {
		files = append(files, f.Name, f.BaseName())
		if source == nil || !f.IsCode {
			continue
		}
		result := source.Inspect(f.Path)
		declarations = append(declarations, result.Signals.Declarations...)
		imports = append(imports, result.Signals.Imports...)
	}
	return projectDocument{
		Name:         strings.ReplaceAll(group.Name, "_", " ") + " " + group.Name,
		Description:  group.Description,
		Language:     group.Language,
		Files:        strings.Join(files, " "),
		Declarations: strings.Join(declarations, " "),
		Imports:      strings.Join(imports, " "),
	}
}

// ProjectHit is one project matching a search.
type ProjectHit struct {
	Name     string
	Language string
	Score    float64
}

// SearchOptions configures a project search.
type SearchOptions struct {
	Query      string
	Language   string // exact language label filter, "" for any
	MaxResults int
}

// Search finds projects by name, description, file names, declarations and imports.
// Query format:
//   - Plain text: match query (word-level matching)
//   - "quoted text": phrase query (exact phrase match)
//   - /regex/: regexp query
func (pi *ProjectIndex) Search(options SearchOptions) ([]ProjectHit, uint64, error) {
	if options.MaxResults <= 0 {
		options.MaxResults = defaultMaxResults
	}

	var q query.Query = buildQuery(options.Query)
	if options.Language != "" {
		langQuery := bleve.NewTermQuery(options.Language)
		langQuery.SetField("language")
		q = bleve.NewConjunctionQuery(q, langQuery)
	}

	request := bleve.NewSearchRequest(q)
	request.Size = options.MaxResults
	request.Fields = []string{"language"}

	pi.mu.RLock()
	defer pi.mu.RUnlock()

	results, err := pi.index.Search(request)
	if err != nil {
		return nil, 0, fmt.Errorf("searching index: %w", err)
	}

	hits := make([]ProjectHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		lang, _ := hit.Fields["language"].(string)
		hits = append(hits, ProjectHit{Name: hit.ID, Language: lang, Score: hit.Score})
	}
	return hits, results.Total, nil
}

// buildQuery parses the query string into a Bleve query.
func buildQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		return bleve.NewRegexpQuery(queryString[1 : len(queryString)-1])
	}
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		return bleve.NewMatchPhraseQuery(queryString[1 : len(queryString)-1])
	}
	return bleve.NewMatchQuery(queryString)
}

// DocumentCount returns the number of indexed projects.
func (pi *ProjectIndex) DocumentCount() uint64 {
	pi.mu.RLock()
	defer pi.mu.RUnlock()
	count, _ := pi.index.DocCount()
	return count
}

// Close closes the Bleve index.
func (pi *ProjectIndex) Close() error {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	return pi.index.Close()
}
