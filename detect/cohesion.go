package detect

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lexandro/organize-mcp/inspect"
	"github.com/lexandro/organize-mcp/scan"
)

// ErrNoCodeFiles is returned when cohesion is requested for an empty file set.
var ErrNoCodeFiles = errors.New("no code files to analyze")

// Thresholds below which a directory is kept together regardless of references.
const (
	maxCohesiveLanguages = 2
	maxSmallGroupFiles   = 3
)

// ContentInspector extracts signals from a file.
type ContentInspector interface {
	Inspect(path string) inspect.Result
}

// Verdict is the outcome of a cohesion analysis.
type Verdict struct {
	Cohesive        bool
	Language        string
	Description     string
	Languages       []string // distinct labels, sorted
	CrossReferences int
}

// Analyzer decides whether the code files of one directory form a single project.
type Analyzer struct {
	Inspector ContentInspector
	Logger    *slog.Logger
}

// NewAnalyzer creates an analyzer backed by the given inspector.
func NewAnalyzer(inspector ContentInspector, logger *slog.Logger) *Analyzer {
	return &Analyzer{Inspector: inspector, Logger: logger}
}

// Analyze returns the cohesion verdict for codeFiles. It fails only when
// codeFiles is empty.
func (a *Analyzer) Analyze(codeFiles []scan.FileRecord) (Verdict, error) {
	if len(codeFiles) == 0 {
		return Verdict{}, ErrNoCodeFiles
	}

	if len(codeFiles) == 1 {
		lang := codeFiles[0].Language()
		return Verdict{
			Cohesive:    true,
			Language:    lang,
			Description: fmt.Sprintf("Single-file project: %s", codeFiles[0].Name),
			Languages:   []string{lang},
		}, nil
	}

	counts := make(map[string]int)
	baseNames := make([]string, 0, len(codeFiles))
	for _, f := range codeFiles {
		counts[f.Language()]++
		if base := f.BaseName(); base != "" {
			baseNames = append(baseNames, base)
		}
	}

	crossRefs := 0
	for _, f := range codeFiles {
		result := a.inspect(f.Path)
		if result.Status == inspect.StatusDegraded {
			a.logger().Debug("inspection degraded", "path", f.RelativePath, "error", result.Err)
		}
		for _, imp := range result.Signals.Imports {
			if containsAny(imp, baseNames) {
				crossRefs++
			}
		}
	}

	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	dominant := dominantLanguage(languages, counts)
	verdict := Verdict{
		Cohesive: len(languages) <= maxCohesiveLanguages ||
			crossRefs > 0 ||
			len(codeFiles) <= maxSmallGroupFiles,
		Language:        dominant,
		Description:     fmt.Sprintf("Multi-file %s project", dominant),
		Languages:       languages,
		CrossReferences: crossRefs,
	}

	a.logger().Debug("cohesion analyzed",
		"files", len(codeFiles),
		"languages", len(languages),
		"crossRefs", crossRefs,
		"cohesive", verdict.Cohesive,
	)
	return verdict, nil
}

func (a *Analyzer) inspect(path string) inspect.Result {
	if a.Inspector == nil {
		return inspect.Result{Status: inspect.StatusDegraded}
	}
	return a.Inspector.Inspect(path)
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// dominantLanguage picks the label with the most files. languages must be sorted,
// so the first label wins ties.
func dominantLanguage(languages []string, counts map[string]int) string {
	best := ""
	for _, lang := range languages {
		if best == "" || counts[lang] > counts[best] {
			best = lang
		}
	}
	return best
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
