package inspect

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/lexandro/organize-mcp/language"
)

// SummaryLimit is the number of characters kept in Signals.Summary.
const SummaryLimit = 500

// ErrBinaryContent marks files whose content is not text.
var ErrBinaryContent = errors.New("binary content")

// Status reports whether the extracted signals can be trusted.
type Status int

const (
	StatusOK Status = iota
	StatusDegraded
)

func (s Status) String() string {
	if s == StatusDegraded {
		return "degraded"
	}
	return "ok"
}

// Signals are the lightweight facts extracted from a file's text.
type Signals struct {
	Imports      []string
	Declarations []string
	FileRefs     []string // distinct, first occurrence order
	Summary      string
}

// Result is the outcome of inspecting one file. A degraded result carries
// empty Signals and the cause in Err.
type Result struct {
	Signals Signals
	Status  Status
	Err     error
}

// Inspector reads files and extracts Signals. It never fails; problems
// surface as StatusDegraded.
type Inspector struct {
	Patterns []Pattern
	Logger   *slog.Logger
}

// NewInspector creates an inspector using DefaultPatterns.
func NewInspector(logger *slog.Logger) *Inspector {
	return &Inspector{Patterns: DefaultPatterns, Logger: logger}
}

// Inspect reads the file at path and extracts its signals.
func (in *Inspector) Inspect(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return in.degraded(path, fmt.Errorf("reading %s: %w", path, err))
	}
	if language.IsBinaryContent(data) {
		return in.degraded(path, fmt.Errorf("%s: %w", path, ErrBinaryContent))
	}
	return Result{Signals: extract(in.patterns(), string(data)), Status: StatusOK}
}

func (in *Inspector) degraded(path string, err error) Result {
	if in.Logger != nil {
		in.Logger.Debug("inspection degraded", "path", path, "error", err)
	}
	return Result{Status: StatusDegraded, Err: err}
}

func (in *Inspector) patterns() []Pattern {
	if len(in.Patterns) == 0 {
		return DefaultPatterns
	}
	return in.Patterns
}

// InspectContent extracts signals from already-loaded text using DefaultPatterns.
func InspectContent(content string) Signals {
	return extract(DefaultPatterns, content)
}

func extract(patterns []Pattern, content string) Signals {
	content = strings.ToValidUTF8(content, "")

	var signals Signals
	seenRefs := make(map[string]bool)
	for _, p := range patterns {
		for _, m := range p.Expr.FindAllStringSubmatch(content, -1) {
			if len(m) < 2 {
				continue
			}
			value := m[1]
			switch p.Kind {
			case KindImport:
				signals.Imports = append(signals.Imports, value)
			case KindDeclaration:
				signals.Declarations = append(signals.Declarations, value)
			case KindFileRef:
				if !seenRefs[value] {
					seenRefs[value] = true
					signals.FileRefs = append(signals.FileRefs, value)
				}
			}
		}
	}
	signals.Summary = summarize(content)
	return signals
}

func summarize(content string) string {
	if utf8.RuneCountInString(content) <= SummaryLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:SummaryLimit]) + "..."
}
