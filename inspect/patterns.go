package inspect

import "regexp"

// Kind identifies which Signals field a pattern feeds.
type Kind int

const (
	KindImport Kind = iota
	KindDeclaration
	KindFileRef
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindDeclaration:
		return "declaration"
	case KindFileRef:
		return "fileRef"
	}
	return "unknown"
}

// Pattern extracts the first capture group of Expr as a signal of the given Kind.
type Pattern struct {
	Kind Kind
	Expr *regexp.Regexp
}

// DefaultPatterns is evaluated in order; each pattern's matches are appended in document order.
var DefaultPatterns = []Pattern{
	{KindImport, regexp.MustCompile(`(?i)import\s+(\S+)`)},
	{KindImport, regexp.MustCompile(`(?i)from\s+(\S+)\s+import`)},
	{KindImport, regexp.MustCompile(`(?i)require\(['"]([^'"]+)['"]\)`)},
	{KindImport, regexp.MustCompile(`(?i)#include\s*[<"]([^>"]+)[>"]`)},
	{KindDeclaration, regexp.MustCompile(`(?i)def\s+([a-zA-Z_][a-zA-Z0-9_]*)`)},
	{KindDeclaration, regexp.MustCompile(`(?i)function\s+([a-zA-Z_][a-zA-Z0-9_]*)`)},
	{KindDeclaration, regexp.MustCompile(`(?i)class\s+([a-zA-Z_][a-zA-Z0-9_]*)`)},
	{KindFileRef, regexp.MustCompile(`['"]([^'"\s]*\.[a-zA-Z0-9]+)['"]`)},
}
