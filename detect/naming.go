package detect

import (
	"path"
	"strconv"
	"strings"

	"github.com/lexandro/organize-mcp/scan"
)

// Catch-all group for files without a code sibling.
const (
	MiscName        = "misc"
	MiscLanguage    = "mixed"
	MiscDescription = "Miscellaneous files that don't belong to specific projects"
)

const projectSuffix = "_project"

// genericDirNames are directory names too vague to name a project after.
var genericDirNames = map[string]bool{
	"src":   true,
	"code":  true,
	"files": true,
}

// ProjectName names a cohesive directory bucket. A meaningful directory name wins;
// otherwise the largest code file (first on ties) names the project.
func ProjectName(directory string, codeFiles []scan.FileRecord) string {
	if directory != "" && directory != "." {
		base := normalizeName(path.Base(directory))
		if base != "" && !genericDirNames[base] {
			return base
		}
	}

	if len(codeFiles) == 0 {
		return projectSuffix[1:]
	}
	largest := codeFiles[0]
	for _, f := range codeFiles[1:] {
		if f.SizeBytes > largest.SizeBytes {
			largest = f
		}
	}
	return normalizeName(largest.BaseName()) + projectSuffix
}

// SplitProjectName names the project carved out of a non-cohesive directory for one code file.
func SplitProjectName(file scan.FileRecord) string {
	return strings.ReplaceAll(file.BaseName(), " ", "_") + projectSuffix
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// nameRegistry hands out unique project names. The first claimant keeps a name,
// later ones get _2, _3 and so on. Names are compared case-insensitively since
// they become directory and repository names. MiscName is reserved.
type nameRegistry struct {
	used map[string]bool
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{used: map[string]bool{MiscName: true}}
}

func (r *nameRegistry) claim(name string) string {
	if key := strings.ToLower(name); !r.used[key] {
		r.used[key] = true
		return name
	}
	for i := 2; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if key := strings.ToLower(candidate); !r.used[key] {
			r.used[key] = true
			return candidate
		}
	}
}
