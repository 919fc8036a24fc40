package scan

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/organize-mcp/ignore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func relPaths(files []FileRecord) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelativePath)
	}
	return out
}

func Test_Scanner_ProducesRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "import utils\n")
	writeFile(t, root, "analysis/Report.CSV", "a,b\n1,2\n")
	writeFile(t, root, "analysis/notes", "plain")

	scanner := NewScanner(nil, 0, testLogger())
	result, err := scanner.Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"analysis/Report.CSV", "analysis/notes", "main.py"}, relPaths(result.Files))

	csv := result.Files[0]
	assert.Equal(t, "Report.CSV", csv.Name)
	assert.Equal(t, ".csv", csv.Extension)
	assert.Equal(t, "analysis", csv.Directory)
	assert.True(t, csv.IsData)
	assert.False(t, csv.IsCode)
	assert.Equal(t, int64(8), csv.SizeBytes)

	notes := result.Files[1]
	assert.Equal(t, "", notes.Extension)
	assert.False(t, notes.IsCode)
	assert.False(t, notes.IsData)

	main := result.Files[2]
	assert.Equal(t, "", main.Directory)
	assert.True(t, main.IsCode)
	assert.Equal(t, "main", main.BaseName())
	assert.Equal(t, "Python", main.Language())
	assert.Equal(t, filepath.Join(result.Root, "main.py"), main.Path)
	assert.Equal(t, int64(len("import utils\n")+len("a,b\n1,2\n")+len("plain")), result.TotalBytes)
}

func Test_Scanner_SkipsExcludedDirsAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/index.js", "require('./lib')")
	writeFile(t, root, "app/node_modules/left-pad/index.js", "")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main")
	writeFile(t, root, "tool/venv/lib/site.py", "")
	writeFile(t, root, "tool/__pycache__/x.pyc", "")
	writeFile(t, root, "tool/run.sh", "echo hi")

	result, err := NewScanner(nil, 0, testLogger()).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"app/index.js", "tool/run.sh"}, relPaths(result.Files))
}

func Test_Scanner_DepthCap(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b/c/d/kept.py", "")
	writeFile(t, root, "a/b/c/d/e/dropped.py", "")

	result, err := NewScanner(nil, 4, testLogger()).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a/b/c/d/kept.py"}, relPaths(result.Files))
	assert.Equal(t, []string{"a/b/c/d/e"}, result.Truncated)
}

func Test_Scanner_UsesMatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.py", "")
	writeFile(t, root, "skip.bak", "")
	writeFile(t, root, "out/old/a.py", "")

	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        root,
		CustomPatterns: []string{"*.bak"},
		ExcludePaths:   []string{filepath.Join(root, "out")},
	})
	result, err := NewScanner(matcher, 0, testLogger()).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.py"}, relPaths(result.Files))
}

func Test_Scanner_MissingRoot(t *testing.T) {
	_, err := NewScanner(nil, 0, testLogger()).Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	require.ErrorIs(t, err, ErrRootNotFound)
}

func Test_Scanner_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.py", "")
	_, err := NewScanner(nil, 0, testLogger()).Scan(filepath.Join(root, "file.py"))
	require.ErrorIs(t, err, ErrRootNotFound)
}

func Test_Scanner_UnreadableSubtreeContinues(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeFile(t, root, "open/a.py", "")
	writeFile(t, root, "locked/b.py", "")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	result, err := NewScanner(nil, 0, testLogger()).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"open/a.py"}, relPaths(result.Files))
	assert.Contains(t, result.Skipped, "locked")
}

func Test_NewFileRecord_NestedDirectory(t *testing.T) {
	rec := NewFileRecord("/data/x/y/My Script.PY", "x/y/My Script.PY", 42)
	assert.Equal(t, "x/y", rec.Directory)
	assert.Equal(t, ".py", rec.Extension)
	assert.Equal(t, "My Script", rec.BaseName())
	assert.True(t, rec.IsCode)
}

func Test_NewFileRecord_LeadingDotIsNotExtension(t *testing.T) {
	tests := []struct {
		name     string
		ext      string
		baseName string
		isCode   bool
	}{
		{".py", "", ".py", false},
		{"..py", "", "..py", false},
		{".env", "", ".env", false},
		{".config.js", ".js", ".config", true},
		{"Makefile", "", "Makefile", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewFileRecord("/data/"+tt.name, tt.name, 1)
			assert.Equal(t, tt.ext, rec.Extension)
			assert.Equal(t, tt.baseName, rec.BaseName())
			assert.Equal(t, tt.isCode, rec.IsCode)
		})
	}
}
