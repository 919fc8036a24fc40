package watcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexandro/organize-mcp/ignore"
)

func newTestWatcher(t *testing.T, root string, maxDepth int) *Watcher {
	t.Helper()
	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(root, matcher, Options{MaxDepth: maxDepth, Debounce: 50 * time.Millisecond}, logger)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	go w.Start()
	return w
}

func waitForPath(t *testing.T, w *Watcher, path string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case batch := <-w.Events():
			for _, e := range batch {
				if e.Path == path {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", path)
		}
	}
}

func Test_Watcher_ReportsFileWrites(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "proj"), 0755); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, root, 0)

	target := filepath.Join(root, "proj", "main.py")
	if err := os.WriteFile(target, []byte("print(1)\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, w, target)
}

func Test_Watcher_IgnoresExcludedDirs(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "node_modules"), 0755); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, root, 0)

	if err := os.WriteFile(filepath.Join(root, "node_modules", "x.js"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(root, "marker.py")
	if err := os.WriteFile(marker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case batch := <-w.Events():
			for _, e := range batch {
				if filepath.Base(filepath.Dir(e.Path)) == "node_modules" {
					t.Fatalf("unexpected event for ignored path %s", e.Path)
				}
				if e.Path == marker {
					return
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for marker event")
		}
	}
}

func Test_Watcher_WithinDepth(t *testing.T) {
	w := &Watcher{rootDir: "/data", maxDepth: 2}

	tests := []struct {
		dir  string
		want bool
	}{
		{"/data", true},
		{"/data/a", true},
		{"/data/a/b", true},
		{"/data/a/b/c", false},
	}
	for _, tt := range tests {
		if got := w.withinDepth(filepath.FromSlash(tt.dir)); got != tt.want {
			t.Errorf("withinDepth(%q) = %v, want %v", tt.dir, got, tt.want)
		}
	}

	unlimited := &Watcher{rootDir: "/data"}
	if !unlimited.withinDepth(filepath.FromSlash("/data/a/b/c/d/e")) {
		t.Error("expected zero depth to watch everything")
	}
}
