package tools

import (
	"fmt"
	"sync"
	"time"

	"github.com/lexandro/organize-mcp/docs"
	"github.com/lexandro/organize-mcp/index"
	"github.com/lexandro/organize-mcp/organize"
)

// Workspace holds the latest detection of the served root and the indexes built from it.
// Handlers read it concurrently while the watcher loop replaces it.
type Workspace struct {
	mu        sync.RWMutex
	detection *organize.Detection

	Catalog     *index.Catalog
	Projects    *index.ProjectIndex
	Synthesizer *docs.Synthesizer
	StartTime   time.Time
}

// NewWorkspace creates an empty workspace around a project index.
func NewWorkspace(projects *index.ProjectIndex, synthesizer *docs.Synthesizer) *Workspace {
	if synthesizer == nil {
		synthesizer = docs.NewSynthesizer(docs.Config{})
	}
	return &Workspace{
		Catalog:     index.NewCatalog(),
		Projects:    projects,
		Synthesizer: synthesizer,
		StartTime:   time.Now(),
	}
}

// Update loads a new detection into the catalog and project index, then makes it current.
// On an index error the previous detection stays current.
func (w *Workspace) Update(detection *organize.Detection, source index.SignalSource) error {
	if err := w.Projects.Rebuild(detection.Grouping, source); err != nil {
		return fmt.Errorf("rebuilding project index: %w", err)
	}
	w.Catalog.Load(detection.Grouping)

	w.mu.Lock()
	w.detection = detection
	w.mu.Unlock()
	return nil
}

// Detection returns the current detection, or nil before the first Update.
func (w *Workspace) Detection() *organize.Detection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.detection
}
