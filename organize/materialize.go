package organize

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/otiai10/copy"

	"github.com/lexandro/organize-mcp/detect"
)

// LockFileName is the advisory lock held in the output root during a run.
const LockFileName = ".organize.lock"

// ErrOutputLocked is returned when another run holds the output root.
var ErrOutputLocked = errors.New("output directory is in use by another run")

// Materializer copies project groups into per-project directories under OutputDir.
type Materializer struct {
	OutputDir string
	Logger    *slog.Logger
}

// Lock creates the output root and takes its advisory lock. The returned func releases it.
func (m *Materializer) Lock() (func() error, error) {
	if err := os.MkdirAll(m.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", m.OutputDir, err)
	}
	fileLock := flock.New(filepath.Join(m.OutputDir, LockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", m.OutputDir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, m.OutputDir)
	}
	return fileLock.Unlock, nil
}

// ProjectDir returns the directory a group is materialized into.
func (m *Materializer) ProjectDir(group *detect.ProjectGroup) string {
	return filepath.Join(m.OutputDir, group.Name)
}

// Materialize copies every file of group into its project directory. Files of a
// regular project share one source directory and are copied flat; misc files keep
// their relative paths. Per-file failures are collected and do not stop the copy.
func (m *Materializer) Materialize(group *detect.ProjectGroup) (dir string, copied int, err error) {
	dir = m.ProjectDir(group)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return dir, 0, fmt.Errorf("creating project directory %s: %w", dir, err)
	}

	var errs []error
	for _, f := range group.Files {
		dest := filepath.Join(dir, f.Name)
		if group.IsMisc() {
			dest = filepath.Join(dir, filepath.FromSlash(f.RelativePath))
		}
		opts := copy.Options{
			PreserveTimes: true,
			OnSymlink: func(string) copy.SymlinkAction {
				return copy.Skip
			},
		}
		if err := copy.Copy(f.Path, dest, opts); err != nil {
			m.logger().Warn("failed to copy file", "project", group.Name, "file", f.RelativePath, "error", err)
			errs = append(errs, fmt.Errorf("copying %s: %w", f.RelativePath, err))
			continue
		}
		copied++
	}
	return dir, copied, errors.Join(errs...)
}

func (m *Materializer) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}
