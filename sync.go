package main

import (
	"log/slog"
	"time"

	"github.com/lexandro/organize-mcp/scan"
)

// SyncResult holds the outcome of a single sync verification run.
type SyncResult struct {
	MissingFiles  int // files on disk but not in the current detection
	StaleFiles    int // files in the detection but no longer on disk
	ModifiedFiles int // files whose size changed
	Rescanned     bool
	Duration      time.Duration
}

// InSync reports whether the detection matched the disk.
func (r SyncResult) InSync() bool {
	return r.MissingFiles+r.StaleFiles+r.ModifiedFiles == 0
}

// runPeriodicSync catches changes the watcher missed, such as directories deeper
// than the watch limit or events dropped by the OS. It runs until stop is closed.
func runPeriodicSync(interval time.Duration, live *liveDetection, logger *slog.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sync started", "interval", interval)

	for {
		select {
		case <-stop:
			logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			result, err := performSyncVerification(live)
			if err != nil {
				logger.Warn("sync verification failed", "error", err)
				continue
			}
			if result.InSync() {
				logger.Debug("sync verification complete, detection is in sync", "duration", result.Duration)
				continue
			}
			logger.Info("sync verification complete",
				"missing", result.MissingFiles,
				"stale", result.StaleFiles,
				"modified", result.ModifiedFiles,
				"duration", result.Duration,
			)
		}
	}
}

// performSyncVerification compares a fresh scan with the current catalog and
// re-runs detection when they differ. The scan alone reads no file contents.
func performSyncVerification(live *liveDetection) (SyncResult, error) {
	start := time.Now()
	var result SyncResult

	scanner := scan.NewScanner(live.matcher, live.organizer.Config.MaxDepth, live.logger)
	scanned, err := scanner.Scan(live.rootDir)
	if err != nil {
		return result, err
	}

	catalog := live.workspace.Catalog
	present := 0
	for _, f := range scanned.Files {
		entry := catalog.Get(f.RelativePath)
		if entry == nil {
			result.MissingFiles++
			continue
		}
		present++
		if entry.File.SizeBytes != f.SizeBytes {
			result.ModifiedFiles++
		}
	}
	result.StaleFiles = catalog.FileCount() - present

	if !result.InSync() {
		if _, err := live.rescan(false); err != nil {
			return result, err
		}
		result.Rescanned = true
	}
	result.Duration = time.Since(start)
	return result, nil
}
