package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/organize-mcp/config"
	"github.com/lexandro/organize-mcp/docs"
	"github.com/lexandro/organize-mcp/ignore"
	"github.com/lexandro/organize-mcp/index"
	"github.com/lexandro/organize-mcp/inspect"
	"github.com/lexandro/organize-mcp/organize"
	"github.com/lexandro/organize-mcp/server"
	"github.com/lexandro/organize-mcp/tools"
	"github.com/lexandro/organize-mcp/watcher"
)

// liveDetection keeps a workspace in step with the served root. Detections are
// serialized; tool handlers keep reading the previous one meanwhile.
type liveDetection struct {
	mu        sync.Mutex
	rootDir   string
	organizer *organize.Organizer
	matcher   *ignore.Matcher
	inspector *inspect.Inspector
	workspace *tools.Workspace
	logger    *slog.Logger
}

func newLiveDetection(rootDir string, organizer *organize.Organizer, workspace *tools.Workspace, excludePaths ...string) *liveDetection {
	return &liveDetection{
		rootDir:   rootDir,
		organizer: organizer,
		matcher:   organizer.NewMatcher(rootDir, excludePaths...),
		inspector: inspect.NewInspector(organizer.Logger),
		workspace: workspace,
		logger:    organizer.Logger,
	}
}

// rescan detects the root again and swaps the result into the workspace.
// reloadRules re-reads .gitignore and .organizeignore first.
func (l *liveDetection) rescan(reloadRules bool) (*organize.Detection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if reloadRules {
		l.matcher.Reload()
	}
	detection, err := l.organizer.DetectWith(l.matcher, l.rootDir, time.Now())
	if err != nil {
		return nil, fmt.Errorf("detecting %s: %w", l.rootDir, err)
	}
	if err := l.workspace.Update(detection, l.inspector); err != nil {
		return nil, err
	}

	l.logger.Info("detection updated",
		"projects", detection.Grouping.Len(),
		"files", len(detection.Scan.Files),
		"skipped", len(detection.Scan.Skipped),
		"duration", detection.Elapsed,
	)
	return detection, nil
}

func (l *liveDetection) rescanFunc() tools.RescanFunc {
	return func() (int, int, error) {
		detection, err := l.rescan(true)
		if err != nil {
			return 0, 0, err
		}
		return detection.Grouping.Len(), len(detection.Scan.Files), nil
	}
}

// handleWatcherEvents re-runs detection after every debounced batch of changes.
// Grouping depends on whole directories, so a batch always triggers a full pass.
func handleWatcherEvents(fileWatcher *watcher.Watcher, live *liveDetection, logger *slog.Logger) {
	for batch := range fileWatcher.Events() {
		reload := watcher.RulesChanged(batch)
		logger.Debug("changes detected", "events", len(batch), "reloadRules", reload)
		if _, err := live.rescan(reload); err != nil {
			logger.Warn("re-detection failed, keeping previous result", "error", err)
		}
	}
}

// serve runs the MCP server on stdio until ctx is done or the client disconnects.
func serve(ctx context.Context, rootDir string, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting organize-mcp",
		"root", rootDir,
		"maxDepth", cfg.MaxDepth,
		"syncInterval", cfg.SyncInterval,
	)

	projects, err := index.NewProjectIndex()
	if err != nil {
		return fmt.Errorf("creating project index: %w", err)
	}
	defer projects.Close()

	organizer := organize.New(cfg, nil, logger)
	workspace := tools.NewWorkspace(projects, docs.NewSynthesizer(docs.Config{Username: cfg.GitHubUser}))

	// Organized output and the log file live outside the detected tree even when nested in it.
	var excludes []string
	if outputDir, err := filepath.Abs(cfg.OutputDir); err == nil {
		excludes = append(excludes, outputDir)
	}
	if cfg.LogFile != "" {
		excludes = append(excludes, cfg.LogFile)
	}
	live := newLiveDetection(rootDir, organizer, workspace, excludes...)

	if _, err := live.rescan(false); err != nil {
		return err
	}

	fileWatcher, err := watcher.NewWatcher(rootDir, live.matcher, watcher.Options{
		MaxDepth: cfg.MaxDepth,
		Debounce: cfg.Debounce,
	}, logger)
	if err != nil {
		logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
	} else {
		go fileWatcher.Start()
		go handleWatcherEvents(fileWatcher, live, logger)
		defer fileWatcher.Close()
	}

	if cfg.SyncInterval > 0 {
		stopSync := make(chan struct{})
		defer close(stopSync)
		go runPeriodicSync(cfg.SyncInterval, live, logger, stopSync)
	}

	mcpServer := server.Setup(serverHandlers(workspace, rootDir, live.rescanFunc(), logger))

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server: %w", err)
	}
	return nil
}
