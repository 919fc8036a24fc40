package organize

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lexandro/organize-mcp/config"
	"github.com/lexandro/organize-mcp/detect"
	"github.com/lexandro/organize-mcp/docs"
	"github.com/lexandro/organize-mcp/ignore"
	"github.com/lexandro/organize-mcp/inspect"
	"github.com/lexandro/organize-mcp/publish"
	"github.com/lexandro/organize-mcp/scan"
)

// Detection is a grouping of one scanned tree.
type Detection struct {
	Root       string
	Scan       *scan.Result
	Grouping   *detect.Grouping
	DetectedAt time.Time
	Elapsed    time.Duration
}

// ProjectReport is the outcome for one project of an organize run.
type ProjectReport struct {
	Name        string
	Dir         string
	Language    string
	Description string
	Files       int
	Copied      int
	Published   bool // local repository committed and ready
	Pushed      bool
	RemoteURL   string
	Err         error // the project failed
	RemoteErr   error // only the remote step failed
}

// Report summarizes an organize run.
type Report struct {
	Root      string
	OutputDir string
	Files     int
	Skipped   []string
	Projects  []ProjectReport
	Elapsed   time.Duration
	Cancelled bool
}

// Succeeded returns the projects that completed without error.
func (r *Report) Succeeded() []ProjectReport {
	var out []ProjectReport
	for _, p := range r.Projects {
		if p.Err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Failed returns the projects that completed with an error.
func (r *Report) Failed() []ProjectReport {
	var out []ProjectReport
	for _, p := range r.Projects {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// Organizer runs the scan, group, materialize, document and publish pipeline.
type Organizer struct {
	Config      config.Config
	Synthesizer *docs.Synthesizer
	Publisher   publish.Publisher // nil leaves projects as plain directories
	Logger      *slog.Logger
}

// New creates an organizer. publisher may be nil.
func New(cfg config.Config, publisher publish.Publisher, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Organizer{
		Config:      cfg,
		Synthesizer: docs.NewSynthesizer(docs.Config{Username: cfg.GitHubUser}),
		Publisher:   publisher,
		Logger:      logger,
	}
}

// NewMatcher builds the ignore matcher for root. excludePaths are absolute
// paths skipped entirely, such as an output tree nested under root.
func (o *Organizer) NewMatcher(root string, excludePaths ...string) *ignore.Matcher {
	return ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:          root,
		RespectGitignore: o.Config.RespectGitignore,
		CustomPatterns:   o.Config.Excludes,
		ExcludePaths:     excludePaths,
	})
}

// Detect scans root and groups its files.
func (o *Organizer) Detect(root string, excludePaths ...string) (*Detection, error) {
	start := time.Now()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	return o.DetectWith(o.NewMatcher(absRoot, excludePaths...), absRoot, start)
}

// DetectWith is Detect with a caller-owned matcher, so ignore rules can be reloaded between runs.
func (o *Organizer) DetectWith(matcher *ignore.Matcher, absRoot string, start time.Time) (*Detection, error) {
	scanner := scan.NewScanner(matcher, o.Config.MaxDepth, o.Logger)
	result, err := scanner.Scan(absRoot)
	if err != nil {
		return nil, err
	}

	analyzer := detect.NewAnalyzer(inspect.NewInspector(o.Logger), o.Logger)
	grouping, err := detect.NewGrouper(analyzer, o.Logger).Group(result.Files)
	if err != nil {
		return nil, fmt.Errorf("grouping %s: %w", absRoot, err)
	}
	return &Detection{
		Root:       result.Root,
		Scan:       result,
		Grouping:   grouping,
		DetectedAt: time.Now(),
		Elapsed:    time.Since(start),
	}, nil
}

// Run organizes root into the configured output directory. Per-project failures
// are recorded in the report; the returned error is reserved for failures that
// stop the whole run, including cancellation.
func (o *Organizer) Run(ctx context.Context, root string) (*Report, error) {
	start := time.Now()
	outputDir, err := filepath.Abs(o.Config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output %s: %w", o.Config.OutputDir, err)
	}

	materializer := &Materializer{OutputDir: outputDir, Logger: o.Logger}
	unlock, err := materializer.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	detection, err := o.Detect(root, outputDir)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Root:      detection.Root,
		OutputDir: outputDir,
		Files:     len(detection.Scan.Files),
		Skipped:   detection.Scan.Skipped,
	}
	o.Logger.Info("organizing projects",
		"root", detection.Root,
		"output", outputDir,
		"projects", detection.Grouping.Len(),
	)

	for _, group := range detection.Grouping.Groups {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("organize cancelled: %w", err)
		}
		report.Projects = append(report.Projects, o.organizeProject(ctx, materializer, group))
	}

	report.Elapsed = time.Since(start)
	o.Logger.Info("organize complete",
		"projects", len(report.Projects),
		"failed", len(report.Failed()),
		"elapsed", report.Elapsed,
	)
	return report, nil
}

func (o *Organizer) organizeProject(ctx context.Context, materializer *Materializer, group *detect.ProjectGroup) ProjectReport {
	pr := ProjectReport{
		Name:        group.Name,
		Language:    group.Language,
		Description: group.Description,
		Files:       len(group.Files),
	}
	logger := o.Logger.With("project", group.Name)

	dir, copied, err := materializer.Materialize(group)
	pr.Dir, pr.Copied = dir, copied
	if err != nil {
		logger.Warn("project copy incomplete", "copied", copied, "files", len(group.Files), "error", err)
		pr.Err = err
		return pr
	}

	readme := o.Synthesizer.Readme(group.Name, group)
	gitignore := o.Synthesizer.IgnoreFile(group.Language)

	if o.Publisher == nil {
		if _, err := publish.WriteIfMissing(dir, publish.ReadmeFile, readme); err != nil {
			pr.Err = err
			return pr
		}
		if _, err := publish.WriteIfMissing(dir, publish.GitignoreFile, gitignore); err != nil {
			pr.Err = err
			return pr
		}
		logger.Info("project materialized", "dir", dir, "files", copied)
		return pr
	}

	result := o.Publisher.Publish(ctx, publish.Request{
		Dir:         dir,
		Name:        group.Name,
		Description: group.Description,
		Readme:      readme,
		Gitignore:   gitignore,
	})
	pr.Err = result.Err
	pr.RemoteErr = result.RemoteErr
	pr.Published = result.OK()
	pr.Pushed = result.Pushed
	pr.RemoteURL = result.RemoteURL
	return pr
}
