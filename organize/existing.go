package organize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexandro/organize-mcp/detect"
	"github.com/lexandro/organize-mcp/docs"
	"github.com/lexandro/organize-mcp/inspect"
	"github.com/lexandro/organize-mcp/language"
	"github.com/lexandro/organize-mcp/publish"
	"github.com/lexandro/organize-mcp/scan"
)

// existingScanDepth bounds how deep a candidate project directory is examined.
const existingScanDepth = 3

// minExistingFiles is the file count that qualifies a directory without code.
const minExistingFiles = 3

var readmeNames = []string{"README.md", "README.txt", "readme.md", "README"}

// ErrNoPublisher is returned when publishing is requested without a publisher.
var ErrNoPublisher = errors.New("no publisher configured")

// ExistingProject is an already organized directory ready to publish.
type ExistingProject struct {
	Name        string
	Dir         string
	Description string
	Group       *detect.ProjectGroup
	HasReadme   bool
}

// dependencyHints map marker files to a description suffix, first match wins.
var dependencyHints = []struct {
	file   string
	suffix string
}{
	{"requirements.txt", " with Python dependencies"},
	{"package.json", " with Node.js dependencies"},
	{"makefile", " with build configuration"},
	{"dockerfile", " with build configuration"},
}

// FindExisting lists the project directories directly below root. When none
// qualifies but root itself does, root is the only project.
func (o *Organizer) FindExisting(root string) ([]ExistingProject, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scan.ErrRootNotFound, absRoot)
	}

	rootMatcher := o.NewMatcher(absRoot)
	var projects []ExistingProject
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || rootMatcher.IsExcludedDirName(name) {
			continue
		}
		project, ok := o.examineExisting(filepath.Join(absRoot, name))
		if ok {
			projects = append(projects, project)
		}
	}
	if len(projects) == 0 {
		if project, ok := o.examineExisting(absRoot); ok {
			projects = append(projects, project)
		}
	}

	o.Logger.Info("existing projects found", "root", absRoot, "projects", len(projects))
	return projects, nil
}

func (o *Organizer) examineExisting(dir string) (ExistingProject, bool) {
	matcher := o.NewMatcher(dir)
	result, err := scan.NewScanner(matcher, existingScanDepth, o.Logger).Scan(dir)
	if err != nil {
		o.Logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return ExistingProject{}, false
	}

	var files []scan.FileRecord
	var code []scan.FileRecord
	for _, f := range result.Files {
		if strings.HasPrefix(f.Name, ".") {
			continue
		}
		files = append(files, f)
		if f.IsCode {
			code = append(code, f)
		}
	}
	if len(code) == 0 && len(files) < minExistingFiles {
		return ExistingProject{}, false
	}

	name := filepath.Base(dir)
	group := &detect.ProjectGroup{Name: name, Files: files, Language: language.Unknown}
	if len(code) > 0 {
		analyzer := detect.NewAnalyzer(inspect.NewInspector(o.Logger), o.Logger)
		if verdict, err := analyzer.Analyze(code); err == nil {
			group.Language = verdict.Language
			group.Description = describeExisting(name, verdict.Languages, files)
		}
	}
	if group.Description == "" {
		group.Description = describeExisting(name, nil, files)
	}

	project := ExistingProject{Name: name, Dir: dir, Group: group, Description: group.Description}
	if text, ok := readExistingReadme(dir); ok {
		project.HasReadme = true
		if description, ok := docs.DescriptionFromReadme(text); ok {
			project.Description = description
		}
	}
	return project, true
}

// describeExisting builds a description from the labelled languages and marker files.
func describeExisting(name string, languages []string, files []scan.FileRecord) string {
	var labelled []string
	for _, lang := range languages {
		if lang != language.Unknown {
			labelled = append(labelled, lang)
		}
	}

	var desc string
	switch len(labelled) {
	case 0:
		desc = "Code project"
	case 1:
		desc = labelled[0] + " project"
	default:
		desc = fmt.Sprintf("Multi-language project (%s)", strings.Join(labelled, ", "))
	}

	present := make(map[string]bool)
	for _, f := range files {
		if f.Directory == "" {
			present[strings.ToLower(f.Name)] = true
		}
	}
	for _, hint := range dependencyHints {
		if present[hint.file] {
			desc += hint.suffix
			break
		}
	}
	return fmt.Sprintf("%s: %s", desc, name)
}

func readExistingReadme(dir string) (string, bool) {
	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}

// PublishExisting publishes every project FindExisting reports under root.
func (o *Organizer) PublishExisting(ctx context.Context, root string) (*Report, error) {
	if o.Publisher == nil {
		return nil, ErrNoPublisher
	}
	start := time.Now()
	projects, err := o.FindExisting(root)
	if err != nil {
		return nil, err
	}

	absRoot, _ := filepath.Abs(root)
	report := &Report{Root: absRoot, OutputDir: absRoot}
	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("publish cancelled: %w", err)
		}
		report.Files += len(project.Group.Files)

		req := publish.Request{
			Dir:         project.Dir,
			Name:        project.Name,
			Description: project.Description,
			Gitignore:   o.Synthesizer.IgnoreFile(project.Group.Language),
		}
		if !project.HasReadme {
			req.Readme = o.Synthesizer.Readme(project.Name, project.Group)
		}
		result := o.Publisher.Publish(ctx, req)
		report.Projects = append(report.Projects, ProjectReport{
			Name:        project.Name,
			Dir:         project.Dir,
			Language:    project.Group.Language,
			Description: project.Description,
			Files:       len(project.Group.Files),
			Published:   result.OK(),
			Pushed:      result.Pushed,
			RemoteURL:   result.RemoteURL,
			Err:         result.Err,
			RemoteErr:   result.RemoteErr,
		})
	}
	report.Elapsed = time.Since(start)
	return report, nil
}
