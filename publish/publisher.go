package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

const (
	DefaultRemoteName       = "origin"
	DefaultBranch           = "main"
	DefaultDescriptionLimit = 100
	DefaultCommitMessage    = "Initial commit: Organized project with documentation"
)

// Config controls how projects are published.
type Config struct {
	Username         string // GitHub account that owns created repositories
	Remote           bool   // create a GitHub repository and push; false keeps repositories local
	Private          bool
	ForcePush        bool // retry a rejected push with --force
	RemoteName       string
	Branch           string
	DescriptionLimit int
	CommitMessage    string
}

func (c Config) withDefaults() Config {
	if c.RemoteName == "" {
		c.RemoteName = DefaultRemoteName
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.DescriptionLimit <= 0 {
		c.DescriptionLimit = DefaultDescriptionLimit
	}
	if c.CommitMessage == "" {
		c.CommitMessage = DefaultCommitMessage
	}
	return c
}

// Request is everything needed to publish one materialized project directory.
type Request struct {
	Dir         string
	Name        string
	Description string
	Readme      string // written as README.md unless one exists
	Gitignore   string // written as .gitignore unless one exists
}

// Result reports what happened to one project. Err is a local failure; the
// project is not usable. RemoteErr is a remote failure; the local repository
// is still in place.
type Result struct {
	Name        string
	Dir         string
	Initialized bool
	Committed   bool
	RemoteURL   string
	Pushed      bool
	Err         error
	RemoteErr   error
}

// OK reports whether the local repository was set up.
func (r Result) OK() bool {
	return r.Err == nil
}

// Publisher turns a project directory into a version-controlled repository.
type Publisher interface {
	Publish(ctx context.Context, req Request) Result
}

// GitPublisher publishes with the git and gh command line tools.
type GitPublisher struct {
	git    *GitCli
	github *GitHubCli
	config Config
	logger *slog.Logger

	remoteReady bool
}

// NewGitPublisher creates a publisher. Call Preflight before publishing.
func NewGitPublisher(runner CommandRunner, config Config, logger *slog.Logger) *GitPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitPublisher{
		git:    NewGitCli(runner, logger),
		github: NewGitHubCli(runner),
		config: config.withDefaults(),
		logger: logger,
	}
}

// Readiness is the outcome of Preflight.
type Readiness struct {
	Remote bool   // GitHub repositories will be created and pushed
	Reason string // why Remote is false when it was requested
}

// Preflight checks the tools. A missing or too old git is fatal. When remote
// publishing is enabled but gh is unavailable or logged out, publishing falls
// back to local repositories and Readiness.Reason says why.
func (p *GitPublisher) Preflight(ctx context.Context) (Readiness, error) {
	p.remoteReady = false
	if err := p.git.CheckInstalled(ctx); err != nil {
		return Readiness{}, err
	}
	if !p.config.Remote {
		return Readiness{}, nil
	}
	if p.config.Username == "" {
		return Readiness{Reason: "no GitHub username configured"}, nil
	}
	if err := p.github.CheckAuth(ctx); err != nil {
		p.logger.Warn("GitHub CLI unavailable, creating local repositories only", "error", err)
		return Readiness{Reason: err.Error()}, nil
	}
	p.remoteReady = true
	return Readiness{Remote: true}, nil
}

// RemoteEnabled reports whether Publish will create and push to GitHub repositories.
func (p *GitPublisher) RemoteEnabled() bool {
	return p.remoteReady
}

// RemoteURL returns the https clone URL for a repository name.
func (p *GitPublisher) RemoteURL(name string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", p.config.Username, name)
}

// Publish writes missing artifacts, commits, and optionally pushes. Every step
// is safe to repeat on an already published directory.
func (p *GitPublisher) Publish(ctx context.Context, req Request) Result {
	result := Result{Name: req.Name, Dir: req.Dir}
	logger := p.logger.With("project", req.Name)

	if err := p.publishLocal(ctx, req, &result); err != nil {
		result.Err = err
		logger.Error("local publish failed", "error", err)
		return result
	}
	if !p.remoteReady {
		return result
	}
	if err := p.publishRemote(ctx, req, &result); err != nil {
		result.RemoteErr = err
		logger.Warn("remote publish failed, local repository kept", "error", err)
		return result
	}
	logger.Info("project published", "url", result.RemoteURL)
	return result
}

func (p *GitPublisher) publishLocal(ctx context.Context, req Request, result *Result) error {
	if req.Readme != "" {
		if _, err := WriteIfMissing(req.Dir, ReadmeFile, req.Readme); err != nil {
			return err
		}
	}
	if req.Gitignore != "" {
		if _, err := WriteIfMissing(req.Dir, GitignoreFile, req.Gitignore); err != nil {
			return err
		}
	}

	if !p.git.IsRepository(req.Dir) {
		if err := p.git.InitRepo(ctx, req.Dir); err != nil {
			return err
		}
		result.Initialized = true
	}
	if err := p.git.AddAll(ctx, req.Dir); err != nil {
		return err
	}
	changed, err := p.git.HasChanges(ctx, req.Dir)
	if err != nil {
		return err
	}
	if changed {
		if err := p.git.Commit(ctx, req.Dir, p.config.CommitMessage); err != nil {
			return err
		}
		result.Committed = true
	}
	return p.git.RenameBranch(ctx, req.Dir, p.config.Branch)
}

func (p *GitPublisher) publishRemote(ctx context.Context, req Request, result *Result) error {
	if !p.github.RepoExists(ctx, p.config.Username, req.Name) {
		description := TruncateDescription(req.Description, p.config.DescriptionLimit)
		if err := p.github.CreateRepo(ctx, req.Name, description, p.config.Private); err != nil {
			return err
		}
	}

	url := p.RemoteURL(req.Name)
	current, err := p.git.GetRemoteUrl(ctx, req.Dir, p.config.RemoteName)
	switch {
	case errors.Is(err, ErrNoSuchRemote):
		err = p.git.AddRemote(ctx, req.Dir, p.config.RemoteName, url)
	case err != nil:
		return err
	case current != url:
		err = p.git.UpdateRemote(ctx, req.Dir, p.config.RemoteName, url)
	}
	if err != nil {
		return err
	}
	result.RemoteURL = url

	pushErr := p.git.Push(ctx, req.Dir, p.config.RemoteName, p.config.Branch, false)
	if pushErr != nil && p.config.ForcePush {
		p.logger.Warn("push rejected, retrying with --force", "project", req.Name, "error", pushErr)
		pushErr = p.git.Push(ctx, req.Dir, p.config.RemoteName, p.config.Branch, true)
	}
	if pushErr != nil {
		return pushErr
	}
	result.Pushed = true
	return nil
}

// TruncateDescription shortens s to at most limit runes, ending in "..." when cut.
// A limit of zero or less leaves s unchanged.
func TruncateDescription(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
