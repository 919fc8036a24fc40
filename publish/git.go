package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/blang/semver/v4"
)

var (
	ErrNoSuchRemote  = errors.New("no such remote")
	ErrNotRepository = errors.New("not a git repository")
	ErrGitTooOld     = errors.New("git version too old")
)

// MinimumGitVersion is the oldest git release whose `branch -M` and `-C` behavior we rely on.
var MinimumGitVersion = semver.Version{Major: 2, Minor: 20, Patch: 0}

var (
	noSuchRemoteRegex     = regexp.MustCompile("(fatal|error): No such remote")
	notGitRepositoryRegex = regexp.MustCompile("(fatal|error): not a git repository")
	versionRegex          = regexp.MustCompile(`\d+\.\d+\.\d+`)
)

// GitCli wraps the git executable. Every command targets a repository with
// `git -C <dir>`, so the process working directory is never changed.
type GitCli struct {
	runner CommandRunner
	logger *slog.Logger
}

// NewGitCli creates a git wrapper.
func NewGitCli(runner CommandRunner, logger *slog.Logger) *GitCli {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitCli{runner: runner, logger: logger}
}

func (cli *GitCli) run(ctx context.Context, args ...string) (RunResult, error) {
	return cli.runner.Run(ctx, NewRunArgs("git", args...))
}

// CheckInstalled verifies git is callable and at least MinimumGitVersion.
func (cli *GitCli) CheckInstalled(ctx context.Context) error {
	res, err := cli.run(ctx, "--version")
	if err != nil {
		return fmt.Errorf("checking git version: %w", err)
	}
	version, err := extractVersion(res.Stdout)
	if err != nil {
		return fmt.Errorf("parsing git version: %w", err)
	}
	cli.logger.Debug("git detected", "version", version.String())
	if version.LT(MinimumGitVersion) {
		return fmt.Errorf("%w: found %s, need %s", ErrGitTooOld, version, MinimumGitVersion)
	}
	return nil
}

func extractVersion(output string) (semver.Version, error) {
	match := versionRegex.FindString(output)
	if match == "" {
		return semver.Version{}, fmt.Errorf("no version in %q", strings.TrimSpace(output))
	}
	return semver.Parse(match)
}

// IsRepository reports whether dir already holds a .git directory.
func (cli *GitCli) IsRepository(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func (cli *GitCli) InitRepo(ctx context.Context, dir string) error {
	if _, err := cli.run(ctx, "-C", dir, "init"); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	return nil
}

// AddAll stages every change in the working tree.
func (cli *GitCli) AddAll(ctx context.Context, dir string) error {
	if _, err := cli.run(ctx, "-C", dir, "add", "-A"); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}
	return nil
}

// HasChanges reports whether the working tree or index differs from HEAD.
func (cli *GitCli) HasChanges(ctx context.Context, dir string) (bool, error) {
	res, err := cli.run(ctx, "-C", dir, "status", "--porcelain")
	if notGitRepositoryRegex.MatchString(res.Stderr) {
		return false, ErrNotRepository
	} else if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

func (cli *GitCli) Commit(ctx context.Context, dir string, message string) error {
	if _, err := cli.run(ctx, "-C", dir, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (cli *GitCli) GetRemoteUrl(ctx context.Context, dir string, remoteName string) (string, error) {
	res, err := cli.run(ctx, "-C", dir, "remote", "get-url", remoteName)
	if noSuchRemoteRegex.MatchString(res.Stderr) {
		return "", ErrNoSuchRemote
	} else if notGitRepositoryRegex.MatchString(res.Stderr) {
		return "", ErrNotRepository
	} else if err != nil {
		return "", fmt.Errorf("failed to get remote url: %w", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (cli *GitCli) AddRemote(ctx context.Context, dir string, remoteName string, remoteUrl string) error {
	if _, err := cli.run(ctx, "-C", dir, "remote", "add", remoteName, remoteUrl); err != nil {
		return fmt.Errorf("failed to add remote: %w", err)
	}
	return nil
}

func (cli *GitCli) UpdateRemote(ctx context.Context, dir string, remoteName string, remoteUrl string) error {
	if _, err := cli.run(ctx, "-C", dir, "remote", "set-url", remoteName, remoteUrl); err != nil {
		return fmt.Errorf("failed to update remote: %w", err)
	}
	return nil
}

// RenameBranch forces the current branch name to branch.
func (cli *GitCli) RenameBranch(ctx context.Context, dir string, branch string) error {
	if _, err := cli.run(ctx, "-C", dir, "branch", "-M", branch); err != nil {
		return fmt.Errorf("failed to rename branch: %w", err)
	}
	return nil
}

func (cli *GitCli) Push(ctx context.Context, dir string, remoteName string, branch string, force bool) error {
	args := []string{"-C", dir, "push", "-u", remoteName, branch}
	if force {
		args = append(args, "--force")
	}
	if _, err := cli.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
