package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotAuthenticated = errors.New("gh is not authenticated")

// GitHubCli wraps the gh executable.
type GitHubCli struct {
	runner CommandRunner
}

func NewGitHubCli(runner CommandRunner) *GitHubCli {
	return &GitHubCli{runner: runner}
}

func (cli *GitHubCli) run(ctx context.Context, args ...string) (RunResult, error) {
	return cli.runner.Run(ctx, NewRunArgs("gh", args...))
}

// CheckAuth verifies gh is installed and logged in.
func (cli *GitHubCli) CheckAuth(ctx context.Context) error {
	_, err := cli.run(ctx, "auth", "status")
	if errors.Is(err, ErrToolNotFound) {
		return err
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s", ErrNotAuthenticated, strings.TrimSpace(exitErr.Stderr))
	} else if err != nil {
		return fmt.Errorf("checking gh auth: %w", err)
	}
	return nil
}

// RepoExists reports whether owner/name can be viewed.
func (cli *GitHubCli) RepoExists(ctx context.Context, owner string, name string) bool {
	_, err := cli.run(ctx, "repo", "view", owner+"/"+name)
	return err == nil
}

// CreateRepo creates a repository for the authenticated user. A repository that
// already exists is not an error.
func (cli *GitHubCli) CreateRepo(ctx context.Context, name string, description string, private bool) error {
	visibility := "--public"
	if private {
		visibility = "--private"
	}
	args := []string{"repo", "create", name, visibility}
	if description != "" {
		args = append(args, "--description", description)
	}
	res, err := cli.run(ctx, args...)
	if err != nil {
		if strings.Contains(strings.ToLower(res.Stderr), "already exists") {
			return nil
		}
		return fmt.Errorf("failed to create repository %s: %w", name, err)
	}
	return nil
}
