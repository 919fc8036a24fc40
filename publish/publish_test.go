package publish

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	match  string
	result RunResult
	err    error
}

// fakeRunner records command lines and answers with the first response whose
// match is a substring of the line. Unmatched commands succeed with no output.
type fakeRunner struct {
	calls     []string
	responses []response
}

func newFakeRunner(responses ...response) *fakeRunner {
	defaults := []response{{match: "git --version", result: RunResult{Stdout: "git version 2.43.0\n"}}}
	return &fakeRunner{responses: append(responses, defaults...)}
}

func (f *fakeRunner) Run(ctx context.Context, args RunArgs) (RunResult, error) {
	line := args.Cmd + " " + strings.Join(args.Args, " ")
	f.calls = append(f.calls, line)
	for _, r := range f.responses {
		if strings.Contains(line, r.match) {
			return r.result, r.err
		}
	}
	return RunResult{}, nil
}

func (f *fakeRunner) called(sub string) int {
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, sub) {
			n++
		}
	}
	return n
}

func exitFail(stderr string) response {
	return response{result: RunResult{ExitCode: 1, Stderr: stderr}, err: &ExitError{Cmd: "x", ExitCode: 1, Stderr: stderr}}
}

func failing(match string, stderr string) response {
	r := exitFail(stderr)
	r.match = match
	return r
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_GitCli_CheckInstalled(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, NewGitCli(newFakeRunner(), testLogger()).CheckInstalled(ctx))

	old := newFakeRunner(response{match: "--version", result: RunResult{Stdout: "git version 2.17.1"}})
	assert.ErrorIs(t, NewGitCli(old, testLogger()).CheckInstalled(ctx), ErrGitTooOld)

	apple := newFakeRunner(response{match: "--version", result: RunResult{Stdout: "git version 2.39.3 (Apple Git-146)"}})
	assert.NoError(t, NewGitCli(apple, testLogger()).CheckInstalled(ctx))

	missing := newFakeRunner(response{match: "--version", err: ErrToolNotFound})
	assert.ErrorIs(t, NewGitCli(missing, testLogger()).CheckInstalled(ctx), ErrToolNotFound)
}

func Test_GitCli_RemoteErrors(t *testing.T) {
	ctx := context.Background()

	runner := newFakeRunner(failing("get-url", "error: No such remote 'origin'"))
	_, err := NewGitCli(runner, testLogger()).GetRemoteUrl(ctx, "/p", "origin")
	assert.ErrorIs(t, err, ErrNoSuchRemote)

	runner = newFakeRunner(failing("get-url", "fatal: not a git repository (or any of the parent directories): .git"))
	_, err = NewGitCli(runner, testLogger()).GetRemoteUrl(ctx, "/p", "origin")
	assert.ErrorIs(t, err, ErrNotRepository)

	runner = newFakeRunner(response{match: "get-url", result: RunResult{Stdout: "https://example.com/x.git\n"}})
	url, err := NewGitCli(runner, testLogger()).GetRemoteUrl(ctx, "/p", "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x.git", url)
	assert.Equal(t, []string{"git -C /p remote get-url origin"}, runner.calls)
}

func Test_GitPublisher_LocalFreshDirectory(t *testing.T) {
	dir := t.TempDir()
	runner := newFakeRunner(response{match: "status --porcelain", result: RunResult{Stdout: "?? main.py\n"}})
	p := NewGitPublisher(runner, Config{}, testLogger())

	readiness, err := p.Preflight(context.Background())
	require.NoError(t, err)
	assert.False(t, readiness.Remote)

	result := p.Publish(context.Background(), Request{
		Dir: dir, Name: "tool", Description: "d", Readme: "# Tool\n", Gitignore: "*.log\n",
	})
	require.NoError(t, result.Err)
	assert.True(t, result.OK())
	assert.True(t, result.Initialized)
	assert.True(t, result.Committed)
	assert.False(t, result.Pushed)

	assert.Equal(t, []string{
		"git --version",
		"git -C " + dir + " init",
		"git -C " + dir + " add -A",
		"git -C " + dir + " status --porcelain",
		"git -C " + dir + " commit -m " + DefaultCommitMessage,
		"git -C " + dir + " branch -M main",
	}, runner.calls)

	readme, err := os.ReadFile(filepath.Join(dir, ReadmeFile))
	require.NoError(t, err)
	assert.Equal(t, "# Tool\n", string(readme))
	gitignore, err := os.ReadFile(filepath.Join(dir, GitignoreFile))
	require.NoError(t, err)
	assert.Equal(t, "*.log\n", string(gitignore))
}

func Test_GitPublisher_IdempotentOnExistingRepo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReadmeFile), []byte("mine"), 0644))

	runner := newFakeRunner()
	p := NewGitPublisher(runner, Config{}, testLogger())
	result := p.Publish(context.Background(), Request{Dir: dir, Name: "tool", Readme: "generated"})

	require.NoError(t, result.Err)
	assert.False(t, result.Initialized)
	assert.False(t, result.Committed)
	assert.Zero(t, runner.called(" init"))
	assert.Zero(t, runner.called(" commit "))

	readme, err := os.ReadFile(filepath.Join(dir, ReadmeFile))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(readme))
}

func Test_GitPublisher_LocalFailureReported(t *testing.T) {
	runner := newFakeRunner(failing(" add -A", "fatal: pathspec"))
	p := NewGitPublisher(runner, Config{}, testLogger())
	result := p.Publish(context.Background(), Request{Dir: t.TempDir(), Name: "tool"})

	assert.Error(t, result.Err)
	assert.False(t, result.OK())
	assert.Zero(t, runner.called(" commit "))
}

func remoteConfig() Config {
	return Config{Username: "octo", Remote: true, Private: true, DescriptionLimit: 10}
}

func Test_GitPublisher_RemoteCreateAndPush(t *testing.T) {
	dir := t.TempDir()
	runner := newFakeRunner(
		failing("gh repo view", "GraphQL: Could not resolve to a Repository"),
		failing("remote get-url", "error: No such remote 'origin'"),
	)
	p := NewGitPublisher(runner, remoteConfig(), testLogger())

	readiness, err := p.Preflight(context.Background())
	require.NoError(t, err)
	require.True(t, readiness.Remote)
	require.True(t, p.RemoteEnabled())

	result := p.Publish(context.Background(), Request{Dir: dir, Name: "tool", Description: "A fairly long description"})
	require.NoError(t, result.Err)
	require.NoError(t, result.RemoteErr)
	assert.True(t, result.Pushed)
	assert.Equal(t, "https://github.com/octo/tool.git", result.RemoteURL)

	assert.Equal(t, 1, runner.called("gh auth status"))
	assert.Equal(t, 1, runner.called("gh repo view octo/tool"))
	assert.Equal(t, 1, runner.called("gh repo create tool --private --description A fairl..."))
	assert.Equal(t, 1, runner.called("remote add origin https://github.com/octo/tool.git"))
	assert.Equal(t, 1, runner.called("push -u origin main"))
	assert.Zero(t, runner.called("--force"))
}

func Test_GitPublisher_RemoteAlreadyExists(t *testing.T) {
	runner := newFakeRunner(
		failing("gh repo view", "not found"),
		failing("gh repo create", "GraphQL: Name already exists on this account (createRepository)"),
		response{match: "remote get-url", result: RunResult{Stdout: "https://github.com/someone/else.git\n"}},
	)
	p := NewGitPublisher(runner, remoteConfig(), testLogger())
	_, err := p.Preflight(context.Background())
	require.NoError(t, err)

	result := p.Publish(context.Background(), Request{Dir: t.TempDir(), Name: "tool"})
	require.NoError(t, result.RemoteErr)
	assert.Equal(t, 1, runner.called("remote set-url origin https://github.com/octo/tool.git"))
	assert.Zero(t, runner.called("remote add"))
}

func Test_GitPublisher_ExistingRepoSkipsCreate(t *testing.T) {
	runner := newFakeRunner(response{match: "remote get-url", result: RunResult{Stdout: "https://github.com/octo/tool.git"}})
	p := NewGitPublisher(runner, remoteConfig(), testLogger())
	_, err := p.Preflight(context.Background())
	require.NoError(t, err)

	result := p.Publish(context.Background(), Request{Dir: t.TempDir(), Name: "tool"})
	require.NoError(t, result.RemoteErr)
	assert.Zero(t, runner.called("gh repo create"))
	assert.Zero(t, runner.called("remote set-url"))
	assert.Zero(t, runner.called("remote add"))
}

func Test_GitPublisher_PushRejected(t *testing.T) {
	newRunner := func() *fakeRunner {
		return newFakeRunner(
			response{match: "push -u origin main --force"},
			failing("push -u origin main", "! [rejected] main -> main (fetch first)"),
		)
	}

	runner := newRunner()
	p := NewGitPublisher(runner, remoteConfig(), testLogger())
	_, err := p.Preflight(context.Background())
	require.NoError(t, err)
	result := p.Publish(context.Background(), Request{Dir: t.TempDir(), Name: "tool"})
	assert.True(t, result.OK())
	assert.Error(t, result.RemoteErr)
	assert.False(t, result.Pushed)
	assert.Zero(t, runner.called("--force"))

	cfg := remoteConfig()
	cfg.ForcePush = true
	runner = newRunner()
	p = NewGitPublisher(runner, cfg, testLogger())
	_, err = p.Preflight(context.Background())
	require.NoError(t, err)
	result = p.Publish(context.Background(), Request{Dir: t.TempDir(), Name: "tool"})
	require.NoError(t, result.RemoteErr)
	assert.True(t, result.Pushed)
	assert.Equal(t, 1, runner.called("--force"))
}

func Test_GitPublisher_FallsBackToLocalWhenGhLoggedOut(t *testing.T) {
	runner := newFakeRunner(failing("gh auth status", "You are not logged into any GitHub hosts"))
	p := NewGitPublisher(runner, remoteConfig(), testLogger())

	readiness, err := p.Preflight(context.Background())
	require.NoError(t, err)
	assert.False(t, readiness.Remote)
	assert.Contains(t, readiness.Reason, "not logged")

	result := p.Publish(context.Background(), Request{Dir: t.TempDir(), Name: "tool"})
	require.NoError(t, result.Err)
	assert.Zero(t, runner.called("gh repo"))
	assert.Zero(t, runner.called(" push "))
}

func Test_GitPublisher_NoUsernameStaysLocal(t *testing.T) {
	p := NewGitPublisher(newFakeRunner(), Config{Remote: true}, testLogger())
	readiness, err := p.Preflight(context.Background())
	require.NoError(t, err)
	assert.False(t, readiness.Remote)
	assert.NotEmpty(t, readiness.Reason)
}

func Test_GitPublisher_PreflightGitMissing(t *testing.T) {
	runner := newFakeRunner(response{match: "--version", err: ErrToolNotFound})
	_, err := NewGitPublisher(runner, remoteConfig(), testLogger()).Preflight(context.Background())
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func Test_TruncateDescription(t *testing.T) {
	assert.Equal(t, "short", TruncateDescription("short", 100))
	assert.Equal(t, "abcdefg...", TruncateDescription("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé", TruncateDescription("éééé", 3))
	assert.Equal(t, "unchanged", TruncateDescription("unchanged", 0))
	assert.Len(t, []rune(TruncateDescription(strings.Repeat("x", 300), 100)), 100)
}

func Test_WriteIfMissing(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteIfMissing(dir, "a.txt", "first")
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteIfMissing(dir, "a.txt", "second")
	require.NoError(t, err)
	assert.False(t, written)

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func Test_CommandRunner_ExitAndNotFound(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	runner := NewCommandRunner(testLogger())

	res, err := runner.Run(context.Background(), NewRunArgs("sh", "-c", "echo out; echo oops >&2; exit 3"))
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Contains(t, err.Error(), "oops")

	_, err = runner.Run(context.Background(), NewRunArgs("organize-mcp-no-such-tool"))
	assert.ErrorIs(t, err, ErrToolNotFound)

	dir := t.TempDir()
	res, err = runner.Run(context.Background(), RunArgs{Cmd: "pwd", Dir: dir})
	require.NoError(t, err)
	resolved, _ := filepath.EvalSymlinks(dir)
	assert.Contains(t, []string{dir, resolved}, strings.TrimSpace(res.Stdout))
}
