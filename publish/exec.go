package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ErrToolNotFound is returned when a required executable is not on PATH.
var ErrToolNotFound = errors.New("tool not found in PATH")

// RunArgs describes one external command invocation.
type RunArgs struct {
	Cmd  string
	Args []string
	Dir  string   // working directory of the child process, "" for the current one
	Env  []string // extra KEY=VALUE pairs appended to the environment
}

// NewRunArgs creates RunArgs for cmd with the given arguments.
func NewRunArgs(cmd string, args ...string) RunArgs {
	return RunArgs{Cmd: cmd, Args: args}
}

// RunResult is the captured outcome of a command.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError is returned when a command exits with a non-zero code.
type ExitError struct {
	Cmd      string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", e.Cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Cmd, e.ExitCode, msg)
}

// CommandRunner runs external commands.
type CommandRunner interface {
	Run(ctx context.Context, args RunArgs) (RunResult, error)
}

type commandRunner struct {
	logger *slog.Logger
}

// NewCommandRunner returns a CommandRunner that executes real processes.
func NewCommandRunner(logger *slog.Logger) CommandRunner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &commandRunner{logger: logger}
}

// Run executes the command and captures its output. A non-zero exit yields both
// the populated RunResult and an *ExitError.
func (r *commandRunner) Run(ctx context.Context, args RunArgs) (RunResult, error) {
	cmd := exec.CommandContext(ctx, args.Cmd, args.Args...)
	cmd.Dir = args.Dir
	if len(args.Env) > 0 {
		cmd.Env = append(os.Environ(), args.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command", "cmd", args.Cmd, "args", args.Args)
	err := cmd.Run()
	result := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, exec.ErrNotFound):
		return result, fmt.Errorf("%w: %s", ErrToolNotFound, args.Cmd)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitError{Cmd: args.Cmd, ExitCode: result.ExitCode, Stderr: result.Stderr}
	default:
		return result, fmt.Errorf("running %s: %w", args.Cmd, err)
	}
}
