package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lexandro/organize-mcp/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	envFile     string
	logLevel    string
	logFile     string
	githubUser  string
	excludes    []string
	maxDepth    int
	noGitignore bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "organize-mcp",
		Short: "Turn a messy directory into named, documented, version-controlled projects",
		Long: heredoc.Doc(`
			organize-mcp scans a directory of loose files, detects the projects hidden in it,
			copies each project into its own directory with a generated README.md and
			.gitignore, and optionally turns every project into a git repository pushed to
			GitHub.

			Settings are read from a .env file, then from the environment (ORGANIZE_*),
			then from flags; later sources win.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file with ORGANIZE_* settings (ignored if missing)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file path (default: stderr)")
	flags.StringVar(&opts.githubUser, "github-user", "", "GitHub username used in READMEs and remote URLs")
	flags.StringSliceVar(&opts.excludes, "exclude", nil, "Extra doublestar ignore pattern (repeatable)")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum directory depth below the root to scan")
	flags.BoolVar(&opts.noGitignore, "no-gitignore", false, "Do not apply the root .gitignore while scanning")

	root.AddCommand(
		newOrganizeCommand(opts),
		newDetectCommand(opts),
		newPublishCommand(opts),
		newServeCommand(opts),
		newRegisterCommand(),
	)
	return root
}

// loadConfig layers defaults, the dotenv file, the process environment and the
// flags that were set on cmd.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	env, err := readEnv(o.envFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Default().FromEnv(env)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = strings.ToLower(o.logLevel)
	}
	if changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if changed("github-user") {
		cfg.GitHubUser = o.githubUser
	}
	if changed("exclude") {
		cfg.Excludes = append(cfg.Excludes, o.excludes...)
	}
	if changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if o.noGitignore {
		cfg.RespectGitignore = false
	}
	return cfg, nil
}

// readEnv merges the dotenv file with the process environment. Process
// variables win over the file.
func readEnv(envFile string) (map[string]string, error) {
	env := map[string]string{}
	if envFile != "" {
		fileEnv, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			env = fileEnv
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, "ORGANIZE_") {
			env[key] = value
		}
	}
	return env, nil
}

// setupLogger creates an slog.Logger writing to stderr or a file. Stdout stays
// free for command output and the MCP stdio transport.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	writer := os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
		} else {
			writer = f
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
