package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/lexandro/organize-mcp/config"
	"github.com/lexandro/organize-mcp/organize"
	"github.com/lexandro/organize-mcp/publish"
	"github.com/lexandro/organize-mcp/register"
	"github.com/lexandro/organize-mcp/server"
	"github.com/lexandro/organize-mcp/tools"
)

func newOrganizeCommand(opts *globalOptions) *cobra.Command {
	var output string
	var private, noRemote, forcePush, noGit bool

	cmd := &cobra.Command{
		Use:   "organize <dir>",
		Short: "Detect projects in dir and organize them into the output directory",
		Long: heredoc.Doc(`
			Scan dir, group its files into projects and copy every project into
			<output>/<project>/ with a generated README.md and .gitignore. Existing
			README.md and .gitignore files are never overwritten.

			Unless --no-git is given each project becomes a git repository with one
			commit. When gh is installed and logged in and a GitHub user is configured,
			a repository is created on GitHub and the project is pushed to it.
		`),
		Example: heredoc.Doc(`
			$ organize-mcp organize ~/Downloads/code --output ~/projects --github-user octocat
			$ organize-mcp organize . --no-git
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputDir = output
			}
			if cmd.Flags().Changed("private") {
				cfg.Private = private
			}
			if noRemote {
				cfg.Remote = false
			}
			if cmd.Flags().Changed("force-push") {
				cfg.ForcePush = forcePush
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := setupLogger(cfg.LogLevel, cfg.LogFile)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var publisher publish.Publisher
			if !noGit {
				if publisher, err = preparePublisher(ctx, cmd, cfg, logger); err != nil {
					return err
				}
			}

			report, runErr := organize.New(cfg, publisher, logger).Run(ctx, args[0])
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			if runErr != nil {
				return runErr
			}
			if len(report.Failed()) > 0 {
				return fmt.Errorf("%d of %d projects failed", len(report.Failed()), len(report.Projects))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutputDir, "Directory that receives the organized projects")
	cmd.Flags().BoolVar(&private, "private", false, "Create private GitHub repositories")
	cmd.Flags().BoolVar(&noRemote, "no-remote", false, "Create local git repositories only")
	cmd.Flags().BoolVar(&forcePush, "force-push", false, "Retry a rejected push with --force")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "Only copy files and write README/.gitignore")
	return cmd
}

func newDetectCommand(opts *globalOptions) *cobra.Command {
	var asJSON, verbose bool

	cmd := &cobra.Command{
		Use:   "detect <dir>",
		Short: "Show the projects organize would create, without touching anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel, cfg.LogFile)

			detection, err := organize.New(cfg, nil, logger).Detect(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(newDetectionView(detection))
			}
			fmt.Fprint(out, tools.FormatProjects(detection.Grouping, verbose))
			printScanNotes(out, detection)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the grouping as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List member files under each project")
	return cmd
}

func newPublishCommand(opts *globalOptions) *cobra.Command {
	var private, noRemote, forcePush bool

	cmd := &cobra.Command{
		Use:   "publish <dir>",
		Short: "Publish already organized project directories found in dir",
		Long: heredoc.Doc(`
			Treat every subdirectory of dir that looks like a project as a finished
			project and publish it: write a .gitignore (and a README.md if none exists),
			commit, and create and push a GitHub repository when possible. If no
			subdirectory qualifies, dir itself is published as one project.

			The repository description is taken from the "## Description" section of
			the project's README when present.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("private") {
				cfg.Private = private
			}
			if noRemote {
				cfg.Remote = false
			}
			if cmd.Flags().Changed("force-push") {
				cfg.ForcePush = forcePush
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := setupLogger(cfg.LogLevel, cfg.LogFile)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			publisher, err := preparePublisher(ctx, cmd, cfg, logger)
			if err != nil {
				return err
			}
			report, runErr := organize.New(cfg, publisher, logger).PublishExisting(ctx, args[0])
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			if runErr != nil {
				return runErr
			}
			if len(report.Failed()) > 0 {
				return fmt.Errorf("%d of %d projects failed", len(report.Failed()), len(report.Projects))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "Create private GitHub repositories")
	cmd.Flags().BoolVar(&noRemote, "no-remote", false, "Create local git repositories only")
	cmd.Flags().BoolVar(&forcePush, "force-push", false, "Retry a rejected push with --force")
	return cmd
}

func newRegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "register project|user [directory] [-- serve-flags...]",
		Short:     "Register the MCP server in a client config file",
		ValidArgs: []string{string(register.ScopeProject), string(register.ScopeUser)},
		Long: heredoc.Doc(`
			Add this binary as an MCP server running "serve".

			  project  writes <directory>/.mcp.json (default directory: .)
			  user     writes ~/.claude.json

			Arguments after -- are forwarded to serve.
		`),
		Example: heredoc.Doc(`
			$ organize-mcp register project
			$ organize-mcp register user -- --root ~/inbox
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := register.Options{
				ServerName: register.DeriveServerName(os.Args[0]),
				Scope:      register.Scope(args[0]),
			}
			positional := args
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, options.ServerArgs = args[:dash], args[dash:]
			}
			if len(positional) > 2 || (len(positional) == 2 && options.Scope != register.ScopeProject) {
				return fmt.Errorf("unexpected arguments: %v", positional[1:])
			}
			if len(positional) == 2 {
				options.Directory = positional[1]
			}

			configPath, err := register.Register(options)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", options.ServerName, configPath)
			return nil
		},
	}
	return cmd
}

func newServeCommand(opts *globalOptions) *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio over a live detection of --root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if rootDir == "" {
				if rootDir, err = os.Getwd(); err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
			}
			if rootDir, err = filepath.Abs(rootDir); err != nil {
				return fmt.Errorf("resolving root: %w", err)
			}

			logger := setupLogger(cfg.LogLevel, cfg.LogFile)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return serve(ctx, rootDir, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", "", "Directory to detect projects in (default: current working directory)")
	return cmd
}

// preparePublisher checks git and gh and returns a publisher for cfg. A missing
// gh only downgrades to local repositories, which is reported on stderr.
func preparePublisher(ctx context.Context, cmd *cobra.Command, cfg config.Config, logger *slog.Logger) (*publish.GitPublisher, error) {
	publisher := publish.NewGitPublisher(publish.NewCommandRunner(logger), cfg.PublishConfig(), logger)
	readiness, err := publisher.Preflight(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Remote && !readiness.Remote {
		printWarning(cmd.ErrOrStderr(), "GitHub publishing disabled (%s); creating local repositories only", readiness.Reason)
	}
	return publisher, nil
}

// serverHandlers wires the tool handlers for one workspace.
func serverHandlers(ws *tools.Workspace, rootDir string, rescan tools.RescanFunc, logger *slog.Logger) server.Handlers {
	return server.Handlers{
		Projects: &tools.ProjectsHandler{Workspace: ws, Logger: logger},
		Search:   &tools.SearchHandler{Workspace: ws, Logger: logger},
		Files:    &tools.FilesHandler{Workspace: ws, Logger: logger},
		Preview:  &tools.PreviewHandler{Workspace: ws, Logger: logger},
		Status:   &tools.StatusHandler{Workspace: ws, RootDir: rootDir, Logger: logger},
		Rescan:   &tools.RescanHandler{DoRescan: rescan, Logger: logger},
	}
}
