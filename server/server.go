package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/organize-mcp/tools"
)

// Name is the MCP implementation name announced to clients.
const Name = "organize-mcp"

// Version is the announced server version.
var Version = "0.1.0"

// Handlers bundles the tool handlers registered on the server.
type Handlers struct {
	Projects *tools.ProjectsHandler
	Search   *tools.SearchHandler
	Files    *tools.FilesHandler
	Preview  *tools.PreviewHandler
	Status   *tools.StatusHandler
	Rescan   *tools.RescanHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    Name,
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server detects the projects hidden in a messy directory tree: it groups loose files into cohesive projects, names them and generates their README and .gitignore. Nothing is copied or published from here.

Use these tools to inspect the detection:
- organize_projects lists the detected projects with language and description
- organize_search finds projects by name, description, file names, declarations or imports
- organize_files maps files (by glob) to the project that owns them
- organize_preview shows the README.md and .gitignore a project would receive
- The detection refreshes automatically when files change (via filesystem watcher)`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "organize_projects",
		Description: `List the detected projects. Every scanned file belongs to exactly one project; files that fit nowhere go to "misc".

Filtering:
  - language: dominant language label (e.g. "Python")
  - verbose: list member files under each project`,
	}, handlers.Projects.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "organize_search",
		Description: `Search detected projects using full-text indexed search over names, descriptions, file names, declarations and imports.

Query formats:
  - Plain text: word-level matching (e.g., "forecast")
  - "quoted text": exact phrase matching (e.g., "\"Multi-file Python\"")
  - /regex/: regular expression matching (e.g., "/weath.*/")`,
	}, handlers.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "organize_files",
		Description: `Find scanned files by glob pattern and show the project each one belongs to.

Pattern examples:
  - "**/*.py" - all Python files
  - "notes/**" - everything under notes/
  - "*.csv" - CSV files in the root only`,
	}, handlers.Files.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "organize_preview",
		Description: "Show the README.md and .gitignore that organizing would generate for one detected project. Nothing is written to disk.",
	}, handlers.Preview.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "organize_status",
		Description: "Show detection status: root, project and file counts, languages, memory usage, and uptime.",
	}, handlers.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "organize_rescan",
		Description: "Force a full re-detection of the root. Reloads ignore rules and rebuilds the project index.",
	}, handlers.Rescan.Handle)

	return mcpServer
}
