package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FilesArgs defines the input parameters for the organize_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern to match files relative to the root (e.g. **/*.py or notes/*.csv)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without kind and owning project"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	Workspace *Workspace
	Logger    *slog.Logger
}

// Handle processes an organize_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("organize_files called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	entries, err := h.Workspace.Catalog.FindByGlob(args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Error("organize_files failed", "pattern", args.Pattern, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	h.Logger.Info("organize_files",
		"pattern", args.Pattern,
		"results", len(entries),
		"elapsed", time.Since(start),
	)
	return textResult(FormatFileResults(entries, args.NameOnly)), nil, nil
}
