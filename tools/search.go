package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/organize-mcp/index"
)

// SearchArgs defines the input parameters for the organize_search tool.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"Search query. Plain text for word match, quoted for exact phrase, /regex/ for regular expression"`
	Language   string `json:"language,omitempty" jsonschema:"Exact language label to filter by (e.g. Python)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of projects to return (default 50)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Workspace *Workspace
	Logger    *slog.Logger
}

// Handle processes an organize_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("organize_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	hits, total, err := h.Workspace.Projects.Search(index.SearchOptions{
		Query:      args.Query,
		Language:   args.Language,
		MaxResults: args.MaxResults,
	})
	if err != nil {
		h.Logger.Error("organize_search failed", "query", args.Query, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	h.Logger.Info("organize_search",
		"query", args.Query,
		"language", args.Language,
		"hits", len(hits),
		"total", total,
		"elapsed", time.Since(start),
	)

	var output string
	if detection := h.Workspace.Detection(); detection != nil {
		output = FormatProjectHits(hits, total, detection.Grouping)
	} else {
		output = FormatProjectHits(hits, total, nil)
	}
	return textResult(output), nil, nil
}
