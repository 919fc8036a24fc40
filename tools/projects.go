package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/organize-mcp/detect"
)

// ProjectsArgs defines the input parameters for the organize_projects tool.
type ProjectsArgs struct {
	Language string `json:"language,omitempty" jsonschema:"Only list projects whose dominant language matches (case-insensitive)"`
	Verbose  bool   `json:"verbose,omitempty" jsonschema:"If true list every member file under its project"`
}

// ProjectsHandler holds the dependencies for the projects tool.
type ProjectsHandler struct {
	Workspace *Workspace
	Logger    *slog.Logger
}

// Handle processes an organize_projects request.
func (h *ProjectsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ProjectsArgs) (*mcp.CallToolResult, any, error) {
	detection := h.Workspace.Detection()
	if detection == nil {
		return errorResult("Error: detection has not completed yet"), nil, nil
	}

	grouping := detection.Grouping
	if args.Language != "" {
		grouping = filterByLanguage(grouping, args.Language)
	}

	h.Logger.Info("organize_projects",
		"language", args.Language,
		"projects", grouping.Len(),
	)
	return textResult(FormatProjects(grouping, args.Verbose)), nil, nil
}

func filterByLanguage(grouping *detect.Grouping, lang string) *detect.Grouping {
	filtered := &detect.Grouping{}
	for _, group := range grouping.Groups {
		if strings.EqualFold(group.Language, lang) {
			filtered.Groups = append(filtered.Groups, group)
		}
	}
	return filtered
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
