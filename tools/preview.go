package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PreviewArgs defines the input parameters for the organize_preview tool.
type PreviewArgs struct {
	Project string `json:"project" jsonschema:"Name of a detected project as listed by organize_projects"`
	Part    string `json:"part,omitempty" jsonschema:"readme, gitignore or empty for both"`
}

// PreviewHandler holds the dependencies for the preview tool.
type PreviewHandler struct {
	Workspace *Workspace
	Logger    *slog.Logger
}

// Handle processes an organize_preview request. Nothing is written to disk.
func (h *PreviewHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args PreviewArgs) (*mcp.CallToolResult, any, error) {
	if args.Project == "" {
		h.Logger.Warn("organize_preview called with empty project")
		return errorResult("Error: project parameter is required"), nil, nil
	}

	part := strings.ToLower(strings.TrimSpace(args.Part))
	if part != "" && part != "readme" && part != "gitignore" {
		return errorResult(fmt.Sprintf("Error: unknown part %q (want readme or gitignore)", args.Part)), nil, nil
	}

	detection := h.Workspace.Detection()
	if detection == nil {
		return errorResult("Error: detection has not completed yet"), nil, nil
	}
	group, ok := detection.Grouping.Get(args.Project)
	if !ok {
		return errorResult(fmt.Sprintf("Error: project not found: %s", args.Project)), nil, nil
	}

	var builder strings.Builder
	if part == "" || part == "readme" {
		builder.WriteString("── README.md ──\n")
		builder.WriteString(h.Workspace.Synthesizer.Readme(group.Name, group))
	}
	if part == "" || part == "gitignore" {
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("── .gitignore ──\n")
		builder.WriteString(h.Workspace.Synthesizer.IgnoreFile(group.Language))
	}

	h.Logger.Info("organize_preview", "project", group.Name, "part", part)
	return textResult(builder.String()), nil, nil
}
