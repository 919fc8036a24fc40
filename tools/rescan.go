package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RescanArgs defines the input parameters for the organize_rescan tool.
type RescanArgs struct{}

// RescanFunc re-runs detection of the served root and updates the workspace.
// It is provided by main so the handler stays free of scan wiring.
type RescanFunc func() (projects int, files int, err error)

// RescanHandler holds the dependencies for the rescan tool.
type RescanHandler struct {
	DoRescan RescanFunc
	Logger   *slog.Logger
}

// Handle processes an organize_rescan request.
func (h *RescanHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RescanArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	h.Logger.Info("organize_rescan started")

	projects, files, err := h.DoRescan()
	if err != nil {
		h.Logger.Error("organize_rescan failed", "error", err)
		return errorResult(fmt.Sprintf("Rescan error: %v", err)), nil, nil
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	h.Logger.Info("organize_rescan complete",
		"projects", projects,
		"files", files,
		"elapsed", elapsed,
	)
	return textResult(fmt.Sprintf("Rescan complete: %d projects, %d files in %s", projects, files, elapsed)), nil, nil
}
