package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the organize_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Workspace *Workspace
	RootDir   string
	Logger    *slog.Logger
}

// Handle processes an organize_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	catalog := h.Workspace.Catalog
	fileCount := catalog.FileCount()
	totalSize := catalog.TotalSizeBytes()
	uptime := time.Since(h.Workspace.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	builder.WriteString("=== organize-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))

	detection := h.Workspace.Detection()
	if detection == nil {
		builder.WriteString("Detection: pending\n")
	} else {
		builder.WriteString(fmt.Sprintf("Projects: %d\n", detection.Grouping.Len()))
		builder.WriteString(fmt.Sprintf("Last detection: %s ago (took %s)\n",
			formatDuration(time.Since(detection.DetectedAt)),
			detection.Elapsed.Round(time.Millisecond),
		))
		if n := len(detection.Scan.Skipped); n > 0 {
			builder.WriteString(fmt.Sprintf("Unreadable paths skipped: %d\n", n))
		}
		if n := len(detection.Scan.Truncated); n > 0 {
			builder.WriteString(fmt.Sprintf("Directories beyond depth limit: %d\n", n))
		}
	}
	builder.WriteString(fmt.Sprintf("Files: %d\n", fileCount))
	builder.WriteString(fmt.Sprintf("Indexed projects: %d\n", h.Workspace.Projects.DocumentCount()))
	builder.WriteString(fmt.Sprintf("Total size: %s\n", formatFileSize(totalSize)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	if langCounts := catalog.LanguageCounts(); len(langCounts) > 0 {
		builder.WriteString("\nLanguages:\n")
		builder.WriteString(FormatLanguages(langCounts))
	}

	h.Logger.Info("organize_status",
		"files", fileCount,
		"totalSize", totalSize,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)
	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
