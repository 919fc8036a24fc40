package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lexandro/organize-mcp/detect"
	"github.com/lexandro/organize-mcp/index"
)

// FormatProjects renders a grouping as a project listing. With verbose set every
// member file is listed under its project.
func FormatProjects(grouping *detect.Grouping, verbose bool) string {
	if grouping == nil || grouping.Len() == 0 {
		return "No projects detected."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Detected %d projects (%d files):\n\n", grouping.Len(), grouping.FileCount()))

	for i, group := range grouping.Groups {
		if i > 0 && verbose {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("  %-30s %-12s %3d files  %s\n",
			group.Name, group.Language, len(group.Files), group.Description))
		if !verbose {
			continue
		}
		for _, f := range group.Files {
			builder.WriteString(fmt.Sprintf("      %s  (%s)\n", f.RelativePath, formatFileSize(f.SizeBytes)))
		}
	}

	return builder.String()
}

// FormatProjectHits renders project search hits, looking up descriptions in grouping.
func FormatProjectHits(hits []index.ProjectHit, total uint64, grouping *detect.Grouping) string {
	if len(hits) == 0 {
		return "No projects matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matching projects (showing %d):\n\n", total, len(hits)))

	for _, hit := range hits {
		description := ""
		if grouping != nil {
			if group, ok := grouping.Get(hit.Name); ok {
				description = group.Description
			}
		}
		builder.WriteString(fmt.Sprintf("── %s (%s, score %.2f) ──\n", hit.Name, hit.Language, hit.Score))
		if description != "" {
			builder.WriteString(fmt.Sprintf("  %s\n", description))
		}
	}

	return builder.String()
}

// FormatFileResults renders catalog entries with their owning project.
func FormatFileResults(entries []index.Entry, nameOnly bool) string {
	if len(entries) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(entries)))

	for _, e := range entries {
		if nameOnly {
			builder.WriteString(e.File.RelativePath)
			builder.WriteString("\n")
			continue
		}
		builder.WriteString(fmt.Sprintf("  %s  (%s, %s) -> %s\n",
			e.File.RelativePath,
			fileKind(e),
			formatFileSize(e.File.SizeBytes),
			e.Project,
		))
	}

	return builder.String()
}

// FormatLanguages renders language counts sorted by count descending, then name.
func FormatLanguages(counts map[string]int) string {
	type langEntry struct {
		lang  string
		count int
	}
	entries := make([]langEntry, 0, len(counts))
	for lang, count := range counts {
		entries = append(entries, langEntry{lang, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].lang < entries[j].lang
	})

	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.lang, entry.count))
	}
	return builder.String()
}

func fileKind(e index.Entry) string {
	switch {
	case e.File.IsCode:
		return e.File.Language()
	case e.File.IsData:
		return "data"
	default:
		return "other"
	}
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
