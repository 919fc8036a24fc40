package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/lexandro/organize-mcp/organize"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

// printReport writes the end-of-run summary: one line per project, then totals.
func printReport(w io.Writer, report *organize.Report) {
	fmt.Fprintf(w, "\nOrganized %s -> %s\n\n", report.Root, report.OutputDir)

	for _, p := range report.Projects {
		switch {
		case p.Err != nil:
			failColor.Fprint(w, "  ✗ ")
			fmt.Fprintf(w, "%-30s %v\n", p.Name, p.Err)
		case p.RemoteErr != nil:
			warnColor.Fprint(w, "  ! ")
			fmt.Fprintf(w, "%-30s local only: %v\n", p.Name, p.RemoteErr)
		default:
			okColor.Fprint(w, "  ✓ ")
			fmt.Fprintf(w, "%-30s %-12s %3d files", p.Name, p.Language, p.Files)
			if p.RemoteURL != "" {
				dimColor.Fprintf(w, "  %s", p.RemoteURL)
			}
			fmt.Fprintln(w)
		}
	}

	succeeded, failed := len(report.Succeeded()), len(report.Failed())
	fmt.Fprintf(w, "\n%d projects, %d files in %s: ", len(report.Projects), report.Files, report.Elapsed.Round(time.Millisecond))
	okColor.Fprintf(w, "%d succeeded", succeeded)
	if failed > 0 {
		fmt.Fprint(w, ", ")
		failColor.Fprintf(w, "%d failed", failed)
	}
	fmt.Fprintln(w)

	if n := len(report.Skipped); n > 0 {
		warnColor.Fprintf(w, "%d unreadable paths were skipped\n", n)
	}
	if report.Cancelled {
		warnColor.Fprintln(w, "Run cancelled before all projects were processed")
	}
}

func printScanNotes(w io.Writer, detection *organize.Detection) {
	if n := len(detection.Scan.Skipped); n > 0 {
		warnColor.Fprintf(w, "\n%d unreadable paths were skipped\n", n)
	}
	if n := len(detection.Scan.Truncated); n > 0 {
		warnColor.Fprintf(w, "%d directories were below the depth limit and not scanned\n", n)
	}
}

func printWarning(w io.Writer, format string, args ...any) {
	warnColor.Fprint(w, "Warning: ")
	fmt.Fprintf(w, format+"\n", args...)
}

// detectionView is the JSON shape printed by detect --json.
type detectionView struct {
	Root      string        `json:"root"`
	Files     int           `json:"files"`
	Skipped   []string      `json:"skipped,omitempty"`
	Truncated []string      `json:"truncated,omitempty"`
	Projects  []projectView `json:"projects"`
}

type projectView struct {
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Description string   `json:"description"`
	SourceDir   string   `json:"sourceDir"`
	Split       bool     `json:"split,omitempty"`
	Files       []string `json:"files"`
}

func newDetectionView(detection *organize.Detection) detectionView {
	view := detectionView{
		Root:      detection.Root,
		Files:     len(detection.Scan.Files),
		Skipped:   detection.Scan.Skipped,
		Truncated: detection.Scan.Truncated,
		Projects:  make([]projectView, 0, detection.Grouping.Len()),
	}
	for _, group := range detection.Grouping.Groups {
		files := make([]string, len(group.Files))
		for i, f := range group.Files {
			files[i] = f.RelativePath
		}
		view.Projects = append(view.Projects, projectView{
			Name:        group.Name,
			Language:    group.Language,
			Description: group.Description,
			SourceDir:   group.SourceDir,
			Split:       group.Split,
			Files:       files,
		})
	}
	return view
}
