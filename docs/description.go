package docs

import (
	"strings"
	"unicode/utf8"
)

const descriptionHeading = "## Description"

// minMeaningfulLine is the shortest plain line accepted as a fallback description.
const minMeaningfulLine = 10

// DescriptionFromReadme recovers a project description from README text. The first
// non-empty line under "## Description" wins; otherwise the first plain line longer
// than a few words is used. ok is false when neither exists.
func DescriptionFromReadme(text string) (description string, ok bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for i, line := range lines {
		if !strings.HasPrefix(line, descriptionHeading) {
			continue
		}
		for _, next := range lines[i+1:] {
			if next = strings.TrimSpace(next); next != "" {
				return next, true
			}
		}
		break
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") && utf8.RuneCountInString(line) > minMeaningfulLine {
			return line, true
		}
	}
	return "", false
}
