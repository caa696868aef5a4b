package pdftemplate

import (
	"strings"
)

// ParsePaper re-parses the final paper's plain-text layout back into its
// sections. The layout is header, dashed underline of the same length,
// "- " bullets, blank line; anything that does not fit that shape is
// ignored rather than guessed at.
func ParsePaper(content string) map[string][]string {
	sections := make(map[string][]string)
	lines := strings.Split(content, "\n")

	current := ""
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")

		if isUnderlinedHeader(lines, i) {
			current = trimmed
			continue
		}
		if current == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") {
			if item := strings.TrimSpace(strings.TrimPrefix(trimmed, "- ")); item != "" {
				sections[current] = append(sections[current], item)
			}
		}
	}

	return sections
}

func isUnderlinedHeader(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	header := strings.TrimRight(lines[i], " \t")
	underline := strings.TrimRight(lines[i+1], " \t")
	if header == "" || len(underline) != len(header) {
		return false
	}
	return underline == strings.Repeat("-", len(header))
}
