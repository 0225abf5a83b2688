package parsers

import "strings"

// StdoutSection is the diaginfo section that is never kept.
const StdoutSection = "STDOUT"

// isSectionHeader reports whether line is a `== title ==` header.
func isSectionHeader(line string) bool {
	return strings.Contains(line, "== ") && strings.Contains(line, " ==")
}

// sectionTitle strips every '=' from a header line and trims the rest.
func sectionTitle(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, "=", ""))
}

// ParseDiaginfo splits zabbix_server diaginfo output into its sections.
//
// Keys are the trimmed header titles; values are the section's non-blank
// lines, trimmed, in file order. Lines before the first header, and lines
// under a STDOUT header, are dropped. A repeated title starts that section
// over. A header with an empty title is recorded but collects nothing.
func ParseDiaginfo(content string) map[string][]string {
	sections := make(map[string][]string)
	current := ""
	open := false

	for _, line := range splitLines(content) {
		if isSectionHeader(line) {
			title := sectionTitle(line)
			if title == StdoutSection {
				open = false
				continue
			}
			current, open = title, title != ""
			sections[current] = make([]string, 0)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if !open || trimmed == "" {
			continue
		}
		sections[current] = append(sections[current], trimmed)
	}
	return sections
}
