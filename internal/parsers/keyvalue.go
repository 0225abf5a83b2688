package parsers

import "strings"

// parseKeyValue reads `key=value` lines. Comment lines and lines where either
// side is empty after trimming are skipped. Later keys overwrite earlier ones.
func parseKeyValue(content string, value func(string) string) map[string]string {
	out := make(map[string]string)
	for _, line := range splitLines(content) {
		if isComment(line) {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = value(v)
	}
	return out
}

// ParseConfig parses zabbix_server.conf style `Key=Value` lines.
func ParseConfig(content string) map[string]string {
	return parseKeyValue(content, func(v string) string { return v })
}

// ParseOSRelease parses /etc/os-release. Double quotes are removed from values.
func ParseOSRelease(content string) map[string]string {
	return parseKeyValue(content, func(v string) string {
		return strings.ReplaceAll(v, `"`, "")
	})
}
