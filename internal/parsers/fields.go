package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

// Fields holds the named captures of a matched line.
type Fields map[string]string

// MatchFields applies re to s and returns its named capture groups.
// Returns nil, false when re does not match. Unnamed groups are ignored.
func MatchFields(re *regexp.Regexp, s string) (Fields, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	f := make(Fields, len(m))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		f[name] = m[i]
	}
	return f, true
}

// Int returns the named field as an int64, 0 if missing or not numeric.
func (f Fields) Int(name string) int64 {
	return parseIntLoose(f[name])
}

// Float returns the named field as a float64, 0 if missing or not numeric.
func (f Fields) Float(name string) float64 {
	return parseFloatLoose(f[name])
}

// String returns the named field verbatim.
func (f Fields) String(name string) string {
	return f[name]
}

var leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)

// parseIntLoose parses the leading integer of s. Tokens without one are 0.
func parseIntLoose(s string) int64 {
	lead := leadingIntRe.FindString(strings.TrimSpace(s))
	if lead == "" {
		return 0
	}
	n, err := strconv.ParseInt(lead, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseFloatLoose parses s as a float, 0 when it is not one.
func parseFloatLoose(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// splitLines splits text into lines, dropping a trailing CR from each.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// isComment reports whether line is a '#' comment once leading space is removed.
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}
