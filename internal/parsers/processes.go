package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zinspect/zinspect/internal/dataset"
)

// psMinTokens is the token count of a ps aux line with a one-word command.
const psMinTokens = 11

// Process types derived from the command line.
const (
	ProcessTypeMain    = "main server"
	ProcessTypeUnknown = "unknown"
)

// processClassifier derives ProcessRecord.ProcessType for one marker.
type processClassifier struct {
	marker string
	role   *regexp.Regexp
	main   *regexp.Regexp
}

func newProcessClassifier(marker string) *processClassifier {
	q := regexp.QuoteMeta(marker)
	return &processClassifier{
		marker: marker,
		role:   regexp.MustCompile(`\S*` + q + `:\s*([^#\[\]]+)`),
		main:   regexp.MustCompile(`\S*` + q + `\s+-c\s+`),
	}
}

// classify tries, in order: the worker role after "<marker>:", "main server"
// for a "-c <config>" invocation, "unknown" when the marker is present at
// all, and "" otherwise.
func (c *processClassifier) classify(command string) string {
	if m := c.role.FindStringSubmatch(command); m != nil {
		return strings.TrimSpace(m[1])
	}
	if c.main.MatchString(command) {
		return ProcessTypeMain
	}
	if strings.Contains(command, c.marker) {
		return ProcessTypeUnknown
	}
	return ""
}

// ParseProcesses extracts records for the monitored binary from ps aux output.
//
// Lines must contain the process marker and must not contain "grep". Lines
// with fewer than 11 tokens are dropped. Tokens from index 10 on are joined
// with single spaces to form the command.
func ParseProcesses(content string, opts Options) []dataset.ProcessRecord {
	c := newProcessClassifier(opts.marker())
	records := make([]dataset.ProcessRecord, 0)

	for _, line := range splitLines(content) {
		if !strings.Contains(line, c.marker) || strings.Contains(line, "grep") || strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < psMinTokens {
			continue
		}

		command := strings.Join(parts[10:], " ")
		records = append(records, dataset.ProcessRecord{
			User:        parts[0],
			PID:         int(parseIntLoose(parts[1])),
			CPU:         parseFloatPrefix(parts[2]),
			Mem:         parseFloatPrefix(parts[3]),
			VSZ:         parseIntLoose(parts[4]),
			RSS:         parseIntLoose(parts[5]),
			TTY:         parts[6],
			Stat:        parts[7],
			Start:       parts[8],
			Time:        parts[9],
			Command:     command,
			ProcessType: c.classify(command),
		})
	}
	return records
}

var leadingFloatRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// parseFloatPrefix parses the leading decimal of s, 0 when there is none.
func parseFloatPrefix(s string) float64 {
	lead := leadingFloatRe.FindString(strings.TrimSpace(s))
	if lead == "" {
		return 0
	}
	v, err := strconv.ParseFloat(lead, 64)
	if err != nil {
		return 0
	}
	return v
}
