package parsers

import (
	"strconv"
	"strings"
	"time"

	"github.com/zinspect/zinspect/internal/dataset"
)

// ParseMemory reads `free -b` output. The first Mem: line fills the memory
// fields and the first Swap: line the swap fields; a missing line leaves its
// fields nil. Values are bytes as printed, missing columns read as 0, except
// available which stays nil when the line is too short to carry it.
func ParseMemory(content string) *dataset.MemoryRecord {
	m := &dataset.MemoryRecord{}
	for _, line := range splitLines(content) {
		switch {
		case m.Total == nil && strings.Contains(line, "Mem:"):
			cols, n := columnsAfter(line, "Mem:", 6)
			m.Total, m.Used, m.Free = &cols[0], &cols[1], &cols[2]
			m.Shared, m.BuffCache = &cols[3], &cols[4]
			if n == 6 {
				m.Available = &cols[5]
			}
		case m.SwapTotal == nil && strings.Contains(line, "Swap:"):
			cols, _ := columnsAfter(line, "Swap:", 3)
			m.SwapTotal, m.SwapUsed, m.SwapFree = &cols[0], &cols[1], &cols[2]
		}
	}
	return m
}

// columnsAfter returns the n integer columns following label on line and
// how many of them were actually there.
func columnsAfter(line, label string, n int) ([]int64, int) {
	_, rest, _ := strings.Cut(line, label)
	tokens := strings.Fields(rest)
	cols := make([]int64, n)
	found := min(n, len(tokens))
	for i := 0; i < found; i++ {
		cols[i] = parseIntLoose(tokens[i])
	}
	return cols, found
}

// ParseUptime reads the first `uptime` line carrying a load average.
func ParseUptime(content string) *dataset.UptimeRecord {
	r := &dataset.UptimeRecord{}
	for _, line := range splitLines(content) {
		load, ok := loadAverageLine.Match(line)
		if !ok {
			continue
		}
		r.LoadAverage = &dataset.LoadAverage{
			OneMin:     load.Float("one"),
			FiveMin:    load.Float("five"),
			FifteenMin: load.Float("fifteen"),
		}
		if span, ok := uptimeSpanLine.Match(line); ok {
			r.Uptime = strings.TrimSpace(span.String("span"))
		}
		break
	}
	return r
}

// ParseCPUInfo returns the first model name in /proc/cpuinfo.
func ParseCPUInfo(content string) *dataset.CPUInfo {
	info := &dataset.CPUInfo{}
	for _, line := range splitLines(content) {
		if !strings.Contains(line, "model name") || !strings.Contains(line, ":") {
			continue
		}
		// Only the text between the first and second colon is kept.
		info.ModelName = strings.TrimSpace(strings.SplitN(line, ":", 3)[1])
		break
	}
	return info
}

// ParseNproc returns the first all-digit line of `nproc` output.
func ParseNproc(content string) *dataset.Nproc {
	n := &dataset.Nproc{}
	for _, line := range splitLines(content) {
		f, ok := nprocLine.Match(strings.TrimSpace(line))
		if !ok {
			continue
		}
		cores, err := strconv.Atoi(f.String("cores"))
		if err == nil {
			n.Cores = cores
		}
		break
	}
	return n
}

// timestampLayouts are tried in order by ParseFinal. Layouts without a zone
// are read in local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseFinal reads the collection end timestamp. Unlike the other scalar
// parsers it skips lines that do not parse and keeps looking.
func ParseFinal(content string, opts Options) *dataset.FinalRecord {
	r := &dataset.FinalRecord{}
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(line) {
			continue
		}
		t, err := parseTimestamp(trimmed)
		if err != nil {
			opts.log().Warn("could not parse collection end time %q: %v", trimmed, err)
			continue
		}
		r.CollectionEndTime = &t
		r.CollectionEndTimeISO = trimmed
		break
	}
	return r
}
