package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/parsers"
)

// TopLimit is how many records a top-N process query keeps.
const TopLimit = 10

// Process sort columns.
var processSortKeys = map[string]func(a, b dataset.ProcessRecord) int{
	"user":    func(a, b dataset.ProcessRecord) int { return strings.Compare(a.User, b.User) },
	"pid":     func(a, b dataset.ProcessRecord) int { return a.PID - b.PID },
	"cpu":     func(a, b dataset.ProcessRecord) int { return compareFloat(a.CPU, b.CPU) },
	"mem":     func(a, b dataset.ProcessRecord) int { return compareFloat(a.Mem, b.Mem) },
	"vsz":     func(a, b dataset.ProcessRecord) int { return compareInt(a.VSZ, b.VSZ) },
	"rss":     func(a, b dataset.ProcessRecord) int { return compareInt(a.RSS, b.RSS) },
	"start":   func(a, b dataset.ProcessRecord) int { return strings.Compare(a.Start, b.Start) },
	"time":    func(a, b dataset.ProcessRecord) int { return strings.Compare(a.Time, b.Time) },
	"type":    func(a, b dataset.ProcessRecord) int { return strings.Compare(a.ProcessType, b.ProcessType) },
	"command": func(a, b dataset.ProcessRecord) int { return strings.Compare(a.Command, b.Command) },
}

// ProcessSortKeys lists the accepted ProcessQuery.SortBy values.
func ProcessSortKeys() []string {
	keys := make([]string, 0, len(processSortKeys))
	for k := range processSortKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProcessQuery selects and orders process records.
type ProcessQuery struct {
	// Type keeps records whose process type equals it. Empty keeps all.
	Type string
	// Top is "cpu", "rss" or "vsz" to keep the TopLimit largest by it.
	Top string
	// SortBy is a ProcessSortKeys column. Empty keeps archive order.
	SortBy string
	Desc   bool
}

// Validate checks the query's column names.
func (q ProcessQuery) Validate() error {
	switch q.Top {
	case "", "cpu", "rss", "vsz":
	default:
		return fmt.Errorf("unknown top column %q, use cpu, rss or vsz", q.Top)
	}
	if _, ok := processSortKeys[q.SortBy]; q.SortBy != "" && !ok {
		return fmt.Errorf("unknown sort column %q, use one of %s", q.SortBy, strings.Join(ProcessSortKeys(), ", "))
	}
	return nil
}

// FilterProcesses applies q to procs without modifying it. Invalid column
// names are ignored.
func FilterProcesses(procs []dataset.ProcessRecord, q ProcessQuery) []dataset.ProcessRecord {
	out := make([]dataset.ProcessRecord, 0, len(procs))
	for _, p := range procs {
		if q.Type != "" && p.ProcessType != q.Type {
			continue
		}
		out = append(out, p)
	}

	if isTopColumn(q.Top) {
		top := processSortKeys[q.Top]
		sort.SliceStable(out, func(i, j int) bool { return top(out[i], out[j]) > 0 })
		if len(out) > TopLimit {
			out = out[:TopLimit]
		}
	}

	if cmp, ok := processSortKeys[q.SortBy]; ok {
		sort.SliceStable(out, func(i, j int) bool {
			if q.Desc {
				return cmp(out[i], out[j]) > 0
			}
			return cmp(out[i], out[j]) < 0
		})
	}
	return out
}

func isTopColumn(col string) bool {
	return col == "cpu" || col == "rss" || col == "vsz"
}

// ProcessTypes lists the distinct non-empty process types, sorted.
func ProcessTypes(procs []dataset.ProcessRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range procs {
		if p.ProcessType == "" || seen[p.ProcessType] {
			continue
		}
		seen[p.ProcessType] = true
		out = append(out, p.ProcessType)
	}
	sort.Strings(out)
	return out
}

// DisplayType is the label for a process type; the empty type is shown as
// the main server.
func DisplayType(processType string) string {
	if processType == "" {
		return parsers.ProcessTypeMain
	}
	return processType
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
