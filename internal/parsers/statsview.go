package parsers

import (
	"sort"
	"strconv"
	"strings"
)

// HA node statuses reported by zabbix_stats.
const (
	HAStatusStandby = 0
	HAStatusActive  = 3
)

// StatsView reads typed values out of a decoded zabbix_stats document.
// All lookups go through the top-level "data" object and tolerate missing or
// mistyped nodes.
type StatsView struct {
	data map[string]any
}

// NewStatsView wraps the result of ParseZabbixStats. stats may be nil.
func NewStatsView(stats map[string]any) StatsView {
	data, _ := stats["data"].(map[string]any)
	return StatsView{data: data}
}

// Present reports whether the document has a "data" object.
func (v StatsView) Present() bool {
	return v.data != nil
}

func (v StatsView) lookup(path ...string) (any, bool) {
	var node any = v.data
	for _, key := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = m[key]; !ok {
			return nil, false
		}
	}
	return node, node != nil
}

// Number returns the numeric value at path under data.
func (v StatsView) Number(path ...string) (float64, bool) {
	node, ok := v.lookup(path...)
	if !ok {
		return 0, false
	}
	return toFloat(node)
}

// String returns the value at path under data rendered as text.
func (v StatsView) String(path ...string) (string, bool) {
	node, ok := v.lookup(path...)
	if !ok {
		return "", false
	}
	switch s := node.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}
	return "", false
}

func toFloat(node any) (float64, bool) {
	switch n := node.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// Version returns data.version, or "" when absent.
func (v StatsView) Version() string {
	s, _ := v.String("version")
	return s
}

// Count returns a top-level counter such as hosts or items, 0 when absent.
func (v StatsView) Count(name string) float64 {
	n, _ := v.Number(name)
	return n
}

// ProcessBusy is the average busy percentage of one internal process type.
type ProcessBusy struct {
	Name    string  `json:"name" yaml:"name"`
	BusyAvg float64 `json:"busyAvg" yaml:"busyAvg"`
}

// Processes returns data.process.<name>.busy.avg for every process type,
// sorted by name. A process without busy data reports 0.
func (v StatsView) Processes() []ProcessBusy {
	node, ok := v.lookup("process")
	if !ok {
		return nil
	}
	procs, ok := node.(map[string]any)
	if !ok {
		return nil
	}

	out := make([]ProcessBusy, 0, len(procs))
	for name := range procs {
		busy, _ := v.Number("process", name, "busy", "avg")
		out = append(out, ProcessBusy{Name: name, BusyAvg: busy})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Cache free-percentage locations in zabbix_stats.
var (
	CacheHistory     = []string{"wcache", "history", "pfree"}
	CacheTrend       = []string{"wcache", "trend", "pfree"}
	CacheValueBuffer = []string{"vcache", "buffer", "pfree"}
	CacheConfig      = []string{"rcache", "pfree"}
)

// CacheFree returns the pfree value at path, such as CacheHistory.
func (v StatsView) CacheFree(path []string) (float64, bool) {
	return v.Number(path...)
}

// HANode is one entry of data.ha.
type HANode struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Address    string `json:"address" yaml:"address"`
	Status     int    `json:"status" yaml:"status"`
	LastAccess int64  `json:"lastaccess" yaml:"lastaccess"`
}

// Host returns the address without its port.
func (n HANode) Host() string {
	host, _, _ := strings.Cut(n.Address, ":")
	return host
}

// HANodes returns the entries of data.ha. An empty result means HA is off.
func (v StatsView) HANodes() []HANode {
	node, ok := v.lookup("ha")
	if !ok {
		return nil
	}
	list, ok := node.([]any)
	if !ok {
		return nil
	}

	nodes := make([]HANode, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		n := HANode{}
		n.Name, _ = m["name"].(string)
		n.Address, _ = m["address"].(string)
		if s, ok := toFloat(m["status"]); ok {
			n.Status = int(s)
		}
		if la, ok := toFloat(m["lastaccess"]); ok {
			n.LastAccess = int64(la)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// FindHANode returns the first node with status, if any.
func (v StatsView) FindHANode(status int) (HANode, bool) {
	for _, n := range v.HANodes() {
		if n.Status == status {
			return n, true
		}
	}
	return HANode{}, false
}
