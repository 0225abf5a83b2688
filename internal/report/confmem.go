package report

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/status"
)

// DefaultCacheSizes are the server's built-in sizes for its memory
// parameters, applied when the config file leaves them out.
var DefaultCacheSizes = map[string]int64{
	"CacheSize":             32 * mib,
	"HistoryCacheSize":      16 * mib,
	"HistoryIndexCacheSize": 4 * mib,
	"TrendCacheSize":        4 * mib,
	"ValueCacheSize":        8 * mib,
	"VMwareCacheSize":       8 * mib,
	"HistoryTextCacheSize":  16 * mib,
}

// IsMemoryParameter reports whether name sizes a server cache.
func IsMemoryParameter(name string) bool {
	_, ok := DefaultCacheSizes[name]
	return ok
}

var sizeValueRe = regexp.MustCompile(`^([\d.]+)([KMGT]?)$`)

// ParseSize converts a config size such as "256M" to bytes. Unparseable
// values are 0.
func ParseSize(value string) float64 {
	m := sizeValueRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(value)))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch m[2] {
	case "K":
		return n * kib
	case "M":
		return n * mib
	case "G":
		return n * gib
	case "T":
		return n * gib * 1024
	}
	return n
}

// CacheParameter is one memory parameter and where its size came from.
type CacheParameter struct {
	Name     string `json:"name" yaml:"name"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Bytes    int64  `json:"bytes" yaml:"bytes"`
	Explicit bool   `json:"explicit" yaml:"explicit"`
}

// MemoryAllocation totals the memory the server config reserves for caches.
type MemoryAllocation struct {
	Explicit   int64            `json:"explicit" yaml:"explicit"`
	Default    int64            `json:"default" yaml:"default"`
	Total      int64            `json:"total" yaml:"total"`
	Server     int64            `json:"server" yaml:"server"`
	Percent    float64          `json:"percent" yaml:"percent"`
	Level      status.Level     `json:"level" yaml:"level"`
	Parameters []CacheParameter `json:"parameters" yaml:"parameters"`
}

// BuildMemoryAllocation sums explicit and default cache sizes and
// classifies the share of server RAM ascending against t. Without a Mem:
// line the share is 0.
func BuildMemoryAllocation(cfg map[string]string, mem *dataset.MemoryRecord, t status.Thresholds) *MemoryAllocation {
	a := &MemoryAllocation{}
	if mem.HasMem() {
		a.Server = *mem.Total
	}

	names := make([]string, 0, len(DefaultCacheSizes))
	for name := range DefaultCacheSizes {
		names = append(names, name)
	}
	sort.Strings(names)

	var explicit float64
	for _, name := range names {
		p := CacheParameter{Name: name}
		if v, ok := cfg[name]; ok {
			size := ParseSize(v)
			explicit += size
			p.Value, p.Bytes, p.Explicit = v, int64(math.Round(size)), true
		} else {
			p.Bytes = DefaultCacheSizes[name]
			a.Default += p.Bytes
		}
		a.Parameters = append(a.Parameters, p)
	}

	a.Explicit = int64(math.Round(explicit))
	a.Total = a.Explicit + a.Default
	if a.Server > 0 {
		a.Percent = float64(a.Total) / float64(a.Server) * 100
	}
	a.Level = status.ClassifyValue(a.Percent, &t)
	return a
}

// ConfigEntry is one server config parameter.
type ConfigEntry struct {
	Parameter string `json:"parameter" yaml:"parameter"`
	Value     string `json:"value" yaml:"value"`
	Memory    bool   `json:"memory" yaml:"memory"`
}

// ConfigQuery filters and orders ConfigEntries.
type ConfigQuery struct {
	// Search matches parameter or value, case-insensitively.
	Search string
	// SortBy is "parameter" (default) or "value".
	SortBy string
	Desc   bool
}

// ConfigEntries lists cfg filtered and sorted per q. Comparison is
// case-insensitive.
func ConfigEntries(cfg map[string]string, q ConfigQuery) []ConfigEntry {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]ConfigEntry, 0, len(cfg))
	for k, v := range cfg {
		if term != "" && !strings.Contains(strings.ToLower(k), term) && !strings.Contains(strings.ToLower(v), term) {
			continue
		}
		out = append(out, ConfigEntry{Parameter: k, Value: v, Memory: IsMemoryParameter(k)})
	}

	key := func(e ConfigEntry) string {
		if q.SortBy == "value" {
			return strings.ToLower(e.Value)
		}
		return strings.ToLower(e.Parameter)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if a == b {
			return out[i].Parameter < out[j].Parameter
		}
		if q.Desc {
			return a > b
		}
		return a < b
	})
	return out
}
