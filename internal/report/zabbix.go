package report

import (
	"sort"
	"time"

	"github.com/zinspect/zinspect/internal/parsers"
	"github.com/zinspect/zinspect/internal/status"
)

// HANodeStatus is an HA node with the age of its last heartbeat.
type HANodeStatus struct {
	Host       string `json:"host" yaml:"host"`
	SecondsAgo int64  `json:"secondsAgo" yaml:"secondsAgo"`
}

// ZabbixSummary is read from zabbix_stats.
type ZabbixSummary struct {
	Present       bool   `json:"present" yaml:"present"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
	UptimeSeconds int64  `json:"uptimeSeconds" yaml:"uptimeSeconds"`

	HAEnabled bool          `json:"haEnabled" yaml:"haEnabled"`
	HALevel   status.Level  `json:"haLevel" yaml:"haLevel"`
	Master    *HANodeStatus `json:"master,omitempty" yaml:"master,omitempty"`
	Standby   *HANodeStatus `json:"standby,omitempty" yaml:"standby,omitempty"`

	Hosts               int64        `json:"hosts" yaml:"hosts"`
	Items               int64        `json:"items" yaml:"items"`
	Unsupported         int64        `json:"unsupported" yaml:"unsupported"`
	UnsupportedLevel    status.Level `json:"unsupportedLevel" yaml:"unsupportedLevel"`
	RequiredPerformance float64      `json:"requiredPerformance" yaml:"requiredPerformance"`

	Level status.Level `json:"level" yaml:"level"`
}

// BuildZabbix summarises server identity and counters. HA being off is a
// warning; any unsupported item is a warning.
func BuildZabbix(stats parsers.StatsView, now time.Time) ZabbixSummary {
	z := ZabbixSummary{Present: stats.Present(), HALevel: status.Good, UnsupportedLevel: status.Good, Level: status.Good}
	if !z.Present {
		return z
	}

	z.Version = stats.Version()
	z.UptimeSeconds = int64(stats.Count("uptime"))
	z.Hosts = int64(stats.Count("hosts"))
	z.Items = int64(stats.Count("items"))
	z.Unsupported = int64(stats.Count("item_unsupported"))
	z.RequiredPerformance = stats.Count("requiredperformance")

	z.HAEnabled = len(stats.HANodes()) > 0
	if z.HAEnabled {
		z.Master = haNode(stats, parsers.HAStatusActive, now)
		z.Standby = haNode(stats, parsers.HAStatusStandby, now)
	} else {
		z.HALevel = status.Warning
	}
	if z.Unsupported > 0 {
		z.UnsupportedLevel = status.Warning
	}

	z.Level = status.Worst(z.HALevel, z.UnsupportedLevel)
	return z
}

func haNode(stats parsers.StatsView, st int, now time.Time) *HANodeStatus {
	n, ok := stats.FindHANode(st)
	if !ok {
		return nil
	}
	return &HANodeStatus{Host: n.Host(), SecondsAgo: now.Unix() - n.LastAccess}
}

// BusiestLimit caps ProcessSummary.Busiest.
const BusiestLimit = 10

// ProcessLoad is one internal process type with its band.
type ProcessLoad struct {
	Name    string       `json:"name" yaml:"name"`
	BusyAvg float64      `json:"busyAvg" yaml:"busyAvg"`
	Level   status.Level `json:"level" yaml:"level"`
}

// ProcessSummary reports internal process utilisation.
type ProcessSummary struct {
	// Problematic lists processes strictly above the critical band.
	Problematic []ProcessLoad `json:"problematic" yaml:"problematic"`
	// RecommendMoreWorkers is set when a few processes are overloaded.
	RecommendMoreWorkers bool `json:"recommendMoreWorkers" yaml:"recommendMoreWorkers"`
	// Busiest is the top processes with nonzero load, busiest first.
	Busiest []ProcessLoad `json:"busiest" yaml:"busiest"`

	Level status.Level `json:"level" yaml:"level"`
}

// recommendBelow is the overloaded-process count below which adding
// workers is suggested.
const recommendBelow = 4

// BuildProcesses classifies busy.avg ascending against t, except that only
// values strictly above Critical count as problematic.
func BuildProcesses(stats parsers.StatsView, t status.Thresholds) ProcessSummary {
	p := ProcessSummary{
		Problematic: []ProcessLoad{},
		Busiest:     []ProcessLoad{},
		Level:       status.Good,
	}

	for _, proc := range stats.Processes() {
		load := ProcessLoad{Name: proc.Name, BusyAvg: proc.BusyAvg, Level: status.ClassifyValue(proc.BusyAvg, &t)}
		switch {
		case proc.BusyAvg > t.Critical:
			p.Problematic = append(p.Problematic, load)
		case load.Level == status.Critical:
			// Exactly at the critical band is not yet overloaded.
			load.Level = status.Warning
		}
		if proc.BusyAvg > 0 {
			p.Busiest = append(p.Busiest, load)
		}
	}

	sort.SliceStable(p.Busiest, func(i, j int) bool { return p.Busiest[i].BusyAvg > p.Busiest[j].BusyAvg })
	if len(p.Busiest) > BusiestLimit {
		p.Busiest = p.Busiest[:BusiestLimit]
	}

	if n := len(p.Problematic); n > 0 {
		p.Level = status.Critical
		p.RecommendMoreWorkers = n < recommendBelow
	}
	return p
}

// Cache names.
const (
	CacheHistory = "history"
	CacheTrend   = "trend"
	CacheValue   = "value"
	CacheConfig  = "configuration"
)

// CacheLoad is the free space of one server cache.
type CacheLoad struct {
	Name  string       `json:"name" yaml:"name"`
	PFree float64      `json:"pfree" yaml:"pfree"`
	Level status.Level `json:"level" yaml:"level"`
}

// CacheSummary reports free space in the server caches.
type CacheSummary struct {
	// Caches lists every cache present in zabbix_stats.
	Caches []CacheLoad `json:"caches" yaml:"caches"`
	// Problematic lists caches below the critical free limit.
	Problematic []CacheLoad `json:"problematic" yaml:"problematic"`
	// Pools lists the diaginfo memory pools, graded on their free share.
	Pools []CacheLoad `json:"pools" yaml:"pools"`
	// RecommendResize is set whenever any cache or pool is critical.
	RecommendResize bool `json:"recommendResize" yaml:"recommendResize"`

	Level status.Level `json:"level" yaml:"level"`
}

var cachePaths = []struct {
	name string
	path []string
}{
	{CacheHistory, parsers.CacheHistory},
	{CacheTrend, parsers.CacheTrend},
	{CacheValue, parsers.CacheValueBuffer},
	{CacheConfig, parsers.CacheConfig},
}

// BuildCaches compares pfree directly against the free limits, where low is
// bad. Any cache below Critical is critical. Otherwise only the trend cache
// is graded further: above Good it is good, else warning.
func BuildCaches(stats parsers.StatsView, limits status.FreeLimits) CacheSummary {
	c := CacheSummary{Caches: []CacheLoad{}, Problematic: []CacheLoad{}, Pools: []CacheLoad{}}

	for _, cp := range cachePaths {
		pfree, ok := stats.CacheFree(cp.path)
		if !ok {
			continue
		}
		load := CacheLoad{Name: cp.name, PFree: pfree, Level: status.Good}
		switch {
		case pfree < limits.Critical:
			load.Level = status.Critical
			c.Problematic = append(c.Problematic, load)
		case cp.name == CacheTrend:
			load.Level = limits.ClassifyFree(pfree)
		}
		c.Caches = append(c.Caches, load)
	}

	c.RecommendResize = len(c.Problematic) > 0
	levels := make([]status.Level, 0, len(c.Caches))
	for _, l := range c.Caches {
		levels = append(levels, l.Level)
	}
	c.Level = status.Worst(levels...)
	return c
}

// Diaginfo memory pool names.
const (
	PoolHistoryData  = "history data"
	PoolHistoryIndex = "history index"
	PoolValue        = "value"
)

// BuildCachePools grades the free share of each diaginfo memory pool
// against band, which is stored descending (Critical below Warning). Pools
// without a usable size line are skipped.
func BuildCachePools(r *parsers.DiaginfoReport, band status.Thresholds) []CacheLoad {
	pools := []CacheLoad{}
	if r == nil {
		return pools
	}
	add := func(name string, m *parsers.MemoryUsage) {
		if m == nil || m.UsedPercent == nil {
			return
		}
		pfree := 100 - *m.UsedPercent
		pools = append(pools, CacheLoad{Name: name, PFree: pfree, Level: status.ClassifyBand(pfree, &band)})
	}
	if h := r.HistoryCache; h != nil {
		add(PoolHistoryData, h.MemoryData)
		add(PoolHistoryIndex, h.MemoryIndex)
	}
	if v := r.ValueCache; v != nil {
		add(PoolValue, v.Memory)
	}
	return pools
}

// addPools folds pools into the summary level and resize advice.
func (c *CacheSummary) addPools(pools []CacheLoad) {
	c.Pools = append(c.Pools, pools...)
	levels := []status.Level{c.Level}
	for _, p := range pools {
		levels = append(levels, p.Level)
		if p.Level == status.Critical {
			c.RecommendResize = true
		}
	}
	c.Level = status.Worst(levels...)
}
