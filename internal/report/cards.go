package report

import (
	"fmt"
	"time"

	"github.com/zinspect/zinspect/internal/status"
)

// Metric is one labelled line of a Card. Level is empty for neutral lines.
type Metric struct {
	Label string       `json:"label" yaml:"label"`
	Value string       `json:"value" yaml:"value"`
	Level status.Level `json:"level,omitempty" yaml:"level,omitempty"`
}

// Card is a titled group of metrics as shown on the overview.
type Card struct {
	Title   string       `json:"title" yaml:"title"`
	Level   status.Level `json:"level" yaml:"level"`
	Metrics []Metric     `json:"metrics" yaml:"metrics"`
}

const noData = "no data"

// Cards lays the report out as the four overview cards, plus the config
// memory card when the server config was collected.
func (r *Report) Cards() []Card {
	cards := []Card{
		serverCard(r.Server),
		zabbixCard(r.Zabbix),
		processCard(r.Processes),
		cacheCard(r.Caches),
	}
	if r.Memory != nil {
		cards = append(cards, memoryCard(r.Memory))
	}
	return cards
}

func serverCard(s ServerSummary) Card {
	c := Card{Title: "Server resources", Level: s.Level}
	add := func(label, value string, level status.Level) {
		c.Metrics = append(c.Metrics, Metric{Label: label, Value: value, Level: level})
	}

	add("OS", s.OS, "")
	add("CPU model", orNoData(s.CPUModel), "")
	if s.Cores > 0 {
		add("CPU cores", fmt.Sprintf("%d", s.Cores), "")
	} else {
		add("CPU cores", noData, "")
	}

	if g := s.Memory; g != nil {
		avail := g.Total - g.Used
		add("Memory", fmt.Sprintf("%s available (%.1f%%)", FormatBytesShort(float64(avail)), 100-g.UsedPercent), g.Level)
	} else {
		add("Memory", noData, "")
	}

	switch {
	case s.Swap != nil:
		add("Swap", fmt.Sprintf("%.1f%% used", s.Swap.UsedPercent), s.Swap.Level)
	case s.Memory != nil:
		add("Swap", "not configured", "")
	default:
		add("Swap", noData, "")
	}

	if g := s.CPU; g != nil {
		add("CPU", fmt.Sprintf("%.0f%% idle", 100-g.UsedPercent), g.Level)
	} else {
		add("CPU", noData, "")
	}

	add("OS uptime", orNoData(s.Uptime), "")
	if la := s.LoadAverage; la != nil {
		add("Load average", fmt.Sprintf("%.2f, %.2f, %.2f", la.OneMin, la.FiveMin, la.FifteenMin), "")
	} else {
		add("Load average", noData, "")
	}
	return c
}

func zabbixCard(z ZabbixSummary) Card {
	c := Card{Title: "Zabbix server", Level: z.Level}
	if !z.Present {
		c.Metrics = []Metric{{Label: "Status", Value: noData}}
		return c
	}

	ha, master, standby := "Disabled", "N/A", "N/A"
	if z.HAEnabled {
		ha = "Enabled"
	}
	if z.Master != nil {
		master = fmt.Sprintf("%s (%ds ago)", z.Master.Host, z.Master.SecondsAgo)
	}
	if z.Standby != nil {
		standby = fmt.Sprintf("%s (%ds ago)", z.Standby.Host, z.Standby.SecondsAgo)
	}

	c.Metrics = []Metric{
		{Label: "Version", Value: orValue(z.Version, "N/A")},
		{Label: "Uptime", Value: FormatUptime(z.UptimeSeconds)},
		{Label: "HA", Value: ha, Level: z.HALevel},
		{Label: "Master node", Value: master},
		{Label: "Standby node", Value: standby},
		{Label: "Hosts", Value: FormatLargeNumber(float64(z.Hosts)), Level: status.Good},
		{Label: "Items", Value: FormatLargeNumber(float64(z.Items)), Level: status.Good},
		{Label: "Unsupported", Value: FormatLargeNumber(float64(z.Unsupported)), Level: z.UnsupportedLevel},
		{Label: "Required performance", Value: fmt.Sprintf("%.2f", z.RequiredPerformance)},
	}
	return c
}

func processCard(p ProcessSummary) Card {
	c := Card{Title: "Problematic processes", Level: p.Level}
	if len(p.Problematic) == 0 {
		c.Metrics = []Metric{{Label: "Status", Value: "all processes normal", Level: status.Good}}
		return c
	}
	for _, proc := range p.Problematic {
		c.Metrics = append(c.Metrics, Metric{Label: proc.Name, Value: fmt.Sprintf("%.2f%% busy", proc.BusyAvg), Level: status.Critical})
	}
	if p.RecommendMoreWorkers {
		c.Metrics = append(c.Metrics, Metric{Label: "Recommendation", Value: "increase the number of workers", Level: status.Warning})
	}
	return c
}

func cacheCard(cs CacheSummary) Card {
	c := Card{Title: "Caches", Level: cs.Level}
	if len(cs.Caches) == 0 && len(cs.Pools) == 0 {
		c.Metrics = []Metric{{Label: "Status", Value: noData}}
		return c
	}

	if len(cs.Problematic) > 0 {
		for _, l := range cs.Problematic {
			c.Metrics = append(c.Metrics, Metric{Label: l.Name + " cache", Value: fmt.Sprintf("%.2f%% free", l.PFree), Level: status.Critical})
		}
	} else {
		// Healthy caches: history, value and trend only.
		for _, name := range []string{CacheHistory, CacheValue, CacheTrend} {
			for _, l := range cs.Caches {
				if l.Name == name {
					c.Metrics = append(c.Metrics, Metric{Label: l.Name + " cache", Value: fmt.Sprintf("%.2f%% free", l.PFree), Level: l.Level})
				}
			}
		}
	}

	for _, p := range cs.Pools {
		if p.Level != status.Good {
			c.Metrics = append(c.Metrics, Metric{Label: p.Name + " pool", Value: fmt.Sprintf("%.2f%% free", p.PFree), Level: p.Level})
		}
	}
	if cs.RecommendResize {
		c.Metrics = append(c.Metrics, Metric{Label: "Recommendation", Value: "increase cache sizes", Level: status.Warning})
	}
	return c
}

func memoryCard(a *MemoryAllocation) Card {
	return Card{
		Title: "Config memory",
		Level: a.Level,
		Metrics: []Metric{
			{Label: "Explicit", Value: FormatBytesShort(float64(a.Explicit))},
			{Label: "Defaults", Value: FormatBytesShort(float64(a.Default))},
			{Label: "Total", Value: fmt.Sprintf("%s (%.1f%% of RAM)", FormatBytesShort(float64(a.Total)), a.Percent), Level: a.Level},
			{Label: "Server RAM", Value: FormatBytesShort(float64(a.Server))},
		},
	}
}

func orNoData(s string) string {
	return orValue(s, noData)
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Age formats how long ago t was relative to now, for report headers.
func Age(t, now time.Time) string {
	return FormatUptime(int64(now.Sub(t).Seconds()))
}
