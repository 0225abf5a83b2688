// Package dataset defines the records produced by parsing a Zabbix
// diagnostic bundle.
//
// A DiagnosticDataset is built once per bundle by the dispatcher and is not
// mutated afterwards. Every field is optional: a nil field means the member
// that feeds it was not present in the bundle, not that parsing failed.
//
// When marshalled, absent fields are left out while a member that was
// present but yielded nothing shows as an empty list or object.
package dataset

import (
	"encoding/json"
	"time"
)

// DiagnosticDataset is the aggregate result of parsing one bundle.
type DiagnosticDataset struct {
	Vmstat      [][]int64           `json:"vmstat,omitempty" yaml:"vmstat,omitempty"`
	Diaginfo    map[string][]string `json:"diaginfo,omitempty" yaml:"diaginfo,omitempty"`
	ZabbixStats map[string]any      `json:"zabbixStats,omitempty" yaml:"zabbixStats,omitempty"`
	Processes   []ProcessRecord     `json:"processes,omitempty" yaml:"processes,omitempty"`
	Memory      *MemoryRecord       `json:"memory,omitempty" yaml:"memory,omitempty"`
	Config      map[string]string   `json:"config,omitempty" yaml:"config,omitempty"`
	OSInfo      map[string]string   `json:"osInfo,omitempty" yaml:"osInfo,omitempty"`
	CPUInfo     *CPUInfo            `json:"cpuinfo,omitempty" yaml:"cpuinfo,omitempty"`
	Uptime      *UptimeRecord       `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Nproc       *Nproc              `json:"nproc,omitempty" yaml:"nproc,omitempty"`
	Final       *FinalRecord        `json:"final,omitempty" yaml:"final,omitempty"`
}

// datasetDoc is the marshalled form of DiagnosticDataset. Collections are
// held by pointer so omitempty drops only the absent ones.
type datasetDoc struct {
	Vmstat      *[][]int64           `json:"vmstat,omitempty" yaml:"vmstat,omitempty"`
	Diaginfo    *map[string][]string `json:"diaginfo,omitempty" yaml:"diaginfo,omitempty"`
	ZabbixStats *map[string]any      `json:"zabbixStats,omitempty" yaml:"zabbixStats,omitempty"`
	Processes   *[]ProcessRecord     `json:"processes,omitempty" yaml:"processes,omitempty"`
	Memory      *MemoryRecord        `json:"memory,omitempty" yaml:"memory,omitempty"`
	Config      *map[string]string   `json:"config,omitempty" yaml:"config,omitempty"`
	OSInfo      *map[string]string   `json:"osInfo,omitempty" yaml:"osInfo,omitempty"`
	CPUInfo     *CPUInfo             `json:"cpuinfo,omitempty" yaml:"cpuinfo,omitempty"`
	Uptime      *UptimeRecord        `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Nproc       *Nproc               `json:"nproc,omitempty" yaml:"nproc,omitempty"`
	Final       *FinalRecord         `json:"final,omitempty" yaml:"final,omitempty"`
}

func (d DiagnosticDataset) doc() datasetDoc {
	doc := datasetDoc{Memory: d.Memory, CPUInfo: d.CPUInfo, Uptime: d.Uptime, Nproc: d.Nproc, Final: d.Final}
	if d.Vmstat != nil {
		doc.Vmstat = &d.Vmstat
	}
	if d.Diaginfo != nil {
		doc.Diaginfo = &d.Diaginfo
	}
	if d.ZabbixStats != nil {
		doc.ZabbixStats = &d.ZabbixStats
	}
	if d.Processes != nil {
		doc.Processes = &d.Processes
	}
	if d.Config != nil {
		doc.Config = &d.Config
	}
	if d.OSInfo != nil {
		doc.OSInfo = &d.OSInfo
	}
	return doc
}

// MarshalJSON keeps present-but-empty collections in the output.
func (d DiagnosticDataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.doc())
}

// MarshalYAML is MarshalJSON for yaml.v3.
func (d DiagnosticDataset) MarshalYAML() (any, error) {
	return d.doc(), nil
}

// Fields lists the dataset fields that were populated, in dispatch order.
func (d *DiagnosticDataset) Fields() []string {
	var out []string
	add := func(name string, present bool) {
		if present {
			out = append(out, name)
		}
	}
	add("vmstat", d.Vmstat != nil)
	add("diaginfo", d.Diaginfo != nil)
	add("zabbixStats", d.ZabbixStats != nil)
	add("processes", d.Processes != nil)
	add("memory", d.Memory != nil)
	add("config", d.Config != nil)
	add("osInfo", d.OSInfo != nil)
	add("cpuinfo", d.CPUInfo != nil)
	add("uptime", d.Uptime != nil)
	add("nproc", d.Nproc != nil)
	add("final", d.Final != nil)
	return out
}

// ProcessRecord is one monitored-process line from `ps aux`.
type ProcessRecord struct {
	User        string  `json:"user" yaml:"user"`
	PID         int     `json:"pid" yaml:"pid"`
	CPU         float64 `json:"cpu" yaml:"cpu"`
	Mem         float64 `json:"mem" yaml:"mem"`
	VSZ         int64   `json:"vsz" yaml:"vsz"`
	RSS         int64   `json:"rss" yaml:"rss"`
	TTY         string  `json:"tty" yaml:"tty"`
	Stat        string  `json:"stat" yaml:"stat"`
	Start       string  `json:"start" yaml:"start"`
	Time        string  `json:"time" yaml:"time"`
	Command     string  `json:"command" yaml:"command"`
	ProcessType string  `json:"processType" yaml:"processType"`
}

// MemoryRecord holds `free -b` output in raw bytes.
// Fields are nil when the corresponding Mem:/Swap: line was missing.
type MemoryRecord struct {
	Total     *int64 `json:"total,omitempty" yaml:"total,omitempty"`
	Used      *int64 `json:"used,omitempty" yaml:"used,omitempty"`
	Free      *int64 `json:"free,omitempty" yaml:"free,omitempty"`
	Shared    *int64 `json:"shared,omitempty" yaml:"shared,omitempty"`
	BuffCache *int64 `json:"buffCache,omitempty" yaml:"buffCache,omitempty"`
	Available *int64 `json:"available,omitempty" yaml:"available,omitempty"`
	SwapTotal *int64 `json:"swapTotal,omitempty" yaml:"swapTotal,omitempty"`
	SwapUsed  *int64 `json:"swapUsed,omitempty" yaml:"swapUsed,omitempty"`
	SwapFree  *int64 `json:"swapFree,omitempty" yaml:"swapFree,omitempty"`
}

// HasMem reports whether a Mem: line was parsed.
func (m *MemoryRecord) HasMem() bool {
	return m != nil && m.Total != nil
}

// HasSwap reports whether a Swap: line was parsed.
func (m *MemoryRecord) HasSwap() bool {
	return m != nil && m.SwapTotal != nil
}

// CPUInfo holds the first model name from /proc/cpuinfo.
type CPUInfo struct {
	ModelName string `json:"modelName,omitempty" yaml:"modelName,omitempty"`
}

// LoadAverage holds the three load averages reported by uptime.
type LoadAverage struct {
	OneMin     float64 `json:"1min" yaml:"1min"`
	FiveMin    float64 `json:"5min" yaml:"5min"`
	FifteenMin float64 `json:"15min" yaml:"15min"`
}

// UptimeRecord is the parsed `uptime` line.
type UptimeRecord struct {
	LoadAverage *LoadAverage `json:"loadAverage,omitempty" yaml:"loadAverage,omitempty"`
	Uptime      string       `json:"uptime,omitempty" yaml:"uptime,omitempty"`
}

// Nproc is the `nproc` core count. Cores is 0 when no numeric line was found.
type Nproc struct {
	Cores int `json:"cores,omitempty" yaml:"cores,omitempty"`
}

// FinalRecord marks when collection finished.
type FinalRecord struct {
	CollectionEndTime    *time.Time `json:"collectionEndTime,omitempty" yaml:"collectionEndTime,omitempty"`
	CollectionEndTimeISO string     `json:"collectionEndTimeISO,omitempty" yaml:"collectionEndTimeISO,omitempty"`
}

// Positional vmstat columns. vmstat output has no header we rely on; the
// column meaning is fixed by position.
const (
	VmstatRunning = iota // procs r
	VmstatBlocked        // procs b
	VmstatSwpd           // memory swpd
	VmstatFree           // memory free
	VmstatBuff           // memory buff
	VmstatCache          // memory cache
	VmstatSwapIn         // swap si
	VmstatSwapOut        // swap so
	VmstatBlocksIn       // io bi
	VmstatBlocksOut      // io bo
	VmstatInterrupts     // system in
	VmstatContextSw      // system cs
	VmstatUser           // cpu us
	VmstatSystem         // cpu sy
	VmstatIdle           // cpu id
	VmstatWait           // cpu wa
	VmstatSteal          // cpu st
)

// VmstatMinColumns is the minimum width of a retained vmstat row.
const VmstatMinColumns = 16

// LastVmstatRow returns the most recent vmstat sample, or nil.
func (d *DiagnosticDataset) LastVmstatRow() []int64 {
	if len(d.Vmstat) == 0 {
		return nil
	}
	return d.Vmstat[len(d.Vmstat)-1]
}
