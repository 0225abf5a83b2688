package report

import (
	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/status"
)

// DefaultOSName is shown when os-release names nothing.
const DefaultOSName = "Linux"

// Gauge is a used-percentage reading and its band.
type Gauge struct {
	UsedPercent float64      `json:"usedPercent" yaml:"usedPercent"`
	Used        int64        `json:"used,omitempty" yaml:"used,omitempty"`
	Total       int64        `json:"total,omitempty" yaml:"total,omitempty"`
	Level       status.Level `json:"level" yaml:"level"`
}

// ServerSummary covers the host the bundle was collected on.
type ServerSummary struct {
	OS          string               `json:"os" yaml:"os"`
	CPUModel    string               `json:"cpuModel,omitempty" yaml:"cpuModel,omitempty"`
	Cores       int                  `json:"cores,omitempty" yaml:"cores,omitempty"`
	Uptime      string               `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	LoadAverage *dataset.LoadAverage `json:"loadAverage,omitempty" yaml:"loadAverage,omitempty"`

	// Memory is nil without a usable Mem: line.
	Memory *Gauge `json:"memory,omitempty" yaml:"memory,omitempty"`
	// Swap is nil when no swap is configured or the Swap: line is missing.
	Swap           *Gauge `json:"swap,omitempty" yaml:"swap,omitempty"`
	SwapConfigured bool   `json:"swapConfigured" yaml:"swapConfigured"`
	// CPU is 100 minus the idle column of the last vmstat sample.
	CPU *Gauge `json:"cpu,omitempty" yaml:"cpu,omitempty"`

	Level status.Level `json:"level" yaml:"level"`
}

// BuildServer summarises memory, swap, cpu and host identity. All three
// gauges classify ascending against t.
func BuildServer(ds *dataset.DiagnosticDataset, t status.Table) ServerSummary {
	s := ServerSummary{OS: OSName(ds.OSInfo)}

	if ds.CPUInfo != nil {
		s.CPUModel = ds.CPUInfo.ModelName
	}
	if ds.Nproc != nil {
		s.Cores = ds.Nproc.Cores
	}
	if ds.Uptime != nil {
		s.Uptime = ds.Uptime.Uptime
		s.LoadAverage = ds.Uptime.LoadAverage
	}

	s.Memory = memoryGauge(ds.Memory, t.Memory)
	s.Swap, s.SwapConfigured = swapGauge(ds.Memory, t.Swap)
	s.CPU = cpuGauge(ds.LastVmstatRow(), t.CPU)

	var levels []status.Level
	for _, g := range []*Gauge{s.Memory, s.Swap, s.CPU} {
		if g != nil {
			levels = append(levels, g.Level)
		}
	}
	s.Level = status.Worst(levels...)
	return s
}

// OSName prefers PRETTY_NAME, then NAME.
func OSName(osInfo map[string]string) string {
	if v := osInfo["PRETTY_NAME"]; v != "" {
		return v
	}
	if v := osInfo["NAME"]; v != "" {
		return v
	}
	return DefaultOSName
}

// memoryGauge uses total minus available as the used amount, falling back
// to the used column when available is missing.
func memoryGauge(m *dataset.MemoryRecord, t status.Thresholds) *Gauge {
	if !m.HasMem() || *m.Total <= 0 {
		return nil
	}
	total := *m.Total
	var used int64
	switch {
	case m.Available != nil:
		used = total - *m.Available
	case m.Used != nil:
		used = *m.Used
	}
	return newGauge(used, total, t)
}

func swapGauge(m *dataset.MemoryRecord, t status.Thresholds) (*Gauge, bool) {
	if !m.HasSwap() || *m.SwapTotal <= 0 {
		return nil, false
	}
	var used int64
	if m.SwapUsed != nil {
		used = *m.SwapUsed
	}
	return newGauge(used, *m.SwapTotal, t), true
}

func cpuGauge(row []int64, t status.Thresholds) *Gauge {
	if len(row) <= dataset.VmstatIdle {
		return nil
	}
	usage := 100 - float64(row[dataset.VmstatIdle])
	return &Gauge{UsedPercent: usage, Level: status.ClassifyValue(usage, &t)}
}

func newGauge(used, total int64, t status.Thresholds) *Gauge {
	pct := float64(used) / float64(total) * 100
	return &Gauge{
		UsedPercent: pct,
		Used:        used,
		Total:       total,
		Level:       status.ClassifyValue(pct, &t),
	}
}
