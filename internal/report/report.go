// Package report turns a parsed DiagnosticDataset into classified health
// summaries.
//
// Build never fails: every summary tolerates the member that feeds it being
// absent and reports that through Present flags or nil fields. Each
// classification states which direction its thresholds run.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/parsers"
	"github.com/zinspect/zinspect/internal/status"
)

// Options controls Build.
type Options struct {
	// Bundle is the archive path shown in the report header.
	Bundle string
	// CollectorVersion is the raw 0_version.txt value, if checked.
	CollectorVersion string
	// Thresholds defaults to status.Defaults() when zero.
	Thresholds *status.Table
	// Now is used for HA last-access ages. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) thresholds() status.Table {
	if o.Thresholds == nil {
		return status.Defaults()
	}
	return *o.Thresholds
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Report is the classified view of one bundle.
type Report struct {
	RunID            string    `json:"runId" yaml:"runId"`
	Bundle           string    `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	CollectorVersion string    `json:"collectorVersion,omitempty" yaml:"collectorVersion,omitempty"`
	GeneratedAt      time.Time `json:"generatedAt" yaml:"generatedAt"`
	Fields           []string  `json:"fields" yaml:"fields"`

	Server    ServerSummary     `json:"server" yaml:"server"`
	Zabbix    ZabbixSummary     `json:"zabbix" yaml:"zabbix"`
	Processes ProcessSummary    `json:"processes" yaml:"processes"`
	Caches    CacheSummary      `json:"caches" yaml:"caches"`
	Memory    *MemoryAllocation `json:"configMemory,omitempty" yaml:"configMemory,omitempty"`

	Level status.Level `json:"level" yaml:"level"`
}

// Build classifies ds. A nil ds yields an empty, good report.
func Build(ds *dataset.DiagnosticDataset, opts Options) *Report {
	if ds == nil {
		ds = &dataset.DiagnosticDataset{}
	}
	t := opts.thresholds()
	stats := parsers.NewStatsView(ds.ZabbixStats)

	r := &Report{
		RunID:            uuid.NewString(),
		Bundle:           opts.Bundle,
		CollectorVersion: opts.CollectorVersion,
		GeneratedAt:      opts.now().UTC(),
		Fields:           ds.Fields(),
		Server:           BuildServer(ds, t),
		Zabbix:           BuildZabbix(stats, opts.now()),
		Processes:        BuildProcesses(stats, t.Process),
		Caches:           BuildCaches(stats, t.CacheFree),
	}
	if ds.Diaginfo != nil {
		r.Caches.addPools(BuildCachePools(parsers.ParseDiaginfoSections(ds.Diaginfo), t.Cache))
	}
	if ds.Config != nil {
		r.Memory = BuildMemoryAllocation(ds.Config, ds.Memory, t.Memory)
	}
	if r.Fields == nil {
		r.Fields = []string{}
	}

	levels := []status.Level{r.Server.Level, r.Zabbix.Level, r.Processes.Level, r.Caches.Level}
	if r.Memory != nil {
		levels = append(levels, r.Memory.Level)
	}
	r.Level = status.Worst(levels...)
	return r
}
