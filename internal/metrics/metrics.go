// Package metrics exports a classified report as Prometheus gauges in the
// node_exporter textfile format.
//
// Each Exporter owns a private registry, so exporting one bundle never
// mixes series with another.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/status"
)

const namespace = "zinspect"

// Exporter holds the gauges for one report.
type Exporter struct {
	reg      *prometheus.Registry
	instance string

	info            *prometheus.GaugeVec
	level           *prometheus.GaugeVec
	usedPercent     *prometheus.GaugeVec
	processBusy     *prometheus.GaugeVec
	cacheFree       *prometheus.GaugeVec
	zabbixCount     *prometheus.GaugeVec
	requiredPerf    *prometheus.GaugeVec
	configMemory    *prometheus.GaugeVec
	parseDuration   *prometheus.GaugeVec
	collectionEnded *prometheus.GaugeVec
}

// New creates an exporter whose series carry instance as a label.
func New(instance string) *Exporter {
	e := &Exporter{
		reg:      prometheus.NewRegistry(),
		instance: instance,
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bundle_info",
			Help:      "Identity of the inspected bundle, always 1",
		}, []string{"instance", "run_id", "zabbix_version", "collector_version"}),
		level: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status_level",
			Help:      "Health band per component: 0 good, 1 warning, 2 critical",
		}, []string{"instance", "component"}),
		usedPercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resource_used_percent",
			Help:      "Used percentage of a host resource",
		}, []string{"instance", "resource"}),
		processBusy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_busy_percent",
			Help:      "Average busy percentage of a Zabbix internal process type",
		}, []string{"instance", "process"}),
		cacheFree: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_free_percent",
			Help:      "Free percentage of a Zabbix server cache",
		}, []string{"instance", "cache"}),
		zabbixCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zabbix_objects",
			Help:      "Object counters reported by zabbix_stats",
		}, []string{"instance", "kind"}),
		requiredPerf: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zabbix_required_performance",
			Help:      "New values per second the server is expected to process",
		}, []string{"instance"}),
		configMemory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "config_cache_bytes",
			Help:      "Cache memory reserved by the server config",
		}, []string{"instance", "source"}),
		parseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Wall time spent parsing the bundle",
		}, []string{"instance"}),
		collectionEnded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_end_timestamp_seconds",
			Help:      "When the collector finished, as a Unix timestamp",
		}, []string{"instance"}),
	}

	e.reg.MustRegister(
		e.info, e.level, e.usedPercent, e.processBusy, e.cacheFree,
		e.zabbixCount, e.requiredPerf, e.configMemory, e.parseDuration, e.collectionEnded,
	)
	return e
}

// Registry exposes the exporter's registry, e.g. for an HTTP handler.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.reg
}

// Observe records r. collectedAt may be zero when the bundle has no final
// timestamp.
func (e *Exporter) Observe(r *report.Report, elapsed time.Duration, collectedAt time.Time) {
	in := e.instance

	e.info.WithLabelValues(in, r.RunID, r.Zabbix.Version, r.CollectorVersion).Set(1)

	e.level.WithLabelValues(in, "overall").Set(levelValue(r.Level))
	e.level.WithLabelValues(in, "server").Set(levelValue(r.Server.Level))
	e.level.WithLabelValues(in, "zabbix").Set(levelValue(r.Zabbix.Level))
	e.level.WithLabelValues(in, "processes").Set(levelValue(r.Processes.Level))
	e.level.WithLabelValues(in, "caches").Set(levelValue(r.Caches.Level))

	for name, g := range map[string]*report.Gauge{
		"memory": r.Server.Memory,
		"swap":   r.Server.Swap,
		"cpu":    r.Server.CPU,
	} {
		if g != nil {
			e.usedPercent.WithLabelValues(in, name).Set(g.UsedPercent)
		}
	}

	for _, p := range r.Processes.Busiest {
		e.processBusy.WithLabelValues(in, p.Name).Set(p.BusyAvg)
	}
	for _, c := range r.Caches.Caches {
		e.cacheFree.WithLabelValues(in, c.Name).Set(c.PFree)
	}
	for _, p := range r.Caches.Pools {
		e.cacheFree.WithLabelValues(in, p.Name+" pool").Set(p.PFree)
	}

	if r.Zabbix.Present {
		e.zabbixCount.WithLabelValues(in, "hosts").Set(float64(r.Zabbix.Hosts))
		e.zabbixCount.WithLabelValues(in, "items").Set(float64(r.Zabbix.Items))
		e.zabbixCount.WithLabelValues(in, "unsupported_items").Set(float64(r.Zabbix.Unsupported))
		e.requiredPerf.WithLabelValues(in).Set(r.Zabbix.RequiredPerformance)
	}

	if m := r.Memory; m != nil {
		e.level.WithLabelValues(in, "config_memory").Set(levelValue(m.Level))
		e.configMemory.WithLabelValues(in, "explicit").Set(float64(m.Explicit))
		e.configMemory.WithLabelValues(in, "default").Set(float64(m.Default))
	}

	e.parseDuration.WithLabelValues(in).Set(elapsed.Seconds())
	if !collectedAt.IsZero() {
		e.collectionEnded.WithLabelValues(in).Set(float64(collectedAt.Unix()))
	}
}

// WriteTextfile writes every series to path atomically, creating the
// directory when needed.
func (e *Exporter) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput,
			"Failed to create metrics directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := prometheus.WriteToTextfile(path, e.reg); err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput,
			"Failed to write metrics textfile",
			"Check that "+path+" is writable")
	}
	return nil
}

func levelValue(l status.Level) float64 {
	return float64(l.Rank())
}
