package dispatch

import (
	"strings"

	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/parsers"
)

// assignFunc stores one parser's output on the dataset.
type assignFunc func(*dataset.DiagnosticDataset)

// Route binds a filename fragment to a parser and a dataset field.
type Route struct {
	Fragment string
	Field    string
	parse    func(text string, opts parsers.Options) assignFunc
}

// routes is evaluated top to bottom; the first fragment contained in the
// member name wins.
var routes = []Route{
	{"vmstat", "vmstat", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseVmstat(s)
		return func(d *dataset.DiagnosticDataset) { d.Vmstat = v }
	}},
	{"diaginfo", "diaginfo", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseDiaginfo(s)
		return func(d *dataset.DiagnosticDataset) { d.Diaginfo = v }
	}},
	{"zabbix_stats", "zabbixStats", func(s string, o parsers.Options) assignFunc {
		v := parsers.ParseZabbixStats(s, o)
		return func(d *dataset.DiagnosticDataset) { d.ZabbixStats = v }
	}},
	{"ps_aux", "processes", func(s string, o parsers.Options) assignFunc {
		v := parsers.ParseProcesses(s, o)
		return func(d *dataset.DiagnosticDataset) { d.Processes = v }
	}},
	{"free", "memory", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseMemory(s)
		return func(d *dataset.DiagnosticDataset) { d.Memory = v }
	}},
	{"zabbix_config", "config", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseConfig(s)
		return func(d *dataset.DiagnosticDataset) { d.Config = v }
	}},
	{"os_release", "osInfo", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseOSRelease(s)
		return func(d *dataset.DiagnosticDataset) { d.OSInfo = v }
	}},
	{"cpuinfo", "cpuinfo", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseCPUInfo(s)
		return func(d *dataset.DiagnosticDataset) { d.CPUInfo = v }
	}},
	{"uptime", "uptime", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseUptime(s)
		return func(d *dataset.DiagnosticDataset) { d.Uptime = v }
	}},
	{"nproc", "nproc", func(s string, _ parsers.Options) assignFunc {
		v := parsers.ParseNproc(s)
		return func(d *dataset.DiagnosticDataset) { d.Nproc = v }
	}},
	{"final", "final", func(s string, o parsers.Options) assignFunc {
		v := parsers.ParseFinal(s, o)
		return func(d *dataset.DiagnosticDataset) { d.Final = v }
	}},
}

// Match returns the route for a member name.
func Match(name string) (Route, bool) {
	for _, r := range routes {
		if strings.Contains(name, r.Fragment) {
			return r, true
		}
	}
	return Route{}, false
}

// Routes returns the routing table in priority order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}
