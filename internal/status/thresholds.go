package status

// FreeLimits bounds free-percentage metrics, where low is bad. Values below
// Critical are critical; values above Good are good.
type FreeLimits struct {
	Critical float64 `mapstructure:"critical" yaml:"critical" json:"critical"`
	Good     float64 `mapstructure:"good" yaml:"good" json:"good"`
}

// Table holds the bands for every classified metric.
type Table struct {
	// Memory is used percent of RAM, ascending.
	Memory Thresholds `mapstructure:"memory" yaml:"memory" json:"memory"`
	// Swap is used percent of swap, ascending.
	Swap Thresholds `mapstructure:"swap" yaml:"swap" json:"swap"`
	// CPU is applied to 100 minus the vmstat idle column.
	CPU Thresholds `mapstructure:"cpu" yaml:"cpu" json:"cpu"`
	// Cache is stored with Critical below Warning and applies to the free
	// percentage of the diaginfo cache memory pools (ClassifyBand).
	// zabbix_stats pfree values go through CacheFree instead.
	Cache Thresholds `mapstructure:"cache" yaml:"cache" json:"cache"`
	// Process is busy percent of an internal process type.
	Process Thresholds `mapstructure:"process" yaml:"process" json:"process"`
	// CacheFree is compared directly against cache pfree values.
	CacheFree FreeLimits `mapstructure:"cache_free" yaml:"cache_free" json:"cacheFree"`
}

// Defaults returns the stock threshold table.
func Defaults() Table {
	return Table{
		Memory:    Thresholds{Warning: 70, Critical: 90},
		Swap:      Thresholds{Warning: 5, Critical: 30},
		CPU:       Thresholds{Warning: 60, Critical: 80},
		Cache:     Thresholds{Warning: 70, Critical: 30},
		Process:   Thresholds{Warning: 5, Critical: 50},
		CacheFree: FreeLimits{Critical: 30, Good: 70},
	}
}

// ClassifyFree classifies a free percentage: below Critical is critical,
// above Good is good, anything between is warning.
func (f FreeLimits) ClassifyFree(pfree float64) Level {
	switch {
	case pfree < f.Critical:
		return Critical
	case pfree > f.Good:
		return Good
	}
	return Warning
}
