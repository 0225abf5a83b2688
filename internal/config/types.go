package config

import (
	"time"

	"github.com/zinspect/zinspect/internal/archive"
	"github.com/zinspect/zinspect/internal/dispatch"
	"github.com/zinspect/zinspect/internal/parsers"
	"github.com/zinspect/zinspect/internal/status"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .zinspect.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// ProcessMarker is the binary name ps_aux lines are filtered on.
	ProcessMarker string `yaml:"process_marker" mapstructure:"process_marker"`

	// MinCollectorVersion is the oldest zdiag version accepted.
	MinCollectorVersion int `yaml:"min_collector_version" mapstructure:"min_collector_version"`

	// SkipVersionCheck disables the 0_version.txt gate.
	SkipVersionCheck bool `yaml:"skip_version_check" mapstructure:"skip_version_check"`

	// MaxBundleSize is the largest bundle accepted, in bytes.
	MaxBundleSize int64 `yaml:"max_bundle_size" mapstructure:"max_bundle_size"`

	// ParseWorkers bounds how many members are parsed at once.
	ParseWorkers int `yaml:"parse_workers" mapstructure:"parse_workers"`

	// Timeout bounds a whole parse run. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ZabbixURL is the frontend base used to link item IDs. Empty disables links.
	ZabbixURL string `yaml:"zabbix_url" mapstructure:"zabbix_url"`

	Thresholds status.Table  `yaml:"thresholds" mapstructure:"thresholds"`
	Output     OutputConfig  `yaml:"output" mapstructure:"output"`
	Metrics    MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Format for reports: "text", "json", or "yaml".
	Format string `yaml:"format" mapstructure:"format"`
}

// MetricsConfig controls the node_exporter textfile export.
type MetricsConfig struct {
	// Textfile is the .prom path written after inspect. Empty disables it.
	// Supports ${HOME}, ${USER} and a leading ~.
	Textfile string `yaml:"textfile" mapstructure:"textfile"`

	// Instance labels every exported series. Defaults to the bundle name.
	Instance string `yaml:"instance" mapstructure:"instance"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:             CurrentConfigVersion,
		ProcessMarker:       parsers.DefaultProcessMarker,
		MinCollectorVersion: archive.MinCollectorVersion,
		SkipVersionCheck:    false,
		MaxBundleSize:       archive.DefaultMaxSize,
		ParseWorkers:        dispatch.DefaultWorkers,
		Timeout:             30 * time.Second,
		Thresholds:          status.Defaults(),
		Output: OutputConfig{
			Color:  "auto",
			Format: "text",
		},
	}
}
