package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/status"
)

// MaxParseWorkers caps parse_workers.
const MaxParseWorkers = 64

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but zinspect only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade zinspect or lower 'version' in .zinspect.yaml.")
	}

	if err := validateParsing(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid parse settings", "Check the top-level settings in your .zinspect.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid output settings", "Check the 'output' section in your .zinspect.yaml.")
	}

	if err := validateThresholdTable(cfg.Thresholds); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid thresholds", "Check the 'thresholds' section in your .zinspect.yaml.")
	}

	return nil
}

// validateParsing checks the settings that feed the parse run.
func validateParsing(cfg *Config) error {
	marker := strings.TrimSpace(cfg.ProcessMarker)
	if marker == "" {
		return fmt.Errorf("process_marker can't be empty - use the server binary name, like 'zabbix_server'")
	}
	if strings.ContainsAny(marker, " \t") {
		return fmt.Errorf("process_marker '%s' has whitespace - use just the binary name", cfg.ProcessMarker)
	}
	if cfg.ParseWorkers < 1 || cfg.ParseWorkers > MaxParseWorkers {
		return fmt.Errorf("parse_workers needs to be 1-%d (got %d)", MaxParseWorkers, cfg.ParseWorkers)
	}
	if cfg.MinCollectorVersion <= 0 {
		return fmt.Errorf("min_collector_version needs to be a positive date-style number like 20250809 (got %d)", cfg.MinCollectorVersion)
	}
	if cfg.MaxBundleSize <= 0 {
		return fmt.Errorf("max_bundle_size needs to be positive (got %d)", cfg.MaxBundleSize)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative - that doesn't make sense")
	}
	if cfg.ZabbixURL != "" {
		u, err := url.Parse(cfg.ZabbixURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("zabbix_url '%s' needs to be an http(s) URL like http://zabbix.local/zabbix", cfg.ZabbixURL)
		}
	}
	return nil
}

// validateOutput checks output configuration.
func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid - use 'auto', 'always', or 'never'", out.Color)
	}

	validFormats := map[string]bool{"text": true, "json": true, "yaml": true, "": true}
	if !validFormats[out.Format] {
		return fmt.Errorf("output.format '%s' isn't valid - use 'text', 'json', or 'yaml'", out.Format)
	}

	return nil
}

// validateThresholdTable checks every band in the table.
func validateThresholdTable(t status.Table) error {
	ascending := []struct {
		name string
		band status.Thresholds
	}{
		{"memory", t.Memory},
		{"swap", t.Swap},
		{"cpu", t.CPU},
		{"process", t.Process},
	}
	for _, a := range ascending {
		if err := validateBand(a.name, a.band); err != nil {
			return err
		}
		if a.band.Warning > a.band.Critical {
			return fmt.Errorf("thresholds.%s.warning (%g%%) is above critical (%g%%) - warning can't exceed critical", a.name, a.band.Warning, a.band.Critical)
		}
	}

	// The cache band grades free space, so low is bad.
	if err := validateBand("cache", t.Cache); err != nil {
		return err
	}
	if !t.Cache.Descending() {
		return fmt.Errorf("thresholds.cache.critical (%g%%) isn't below warning (%g%%) - the cache band grades free space", t.Cache.Critical, t.Cache.Warning)
	}

	f := t.CacheFree
	if err := validatePercent("thresholds.cache_free.critical", f.Critical); err != nil {
		return err
	}
	if err := validatePercent("thresholds.cache_free.good", f.Good); err != nil {
		return err
	}
	if f.Critical > f.Good {
		return fmt.Errorf("thresholds.cache_free.critical (%g%%) is above good (%g%%) - low free space is the bad end", f.Critical, f.Good)
	}
	return nil
}

func validateBand(name string, band status.Thresholds) error {
	if err := validatePercent("thresholds."+name+".warning", band.Warning); err != nil {
		return err
	}
	return validatePercent("thresholds."+name+".critical", band.Critical)
}

func validatePercent(key string, v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s needs to be 0-100 (got %g)", key, v)
	}
	return nil
}
