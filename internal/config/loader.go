package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/status"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".zinspect.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/zinspect"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. ZINSPECT_PARSE_WORKERS.
	EnvPrefix = "ZINSPECT"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'zinspect init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .zinspect.yaml in current directory
// 3. .zinspect.yaml in parent directories (stops at git root or home)
// 4. ~/.config/zinspect/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		explicit = ExpandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Current directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	// 3. Walk up to parent directories
	home, _ := os.UserHomeDir()
	dir := cwd
	for !isGitRoot(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	// 4. Global config
	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults (with
// environment overrides applied) if no file exists.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env overrides wired.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		hint := "Check the YAML syntax"
		if path != "" {
			hint += " in " + path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Invalid config format", hint)
	}

	cfg.Metrics.Textfile = ExpandPath(cfg.Metrics.Textfile)
	return cfg, nil
}

// setDefaults registers every known key so env overrides and KnownKeys see it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("process_marker", d.ProcessMarker)
	v.SetDefault("min_collector_version", d.MinCollectorVersion)
	v.SetDefault("skip_version_check", d.SkipVersionCheck)
	v.SetDefault("max_bundle_size", d.MaxBundleSize)
	v.SetDefault("parse_workers", d.ParseWorkers)
	v.SetDefault("timeout", d.Timeout.String())
	v.SetDefault("zabbix_url", d.ZabbixURL)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	v.SetDefault("metrics.instance", d.Metrics.Instance)

	setBandDefaults(v, "memory", d.Thresholds.Memory)
	setBandDefaults(v, "swap", d.Thresholds.Swap)
	setBandDefaults(v, "cpu", d.Thresholds.CPU)
	setBandDefaults(v, "cache", d.Thresholds.Cache)
	setBandDefaults(v, "process", d.Thresholds.Process)
	v.SetDefault("thresholds.cache_free.critical", d.Thresholds.CacheFree.Critical)
	v.SetDefault("thresholds.cache_free.good", d.Thresholds.CacheFree.Good)
}

func setBandDefaults(v *viper.Viper, metric string, t status.Thresholds) {
	v.SetDefault("thresholds."+metric+".warning", t.Warning)
	v.SetDefault("thresholds."+metric+".critical", t.Critical)
}

// KnownKeys lists every config key in dotted form, sorted.
func KnownKeys() []string {
	v := viper.New()
	setDefaults(v)
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a config key.
func IsKnownKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range KnownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	gitPath := filepath.Join(dir, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
