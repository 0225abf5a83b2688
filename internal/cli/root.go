package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/logger"
	"github.com/zinspect/zinspect/internal/ui"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "zinspect",
	Short: "Inspect Zabbix diagnostic bundles",
	Long: `zinspect reads the ZIP bundles produced by zdiag and reports on the
health of the Zabbix server they were collected from.

Examples:
  zinspect inspect zdiag_prod.zip
  zinspect processes zdiag_prod.zip --top cpu
  zinspect diaginfo zdiag_prod.zip --section history
  zinspect watch /var/spool/zdiag --textfile /var/lib/node_exporter/zinspect.prom`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || machineMode {
			ui.DisableColors()
		}
		if verbose {
			logger.SetDefault(logger.NewConsoleLogger("", true))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .zinspect.yaml, searched upwards)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "wrap output in a JSON envelope for automation")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		handleError(err)
		os.Exit(1)
	}
}

func handleError(err error) {
	if machineMode {
		_ = WriteJSONFromError(os.Stdout, err)
		return
	}
	fmt.Fprintln(os.Stderr, strings.TrimRight(err.Error(), "\n"))
	if isUnknownCommandError(err) {
		fmt.Fprintln(os.Stderr, "\nRun 'zinspect --help' for usage.")
	}
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// loadConfig resolves, loads and validates the config, then applies its
// color mode.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	if !noColor && !machineMode {
		ui.ConfigureColor(cfg.Output.Color, os.Stdout.Fd())
	}
	logger.Default().Debug("config: %s", orDefault(path, "built-in defaults"))
	return cfg, path, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
