package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/status"
	"github.com/zinspect/zinspect/internal/ui"
)

// ClassifyOptions holds the flags of the classify command.
type ClassifyOptions struct {
	Metric   string
	Warning  float64
	Critical float64
	Format   string
}

var classifyOpts ClassifyOptions

// ClassifyResult is the structured output of the classify command.
type ClassifyResult struct {
	Value  float64      `json:"value" yaml:"value"`
	Metric string       `json:"metric,omitempty" yaml:"metric,omitempty"`
	Level  status.Level `json:"level" yaml:"level"`
	// Thresholds is set for warning/critical bands of either direction.
	Thresholds *status.Thresholds `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	// Limits is set for the cache-free metric.
	Limits *status.FreeLimits `json:"limits,omitempty" yaml:"limits,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <value>",
	Short: "Classify a value against a threshold band",
	Long: `Map a value onto good, warning or critical. Bands come from a configured
metric (memory, swap, cpu, process, cache, cache-free) or from --warning
and --critical. When critical is not below warning the band is ascending:
a value at or above critical is critical, at or above warning is warning.
When critical is below warning the band is descending, for free-space
style values: at or below critical is critical, at or below warning is
warning. cache is such a band. cache-free uses the critical and good free
limits: below critical is critical, above good is good.

Examples:
  zinspect classify 85 --metric memory
  zinspect classify 12 --metric cache-free
  zinspect classify 42 --warning 40 --critical 60
  zinspect classify 25 --warning 70 --critical 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		opts := classifyOpts
		res, err := classify(cfg, args[0], opts, cmd.Flags().Changed("warning") || cmd.Flags().Changed("critical"))
		if err != nil {
			return err
		}
		format, err := resolveFormat(opts.Format, cfg.Output.Format)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if format != FormatText {
			return writeStructured(out, format, res)
		}
		fmt.Fprintf(out, "%s %s\n", ui.RenderLevel(res.Level), ui.LevelStyle(res.Level).Render(string(res.Level)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addFormatFlag(classifyCmd, &classifyOpts.Format)
	classifyCmd.Flags().StringVar(&classifyOpts.Metric, "metric", "", "configured band: "+strings.Join(classifyMetrics(), ", "))
	classifyCmd.Flags().Float64Var(&classifyOpts.Warning, "warning", 0, "warning threshold")
	classifyCmd.Flags().Float64Var(&classifyOpts.Critical, "critical", 0, "critical threshold")
}

func bandFor(t *status.Table, metric string) (*status.Thresholds, bool) {
	switch metric {
	case "memory":
		return &t.Memory, true
	case "swap":
		return &t.Swap, true
	case "cpu":
		return &t.CPU, true
	case "process":
		return &t.Process, true
	case "cache":
		return &t.Cache, true
	}
	return nil, false
}

func classifyMetrics() []string {
	m := []string{"memory", "swap", "cpu", "process", "cache", "cache-free"}
	sort.Strings(m)
	return m
}

// classify evaluates raw against the band chosen by opts. explicit reports
// whether --warning or --critical was given.
func classify(cfg *config.Config, raw string, opts ClassifyOptions, explicit bool) (*ClassifyResult, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			fmt.Sprintf("'%s' isn't a number", raw),
			"Pass the value to classify, e.g. 'zinspect classify 85 --metric memory'.")
	}

	if explicit && opts.Metric != "" {
		return nil, errors.New(errors.ErrInput,
			"--metric and --warning/--critical cannot be used together",
			"Use a configured band with --metric, or give both thresholds.")
	}

	res := &ClassifyResult{Value: value, Metric: opts.Metric}
	switch {
	case explicit:
		res.Thresholds = &status.Thresholds{Warning: opts.Warning, Critical: opts.Critical}
		res.Level = status.ClassifyBand(value, res.Thresholds)
	case opts.Metric == "cache-free":
		limits := cfg.Thresholds.CacheFree
		res.Limits = &limits
		res.Level = limits.ClassifyFree(value)
	default:
		band, ok := bandFor(&cfg.Thresholds, opts.Metric)
		if !ok {
			return nil, errors.New(errors.ErrInput,
				fmt.Sprintf("Unknown metric '%s'", opts.Metric),
				"Use --metric "+strings.Join(classifyMetrics(), ", ")+" or give --warning and --critical.")
		}
		t := *band
		res.Thresholds = &t
		res.Level = status.ClassifyBand(value, &t)
	}
	return res, nil
}
