package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/logger"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/status"
	"github.com/zinspect/zinspect/internal/ui"
	"github.com/zinspect/zinspect/internal/watch"
)

// WatchOptions holds the flags of the watch command.
type WatchOptions struct {
	Debounce string
	Existing bool
	Textfile string
	Instance string
}

var watchOpts WatchOptions

// watchEvent is one line of machine-mode watch output.
type watchEvent struct {
	Bundle string       `json:"bundle"`
	Level  status.Level `json:"level,omitempty"`
	Zabbix string       `json:"zabbixVersion,omitempty"`
	RunID  string       `json:"runId,omitempty"`
	Error  *JSONError   `json:"error,omitempty"`
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Inspect bundles as they arrive in a directory",
	Long: `Watch a drop directory and inspect every .zip bundle written to it,
once it has stopped changing. Each bundle prints a one-line verdict and,
when a textfile is configured, refreshes the Prometheus metrics.

Examples:
  zinspect watch /var/spool/zdiag
  zinspect watch /var/spool/zdiag --existing --debounce 5s
  zinspect watch /var/spool/zdiag --textfile /var/lib/node_exporter/zinspect.prom`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		debounce, err := ParseDebounce(watchOpts.Debounce)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := watch.New(watch.Options{
			Dir:      args[0],
			Debounce: debounce,
			Existing: watchOpts.Existing,
			Logger:   logger.Default(),
		}, bundleHandler(cmd.OutOrStdout(), cfg, watchOpts))
		return w.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	f := watchCmd.Flags()
	f.StringVar(&watchOpts.Debounce, "debounce", "", "quiet period before a bundle is read (default 2s)")
	f.BoolVar(&watchOpts.Existing, "existing", false, "also inspect bundles already in the directory")
	f.StringVar(&watchOpts.Textfile, "textfile", "", "write Prometheus metrics to this .prom file after each bundle")
	f.StringVar(&watchOpts.Instance, "instance", "", "instance label for exported metrics (default: bundle name)")
}

// bundleHandler inspects one settled bundle. Failures are reported on w
// and returned for the watcher to log.
func bundleHandler(w io.Writer, cfg *config.Config, opts WatchOptions) watch.Handler {
	return func(ctx context.Context, path string) error {
		name := filepath.Base(path)
		b, err := parseBundle(ctx, cfg, path, logger.Default())
		if err != nil {
			reportWatchFailure(w, name, err)
			return err
		}

		r := buildReport(cfg, b)
		if err := exportMetrics(cfg, opts.Textfile, opts.Instance, r, b); err != nil {
			reportWatchFailure(w, name, err)
			return err
		}
		reportWatchResult(w, name, r)
		return nil
	}
}

func reportWatchResult(w io.Writer, name string, r *report.Report) {
	if machineMode {
		_ = writeJSONLine(w, watchEvent{Bundle: name, Level: r.Level, Zabbix: r.Zabbix.Version, RunID: r.RunID})
		return
	}
	detail := ""
	if r.Zabbix.Version != "" {
		detail = "  Zabbix " + r.Zabbix.Version
	}
	fmt.Fprintf(w, "%s %s  %s%s\n", ui.RenderLevel(r.Level), name,
		ui.LevelStyle(r.Level).Render(string(r.Level)), ui.MutedStyle.Render(detail))
}

func reportWatchFailure(w io.Writer, name string, err error) {
	if machineMode {
		_ = writeJSONLine(w, watchEvent{Bundle: name, Error: ErrorToJSON(err)})
		return
	}
	fmt.Fprintf(w, "%s %s  %s\n", ui.ErrorStyle.Render(ui.SymbolFail), name,
		ui.ErrorStyle.Render(firstErrorLine(err)))
}
