package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/metrics"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/ui"
)

// InspectOptions holds the flags of the inspect command.
type InspectOptions struct {
	Format           string
	Textfile         string
	Instance         string
	SkipVersionCheck bool
}

var inspectOpts InspectOptions

var inspectCmd = &cobra.Command{
	Use:   "inspect <bundle.zip>",
	Short: "Summarize the health of a bundle",
	Long: `Parse a zdiag bundle and show the overview cards: server resources,
Zabbix server status, problematic internal processes, caches and the memory
the server config allocates.

Examples:
  zinspect inspect zdiag_prod.zip
  zinspect inspect zdiag_prod.zip --format yaml
  zinspect inspect zdiag_prod.zip --textfile /var/lib/node_exporter/zinspect.prom`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runInspect(cmd, cfg, args[0], inspectOpts)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addFormatFlag(inspectCmd, &inspectOpts.Format)
	inspectCmd.Flags().StringVar(&inspectOpts.Textfile, "textfile", "", "also write Prometheus metrics to this .prom file")
	inspectCmd.Flags().StringVar(&inspectOpts.Instance, "instance", "", "instance label for exported metrics (default: bundle name)")
	inspectCmd.Flags().BoolVar(&inspectOpts.SkipVersionCheck, "skip-version-check", false, "accept bundles from any collector version")
}

func runInspect(cmd *cobra.Command, cfg *config.Config, path string, opts InspectOptions) error {
	format, err := resolveFormat(opts.Format, cfg.Output.Format)
	if err != nil {
		return err
	}
	if opts.SkipVersionCheck {
		cfg.SkipVersionCheck = true
	}

	b, err := loadBundle(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}
	r := buildReport(cfg, b)

	if err := exportMetrics(cfg, opts.Textfile, opts.Instance, r, b); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != FormatText {
		return writeStructured(out, format, r)
	}
	renderInspect(out, r, ui.TerminalWidth(os.Stdout.Fd()))
	return nil
}

// renderInspect writes the text overview of r for a terminal width columns
// wide.
func renderInspect(w io.Writer, r *report.Report, width int) {
	header := []string{r.Bundle}
	if r.Zabbix.Version != "" {
		header = append(header, "Zabbix "+r.Zabbix.Version)
	}
	if r.CollectorVersion != "" {
		header = append(header, "zdiag "+r.CollectorVersion)
	}
	fmt.Fprintln(w, ui.TitleStyle.Render(strings.Join(header, "  ·  ")))
	fmt.Fprintln(w, ui.MutedStyle.Render("run "+r.RunID))
	fmt.Fprintln(w)

	fmt.Fprintln(w, ui.RenderCards(r.Cards(), ui.CardsPerRow(width)))

	if len(r.Processes.Busiest) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.TitleStyle.Render("Busiest internal processes"))
		bars := make([]ui.Bar, 0, len(r.Processes.Busiest))
		for _, p := range r.Processes.Busiest {
			bars = append(bars, ui.Bar{Label: p.Name, Percent: p.BusyAvg, Level: p.Level})
		}
		fmt.Fprintln(w, ui.RenderBarChart(bars, 20))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Overall: %s\n", ui.RenderLevel(r.Level), ui.LevelStyle(r.Level).Render(string(r.Level)))
}

// exportMetrics writes the textfile named by the flag or the config. It is
// a no-op when neither is set.
func exportMetrics(cfg *config.Config, textfile, instance string, r *report.Report, b *parsedBundle) error {
	path := cfg.Metrics.Textfile
	if textfile != "" {
		path = config.ExpandPath(textfile)
	}
	if path == "" {
		return nil
	}

	if instance == "" {
		instance = cfg.Metrics.Instance
	}
	if instance == "" {
		instance = strings.TrimSuffix(filepath.Base(b.Path), filepath.Ext(b.Path))
	}

	var collectedAt time.Time
	if f := b.Result.Dataset.Final; f != nil && f.CollectionEndTime != nil {
		collectedAt = *f.CollectionEndTime
	}

	exp := metrics.New(instance)
	exp.Observe(r, b.Result.Elapsed, collectedAt)
	return exp.WriteTextfile(path)
}
