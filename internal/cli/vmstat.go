package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/status"
	"github.com/zinspect/zinspect/internal/ui"
)

// VmstatOptions holds the flags of the vmstat command.
type VmstatOptions struct {
	Width  int
	Format string
}

var vmstatOpts VmstatOptions

var vmstatCmd = &cobra.Command{
	Use:   "vmstat <bundle.zip>",
	Short: "Chart the vmstat samples in the bundle",
	Long: `Render every vmstat column group (CPU, memory, swap, IO, system) as
sparklines with their last, minimum and maximum values.

Examples:
  zinspect vmstat zdiag_prod.zip
  zinspect vmstat zdiag_prod.zip --width 80`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runVmstat(cmd, cfg, args[0], vmstatOpts)
	},
}

func init() {
	rootCmd.AddCommand(vmstatCmd)
	addFormatFlag(vmstatCmd, &vmstatOpts.Format)
	vmstatCmd.Flags().IntVar(&vmstatOpts.Width, "width", 40, "sparkline width in characters")
}

func runVmstat(cmd *cobra.Command, cfg *config.Config, path string, opts VmstatOptions) error {
	format, err := resolveFormat(opts.Format, cfg.Output.Format)
	if err != nil {
		return err
	}
	b, err := loadBundle(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := b.Result.Dataset.Vmstat
	if len(rows) == 0 {
		fmt.Fprintln(out, ui.MutedStyle.Render("The bundle has no vmstat samples."))
		return nil
	}

	groups := report.VmstatSeries(rows)
	if format != FormatText {
		return writeStructured(out, format, groups)
	}
	renderVmstat(out, groups, opts.Width, cfg.Thresholds.CPU)
	return nil
}

// busyColumns are the CPU columns colored against the CPU band.
var busyColumns = map[string]bool{"us": true, "sy": true, "wa": true}

func renderVmstat(w io.Writer, groups []report.SeriesGroup, width int, cpu status.Thresholds) {
	for _, g := range groups {
		fmt.Fprintf(w, "%s %s\n", ui.TitleStyle.Render(g.Title), ui.MutedStyle.Render("("+g.Unit+")"))
		for _, s := range g.Series {
			if len(s.Points) == 0 {
				continue
			}
			var t *status.Thresholds
			if g.Title == "CPU" && busyColumns[s.Name] {
				t = &cpu
			}
			lo, hi := minMax(s.Points)
			fmt.Fprintf(w, "  %-5s %s  last %s  min %s  max %s\n",
				s.Name,
				ui.RenderSparkline(s.Points, width, t),
				report.FormatLargeNumber(s.Points[len(s.Points)-1]),
				report.FormatLargeNumber(lo),
				report.FormatLargeNumber(hi))
		}
		fmt.Fprintln(w)
	}
}

func minMax(points []float64) (lo, hi float64) {
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return lo, hi
}
