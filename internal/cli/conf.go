package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/ui"
)

// ConfOptions holds the flags of the conf command.
type ConfOptions struct {
	Query  report.ConfigQuery
	Format string
}

var confOpts ConfOptions

// confView is the structured output of the conf command.
type confView struct {
	Entries []report.ConfigEntry     `json:"entries" yaml:"entries"`
	Memory  *report.MemoryAllocation `json:"memory,omitempty" yaml:"memory,omitempty"`
}

var confCmd = &cobra.Command{
	Use:   "conf <bundle.zip>",
	Short: "Show the server config captured in the bundle",
	Long: `List the parameters of the collected zabbix_server.conf and how much
memory its cache settings reserve, defaults included.

Examples:
  zinspect conf zdiag_prod.zip
  zinspect conf zdiag_prod.zip --search cache
  zinspect conf zdiag_prod.zip --sort value --desc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runConf(cmd, cfg, args[0], confOpts)
	},
}

func init() {
	rootCmd.AddCommand(confCmd)
	addFormatFlag(confCmd, &confOpts.Format)
	confCmd.Flags().StringVar(&confOpts.Query.Search, "search", "", "only show parameters or values containing this text")
	confCmd.Flags().StringVar(&confOpts.Query.SortBy, "sort", "parameter", "sort by parameter or value")
	confCmd.Flags().BoolVar(&confOpts.Query.Desc, "desc", false, "sort descending")
}

func runConf(cmd *cobra.Command, cfg *config.Config, path string, opts ConfOptions) error {
	switch opts.Query.SortBy {
	case "", "parameter", "value":
	default:
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Can't sort by '%s'", opts.Query.SortBy),
			"Use --sort parameter or --sort value.")
	}
	format, err := resolveFormat(opts.Format, cfg.Output.Format)
	if err != nil {
		return err
	}
	b, err := loadBundle(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ds := b.Result.Dataset
	if ds.Config == nil {
		fmt.Fprintln(out, ui.MutedStyle.Render("The bundle has no server config member."))
		return nil
	}

	view := confView{
		Entries: report.ConfigEntries(ds.Config, opts.Query),
		Memory:  report.BuildMemoryAllocation(ds.Config, ds.Memory, cfg.Thresholds.Memory),
	}
	if format != FormatText {
		return writeStructured(out, format, view)
	}
	renderConf(out, view)
	return nil
}

func renderConf(w io.Writer, v confView) {
	rows := make([][]string, len(v.Entries))
	for i, e := range v.Entries {
		mark := ""
		if e.Memory {
			mark = "memory"
		}
		rows[i] = []string{e.Parameter, e.Value, mark}
	}
	fmt.Fprint(w, ui.RenderTable(report.Table{
		Title:   fmt.Sprintf("Server config (%d parameters)", len(rows)),
		Columns: []string{"PARAMETER", "VALUE", ""},
		Rows:    rows,
	}))

	m := v.Memory
	if m == nil {
		return
	}
	fmt.Fprintln(w)
	paramRows := make([][]string, len(m.Parameters))
	for i, p := range m.Parameters {
		source := "default"
		if p.Explicit {
			source = "explicit"
		}
		paramRows[i] = []string{p.Name, report.FormatBytesShort(float64(p.Bytes)), source}
	}
	fmt.Fprint(w, ui.RenderTable(report.Table{
		Title:   "Cache memory",
		Columns: []string{"PARAMETER", "SIZE", "SOURCE"},
		Rows:    paramRows,
	}))

	line := fmt.Sprintf("Total %s", report.FormatBytesShort(float64(m.Total)))
	if m.Server > 0 {
		line += fmt.Sprintf(" of %s RAM (%.1f%%)", report.FormatBytesShort(float64(m.Server)), m.Percent)
	}
	fmt.Fprintf(w, "%s %s\n", ui.RenderLevel(m.Level), ui.LevelStyle(m.Level).Render(line))
}
