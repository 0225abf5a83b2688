package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/ui"
)

// ProcessesOptions holds the flags of the processes command.
type ProcessesOptions struct {
	Query       report.ProcessQuery
	Format      string
	Interactive bool
	ListTypes   bool
}

var processesOpts ProcessesOptions

var processesCmd = &cobra.Command{
	Use:     "processes <bundle.zip>",
	Aliases: []string{"ps"},
	Short:   "List the monitored binary's processes from ps aux",
	Long: `List the processes of the monitored binary captured in the bundle's
ps aux output, with their worker type.

Examples:
  zinspect processes zdiag_prod.zip
  zinspect processes zdiag_prod.zip --type "history syncer #1"
  zinspect processes zdiag_prod.zip --top rss
  zinspect processes zdiag_prod.zip --sort cpu --desc
  zinspect processes zdiag_prod.zip -i`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runProcesses(cmd, cfg, args[0], processesOpts)
	},
}

func init() {
	rootCmd.AddCommand(processesCmd)
	addFormatFlag(processesCmd, &processesOpts.Format)
	f := processesCmd.Flags()
	f.StringVar(&processesOpts.Query.Type, "type", "", "only show this process type")
	f.StringVar(&processesOpts.Query.Top, "top", "", "keep the 10 largest by cpu, rss or vsz")
	f.StringVar(&processesOpts.Query.SortBy, "sort", "", "sort column")
	f.BoolVar(&processesOpts.Query.Desc, "desc", false, "sort descending")
	f.BoolVarP(&processesOpts.Interactive, "interactive", "i", false, "browse processes interactively")
	f.BoolVar(&processesOpts.ListTypes, "types", false, "list the process types found and exit")

	_ = processesCmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return report.ProcessSortKeys(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = processesCmd.RegisterFlagCompletionFunc("top", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"cpu", "rss", "vsz"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runProcesses(cmd *cobra.Command, cfg *config.Config, path string, opts ProcessesOptions) error {
	if err := opts.Query.Validate(); err != nil {
		return errors.WrapWithCode(err, errors.ErrInput, "Invalid process query", "See 'zinspect processes --help'.")
	}
	format, err := resolveFormat(opts.Format, cfg.Output.Format)
	if err != nil {
		return err
	}
	if opts.Interactive && (format != FormatText || !ui.IsTerminal(os.Stdout.Fd())) {
		return errors.New(errors.ErrInput,
			"Interactive mode needs a terminal",
			"Drop -i when piping or using --format/--json.")
	}

	b, err := loadBundle(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}
	procs := b.Result.Dataset.Processes
	out := cmd.OutOrStdout()

	if opts.ListTypes {
		types := report.ProcessTypes(procs)
		if format != FormatText {
			return writeStructured(out, format, types)
		}
		for _, t := range types {
			fmt.Fprintln(out, t)
		}
		return nil
	}

	if opts.Interactive {
		return ui.RunProcessBrowser(procs, opts.Query)
	}

	selected := report.FilterProcesses(procs, opts.Query)
	if format != FormatText {
		return writeStructured(out, format, selected)
	}
	renderProcesses(out, selected, len(procs), cfg.ProcessMarker)
	return nil
}

func renderProcesses(w io.Writer, procs []dataset.ProcessRecord, total int, marker string) {
	if total == 0 {
		fmt.Fprintln(w, ui.MutedStyle.Render(fmt.Sprintf("No %s processes in ps aux output.", marker)))
		return
	}

	rows := make([][]string, len(procs))
	for i, p := range procs {
		rows[i] = ui.ProcessRow(p)
	}
	fmt.Fprintln(w, ui.TitleStyle.Render(fmt.Sprintf("%d of %d processes", len(procs), total)))
	if len(rows) > 0 {
		fmt.Fprintln(w, ui.RenderSimpleTable(ui.AutoColumns(ui.ProcessHeaders(), rows), rows))
	}
}
