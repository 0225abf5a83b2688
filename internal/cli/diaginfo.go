package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/parsers"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/ui"
)

// DiaginfoOptions holds the flags of the diaginfo command.
type DiaginfoOptions struct {
	Section string
	Raw     bool
	Format  string
}

var diaginfoOpts DiaginfoOptions

var diaginfoCmd = &cobra.Command{
	Use:   "diaginfo <bundle.zip>",
	Short: "Show the server's internal diagnostic sections",
	Long: `Show the sections of zabbix_server -R diaginfo: history and value cache,
preprocessing, LLD, alerting and locks. When zabbix_url is configured, item
tables link each itemid to the frontend.

Examples:
  zinspect diaginfo zdiag_prod.zip
  zinspect diaginfo zdiag_prod.zip --section "value cache"
  zinspect diaginfo zdiag_prod.zip --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runDiaginfo(cmd, cfg, args[0], diaginfoOpts)
	},
}

func init() {
	rootCmd.AddCommand(diaginfoCmd)
	addFormatFlag(diaginfoCmd, &diaginfoOpts.Format)
	diaginfoCmd.Flags().StringVar(&diaginfoOpts.Section, "section", "", "only show tables whose title contains this text")
	diaginfoCmd.Flags().BoolVar(&diaginfoOpts.Raw, "raw", false, "print the raw section lines instead of tables")
}

func runDiaginfo(cmd *cobra.Command, cfg *config.Config, path string, opts DiaginfoOptions) error {
	format, err := resolveFormat(opts.Format, cfg.Output.Format)
	if err != nil {
		return err
	}
	b, err := loadBundle(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sections := b.Result.Dataset.Diaginfo
	if sections == nil {
		fmt.Fprintln(out, ui.MutedStyle.Render("The bundle has no diaginfo member."))
		return nil
	}

	if opts.Raw {
		raw := filterSections(sections, opts.Section)
		if format != FormatText {
			return writeStructured(out, format, raw)
		}
		renderRawSections(out, raw)
		return nil
	}

	tables := filterTables(report.DiaginfoTables(parsers.ParseDiaginfoSections(sections), cfg.ZabbixURL), opts.Section)
	if format != FormatText {
		return writeStructured(out, format, tables)
	}
	if len(tables) == 0 {
		fmt.Fprintln(out, ui.MutedStyle.Render("No matching diaginfo sections."))
		return nil
	}
	for _, t := range tables {
		fmt.Fprintln(out, ui.RenderTable(t))
	}
	return nil
}

func filterTables(tables []report.Table, section string) []report.Table {
	if section == "" {
		return tables
	}
	needle := strings.ToLower(section)
	out := make([]report.Table, 0, len(tables))
	for _, t := range tables {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			out = append(out, t)
		}
	}
	return out
}

func filterSections(sections map[string][]string, section string) map[string][]string {
	needle := strings.ToLower(section)
	out := make(map[string][]string, len(sections))
	for title, lines := range sections {
		if needle == "" || strings.Contains(strings.ToLower(title), needle) {
			out[title] = lines
		}
	}
	return out
}

func renderRawSections(w io.Writer, sections map[string][]string) {
	titles := make([]string, 0, len(sections))
	for t := range sections {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	for _, t := range titles {
		fmt.Fprintln(w, ui.TitleStyle.Render(t))
		for _, line := range sections[t] {
			fmt.Fprintln(w, "  "+line)
		}
		fmt.Fprintln(w)
	}
}
