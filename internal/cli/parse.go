package cli

import (
	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
)

// ParseOptions holds the flags of the parse command.
type ParseOptions struct {
	Format string
}

var parseOpts ParseOptions

var parseCmd = &cobra.Command{
	Use:   "parse <bundle.zip>",
	Short: "Print the parsed dataset of a bundle",
	Long: `Parse a diagnostic bundle and print the raw dataset the reports are
built from. Members missing from the bundle are left out; a member that
was present but held nothing shows as an empty list or object.

The dataset has no text rendering: text falls back to JSON.

Examples:
  zinspect parse zdiag_prod.zip
  zinspect parse zdiag_prod.zip --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runParse(cmd, cfg, args[0], parseOpts)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	addFormatFlag(parseCmd, &parseOpts.Format)
}

func runParse(cmd *cobra.Command, cfg *config.Config, path string, opts ParseOptions) error {
	format, err := resolveFormat(opts.Format, cfg.Output.Format)
	if err != nil {
		return err
	}
	if format == FormatText {
		format = FormatJSON
	}
	b, err := loadBundle(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}
	return writeStructured(cmd.OutOrStdout(), format, b.Result.Dataset)
}
