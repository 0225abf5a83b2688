package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Overwrite      bool // Overwrite existing config without asking
	Global         bool // Write ~/.config/zinspect/config.yaml instead
	NonInteractive bool // Fail instead of prompting
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .zinspect.yaml with the default settings",
	Long: `Write a config file holding every setting at its default value, ready
to be edited.

Examples:
  zinspect init
  zinspect init --global
  zinspect init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.NonInteractive = opts.NonInteractive || machineMode || !ui.IsTerminal(os.Stdin.Fd())
		path, err := initConfigPath(opts.Global)
		if err != nil {
			return err
		}
		return Init(cmd.OutOrStdout(), path, opts)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite an existing config without asking")
	initCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write the global config in ~/.config/zinspect")
}

func initConfigPath(global bool) (string, error) {
	if !global {
		return filepath.Join(".", config.ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Set HOME or create the config without --global")
	}
	return filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), nil
}

// Init writes the default config to configPath.
func Init(w io.Writer, configPath string, opts InitOptions) error {
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := config.Write(configPath, config.DefaultConfig()); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config",
			"Check permissions on "+filepath.Dir(configPath))
	}

	if machineMode {
		return WriteJSONSuccess(w, map[string]string{"path": configPath})
	}
	fmt.Fprintf(w, "%s Created %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), configPath)
	return nil
}
