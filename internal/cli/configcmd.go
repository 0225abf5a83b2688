package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Inspect and edit the zinspect config.

Settings are read from --config, then .zinspect.yaml in this directory or a
parent, then ~/.config/zinspect/config.yaml. Any key can be overridden from
the environment: thresholds.memory.warning becomes
ZINSPECT_THRESHOLDS_MEMORY_WARNING.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), cfg, path)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settable keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if machineMode {
			return WriteJSONSuccess(out, config.KnownKeys())
		}
		for _, k := range config.KnownKeys() {
			fmt.Fprintln(out, k)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key in the config file",
	Long: `Set one dotted key, keeping the rest of the file and its comments.
The file found by the usual search is edited; without one, .zinspect.yaml is
created here.

Examples:
  zinspect config set thresholds.memory.warning 75
  zinspect config set zabbix_url https://zabbix.example.com
  zinspect config set output.color never`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.KnownKeys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(cfgFile)
		if err != nil {
			return err
		}
		if path == "" {
			path = filepath.Join(".", config.ConfigFileName)
		}
		return setConfigValue(cmd.OutOrStdout(), path, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configKeysCmd, configSetCmd)
}

func showConfig(w io.Writer, cfg *config.Config, path string) error {
	if machineMode {
		return WriteJSONSuccess(w, map[string]interface{}{"path": path, "config": cfg})
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput, "Failed to render config", "")
	}
	fmt.Fprintln(w, ui.MutedStyle.Render("# source: "+orDefault(path, "built-in defaults")))
	_, err = w.Write(data)
	return err
}

// setConfigValue writes key=value to path and checks the result still
// loads and validates, restoring the previous file when it does not.
func setConfigValue(w io.Writer, path, key, value string) error {
	previous, hadFile := readIfExists(path)

	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't set %s", key),
			"Run 'zinspect config keys' to list valid keys")
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		restore(path, previous, hadFile)
		return err
	}

	if machineMode {
		return WriteJSONSuccess(w, map[string]string{"path": path, "key": key, "value": value})
	}
	fmt.Fprintf(w, "%s %s = %s (%s)\n", ui.SuccessStyle.Render(ui.SymbolSuccess), key, value, path)
	return nil
}
