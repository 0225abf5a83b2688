package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zinspect/zinspect/internal/errors"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// addFormatFlag registers --format on a command that renders data.
func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "o", "", "output format: text, json or yaml (default from config)")
}

// resolveFormat picks the effective output format. --json wins over
// everything; an empty flag falls back to the config.
func resolveFormat(flag, configured string) (string, error) {
	if machineMode {
		return FormatJSON, nil
	}
	f := flag
	if f == "" {
		f = configured
	}
	switch f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", errors.New(errors.ErrInput,
		fmt.Sprintf("'%s' isn't an output format", f),
		"Use --format text, json or yaml.")
}

// writeStructured renders data as JSON or YAML. In machine mode the JSON is
// wrapped in the standard envelope.
func writeStructured(w io.Writer, format string, data interface{}) error {
	var err error
	switch {
	case machineMode:
		err = WriteJSONSuccess(w, data)
	case format == FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(data); err == nil {
			err = enc.Close()
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(data)
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput, "Failed to write output", "")
	}
	return nil
}

// ParseDebounce parses a --debounce value. An empty flag yields zero.
func ParseDebounce(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil || d < 0 {
		if err == nil {
			err = fmt.Errorf("negative duration %s", flag)
		}
		return 0, errors.WrapWithCode(err, errors.ErrInput,
			fmt.Sprintf("'%s' doesn't look like a valid debounce interval", flag),
			"Try something like 2s or 500ms.")
	}
	return d, nil
}
