package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/errors"
)

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "Bad color", ""), ErrCodeConfigInvalid},
		{"archive", errors.New(errors.ErrArchive, "Bundle is not a valid ZIP archive", ""), ErrCodeArchiveInvalid},
		{"version", errors.New(errors.ErrVersion, "too old", ""), ErrCodeVersionInvalid},
		{"input", errors.New(errors.ErrInput, "bad", ""), ErrCodeInputInvalid},
		{"output", errors.New(errors.ErrOutput, "disk full", ""), ErrCodeOutputFailed},
		{"plain", fmt.Errorf("boom"), ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToJSON(tt.err).Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSONDetails(t *testing.T) {
	err := errors.WrapWithCode(fmt.Errorf("zip: not a valid zip file"), errors.ErrArchive,
		"Bundle is not a valid ZIP archive", "Re-create the bundle")
	wrapped := fmt.Errorf("inspect: %w", err)

	j := ErrorToJSON(wrapped)
	assert.Equal(t, ErrCodeArchiveInvalid, j.Code)
	assert.Equal(t, "Bundle is not a valid ZIP archive", j.Message)
	assert.Equal(t, "Re-create the bundle", j.Suggestion)
	assert.Equal(t, map[string]interface{}{"cause": "zip: not a valid zip file"}, j.Details)
}

func TestWriteJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&out, map[string]int{"n": 1}))
	assert.JSONEq(t, `{"success": true, "data": {"n": 1}}`, out.String())

	out.Reset()
	require.NoError(t, WriteJSONFromError(&out, errors.New(errors.ErrInput, "bad input", "fix it")))
	assert.JSONEq(t, `{"success": false, "error": {"code": "INPUT_INVALID", "message": "bad input", "suggestion": "fix it"}}`, out.String())
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, configured, want string
	}{
		{"", "", FormatText},
		{"", "yaml", FormatYAML},
		{"json", "yaml", FormatJSON},
		{"text", "json", FormatText},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.configured)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "flag=%q configured=%q", tt.flag, tt.configured)
	}

	_, err := resolveFormat("xml", "")
	assert.True(t, errors.IsCode(err, errors.ErrInput))

	setMachineMode(t, true)
	got, err := resolveFormat("yaml", "text")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)
}

func TestWriteStructuredYAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeStructured(&out, FormatYAML, map[string]int{"hosts": 12}))
	assert.Equal(t, "hosts: 12\n", out.String())
}

func TestParseDebounce(t *testing.T) {
	d, err := ParseDebounce("")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = ParseDebounce("500ms")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	for _, bad := range []string{"soon", "-1s"} {
		_, err := ParseDebounce(bad)
		assert.True(t, errors.IsCode(err, errors.ErrInput), bad)
	}
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "", formatVersion(""))
	assert.Equal(t, "v1.2.0", formatVersion("1.2.0"))
	assert.Equal(t, "v1.2.0", formatVersion("v1.2.0"))
}

func TestPrintVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })
	version = "0.4.1"

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	printVersion(cmd)
	assert.True(t, strings.HasPrefix(out.String(), "zinspect v0.4.1\n"))
}

func TestIsUnknownCommandError(t *testing.T) {
	assert.True(t, isUnknownCommandError(fmt.Errorf(`unknown command "foo" for "zinspect"`)))
	assert.True(t, isUnknownCommandError(fmt.Errorf("unknown flag: --nope")))
	assert.True(t, isUnknownCommandError(fmt.Errorf("unknown shorthand flag: 'z' in -z")))
	assert.False(t, isUnknownCommandError(fmt.Errorf("bundle not found")))
	assert.False(t, isUnknownCommandError(nil))
}

func TestFirstErrorLine(t *testing.T) {
	err := errors.New(errors.ErrInput, "Only ZIP bundles are supported", "Pass the .zip archive")
	assert.Equal(t, "Only ZIP bundles are supported", firstErrorLine(err))
}
