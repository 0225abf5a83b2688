package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("USER", "zabbix")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/zinspect.prom", home + "/zinspect.prom"},
		{"/abs/path", "/abs/path"},
		{"relative/~", "relative/~"},
		{"~other/path", "~other/path"},
		{"/var/lib/${USER}/metrics", "/var/lib/zabbix/metrics"},
		{"${HOME}/out.prom", home + "/out.prom"},
		{"~/${USER}.prom", home + "/zabbix.prom"},
		{"$USER/plain", "$USER/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestExpandPath_UserFallback(t *testing.T) {
	t.Setenv("USER", "")
	assert.NotContains(t, ExpandPath("/srv/${USER}"), "${USER}")
}
