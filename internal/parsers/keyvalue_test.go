package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name: "basic assignments",
			input: `# This is a configuration file for Zabbix server daemon
LogFile=/var/log/zabbix/zabbix_server.log
DBName = zabbix
StartPollers=5
`,
			want: map[string]string{
				"LogFile":      "/var/log/zabbix/zabbix_server.log",
				"DBName":       "zabbix",
				"StartPollers": "5",
			},
		},
		{
			name:  "last assignment wins",
			input: "CacheSize=8M\nCacheSize=32M\n",
			want:  map[string]string{"CacheSize": "32M"},
		},
		{
			name:  "empty sides are ignored",
			input: "=value\nKey=\n  =  \nNoEquals\n",
			want:  map[string]string{},
		},
		{
			name:  "value keeps later equals signs",
			input: "DBTLSCipher=a=b\n",
			want:  map[string]string{"DBTLSCipher": "a=b"},
		},
		{
			name:  "indented comments are skipped",
			input: "   # Timeout=3\nTimeout=4\n",
			want:  map[string]string{"Timeout": "4"},
		},
		{
			name:  "quotes are kept",
			input: `Server="127.0.0.1"`,
			want:  map[string]string{"Server": `"127.0.0.1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConfig(tt.input))
		})
	}
}

func TestParseOSRelease(t *testing.T) {
	input := `NAME="Ubuntu"
VERSION_ID="22.04"
PRETTY_NAME="Ubuntu 22.04.4 LTS"
ID=ubuntu
# comment="x"
`
	assert.Equal(t, map[string]string{
		"NAME":        "Ubuntu",
		"VERSION_ID":  "22.04",
		"PRETTY_NAME": "Ubuntu 22.04.4 LTS",
		"ID":          "ubuntu",
	}, ParseOSRelease(input))
}
