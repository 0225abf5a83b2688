package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/dataset"
)

const psSample = `USER         PID %CPU %MEM    VSZ   RSS TTY      STAT START   TIME COMMAND
zabbix      1201  0.0  0.3 412340 25344 ?        S    Jun01   0:12 /usr/sbin/zabbix_server -c /etc/zabbix/zabbix_server.conf
zabbix      1210  1.5  0.2 412340 18004 ?        S    Jun01  10:01 /usr/sbin/zabbix_server: history syncer #1 [processed 100 values, synced 100 items in 0.01 sec, idle 1 sec]
zabbix      1211  0.1  0.2 412340 18004 ?        S    Jun01   0:01 /usr/sbin/zabbix_server: poller #2 [got 0 values in 0.000010 sec, idle 1 sec]
root        4242  0.0  0.0   6432   720 pts/0    S+   10:00   0:00 grep zabbix_server
postgres    3001  0.0  0.5 912340 45344 ?        Ss   Jun01   0:40 postgres: zabbix zabbix [local] idle
`

func TestParseProcesses(t *testing.T) {
	got := ParseProcesses(psSample, Options{})
	require.Len(t, got, 3)

	assert.Equal(t, dataset.ProcessRecord{
		User:        "zabbix",
		PID:         1201,
		CPU:         0.0,
		Mem:         0.3,
		VSZ:         412340,
		RSS:         25344,
		TTY:         "?",
		Stat:        "S",
		Start:       "Jun01",
		Time:        "0:12",
		Command:     "/usr/sbin/zabbix_server -c /etc/zabbix/zabbix_server.conf",
		ProcessType: ProcessTypeMain,
	}, got[0])

	assert.Equal(t, "history syncer", got[1].ProcessType)
	assert.Equal(t, 1.5, got[1].CPU)
	assert.Equal(t, "poller", got[2].ProcessType)
}

func TestParseProcesses_TokenCount(t *testing.T) {
	tenTokens := "zabbix 1 0.0 0.1 100 200 ? S 10:00 0:00"
	elevenTokens := tenTokens + " zabbix_server"

	assert.Empty(t, ParseProcesses(tenTokens+"\n", Options{ProcessMarker: "zabbix"}))

	got := ParseProcesses(elevenTokens+"\n", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "zabbix_server", got[0].Command)
}

func TestParseProcesses_ProcessType(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"worker role", "/usr/sbin/zabbix_server: trapper #3 [processed data]", "trapper"},
		{"role without decoration", "zabbix_server: housekeeper", "housekeeper"},
		{"main server", "/usr/sbin/zabbix_server -c /etc/zabbix/zabbix_server.conf", ProcessTypeMain},
		{"bare binary", "/usr/sbin/zabbix_server", ProcessTypeUnknown},
		{"binary with other flags", "/usr/sbin/zabbix_server --foreground", ProcessTypeUnknown},
		{"role made only of decoration", "zabbix_server: #1", ""},
	}

	c := newProcessClassifier(DefaultProcessMarker)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.classify(tt.command))
		})
	}
}

func TestParseProcesses_MarkerOnlyOutsideCommand(t *testing.T) {
	// The marker is in the user column, so the command has no marker at all.
	line := "zabbix_server 1 0.0 0.1 100 200 ? S 10:00 0:00 /bin/sh\n"
	got := ParseProcesses(line, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].ProcessType)
}

func TestParseProcesses_CustomMarker(t *testing.T) {
	line := "zabbix 77 2.0 1.0 100 200 ? S 10:00 0:00 /usr/sbin/zabbix_proxy: data sender #1 [sent 0 values]\n"

	assert.Empty(t, ParseProcesses(line, Options{}))

	got := ParseProcesses(line, Options{ProcessMarker: "zabbix_proxy"})
	require.Len(t, got, 1)
	assert.Equal(t, "data sender", got[0].ProcessType)
}

func TestParseProcesses_BadNumbers(t *testing.T) {
	line := "zabbix abc x.y - 100 200 ? S 10:00 0:00 zabbix_server -c /etc/z.conf\n"
	got := ParseProcesses(line, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].PID)
	assert.Equal(t, 0.0, got[0].CPU)
	assert.Equal(t, 0.0, got[0].Mem)
}
