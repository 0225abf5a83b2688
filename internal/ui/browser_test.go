package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/report"
)

func browserFixture() []dataset.ProcessRecord {
	return []dataset.ProcessRecord{
		{PID: 10, User: "zabbix", CPU: 0.5, RSS: 2048, Command: "/usr/sbin/zabbix_server -c /etc/zabbix/zabbix_server.conf", ProcessType: "main server"},
		{PID: 11, User: "zabbix", CPU: 3.0, RSS: 1024, Command: "/usr/sbin/zabbix_server: poller #1", ProcessType: "poller #1"},
		{PID: 12, User: "zabbix", CPU: 1.0, RSS: 4096, Command: "/usr/sbin/zabbix_server: history syncer #1", ProcessType: "history syncer #1"},
	}
}

func press(t *testing.T, b *ProcessBrowser, keys string) {
	t.Helper()
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	assert.Nil(t, cmd)
}

func TestProcessBrowserStartsFromQuery(t *testing.T) {
	b := NewProcessBrowser(browserFixture(), report.ProcessQuery{SortBy: "cpu", Desc: true})

	visible := b.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, 11, visible[0].PID)
	assert.Contains(t, b.View(), "sort: cpu")
	assert.Contains(t, b.View(), "(desc)")
}

func TestProcessBrowserKeys(t *testing.T) {
	b := NewProcessBrowser(browserFixture(), report.ProcessQuery{})

	press(t, b, "t")
	assert.Equal(t, "history syncer #1", b.Query().Type)
	assert.Len(t, b.Visible(), 1)

	press(t, b, "t")
	press(t, b, "t")
	press(t, b, "t")
	assert.Equal(t, "", b.Query().Type)

	press(t, b, "s")
	assert.Equal(t, "cpu", b.Query().SortBy)
	assert.Equal(t, 10, b.Visible()[0].PID)

	press(t, b, "r")
	assert.True(t, b.Query().Desc)
	assert.Equal(t, 11, b.Visible()[0].PID)

	press(t, b, "n")
	assert.Equal(t, "cpu", b.Query().Top)
}

func TestProcessBrowserQuit(t *testing.T) {
	b := NewProcessBrowser(browserFixture(), report.ProcessQuery{})
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestProcessRow(t *testing.T) {
	row := ProcessRow(dataset.ProcessRecord{PID: 7, User: "zabbix", CPU: 1.25, Mem: 0.5, RSS: 2048, VSZ: 512, Command: "zabbix_server"})
	assert.Equal(t, []string{"7", "zabbix", "1.2", "0.5", "2 MB", "512 KB", "main server", "zabbix_server"}, row)
	assert.Len(t, ProcessHeaders(), len(row))
}
