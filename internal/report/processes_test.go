package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/dataset"
)

func sampleProcesses() []dataset.ProcessRecord {
	procs := []dataset.ProcessRecord{
		{PID: 100, CPU: 0.1, RSS: 5000, VSZ: 90000, ProcessType: ""},
		{PID: 101, CPU: 3.5, RSS: 2000, VSZ: 80000, ProcessType: "poller"},
		{PID: 102, CPU: 1.0, RSS: 9000, VSZ: 70000, ProcessType: "poller"},
		{PID: 103, CPU: 7.0, RSS: 1000, VSZ: 60000, ProcessType: "history syncer"},
	}
	for i := 0; i < 12; i++ {
		procs = append(procs, dataset.ProcessRecord{PID: 200 + i, CPU: 0, RSS: int64(i), VSZ: 1, ProcessType: "trapper"})
	}
	return procs
}

func TestFilterProcesses(t *testing.T) {
	procs := sampleProcesses()

	t.Run("no query keeps order", func(t *testing.T) {
		out := FilterProcesses(procs, ProcessQuery{})
		require.Len(t, out, len(procs))
		assert.Equal(t, 100, out[0].PID)
	})

	t.Run("by type", func(t *testing.T) {
		out := FilterProcesses(procs, ProcessQuery{Type: "poller"})
		require.Len(t, out, 2)
		assert.Equal(t, 101, out[0].PID)
	})

	t.Run("top cpu", func(t *testing.T) {
		out := FilterProcesses(procs, ProcessQuery{Top: "cpu"})
		require.Len(t, out, TopLimit)
		assert.Equal(t, 103, out[0].PID)
		assert.Equal(t, 101, out[1].PID)
	})

	t.Run("top rss within type", func(t *testing.T) {
		out := FilterProcesses(procs, ProcessQuery{Type: "trapper", Top: "rss"})
		require.Len(t, out, TopLimit)
		assert.Equal(t, int64(11), out[0].RSS)
	})

	t.Run("sort pid desc", func(t *testing.T) {
		out := FilterProcesses(procs, ProcessQuery{SortBy: "pid", Desc: true})
		assert.Equal(t, 211, out[0].PID)
		assert.Equal(t, 100, out[len(out)-1].PID)
	})

	t.Run("input untouched", func(t *testing.T) {
		FilterProcesses(procs, ProcessQuery{SortBy: "cpu", Desc: true})
		assert.Equal(t, 100, procs[0].PID)
	})
}

func TestProcessQuery_Validate(t *testing.T) {
	assert.NoError(t, ProcessQuery{}.Validate())
	assert.NoError(t, ProcessQuery{Top: "vsz", SortBy: "command"}.Validate())
	assert.Error(t, ProcessQuery{Top: "mem"}.Validate())
	assert.Error(t, ProcessQuery{SortBy: "color"}.Validate())
}

func TestProcessTypes(t *testing.T) {
	assert.Equal(t, []string{"history syncer", "poller", "trapper"}, ProcessTypes(sampleProcesses()))
	assert.Nil(t, ProcessTypes(nil))
}

func TestDisplayType(t *testing.T) {
	assert.Equal(t, "main server", DisplayType(""))
	assert.Equal(t, "poller", DisplayType("poller"))
}
