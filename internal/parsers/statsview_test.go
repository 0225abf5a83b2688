package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsSample = `{'response': 'success', 'data': {
  'version': '7.0.4', 'hosts': 42, 'items': 1200, 'item_unsupported': 3,
  'requiredperformance': 18.25, 'uptime': 90061,
  'process': {
    'poller': {'busy': {'avg': 12.5, 'max': 40.0, 'min': 0.0}, 'count': 5},
    'history syncer': {'busy': {'avg': 75.0}, 'count': 4},
    'alerter': {'count': 3}
  },
  'wcache': {'history': {'pfree': 88.5}, 'trend': {'pfree': 25.0}},
  'vcache': {'buffer': {'pfree': 99.1}},
  'rcache': {'pfree': 61.0},
  'ha': [
    {'name': 'node-a', 'status': 3, 'lastaccess': 1718000000, 'address': '10.0.0.1:10051'},
    {'name': 'node-b', 'status': 0, 'lastaccess': 1717999990, 'address': '10.0.0.2:10051'}
  ]
}}`

func TestStatsView(t *testing.T) {
	v := NewStatsView(ParseZabbixStats(statsSample, Options{}))
	require.True(t, v.Present())

	assert.Equal(t, "7.0.4", v.Version())
	assert.Equal(t, 42.0, v.Count("hosts"))
	assert.Equal(t, 3.0, v.Count("item_unsupported"))
	assert.Equal(t, 0.0, v.Count("triggers"))

	assert.Equal(t, []ProcessBusy{
		{Name: "alerter", BusyAvg: 0},
		{Name: "history syncer", BusyAvg: 75},
		{Name: "poller", BusyAvg: 12.5},
	}, v.Processes())

	pfree, ok := v.CacheFree(CacheTrend)
	assert.True(t, ok)
	assert.Equal(t, 25.0, pfree)

	pfree, ok = v.CacheFree(CacheConfig)
	assert.True(t, ok)
	assert.Equal(t, 61.0, pfree)

	nodes := v.HANodes()
	require.Len(t, nodes, 2)
	master, ok := v.FindHANode(HAStatusActive)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", master.Host())
	assert.Equal(t, int64(1718000000), master.LastAccess)

	standby, ok := v.FindHANode(HAStatusStandby)
	require.True(t, ok)
	assert.Equal(t, "node-b", standby.Name)
}

func TestStatsView_Missing(t *testing.T) {
	tests := []struct {
		name  string
		stats map[string]any
	}{
		{"nil document", nil},
		{"no data", map[string]any{"response": "failed"}},
		{"data of wrong type", map[string]any{"data": "oops"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewStatsView(tt.stats)
			assert.False(t, v.Present())
			assert.Equal(t, "", v.Version())
			assert.Nil(t, v.Processes())
			assert.Nil(t, v.HANodes())
			_, ok := v.CacheFree(CacheHistory)
			assert.False(t, ok)
		})
	}
}

func TestStatsView_MistypedNodes(t *testing.T) {
	v := NewStatsView(map[string]any{"data": map[string]any{
		"hosts":   "17",
		"wcache":  []any{1, 2},
		"ha":      "disabled",
		"process": map[string]any{"poller": "busy"},
	}})

	assert.Equal(t, 17.0, v.Count("hosts"))
	_, ok := v.CacheFree(CacheHistory)
	assert.False(t, ok)
	assert.Nil(t, v.HANodes())
	assert.Equal(t, []ProcessBusy{{Name: "poller"}}, v.Processes())
}
