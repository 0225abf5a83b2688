package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/parsers"
)

func TestItemURL(t *testing.T) {
	assert.Equal(t, "", ItemURL("", 5))
	assert.Equal(t, "http://zabbix.local/zabbix/items.php?form=update&itemid=42&context=host", ItemURL("http://zabbix.local/zabbix", 42))
	assert.Equal(t, "http://z/items.php?form=update&itemid=1&context=host", ItemURL("http://z/", 1))
}

func TestDiaginfoTables(t *testing.T) {
	pct := 25.0
	alerts := int64(3)
	r := &parsers.DiaginfoReport{
		HistoryCache: &parsers.HistoryCacheReport{
			Summary:    &parsers.HistorySummary{Items: 10, Values: 20, Time: 0.5},
			MemoryData: &parsers.MemoryUsage{Free: 3072, Used: 1024, Total: 4096, UsedPercent: &pct},
			TopValues:  []parsers.TopValue{{ItemID: 42, Values: 7}},
		},
		Alerting: &parsers.AlertingReport{Alerts: &alerts},
		Locks:    []parsers.Lock{{Name: "ZBX_MUTEX_LOG", Address: "0x7f"}},
	}

	tables := DiaginfoTables(r, "")
	require.Len(t, tables, 4)
	assert.Equal(t, "History cache", tables[0].Title)
	assert.Contains(t, tables[0].Rows, []string{"data used %", "25.00%"})
	assert.Contains(t, tables[0].Rows, []string{"data total", "4.0 KB"})
	assert.Equal(t, []string{"itemid", "values"}, tables[1].Columns)
	assert.Equal(t, [][]string{{"42", "7"}}, tables[1].Rows)
	assert.Equal(t, [][]string{{"alerts", "3"}}, tables[2].Rows)
	assert.Equal(t, [][]string{{"ZBX_MUTEX_LOG", "0x7f"}}, tables[3].Rows)

	linked := DiaginfoTables(r, "http://zabbix.local")
	assert.Equal(t, []string{"itemid", "values", "link"}, linked[1].Columns)
	assert.Equal(t, "http://zabbix.local/items.php?form=update&itemid=42&context=host", linked[1].Rows[0][2])
}

func TestDiaginfoTables_Nil(t *testing.T) {
	assert.Nil(t, DiaginfoTables(nil, ""))
	assert.Empty(t, DiaginfoTables(&parsers.DiaginfoReport{}, ""))
}
