package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zinspect/zinspect/internal/parsers"
)

// Table is a titled grid of cells for text rendering.
type Table struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// ItemURL links itemid into the Zabbix frontend at base. Empty base yields "".
func ItemURL(base string, itemid int64) string {
	if base == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%sitems.php?form=update&itemid=%d&context=host", base, itemid)
}

// DiaginfoTables renders each present diaginfo section as tables. When
// zabbixURL is set, top-value tables get a link column.
func DiaginfoTables(r *parsers.DiaginfoReport, zabbixURL string) []Table {
	if r == nil {
		return nil
	}
	var out []Table
	i := func(v int64) string { return strconv.FormatInt(v, 10) }
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	withLink := func(cols []string) []string {
		if zabbixURL == "" {
			return cols
		}
		return append(cols, "link")
	}
	link := func(row []string, itemid int64) []string {
		if zabbixURL == "" {
			return row
		}
		return append(row, ItemURL(zabbixURL, itemid))
	}

	if h := r.HistoryCache; h != nil {
		t := Table{Title: "History cache", Columns: []string{"metric", "value"}}
		if s := h.Summary; s != nil {
			t.Rows = append(t.Rows, []string{"items", i(s.Items)}, []string{"values", i(s.Values)}, []string{"time", f(s.Time)})
		}
		t.Rows = append(t.Rows, memoryRows("data", h.MemoryData)...)
		t.Rows = append(t.Rows, memoryRows("index", h.MemoryIndex)...)
		out = append(out, t)

		if len(h.TopValues) > 0 {
			top := Table{Title: "History cache top values", Columns: withLink([]string{"itemid", "values"})}
			for _, v := range h.TopValues {
				top.Rows = append(top.Rows, link([]string{i(v.ItemID), i(v.Values)}, v.ItemID))
			}
			out = append(out, top)
		}
	}

	if v := r.ValueCache; v != nil {
		t := Table{Title: "Value cache", Columns: []string{"metric", "value"}}
		if s := v.Summary; s != nil {
			t.Rows = append(t.Rows, []string{"items", i(s.Items)}, []string{"values", i(s.Values)},
				[]string{"mode", i(s.Mode)}, []string{"time", f(s.Time)})
		}
		t.Rows = append(t.Rows, memoryRows("memory", v.Memory)...)
		out = append(out, t)

		for _, list := range []struct {
			title string
			rows  []parsers.TopRequestValue
		}{
			{"Value cache top values", v.TopValues},
			{"Value cache top requests", v.TopRequests},
		} {
			if len(list.rows) == 0 {
				continue
			}
			top := Table{Title: list.title, Columns: withLink([]string{"itemid", "values", "request.values"})}
			for _, row := range list.rows {
				top.Rows = append(top.Rows, link([]string{i(row.ItemID), i(row.Values), i(row.Requests)}, row.ItemID))
			}
			out = append(out, top)
		}
	}

	if p := r.Preprocessing; p != nil {
		t := Table{Title: "Preprocessing", Columns: []string{"metric", "value"}}
		if s := p.Summary; s != nil {
			t.Rows = append(t.Rows,
				[]string{"values", i(s.Values)}, []string{"done", i(s.Done)}, []string{"queued", i(s.Queued)},
				[]string{"processing", i(s.Processing)}, []string{"pending", i(s.Pending)}, []string{"time", f(s.Time)})
		}
		out = append(out, t)

		if len(p.TopValues) > 0 {
			top := Table{Title: "Preprocessing top values", Columns: withLink([]string{"itemid", "values", "steps"})}
			for _, row := range p.TopValues {
				top.Rows = append(top.Rows, link([]string{i(row.ItemID), i(row.Values), i(row.Steps)}, row.ItemID))
			}
			out = append(out, top)
		}
	}

	if l := r.LLD; l != nil {
		t := Table{Title: "LLD", Columns: []string{"metric", "value"}}
		if s := l.Summary; s != nil {
			t.Rows = append(t.Rows, []string{"rules", i(s.Rules)}, []string{"values", i(s.Values)}, []string{"time", f(s.Time)})
		}
		out = append(out, t)

		if len(l.TopValues) > 0 {
			top := Table{Title: "LLD top values", Columns: withLink([]string{"itemid", "values"})}
			for _, row := range l.TopValues {
				top.Rows = append(top.Rows, link([]string{i(row.ItemID), i(row.Values)}, row.ItemID))
			}
			out = append(out, top)
		}
	}

	if a := r.Alerting; a != nil {
		t := Table{Title: "Alerting", Columns: []string{"metric", "value"}}
		if a.Alerts != nil {
			t.Rows = append(t.Rows, []string{"alerts", i(*a.Alerts)})
		}
		if a.Time != nil {
			t.Rows = append(t.Rows, []string{"time", f(*a.Time)})
		}
		out = append(out, t)
	}

	if len(r.Locks) > 0 {
		t := Table{Title: "Locks", Columns: []string{"name", "address"}}
		for _, lock := range r.Locks {
			t.Rows = append(t.Rows, []string{lock.Name, lock.Address})
		}
		out = append(out, t)
	}
	return out
}

func memoryRows(label string, m *parsers.MemoryUsage) [][]string {
	if m == nil {
		return nil
	}
	rows := [][]string{
		{label + " free", FormatFileSize(m.Free)},
		{label + " used", FormatFileSize(m.Used)},
		{label + " total", FormatFileSize(m.Total)},
	}
	if m.UsedPercent != nil {
		rows = append(rows, []string{label + " used %", FormatPercent(*m.UsedPercent)})
	}
	return rows
}
