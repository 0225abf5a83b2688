package report

import "github.com/zinspect/zinspect/internal/dataset"

// Series is one vmstat column over time.
type Series struct {
	Name   string    `json:"name" yaml:"name"`
	Points []float64 `json:"points" yaml:"points"`
}

// SeriesGroup is a set of series charted together.
type SeriesGroup struct {
	Title  string   `json:"title" yaml:"title"`
	Unit   string   `json:"unit" yaml:"unit"`
	Series []Series `json:"series" yaml:"series"`
}

var vmstatGroups = []struct {
	title   string
	unit    string
	columns []int
	names   []string
}{
	{"CPU", "%", []int{dataset.VmstatUser, dataset.VmstatSystem, dataset.VmstatIdle, dataset.VmstatWait}, []string{"us", "sy", "id", "wa"}},
	{"Memory", "KB", []int{dataset.VmstatSwpd, dataset.VmstatFree, dataset.VmstatBuff, dataset.VmstatCache}, []string{"swpd", "free", "buff", "cache"}},
	{"Swap", "KB/s", []int{dataset.VmstatSwapIn, dataset.VmstatSwapOut}, []string{"si", "so"}},
	{"IO", "blocks/s", []int{dataset.VmstatBlocksIn, dataset.VmstatBlocksOut}, []string{"bi", "bo"}},
	{"System", "/s", []int{dataset.VmstatInterrupts, dataset.VmstatContextSw}, []string{"in", "cs"}},
}

// VmstatSeries splits vmstat rows into charted column groups. Rows are
// assumed to carry at least dataset.VmstatMinColumns values.
func VmstatSeries(rows [][]int64) []SeriesGroup {
	groups := make([]SeriesGroup, 0, len(vmstatGroups))
	for _, g := range vmstatGroups {
		sg := SeriesGroup{Title: g.title, Unit: g.unit}
		for i, col := range g.columns {
			s := Series{Name: g.names[i], Points: make([]float64, 0, len(rows))}
			for _, row := range rows {
				if col < len(row) {
					s.Points = append(s.Points, float64(row[col]))
				}
			}
			sg.Series = append(sg.Series, s)
		}
		groups = append(groups, sg)
	}
	return groups
}
