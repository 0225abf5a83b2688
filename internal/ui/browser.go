package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/report"
)

// browserSorts is the column cycle bound to the sort key.
var browserSorts = []string{"", "cpu", "mem", "rss", "vsz", "pid", "type"}

var browserTops = []string{"", "cpu", "rss", "vsz"}

type browserKeys struct {
	Type    key.Binding
	Sort    key.Binding
	Reverse key.Binding
	Top     key.Binding
	Quit    key.Binding
}

var defaultBrowserKeys = browserKeys{
	Type:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type")),
	Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Reverse: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
	Top:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "top 10")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ProcessBrowser is an interactive ps_aux table. Keys cycle the type
// filter, the sort column, its direction and the top-10 selector.
type ProcessBrowser struct {
	all     []dataset.ProcessRecord
	types   []string
	typeIdx int
	sortIdx int
	topIdx  int
	desc    bool
	keys    browserKeys
	table   table.Model
	height  int
}

// NewProcessBrowser builds a browser starting from q.
func NewProcessBrowser(procs []dataset.ProcessRecord, q report.ProcessQuery) *ProcessBrowser {
	b := &ProcessBrowser{
		all:    procs,
		types:  append([]string{""}, report.ProcessTypes(procs)...),
		desc:   q.Desc,
		keys:   defaultBrowserKeys,
		height: 20,
	}
	b.typeIdx = indexOf(b.types, q.Type)
	b.sortIdx = indexOf(browserSorts, q.SortBy)
	b.topIdx = indexOf(browserTops, q.Top)

	b.table = table.New(
		table.WithColumns(processColumns()),
		table.WithFocused(true),
		table.WithHeight(b.height),
	)
	b.table.SetStyles(tableStyles())
	b.refresh()
	return b
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

func processColumns() []table.Column {
	return []table.Column{
		{Title: "PID", Width: 8},
		{Title: "USER", Width: 10},
		{Title: "%CPU", Width: 6},
		{Title: "%MEM", Width: 6},
		{Title: "RSS", Width: 10},
		{Title: "VSZ", Width: 10},
		{Title: "TYPE", Width: 28},
		{Title: "COMMAND", Width: 50},
	}
}

// ProcessRow renders a record as table cells in processColumns order.
func ProcessRow(p dataset.ProcessRecord) []string {
	return []string{
		strconv.Itoa(p.PID),
		p.User,
		fmt.Sprintf("%.1f", p.CPU),
		fmt.Sprintf("%.1f", p.Mem),
		report.FormatKB(p.RSS),
		report.FormatKB(p.VSZ),
		report.DisplayType(p.ProcessType),
		p.Command,
	}
}

// ProcessHeaders are the column titles matching ProcessRow.
func ProcessHeaders() []string {
	cols := processColumns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title
	}
	return out
}

// Query is the filter currently applied.
func (b *ProcessBrowser) Query() report.ProcessQuery {
	return report.ProcessQuery{
		Type:   b.types[b.typeIdx],
		Top:    browserTops[b.topIdx],
		SortBy: browserSorts[b.sortIdx],
		Desc:   b.desc,
	}
}

// Visible returns the records currently listed.
func (b *ProcessBrowser) Visible() []dataset.ProcessRecord {
	return report.FilterProcesses(b.all, b.Query())
}

func (b *ProcessBrowser) refresh() {
	visible := b.Visible()
	rows := make([]table.Row, len(visible))
	for i, p := range visible {
		rows[i] = table.Row(ProcessRow(p))
	}
	b.table.SetRows(rows)
	b.table.SetCursor(0)
}

// Init implements tea.Model.
func (b *ProcessBrowser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *ProcessBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.height = msg.Height - 4
		if b.height < 3 {
			b.height = 3
		}
		b.table.SetHeight(b.height)
		return b, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, b.keys.Type):
			b.typeIdx = (b.typeIdx + 1) % len(b.types)
			b.refresh()
			return b, nil
		case key.Matches(msg, b.keys.Sort):
			b.sortIdx = (b.sortIdx + 1) % len(browserSorts)
			b.refresh()
			return b, nil
		case key.Matches(msg, b.keys.Reverse):
			b.desc = !b.desc
			b.refresh()
			return b, nil
		case key.Matches(msg, b.keys.Top):
			b.topIdx = (b.topIdx + 1) % len(browserTops)
			b.refresh()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

// View implements tea.Model.
func (b *ProcessBrowser) View() string {
	q := b.Query()
	filter := fmt.Sprintf("type: %s  sort: %s  top: %s  %d of %d",
		orAll(q.Type), orAll(q.SortBy), orAll(q.Top), len(b.table.Rows()), len(b.all))
	if q.SortBy != "" && q.Desc {
		filter += "  (desc)"
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Processes") + "  " + MutedStyle.Render(filter) + "\n")
	sb.WriteString(b.table.View() + "\n")
	sb.WriteString(MutedStyle.Render(b.help()))
	return sb.String()
}

func (b *ProcessBrowser) help() string {
	parts := make([]string, 0, 5)
	for _, k := range []key.Binding{b.keys.Type, b.keys.Sort, b.keys.Reverse, b.keys.Top, b.keys.Quit} {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

// RunProcessBrowser runs the browser full screen until the user quits.
func RunProcessBrowser(procs []dataset.ProcessRecord, q report.ProcessQuery) error {
	_, err := tea.NewProgram(NewProcessBrowser(procs, q), tea.WithAltScreen()).Run()
	return err
}
