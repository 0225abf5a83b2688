package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/zinspect/zinspect/internal/report"
)

// MaxColumnWidth caps auto-sized columns so long commands do not wrap.
const MaxColumnWidth = 60

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorMuted).
		Bold(false)
	return s
}

// AutoColumns sizes one column per header to fit its widest cell, capped at
// MaxColumnWidth.
func AutoColumns(headers []string, rows [][]string) []TableColumn {
	cols := make([]TableColumn, len(headers))
	for i, h := range headers {
		cols[i] = TableColumn{Title: h, Width: lipgloss.Width(h)}
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(cols); i++ {
			if w := lipgloss.Width(row[i]); w > cols[i].Width {
				cols[i].Width = w
			}
		}
	}
	for i := range cols {
		if cols[i].Width > MaxColumnWidth {
			cols[i].Width = MaxColumnWidth
		}
	}
	return cols
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// RenderTable renders a titled report table. Empty tables render the title
// and a muted placeholder.
func RenderTable(t report.Table) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(t.Title))
	sb.WriteString("\n")
	if len(t.Rows) == 0 {
		sb.WriteString(MutedStyle.Render("  no entries"))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(RenderSimpleTable(AutoColumns(t.Columns, t.Rows), t.Rows))
	sb.WriteString("\n")
	return sb.String()
}

// padRight pads s to width visible cells.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
