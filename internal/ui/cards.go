package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zinspect/zinspect/internal/report"
)

// CardWidth is the inner width of an overview card.
const CardWidth = 46

func cardStyle(c report.Card) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(LevelColor(c.Level)).
		Padding(0, 1).
		Width(CardWidth)
}

// RenderCard renders one overview card: a titled box whose border takes the
// card's level color, with one "label  value" line per metric.
func RenderCard(c report.Card) string {
	labelWidth := 0
	for _, m := range c.Metrics {
		if w := lipgloss.Width(m.Label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := []string{RenderLevel(c.Level) + " " + TitleStyle.Render(c.Title)}
	for _, m := range c.Metrics {
		value := m.Value
		if m.Level != "" {
			value = LevelStyle(m.Level).Render(value)
		}
		lines = append(lines, MutedStyle.Render(padRight(m.Label, labelWidth))+"  "+value)
	}
	return cardStyle(c).Render(strings.Join(lines, "\n"))
}

// RenderCards lays cards out perRow to a row. perRow below 1 stacks them.
func RenderCards(cards []report.Card, perRow int) string {
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := start + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rendered := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			rendered = append(rendered, RenderCard(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CardsPerRow picks how many cards fit side by side in a terminal of width
// columns. Unknown widths stack the cards.
func CardsPerRow(width int) int {
	full := CardWidth + 4 // border and padding
	if width < 2*full {
		return 1
	}
	return width / full
}
