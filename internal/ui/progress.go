package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zinspect/zinspect/internal/status"
)

// Progress bar block characters.
const (
	progressFilled = '█'
	progressEmpty  = '░'
)

// RenderProgressBar creates a bar for a 0-100 percentage, colored by level.
// Values outside 0-100 are clamped.
// Output format: [████████░░░░]  67%
func RenderProgressBar(percent float64, width int, level status.Level) string {
	if width <= 0 {
		return ""
	}

	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	filledCount := int((percent / 100.0) * float64(width))

	var sb strings.Builder
	sb.Grow(width*3 + 2)
	sb.WriteRune('[')
	sb.WriteString(strings.Repeat(string(progressFilled), filledCount))
	sb.WriteString(strings.Repeat(string(progressEmpty), width-filledCount))
	sb.WriteRune(']')

	return LevelStyle(level).Render(sb.String()) + fmt.Sprintf(" %3.0f%%", percent)
}

// Bar is one labelled row of a bar chart.
type Bar struct {
	Label   string
	Percent float64
	Level   status.Level
}

var titleCaser = cases.Title(language.English)

// RenderBarChart renders one progress bar per item, largest first, with
// labels title-cased and padded to a common width.
func RenderBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return MutedStyle.Render("  no data")
	}

	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Percent > sorted[j].Percent })

	labelWidth := 0
	for _, b := range sorted {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := make([]string, 0, len(sorted))
	for _, b := range sorted {
		label := padRight(titleCaser.String(b.Label), labelWidth)
		lines = append(lines, fmt.Sprintf("  %s %s", label, RenderProgressBar(b.Percent, width, b.Level)))
	}
	return strings.Join(lines, "\n")
}
