package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/zinspect/zinspect/internal/status"
)

// Semantic colors for status indication. ANSI codes keep output readable
// on any terminal palette.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Shared text styles.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
)

// LevelColor maps a status level to its palette color. An empty level is
// neutral and renders in the primary color.
func LevelColor(l status.Level) lipgloss.Color {
	switch l {
	case status.Critical:
		return ColorError
	case status.Warning:
		return ColorWarning
	case status.Good:
		return ColorSuccess
	default:
		return ColorPrimary
	}
}

// LevelStyle returns a foreground style for l.
func LevelStyle(l status.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LevelColor(l))
}

// DisableColors switches all rendering to monochrome.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ConfigureColor applies an output.color mode. "auto" keeps colors only
// when fd is a terminal.
func ConfigureColor(mode string, fd uintptr) {
	switch mode {
	case "never":
		DisableColors()
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	default:
		if !IsTerminal(fd) {
			DisableColors()
		}
	}
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// TerminalWidth returns the column count of fd, or 0 when it is not a
// terminal.
func TerminalWidth(fd uintptr) int {
	w, _, err := term.GetSize(int(fd))
	if err != nil {
		return 0
	}
	return w
}
