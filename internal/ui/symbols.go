package ui

import "github.com/zinspect/zinspect/internal/status"

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓"
	SymbolFail     = "✗"
	SymbolWarning  = "⚠"
	SymbolPending  = "○"
	SymbolProgress = "◐"
	SymbolComplete = "●"
	SymbolSkipped  = "⊘"
)

// LevelSymbol returns the indicator shown next to a classified value.
func LevelSymbol(l status.Level) string {
	switch l {
	case status.Critical:
		return SymbolFail
	case status.Warning:
		return SymbolWarning
	case status.Good:
		return SymbolSuccess
	default:
		return SymbolPending
	}
}

// RenderLevel renders the colored symbol for l.
func RenderLevel(l status.Level) string {
	return LevelStyle(l).Render(LevelSymbol(l))
}
