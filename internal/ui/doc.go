// Package ui renders zinspect reports for the terminal.
//
// Everything is built on Lip Gloss styles over the ANSI palette in colors.go,
// so output degrades cleanly when colors are disabled with DisableColors or
// ConfigureColor("never", ...).
//
// # Components
//
//	RenderCards        - overview cards, bordered in their status color
//	RenderTable        - titled Bubbles tables for diaginfo and config output
//	RenderSparkline    - single-row vmstat history charts
//	RenderBarChart     - busy percentages of internal processes
//	Spinner            - progress line while a bundle is parsed
//	ProcessBrowser     - interactive Bubble Tea view of ps_aux records
//
// Status levels map to colors and symbols through LevelColor and
// LevelSymbol: good is green with a checkmark, warning yellow with a warning
// sign, critical red with a cross.
package ui
