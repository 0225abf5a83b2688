package report

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// FormatBytesShort renders a byte count rounded to a whole unit, e.g. "16Gb".
func FormatBytesShort(bytes float64) string {
	switch {
	case bytes >= gib:
		return fmt.Sprintf("%dGb", int64(math.Round(bytes/gib)))
	case bytes >= mib:
		return fmt.Sprintf("%dMb", int64(math.Round(bytes/mib)))
	case bytes >= kib:
		return fmt.Sprintf("%dKb", int64(math.Round(bytes/kib)))
	}
	return fmt.Sprintf("%dB", int64(bytes))
}

var fileSizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a size with one decimal above bytes, e.g. "1.5 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(fileSizeUnits) {
		i = len(fileSizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	if i == 0 {
		return fmt.Sprintf("%.0f %s", value, fileSizeUnits[i])
	}
	return fmt.Sprintf("%.1f %s", value, fileSizeUnits[i])
}

// FormatUptime renders a duration given in seconds.
func FormatUptime(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%d seconds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	return fmt.Sprintf("%dd %dh %dm", hours/24, hours%24, minutes%60)
}

var numberPrinter = message.NewPrinter(language.English)

// FormatLargeNumber truncates n and groups its digits with spaces,
// e.g. 1234567.8 -> "1 234 567".
func FormatLargeNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "0"
	}
	return strings.ReplaceAll(numberPrinter.Sprintf("%d", int64(math.Floor(n))), ",", " ")
}

// FormatKB renders a ps memory column, which is in kilobytes.
func FormatKB(kb int64) string {
	switch {
	case kb >= 1024*1024:
		return fmt.Sprintf("%.1f GB", float64(kb)/(1024*1024))
	case kb >= 1024:
		return fmt.Sprintf("%d MB", int64(math.Round(float64(kb)/1024)))
	}
	return fmt.Sprintf("%d KB", kb)
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
