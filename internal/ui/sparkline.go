package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zinspect/zinspect/internal/status"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// findMinMax returns the minimum and maximum values in a slice.
// When percent is set and every value lies in 0-100, the fixed range 0-100
// is returned so charts of the same unit stay comparable.
func findMinMax(data []float64, percent bool) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 100
	}

	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	if percent && maxVal <= 100 && minVal >= 0 {
		return 0, 100
	}
	return minVal, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// resampleData fits data into targetLen points by averaging buckets when
// shrinking and repeating points when stretching.
func resampleData(data []float64, targetLen int) []float64 {
	if len(data) == 0 || targetLen <= 0 {
		return nil
	}
	if len(data) == targetLen {
		return data
	}

	result := make([]float64, targetLen)
	if len(data) > targetLen {
		bucket := float64(len(data)) / float64(targetLen)
		for i := range result {
			start := int(float64(i) * bucket)
			end := int(float64(i+1) * bucket)
			if end > len(data) {
				end = len(data)
			}
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range data[start:end] {
				sum += v
			}
			result[i] = sum / float64(end-start)
		}
		return result
	}

	for i := range result {
		result[i] = data[i*len(data)/targetLen]
	}
	return result
}

// RenderMiniSparkline renders data as a single row of width block characters.
// Percentage series use a fixed 0-100 scale; anything else is scaled to its
// own range.
func RenderMiniSparkline(data []float64, width int, percent bool) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	minVal, maxVal := findMinMax(data, percent)
	if len(data) > width {
		data = resampleData(data, width)
	}

	var sb strings.Builder
	top := len(sparklineBlocks) - 1
	for _, v := range data {
		idx := clampInt(int(normalizeValue(v, minVal, maxVal)*float64(top)), top)
		sb.WriteRune(sparklineBlocks[idx])
	}
	return sb.String()
}

// RenderSparkline renders a colored sparkline. With thresholds the color
// follows the classification of the last value; without, it is ColorInfo.
func RenderSparkline(data []float64, width int, t *status.Thresholds) string {
	line := RenderMiniSparkline(data, width, t != nil)
	if line == "" {
		return ""
	}

	color := ColorInfo
	if t != nil {
		color = LevelColor(status.ClassifyValue(data[len(data)-1], t))
	}
	return lipgloss.NewStyle().Foreground(color).Render(line)
}
