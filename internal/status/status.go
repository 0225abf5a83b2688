// Package status classifies metric values into good, warning and critical
// bands.
//
// Classify always compares ascending: a value at or above Critical is
// critical. Metrics where a low value is bad are handled by their callers,
// by passing 100-value, by comparing against the CacheFree limits, or by
// storing the band with Critical below Warning and using ClassifyBand.
// Each call site states which it does.
package status

// Level is a health band.
type Level string

const (
	Good     Level = "good"
	Warning  Level = "warning"
	Critical Level = "critical"
)

// Rank orders levels from Good (0) to Critical (2).
func (l Level) Rank() int {
	switch l {
	case Critical:
		return 2
	case Warning:
		return 1
	}
	return 0
}

// Worst returns the most severe of levels, Good when empty.
func Worst(levels ...Level) Level {
	worst := Good
	for _, l := range levels {
		if l.Rank() > worst.Rank() {
			worst = l
		}
	}
	return worst
}

// Thresholds is a (warning, critical) pair.
type Thresholds struct {
	Warning  float64 `mapstructure:"warning" yaml:"warning" json:"warning"`
	Critical float64 `mapstructure:"critical" yaml:"critical" json:"critical"`
}

// Classify maps value onto a band. A nil value or nil thresholds is Good.
func Classify(value *float64, t *Thresholds) Level {
	if value == nil || t == nil {
		return Good
	}
	switch v := *value; {
	case v >= t.Critical:
		return Critical
	case v >= t.Warning:
		return Warning
	}
	return Good
}

// ClassifyValue is Classify for a value that is known to be present.
func ClassifyValue(value float64, t *Thresholds) Level {
	return Classify(&value, t)
}

// Descending reports whether the band is stored inverted, with Critical
// below Warning, meaning low values are bad.
func (t Thresholds) Descending() bool {
	return t.Critical < t.Warning
}

// ClassifyBand classifies value in the direction the band is stored.
// Ascending bands behave like Classify. Descending bands are critical at
// or below Critical and warning at or below Warning.
func ClassifyBand(value float64, t *Thresholds) Level {
	if t == nil || !t.Descending() {
		return ClassifyValue(value, t)
	}
	switch {
	case value <= t.Critical:
		return Critical
	case value <= t.Warning:
		return Warning
	}
	return Good
}
