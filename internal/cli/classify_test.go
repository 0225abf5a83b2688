package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		opts     ClassifyOptions
		explicit bool
		want     status.Level
	}{
		{"memory below warning", "50", ClassifyOptions{Metric: "memory"}, false, status.Good},
		{"memory at warning", "70", ClassifyOptions{Metric: "memory"}, false, status.Warning},
		{"memory at critical", "90", ClassifyOptions{Metric: "memory"}, false, status.Critical},
		{"swap", " 12 ", ClassifyOptions{Metric: "swap"}, false, status.Warning},
		{"process", "51", ClassifyOptions{Metric: "process"}, false, status.Critical},
		{"cache free low", "12", ClassifyOptions{Metric: "cache-free"}, false, status.Critical},
		{"cache free middle", "50", ClassifyOptions{Metric: "cache-free"}, false, status.Warning},
		{"cache free high", "80", ClassifyOptions{Metric: "cache-free"}, false, status.Good},
		{"explicit band", "42", ClassifyOptions{Warning: 40, Critical: 60}, true, status.Warning},
		{"explicit equal bounds", "40", ClassifyOptions{Warning: 40, Critical: 40}, true, status.Critical},
		{"descending band good", "75", ClassifyOptions{Warning: 60, Critical: 40}, true, status.Good},
		{"descending band warning", "45", ClassifyOptions{Warning: 60, Critical: 40}, true, status.Warning},
		{"descending band critical", "40", ClassifyOptions{Warning: 60, Critical: 40}, true, status.Critical},
		{"cache band", "25", ClassifyOptions{Metric: "cache"}, false, status.Critical},
		{"cache band middle", "50", ClassifyOptions{Metric: "cache"}, false, status.Warning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := classify(testConfig(), tt.raw, tt.opts, tt.explicit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Level)
		})
	}
}

func TestClassifyResultBands(t *testing.T) {
	res, err := classify(testConfig(), "10", ClassifyOptions{Metric: "cache-free"}, false)
	require.NoError(t, err)
	assert.Nil(t, res.Thresholds)
	require.NotNil(t, res.Limits)
	assert.Equal(t, 30.0, res.Limits.Critical)

	res, err = classify(testConfig(), "10", ClassifyOptions{Metric: "cpu"}, false)
	require.NoError(t, err)
	require.NotNil(t, res.Thresholds)
	assert.Equal(t, 80.0, res.Thresholds.Critical)
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		opts     ClassifyOptions
		explicit bool
	}{
		{"not a number", "lots", ClassifyOptions{Metric: "memory"}, false},
		{"metric and thresholds", "1", ClassifyOptions{Metric: "memory", Warning: 1, Critical: 2}, true},
		{"unknown metric", "1", ClassifyOptions{Metric: "disk"}, false},
		{"no band at all", "1", ClassifyOptions{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classify(testConfig(), tt.raw, tt.opts, tt.explicit)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrInput))
		})
	}
}

func TestClassifyMetricsSorted(t *testing.T) {
	assert.Equal(t, []string{"cache", "cache-free", "cpu", "memory", "process", "swap"}, classifyMetrics())
}
