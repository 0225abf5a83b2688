package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/status"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"0", 0},
		{"1024", 1024},
		{"8K", 8 * kib},
		{"32M", 32 * mib},
		{"1.5g", 1.5 * gib},
		{"2T", 2 * gib * 1024},
		{"12MB", 0},
		{"lots", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSize(tt.in), "value %q", tt.in)
	}
}

func TestBuildMemoryAllocation(t *testing.T) {
	mem := &dataset.MemoryRecord{Total: i64(1 * gib)}
	bands := status.Thresholds{Warning: 70, Critical: 90}

	t.Run("all defaults", func(t *testing.T) {
		a := BuildMemoryAllocation(map[string]string{}, mem, bands)
		assert.Equal(t, int64(0), a.Explicit)
		assert.Equal(t, int64(88*mib), a.Default)
		assert.Equal(t, a.Default, a.Total)
		assert.InDelta(t, 88.0/1024*100, a.Percent, 0.0001)
		assert.Equal(t, status.Good, a.Level)
		assert.Len(t, a.Parameters, len(DefaultCacheSizes))
	})

	t.Run("explicit overrides default", func(t *testing.T) {
		a := BuildMemoryAllocation(map[string]string{"CacheSize": "512M", "ValueCacheSize": "256M"}, mem, bands)
		assert.Equal(t, int64(768*mib), a.Explicit)
		assert.Equal(t, int64((88-32-8)*mib), a.Default)
		assert.Equal(t, status.Warning, a.Level)

		require.Equal(t, "CacheSize", a.Parameters[0].Name)
		assert.True(t, a.Parameters[0].Explicit)
		assert.Equal(t, "512M", a.Parameters[0].Value)
	})

	t.Run("beyond server memory", func(t *testing.T) {
		a := BuildMemoryAllocation(map[string]string{"CacheSize": "2G"}, mem, bands)
		assert.Greater(t, a.Percent, 100.0)
		assert.Equal(t, status.Critical, a.Level)
	})

	t.Run("unknown server memory", func(t *testing.T) {
		a := BuildMemoryAllocation(map[string]string{"CacheSize": "2G"}, nil, bands)
		assert.Equal(t, int64(0), a.Server)
		assert.Equal(t, 0.0, a.Percent)
		assert.Equal(t, status.Good, a.Level)
	})
}

func TestConfigEntries(t *testing.T) {
	cfg := map[string]string{
		"StartPollers": "100",
		"CacheSize":    "1G",
		"DBHost":       "localhost",
		"LogFileSize":  "0",
		"Timeout":      "4",
	}

	all := ConfigEntries(cfg, ConfigQuery{})
	require.Len(t, all, 5)
	assert.Equal(t, "CacheSize", all[0].Parameter)
	assert.True(t, all[0].Memory)
	assert.Equal(t, "Timeout", all[4].Parameter)

	desc := ConfigEntries(cfg, ConfigQuery{Desc: true})
	assert.Equal(t, "Timeout", desc[0].Parameter)

	byValue := ConfigEntries(cfg, ConfigQuery{SortBy: "value"})
	assert.Equal(t, "0", byValue[0].Value)
	assert.Equal(t, "localhost", byValue[4].Value)

	found := ConfigEntries(cfg, ConfigQuery{Search: "size"})
	require.Len(t, found, 2)
	assert.Equal(t, "CacheSize", found[0].Parameter)
	assert.Equal(t, "LogFileSize", found[1].Parameter)

	byVal := ConfigEntries(cfg, ConfigQuery{Search: "LOCAL"})
	require.Len(t, byVal, 1)
	assert.Equal(t, "DBHost", byVal[0].Parameter)
}
