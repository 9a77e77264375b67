package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/waybarmon/internal/config"
	"codeberg.org/mutker/waybarmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
log_level = "debug"
interval = 5.0

[table]
max_rows = 8
max_cell_width = 20
bar = "|"

[cache]
enabled = true
database = "/path/to/last.db"

[segments.processor]
tip_type = "pids"
lowest = 5.0

[segments.netio]
promise = 1000000.0
ignore_below = 512.0
`)
	configPath := filepath.Join(tempDir, "waybarmon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("WAYBARMON_CONFIG", configPath)

	cfg, err := config.Load([]string{"processor"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 5.0, cfg.Interval, 0.001)
	assert.Equal(t, "processor", cfg.Segment)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/path/to/last.db", cfg.Cache.Database)

	caps := cfg.Caps()
	assert.Equal(t, 8, caps.MaxRows)
	assert.Equal(t, 20, caps.MaxCellWidth)
	assert.Equal(t, "|", caps.Bar)

	seg := cfg.SegmentConfig("processor")
	assert.Equal(t, "pids", seg.TipType)
	require.NotNil(t, seg.Lowest)
	assert.InDelta(t, 5.0, *seg.Lowest, 0.001)

	netio := cfg.SegmentConfig("netio")
	assert.InDelta(t, 1000000.0, netio.Promise, 0.001)
	assert.InDelta(t, 512.0, netio.IgnoreBelow, 0.001)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WAYBARMON_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Zero(t, cfg.Interval)
	assert.False(t, cfg.Cache.Enabled)

	caps := cfg.Caps()
	assert.Equal(t, 16, caps.MaxRows)
	assert.Equal(t, "│", caps.Bar)

	assert.Equal(t, 25, cfg.SegmentConfig("temperature").Ambient)
	assert.Equal(t, "8.8.8.8", cfg.SegmentConfig("netcheck").Internet)
	assert.Nil(t, cfg.SegmentConfig("processor").Lowest)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "waybarmon.toml")
	err := os.WriteFile(configPath, []byte("interval = 5.0\nlog_level = \"info\"\n"), 0o600)
	require.NoError(t, err)
	t.Setenv("WAYBARMON_CONFIG", configPath)

	cfg, err := config.Load([]string{"-i", "2.5", "--log-level", "debug", "-t", "pids", "memory"})
	require.NoError(t, err)

	assert.InDelta(t, 2.5, cfg.Interval, 0.001)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "pids", cfg.TipType)
	assert.Equal(t, "memory", cfg.Segment)
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "waybarmon.toml")
	err := os.WriteFile(configPath, []byte("this is not TOML\n"), 0o600)
	require.NoError(t, err)
	t.Setenv("WAYBARMON_CONFIG", configPath)

	_, err = config.Load(nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrReadConfig, errors.CodeOf(err))
}

func TestLoadInvalidLogLevel(t *testing.T) {
	t.Setenv("WAYBARMON_CONFIG", "")

	_, err := config.Load([]string{"--log-level", "loud"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidLogLevel, errors.CodeOf(err))
}

func TestClientFlags(t *testing.T) {
	t.Setenv("WAYBARMON_CONFIG", "")

	cfg, err := config.Load([]string{"-r", "load"})
	require.NoError(t, err)
	assert.True(t, cfg.Refresh)

	cfg, err = config.Load([]string{"--push-tip=-1", "load"})
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.PushTip)
}
