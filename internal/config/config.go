// Package config loads waybarmon settings from waybarmon.toml,
// environment variables and command line flags, flags winning.
package config

import (
	"os"
	"path/filepath"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName         = "waybarmon"
	DefaultLogLevel = "warn"

	defaultMaxRows      = 16
	defaultMaxCols      = 16
	defaultMaxCellWidth = 30
	defaultAmbient      = 25
	defaultInternet     = "8.8.8.8"
)

// Table bounds the tooltip grid views.
type Table struct {
	MaxRows      int    `mapstructure:"max_rows"`
	MaxCols      int    `mapstructure:"max_cols"`
	MaxCellWidth int    `mapstructure:"max_cell_width"`
	Bar          string `mapstructure:"bar"`
}

// Cache configures the last-known-value store.
type Cache struct {
	Enabled  bool   `mapstructure:"enabled"`
	Database string `mapstructure:"database"`
}

// Segment holds per-monitor settings. Fields irrelevant to a monitor
// are simply ignored by it.
type Segment struct {
	// TipType selects the initial tooltip format
	TipType string `mapstructure:"tip_type"`
	// Lowest suppresses output while percentage stays below it
	Lowest *float64 `mapstructure:"lowest"`
	// Ambient is the reference temperature for heat percentage
	Ambient int `mapstructure:"ambient"`
	// Promise is the ISP-promised throughput in bytes per second
	Promise float64 `mapstructure:"promise"`
	// IgnoreBelow hides the netio text under this byte rate
	IgnoreBelow float64 `mapstructure:"ignore_below"`
	// Internet is the host pinged to verify internet reach
	Internet string `mapstructure:"internet"`
}

type Config struct {
	LogLevel string             `mapstructure:"log_level"`
	Interval float64            `mapstructure:"interval"`
	Table    Table              `mapstructure:"table"`
	Cache    Cache              `mapstructure:"cache"`
	Segments map[string]Segment `mapstructure:"segments"`

	// command line surface, not read from the file
	Segment string  `mapstructure:"-"`
	TipType string  `mapstructure:"-"`
	Refresh bool    `mapstructure:"-"`
	PushTip int     `mapstructure:"-"`
	Promise float64 `mapstructure:"-"`

	configDirs []string
}

// Load parses flags and the configuration file.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	cfg := &Config{}

	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.BoolVarP(&cfg.Refresh, "refresh", "r", false, "trigger a running segment manually")
	fs.IntVarP(&cfg.PushTip, "push-tip", "p", 0, "push tip type (1=next, -1=prev) to a running segment")
	interval := fs.Float64P("interval", "i", 0, "refresh every SEC seconds; 0 emits once and exits")
	fs.StringVarP(&cfg.TipType, "tip-type", "t", "", "start with this tip type")
	fs.Float64VarP(&cfg.Promise, "promise", "P", 0, "promised network speed in bytes/s (0: unknown)")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	configFile := fs.String("config", "", "explicit configuration file")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if fs.NArg() > 0 {
		cfg.Segment = fs.Arg(0)
	}

	v := viper.New()
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("interval", 0.0)
	v.SetDefault("table.max_rows", defaultMaxRows)
	v.SetDefault("table.max_cols", defaultMaxCols)
	v.SetDefault("table.max_cell_width", defaultMaxCellWidth)
	v.SetDefault("table.bar", tooltip.DefaultBar)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.database", defaultCachePath())
	v.SetDefault("segments.temperature.ambient", defaultAmbient)
	v.SetDefault("segments.netcheck.internet", defaultInternet)

	v.SetEnvPrefix(appName)
	v.AutomaticEnv()

	cfg.configDirs = configDirs()
	switch {
	case *configFile != "":
		v.SetConfigFile(*configFile)
	case os.Getenv("WAYBARMON_CONFIG") != "":
		v.SetConfigFile(os.Getenv("WAYBARMON_CONFIG"))
	default:
		v.SetConfigName(appName)
		v.SetConfigType("toml")
		for _, dir := range cfg.configDirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// flags override the file
	if fs.Changed("interval") {
		cfg.Interval = *interval
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New().WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
}

// SegmentConfig returns the settings for a named segment; unknown
// segments get the zero settings with package defaults applied.
func (c *Config) SegmentConfig(name string) Segment {
	seg := c.Segments[name]
	if name == "temperature" && seg.Ambient == 0 {
		seg.Ambient = defaultAmbient
	}
	if name == "netcheck" && seg.Internet == "" {
		seg.Internet = defaultInternet
	}

	return seg
}

// Caps returns the tooltip caps the configuration implies.
func (c *Config) Caps() tooltip.Caps {
	caps := tooltip.Caps{
		MaxRows:      c.Table.MaxRows,
		MaxCols:      c.Table.MaxCols,
		MaxCellWidth: c.Table.MaxCellWidth,
		Bar:          c.Table.Bar,
	}
	if caps.Bar == "" {
		caps.Bar = tooltip.DefaultBar
	}

	return caps
}

// StylePaths lists stylesheet locations, system first so user files
// override.
func (c *Config) StylePaths() []string {
	dirs := c.configDirs
	if len(dirs) == 0 {
		dirs = configDirs()
	}
	paths := make([]string, 0, len(dirs))
	for i := len(dirs) - 1; i >= 0; i-- {
		paths = append(paths, filepath.Join(dirs[i], "style.css"))
	}

	return paths
}

// configDirs lists configuration directories, most specific first.
func configDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, appName))
	}
	dirs = append(dirs, filepath.Join("/etc", appName), "/etc")

	return dirs
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, appName, "last.db")
}
