// waybarmon is a custom waybar module: it prints one JSON line per
// refresh describing a system segment, and accepts tooltip rotation
// commands on a unix socket while looping.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/waybarmon/internal/cache"
	"codeberg.org/mutker/waybarmon/internal/config"
	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/monitors"
	"codeberg.org/mutker/waybarmon/internal/style"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Init(config.DefaultLogLevel, logger.IsService())
		logger.FatalWithCode(asAppError(err)).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, logger.IsService())

	if err := run(cfg); err != nil {
		logger.FatalWithCode(asAppError(err)).Msg("Segment failed")
	}
}

func run(cfg *config.Config) error {
	if cfg.Segment == "" {
		return errors.New().WithMessage(errors.ErrInvalidArgument,
			"segment name required, one of: "+strings.Join(monitors.Names(), ", "))
	}

	// client paths talk to an already running segment and exit
	switch {
	case cfg.Refresh:
		return monitor.Comm(cfg.Segment, monitor.CmdRefresh)
	case cfg.PushTip > 0:
		return monitor.Comm(cfg.Segment, monitor.CmdNextTip)
	case cfg.PushTip < 0:
		return monitor.Comm(cfg.Segment, monitor.CmdPrevTip)
	}

	seg := cfg.SegmentConfig(cfg.Segment)
	if cfg.Promise > 0 {
		seg.Promise = cfg.Promise
	}

	store, err := cache.NewStore(cache.Config{
		Enabled: cfg.Cache.Enabled,
		DBPath:  cfg.Cache.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.ErrorWithCode(asAppError(err)).Msg("Failed to close last-value cache")
		}
	}()

	sensor, err := monitors.New(cfg.Segment, monitors.Deps{
		Segment:  seg,
		Store:    store,
		Caps:     cfg.Caps(),
		Interval: cfg.Interval,
	})
	if err != nil {
		return err
	}

	tips, err := monitor.NewTipState(sensor.Name(), sensor.TipTypes(), cfg.TipType, seg.TipType)
	if err != nil {
		return err
	}

	sheet := style.Load(cfg.StylePaths()...)

	if cfg.Interval > 0 {
		pidFile, err := monitor.AcquirePidFile(sensor.Name())
		if err != nil {
			return err
		}
		defer pidFile.Release()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	interval := time.Duration(cfg.Interval * float64(time.Second))
	runner := monitor.NewRunner(sensor, tips, sheet, cfg.Caps(), interval, seg.Lowest, os.Stdout)

	logger.Debug().
		Str("segment", sensor.Name()).
		Float64("interval", cfg.Interval).
		Msg("Starting segment")

	return runner.Run(ctx)
}

func asAppError(err error) errors.Error {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return errors.New().Wrap(errors.ErrInternal, err)
}
