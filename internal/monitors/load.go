package monitors

import (
	"context"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
)

const iconScale = "⚖"

type loadReading struct {
	one     float64
	five    float64
	fifteen float64
	cores   int
}

type loadSensor struct {
	read func(ctx context.Context) (loadReading, error)
}

func newLoad(Deps) (monitor.Sensor, error) {
	return &loadSensor{read: readLoad}, nil
}

func (*loadSensor) Name() string { return "load" }

func (*loadSensor) TipTypes() []string { return []string{"averages"} }

func (s *loadSensor) Sense(ctx context.Context, _ string) (*waybar.Cargo, error) {
	reading, err := s.read(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSenseFailed, err)
	}

	cargo := waybar.New()
	cargo.SetClass(loadClass(reading))
	cargo.SetPercentage(clampPct(100 * reading.one / float64(reading.cores)))

	// an unloaded machine needs no bar space
	if loadClass(reading) == "unloaded" {
		cargo.HideText()
	} else {
		cargo.SetText(iconScale + " " + num(reading.one, 2))
	}

	cargo.Tooltip = tooltip.Build(tooltip.Fields{
		Title:    "Load Average",
		ColNames: []string{"1 min", "5 min", "15 min"},
		Row:      []string{num(reading.one, 2), num(reading.five, 2), num(reading.fifteen, 2)},
	})

	return cargo, nil
}

// loadClass names the shortest window whose average exceeds its
// share of the core count. Longer windows carry lower thresholds
// since sustained load is worse than a spike.
func loadClass(r loadReading) string {
	n := float64(r.cores)
	switch {
	case r.fifteen > n:
		return "15 min"
	case r.five > 1.5*n:
		return "5 min"
	case r.one > 2*n:
		return "1 min"
	default:
		return "unloaded"
	}
}

func readLoad(ctx context.Context) (loadReading, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return loadReading{}, err
	}
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return loadReading{}, err
	}
	if cores < 1 {
		cores = 1
	}

	return loadReading{
		one:     avg.Load1,
		five:    avg.Load5,
		fifteen: avg.Load15,
		cores:   cores,
	}, nil
}
