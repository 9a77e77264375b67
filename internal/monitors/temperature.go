package monitors

import (
	"context"
	"sort"
	"strings"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/shirou/gopsutil/v3/host"
)

const (
	defaultHighTemp = 84.0
	cpuSensorGroup  = "coretemp"

	iconThermometer = "🌡"
)

type tempReading struct {
	group   string
	current float64
	high    float64
}

type temperatureSensor struct {
	ambient float64
	read    func(ctx context.Context) ([]tempReading, error)
}

func newTemperature(deps Deps) (monitor.Sensor, error) {
	return &temperatureSensor{
		ambient: float64(deps.Segment.Ambient),
		read:    readTemperatures,
	}, nil
}

func (*temperatureSensor) Name() string { return "temperature" }

func (*temperatureSensor) TipTypes() []string { return []string{"sensors"} }

func (s *temperatureSensor) Sense(ctx context.Context, _ string) (*waybar.Cargo, error) {
	readings, err := s.read(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSenseFailed, err)
	}
	if len(readings) == 0 {
		return nil, errors.New().WithMessage(errors.ErrSenseFailed, "no temperature sensors found")
	}

	main := readings[0]
	for _, r := range readings {
		if r.group == cpuSensorGroup {
			main = r
			break
		}
	}

	pct := heatPct(main.current, s.ambient, main.high)

	cargo := waybar.New()
	cargo.SetText(iconThermometer + " " + num(main.current, 0) + "°C")
	cargo.SetClass(heatClass(pct))
	cargo.SetPercentage(pct)

	columns := make([][]string, len(readings))
	groups := make([]string, len(readings))
	for i, r := range readings {
		groups[i] = r.group
		columns[i] = []string{num(r.current, 0), num(r.high, 0)}
	}
	cargo.Tooltip = tooltip.Build(tooltip.Fields{
		Title:       "Temperature",
		RowNames:    []string{"NOW", "HIGH"},
		ColNames:    groups,
		Table:       columns,
		ColumnMajor: true,
	})

	return cargo, nil
}

// heatPct places the current temperature on the ambient-to-high
// scale: ambient reads 0, the sensor's high threshold reads 100.
func heatPct(current, ambient, high float64) float64 {
	if high <= ambient {
		high = defaultHighTemp
	}

	return clampPct(100 * (current - ambient) / (high - ambient))
}

func heatClass(pct float64) string {
	switch score := pct * 0.06; {
	case score > 5:
		return "fire"
	case score > 4:
		return "red"
	case score > 3:
		return "orange"
	case score > 2:
		return "hot"
	case score > 1:
		return "warm"
	default:
		return "cool"
	}
}

// readTemperatures groups kernel sensors by the chip token before the
// first underscore of the sensor key, one representative per chip.
// For the CPU package chip the package sensor wins over per-core
// sensors.
func readTemperatures(ctx context.Context) ([]tempReading, error) {
	sensors, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	byGroup := map[string]tempReading{}
	perCore := map[string]bool{}
	for _, sensor := range sensors {
		group, label, _ := strings.Cut(sensor.SensorKey, "_")
		reading := tempReading{
			group:   group,
			current: sensor.Temperature,
			high:    sensor.High,
		}
		if reading.high <= 0 {
			reading.high = defaultHighTemp
		}
		isCore := strings.Contains(label, "core")

		_, seen := byGroup[group]
		switch {
		case !seen:
			byGroup[group] = reading
			perCore[group] = isCore
		case group == cpuSensorGroup && perCore[group] && !isCore:
			// the package sensor beats individual cores
			byGroup[group] = reading
			perCore[group] = false
		}
	}

	groups := make([]string, 0, len(byGroup))
	for group := range byGroup {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	readings := make([]tempReading, 0, len(groups))
	for _, group := range groups {
		readings = append(readings, byGroup[group])
	}

	return readings, nil
}
