package monitors

import (
	"context"
	"sort"
	"strconv"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/units"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	memWarnThreshold    = 50.0
	memFillingThreshold = 66.0
	memFilledThreshold  = 80.0

	iconRAM = "🐏"
)

type memDevice struct {
	used  uint64
	total uint64
	pct   float64
}

type memReading struct {
	ram  memDevice
	swap memDevice
}

type memSample struct {
	pid   int32
	usage float32
	name  string
}

type memorySensor struct {
	caps     tooltip.Caps
	devices  func(ctx context.Context) (memReading, error)
	topByMem func(ctx context.Context, n int) ([]memSample, error)
}

func newMemory(deps Deps) (monitor.Sensor, error) {
	return &memorySensor{
		caps:     deps.Caps,
		devices:  memoryDevices,
		topByMem: topProcessesByMemory,
	}, nil
}

func (*memorySensor) Name() string { return "memory" }

func (*memorySensor) TipTypes() []string {
	return []string{"combined", "pids", "device"}
}

func (s *memorySensor) Sense(ctx context.Context, tipType string) (*waybar.Cargo, error) {
	reading, err := s.devices(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSenseFailed, err)
	}

	cargo := waybar.New()
	cargo.SetText(iconRAM + " " + pct0(reading.ram.pct))
	cargo.SetPercentage(reading.ram.pct)

	classes := []string{"mem"}
	switch {
	case reading.ram.pct > memFilledThreshold:
		classes = append(classes, "filled")
	case reading.ram.pct > memFillingThreshold:
		classes = append(classes, "filling")
	case reading.ram.pct > memWarnThreshold:
		classes = append(classes, "warn")
	}
	cargo.SetClass(classes...)

	tip, err := s.tooltipFor(ctx, tipType, reading)
	if err != nil {
		return nil, err
	}
	cargo.Tooltip = tip

	return cargo, nil
}

func (s *memorySensor) tooltipFor(ctx context.Context, tipType string, reading memReading) (*tooltip.Tooltip, error) {
	switch tipType {
	case "device":
		return deviceTip(reading), nil
	case "pids":
		return s.pidTip(ctx)
	default:
		pidTip, err := s.pidTip(ctx)
		if err != nil {
			return nil, err
		}

		return deviceTip(reading).Combine(pidTip, s.caps), nil
	}
}

func deviceTip(reading memReading) *tooltip.Tooltip {
	row := func(d memDevice) []string {
		return []string{
			units.MustFormat(float64(d.used), units.Options{Spacer: " ", After: "B"}),
			units.MustFormat(float64(d.total), units.Options{Spacer: " ", After: "B"}),
			pct0(d.pct),
		}
	}

	return tooltip.Build(tooltip.Fields{
		Title:    "Memory Usage",
		RowNames: []string{"RAM", "SWAP"},
		ColNames: []string{"USED", "TOTAL", "USAGE"},
		Table:    [][]string{row(reading.ram), row(reading.swap)},
	})
}

func (s *memorySensor) pidTip(ctx context.Context) (*tooltip.Tooltip, error) {
	samples, err := s.topByMem(ctx, topProcessCount)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrCollectFailed, err)
	}

	rows := make([][]string, len(samples))
	for i, sample := range samples {
		rows[i] = []string{
			strconv.Itoa(int(sample.pid)),
			pct1(float64(sample.usage)),
			sample.name,
		}
	}

	return tooltip.Build(tooltip.Fields{
		Title:    "Memory Usage",
		ColNames: []string{"PID", "MEM", "COMMAND"},
		Table:    rows,
		IdxCols:  []int{0},
	}), nil
}

func memoryDevices(ctx context.Context) (memReading, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return memReading{}, err
	}
	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return memReading{}, err
	}

	return memReading{
		ram:  memDevice{used: vm.Used, total: vm.Total, pct: vm.UsedPercent},
		swap: memDevice{used: swap.Used, total: swap.Total, pct: swap.UsedPercent},
	}, nil
}

func topProcessesByMemory(ctx context.Context, n int) ([]memSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	samples := make([]memSample, 0, len(procs))
	for _, p := range procs {
		usage, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		samples = append(samples, memSample{pid: p.Pid, usage: usage, name: name})
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].usage > samples[j].usage })
	if len(samples) > n {
		samples = samples[:n]
	}

	return samples, nil
}
