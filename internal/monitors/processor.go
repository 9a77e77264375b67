package monitors

import (
	"context"
	"sort"
	"strconv"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	cpuFullThreshold = 75.0
	topProcessCount  = 10

	iconBrain   = "🧠"
	iconMindPop = "🤯"
)

type procSample struct {
	pid   int32
	usage float64
	name  string
}

// processorSensor reports overall and per-core CPU usage plus the
// heaviest processes. The read functions are fields so tests can feed
// canned values.
type processorSensor struct {
	caps     tooltip.Caps
	overall  func(ctx context.Context) (float64, error)
	perCore  func(ctx context.Context) ([]float64, error)
	topByCPU func(ctx context.Context, n int) ([]procSample, error)
}

func newProcessor(deps Deps) (monitor.Sensor, error) {
	return &processorSensor{
		caps:     deps.Caps,
		overall:  overallCPU,
		perCore:  perCoreCPU,
		topByCPU: topProcessesByCPU,
	}, nil
}

func (*processorSensor) Name() string { return "processor" }

func (*processorSensor) TipTypes() []string {
	return []string{"combined", "pids", "processors"}
}

func (s *processorSensor) Sense(ctx context.Context, tipType string) (*waybar.Cargo, error) {
	usage, err := s.overall(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSenseFailed, err)
	}

	cargo := waybar.New()
	cargo.SetPercentage(usage)

	icon := iconBrain
	classes := []string{"cpu"}
	if usage > cpuFullThreshold {
		icon = iconMindPop
		classes = append(classes, "full")
	}
	cargo.SetText(icon + " " + pct0(usage))
	cargo.SetClass(classes...)

	tip, err := s.tooltipFor(ctx, tipType)
	if err != nil {
		return nil, err
	}
	cargo.Tooltip = tip

	return cargo, nil
}

func (s *processorSensor) tooltipFor(ctx context.Context, tipType string) (*tooltip.Tooltip, error) {
	switch tipType {
	case "processors":
		return s.coreTip(ctx)
	case "pids":
		return s.pidTip(ctx)
	default:
		coreTip, err := s.coreTip(ctx)
		if err != nil {
			return nil, err
		}
		pidTip, err := s.pidTip(ctx)
		if err != nil {
			return nil, err
		}

		return coreTip.Combine(pidTip, s.caps), nil
	}
}

func (s *processorSensor) coreTip(ctx context.Context) (*tooltip.Tooltip, error) {
	cores, err := s.perCore(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrCollectFailed, err)
	}

	rowNames := make([]string, len(cores))
	rows := make([][]string, len(cores))
	for i, usage := range cores {
		rowNames[i] = "CPU" + strconv.Itoa(i)
		rows[i] = []string{pct0(usage)}
	}

	return tooltip.Build(tooltip.Fields{
		Title:    "CPU Usage",
		RowNames: rowNames,
		ColNames: []string{"USAGE"},
		Table:    rows,
	}), nil
}

func (s *processorSensor) pidTip(ctx context.Context) (*tooltip.Tooltip, error) {
	samples, err := s.topByCPU(ctx, topProcessCount)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrCollectFailed, err)
	}

	rows := make([][]string, len(samples))
	for i, sample := range samples {
		rows[i] = []string{
			strconv.Itoa(int(sample.pid)),
			pct1(sample.usage),
			sample.name,
		}
	}

	return tooltip.Build(tooltip.Fields{
		Title:    "CPU Usage",
		ColNames: []string{"PID", "CPU", "COMMAND"},
		Table:    rows,
		IdxCols:  []int{0},
	}), nil
}

func overallCPU(ctx context.Context) (float64, error) {
	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(usage) == 0 {
		return 0, nil
	}

	return usage[0], nil
}

func perCoreCPU(ctx context.Context) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, true)
}

func topProcessesByCPU(ctx context.Context, n int) ([]procSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	samples := make([]procSample, 0, len(procs))
	for _, p := range procs {
		usage, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		samples = append(samples, procSample{pid: p.Pid, usage: usage, name: name})
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].usage > samples[j].usage })
	if len(samples) > n {
		samples = samples[:n]
	}

	return samples, nil
}
