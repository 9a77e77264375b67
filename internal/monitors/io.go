package monitors

import (
	"context"
	"sort"
	"strconv"
	"time"

	"codeberg.org/mutker/waybarmon/internal/cache"
	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/units"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	ioBlockingThreshold = 50.0

	iconDisk = "💽"
)

type diskCounters struct {
	ReadBytes  uint64 `json:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes"`
}

type cpuTimes struct {
	User   float64 `json:"user"`
	System float64 `json:"system"`
	Idle   float64 `json:"idle"`
	Iowait float64 `json:"iowait"`
	Other  float64 `json:"other"`
}

func (t cpuTimes) total() float64 {
	return t.User + t.System + t.Idle + t.Iowait + t.Other
}

// ioCounters is the persisted baseline for rate calculations.
type ioCounters struct {
	Disks map[string]diskCounters `json:"disks"`
	CPU   cpuTimes                `json:"cpu"`
}

type ioSample struct {
	pid        int32
	readBytes  uint64
	writeBytes uint64
	name       string
}

type ioSensor struct {
	caps    tooltip.Caps
	store   cache.Store
	read    func(ctx context.Context) (ioCounters, error)
	topByIO func(ctx context.Context, n int) ([]ioSample, error)
	now     func() time.Time

	prev   *ioCounters
	prevAt time.Time
}

func newIO(deps Deps) (monitor.Sensor, error) {
	return &ioSensor{
		caps:    deps.Caps,
		store:   deps.Store,
		read:    readIOCounters,
		topByIO: topProcessesByIO,
		now:     time.Now,
	}, nil
}

func (*ioSensor) Name() string { return "io" }

func (*ioSensor) TipTypes() []string {
	return []string{"combined", "pids", "disks"}
}

func (s *ioSensor) Sense(ctx context.Context, tipType string) (*waybar.Cargo, error) {
	current, err := s.read(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSenseFailed, err)
	}
	now := s.now()
	prev, prevAt := s.baseline()

	var iowait, busy float64
	if prev != nil {
		total := current.CPU.total() - prev.CPU.total()
		if total > 0 {
			iowait = clampPct(100 * (current.CPU.Iowait - prev.CPU.Iowait) / total)
			busy = clampPct(100 * (current.CPU.User + current.CPU.System -
				prev.CPU.User - prev.CPU.System) / total)
		}
	}

	cargo := waybar.New()
	cargo.SetText(iconDisk + " " + pct1(iowait))
	cargo.SetPercentage(iowait)
	if iowait > ioBlockingThreshold {
		cargo.SetClass("io", "blocking")
	} else {
		cargo.SetClass("io")
	}

	tip, err := s.tooltipFor(ctx, tipType, current, prev, prevAt, now)
	if err != nil {
		return nil, err
	}
	tip.SetText("busy " + pct1(busy) + ", iowait " + pct1(iowait))
	cargo.Tooltip = tip

	s.remember(current, now)

	return cargo, nil
}

func (s *ioSensor) baseline() (*ioCounters, time.Time) {
	if s.prev != nil {
		return s.prev, s.prevAt
	}

	var stored ioCounters
	if takenAt, ok := loadBaseline(s.store, s.Name(), &stored); ok {
		return &stored, takenAt
	}

	return nil, time.Time{}
}

func (s *ioSensor) remember(current ioCounters, now time.Time) {
	snapshot := current
	s.prev = &snapshot
	s.prevAt = now
	saveBaseline(s.store, s.Name(), current)
}

func (s *ioSensor) tooltipFor(
	ctx context.Context,
	tipType string,
	current ioCounters,
	prev *ioCounters,
	prevAt, now time.Time,
) (*tooltip.Tooltip, error) {
	switch tipType {
	case "disks":
		return diskTip(current, prev, prevAt, now), nil
	case "pids":
		return s.pidTip(ctx)
	default:
		pidTip, err := s.pidTip(ctx)
		if err != nil {
			return nil, err
		}

		return diskTip(current, prev, prevAt, now).Combine(pidTip, s.caps), nil
	}
}

func diskTip(current ioCounters, prev *ioCounters, prevAt, now time.Time) *tooltip.Tooltip {
	names := make([]string, 0, len(current.Disks))
	for name := range current.Disks {
		names = append(names, name)
	}
	sort.Strings(names)

	elapsed := now.Sub(prevAt).Seconds()
	rows := make([][]string, len(names))
	for i, name := range names {
		var read, write float64
		if prev != nil {
			if before, ok := prev.Disks[name]; ok {
				read = rate(current.Disks[name].ReadBytes, before.ReadBytes, elapsed)
				write = rate(current.Disks[name].WriteBytes, before.WriteBytes, elapsed)
			}
		}
		rows[i] = []string{rateString(read), rateString(write)}
	}

	return tooltip.Build(tooltip.Fields{
		Title:    "Disk IO",
		RowNames: names,
		ColNames: []string{"READ", "WRITE"},
		Table:    rows,
	})
}

func (s *ioSensor) pidTip(ctx context.Context) (*tooltip.Tooltip, error) {
	samples, err := s.topByIO(ctx, topProcessCount)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrCollectFailed, err)
	}

	rows := make([][]string, len(samples))
	for i, sample := range samples {
		rows[i] = []string{
			strconv.Itoa(int(sample.pid)),
			units.MustFormat(float64(sample.readBytes), units.Options{Spacer: " ", After: "B"}),
			units.MustFormat(float64(sample.writeBytes), units.Options{Spacer: " ", After: "B"}),
			sample.name,
		}
	}

	return tooltip.Build(tooltip.Fields{
		Title:    "Disk IO",
		ColNames: []string{"PID", "READ", "WRITE", "COMMAND"},
		Table:    rows,
		IdxCols:  []int{0},
	}), nil
}

func rateString(bytesPerSec float64) string {
	return units.MustFormat(bytesPerSec, units.Options{Spacer: " ", After: "B/s"})
}

func readIOCounters(ctx context.Context) (ioCounters, error) {
	stats, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return ioCounters{}, err
	}
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return ioCounters{}, err
	}

	counters := ioCounters{Disks: make(map[string]diskCounters, len(stats))}
	for name, stat := range stats {
		counters.Disks[name] = diskCounters{
			ReadBytes:  stat.ReadBytes,
			WriteBytes: stat.WriteBytes,
		}
	}
	if len(times) > 0 {
		t := times[0]
		counters.CPU = cpuTimes{
			User:   t.User,
			System: t.System,
			Idle:   t.Idle,
			Iowait: t.Iowait,
			Other:  t.Nice + t.Irq + t.Softirq + t.Steal,
		}
	}

	return counters, nil
}

func topProcessesByIO(ctx context.Context, n int) ([]ioSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	samples := make([]ioSample, 0, len(procs))
	for _, p := range procs {
		counters, err := p.IOCountersWithContext(ctx)
		if err != nil {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		samples = append(samples, ioSample{
			pid:        p.Pid,
			readBytes:  counters.ReadBytes,
			writeBytes: counters.WriteBytes,
			name:       name,
		})
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].readBytes+samples[i].writeBytes >
			samples[j].readBytes+samples[j].writeBytes
	})
	if len(samples) > n {
		samples = samples[:n]
	}

	return samples, nil
}
