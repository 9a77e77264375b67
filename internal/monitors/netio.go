package monitors

import (
	"context"
	"time"

	"codeberg.org/mutker/waybarmon/internal/cache"
	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/units"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// netCounters is the persisted baseline for throughput rates.
type netCounters struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

type netIOSensor struct {
	store       cache.Store
	promise     float64
	ignoreBelow float64
	read        func(ctx context.Context) (netCounters, error)
	now         func() time.Time

	prev   *netCounters
	prevAt time.Time
}

func newNetIO(deps Deps) (monitor.Sensor, error) {
	return &netIOSensor{
		store:       deps.Store,
		promise:     deps.Segment.Promise,
		ignoreBelow: deps.Segment.IgnoreBelow,
		read:        readNetCounters,
		now:         time.Now,
	}, nil
}

func (*netIOSensor) Name() string { return "netio" }

func (*netIOSensor) TipTypes() []string { return []string{"throughput"} }

func (s *netIOSensor) Sense(ctx context.Context, _ string) (*waybar.Cargo, error) {
	current, err := s.read(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSenseFailed, err)
	}
	now := s.now()
	prev, prevAt := s.baseline()

	var up, down float64
	if prev != nil {
		elapsed := now.Sub(prevAt).Seconds()
		up = rate(current.BytesSent, prev.BytesSent, elapsed)
		down = rate(current.BytesRecv, prev.BytesRecv, elapsed)
	}

	cargo := waybar.New()
	cargo.SetText("↑ " + rateString(up) + " ↓ " + rateString(down))
	if up < s.ignoreBelow && down < s.ignoreBelow {
		// idle traffic is noise on the bar; the tooltip keeps the detail
		cargo.HideText()
	}

	if s.promise > 0 {
		pct := 100 * (up + down) / s.promise
		cargo.SetPercentage(clampPct(pct))
		cargo.SetClass(netioClass(pct))
	} else {
		cargo.SetClass("netio")
	}

	cargo.Tooltip = tooltip.Build(tooltip.Fields{
		Title:    "Network IO",
		RowNames: []string{"UP", "DOWN"},
		ColNames: []string{"RATE", "TOTAL"},
		Table: [][]string{
			{rateString(up), units.MustFormat(float64(current.BytesSent), units.Options{Spacer: " ", After: "B"})},
			{rateString(down), units.MustFormat(float64(current.BytesRecv), units.Options{Spacer: " ", After: "B"})},
		},
	})

	s.remember(current, now)

	return cargo, nil
}

func (s *netIOSensor) baseline() (*netCounters, time.Time) {
	if s.prev != nil {
		return s.prev, s.prevAt
	}

	var stored netCounters
	if takenAt, ok := loadBaseline(s.store, s.Name(), &stored); ok {
		return &stored, takenAt
	}

	return nil, time.Time{}
}

func (s *netIOSensor) remember(current netCounters, now time.Time) {
	snapshot := current
	s.prev = &snapshot
	s.prevAt = now
	saveBaseline(s.store, s.Name(), current)
}

// netioClass grades throughput against the promised line speed.
func netioClass(pct float64) string {
	switch {
	case pct >= 100:
		return "lucky"
	case pct >= 75:
		return "all"
	case pct >= 50:
		return "most"
	case pct >= 25:
		return "lot"
	default:
		return "idle"
	}
}

func readNetCounters(ctx context.Context) (netCounters, error) {
	stats, err := psnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return netCounters{}, err
	}
	if len(stats) == 0 {
		return netCounters{}, nil
	}

	return netCounters{
		BytesSent: stats[0].BytesSent,
		BytesRecv: stats[0].BytesRecv,
	}, nil
}
