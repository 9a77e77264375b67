package monitors

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/shirou/gopsutil/v3/host"
)

const iconPackage = "📦"

type distroSensor struct {
	platform func(ctx context.Context) (name, kernel string, err error)
	dnf      func(ctx context.Context) int
	flatpak  func(ctx context.Context) int
}

func newDistro(Deps) (monitor.Sensor, error) {
	return &distroSensor{
		platform: platformInfo,
		dnf:      dnfUpdates,
		flatpak:  flatpakUpdates,
	}, nil
}

func (*distroSensor) Name() string { return "distro" }

func (*distroSensor) TipTypes() []string { return []string{"updates"} }

func (s *distroSensor) Sense(ctx context.Context, _ string) (*waybar.Cargo, error) {
	name, kernel, err := s.platform(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSenseFailed, err)
	}

	dnfCount := s.dnf(ctx)
	flatpakCount := s.flatpak(ctx)
	total := dnfCount + flatpakCount

	cargo := waybar.New()
	if total > 0 {
		cargo.SetText(iconPackage + " " + strconv.Itoa(total))
		cargo.SetClass("distro", "stale")
	} else {
		cargo.HideText()
		cargo.SetClass("distro")
	}

	tip := tooltip.Build(tooltip.Fields{
		Title:    "Pending Updates",
		RowNames: []string{"dnf", "flatpak"},
		Table: [][]string{
			{strconv.Itoa(dnfCount)},
			{strconv.Itoa(flatpakCount)},
		},
	})
	tip.SetText(name + " · " + kernel)
	cargo.Tooltip = tip

	return cargo, nil
}

func platformInfo(ctx context.Context) (string, string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", "", err
	}
	name := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)

	return name, info.KernelVersion, nil
}

// dnfUpdates counts pending rpm updates. dnf exits 100 when updates
// exist, which is not a failure here.
func dnfUpdates(ctx context.Context) int {
	out, err := exec.CommandContext(ctx, "dnf", "check-update", "-q").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 100 {
			return 0
		}
	}

	return countPackageLines(string(out))
}

func flatpakUpdates(ctx context.Context) int {
	out, err := exec.CommandContext(ctx, "flatpak", "remote-ls", "--updates").Output()
	if err != nil {
		return 0
	}

	return countPackageLines(string(out))
}

func countPackageLines(out string) int {
	count := 0
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Obsoleting") {
			continue
		}
		count++
	}

	return count
}
