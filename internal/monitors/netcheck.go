package monitors

import (
	"context"
	"encoding/hex"
	"net"
	"os"
	"os/exec"
	"strings"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
)

const (
	routeFile = "/proc/net/route"
	arpFile   = "/proc/net/arp"

	zoneInter = "inter"
	zoneIntra = "intra"
	zoneAlone = "alone"

	iconGlobe  = "🌍"
	iconHouse  = "🏠"
	iconIsland = "🏝"
)

// buddy environment variables list known gateway MACs, comma
// separated, so the bar can name the network it is on.
var buddyEnvVars = map[string]string{
	"home":    "WAYBARMON_HOME_MACS",
	"work":    "WAYBARMON_WORK_MACS",
	"hotspot": "WAYBARMON_HOTSPOT_MACS",
}

type netcheckSensor struct {
	internet string
	gateway  func() (ip, mac string)
	localIP  func() string
	ping     func(ctx context.Context, host string) bool
}

func newNetcheck(deps Deps) (monitor.Sensor, error) {
	return &netcheckSensor{
		internet: deps.Segment.Internet,
		gateway:  defaultGateway,
		localIP:  localIPv4,
		ping:     pingHost,
	}, nil
}

func (*netcheckSensor) Name() string { return "netcheck" }

func (*netcheckSensor) TipTypes() []string { return []string{"reach"} }

func (s *netcheckSensor) Sense(ctx context.Context, _ string) (*waybar.Cargo, error) {
	if s.internet == "" {
		return nil, errors.New().WithMessage(errors.ErrInvalidConfig, "netcheck needs an internet host")
	}

	gwIP, gwMAC := s.gateway()
	buddy := buddyFor(gwMAC)

	zone := zoneAlone
	switch {
	case s.ping(ctx, s.internet):
		zone = zoneInter
	case gwIP != "":
		zone = zoneIntra
	}

	cargo := waybar.New()
	cargo.SetClass(zone, buddy)
	cargo.SetAlt(zone)
	switch zone {
	case zoneInter:
		cargo.SetText(iconGlobe + " " + buddy)
	case zoneIntra:
		cargo.SetText(iconHouse + " " + buddy)
	default:
		cargo.SetText(iconIsland)
	}

	cargo.Tooltip = tooltip.Build(tooltip.Fields{
		Title:    "Network",
		RowNames: []string{"NETWORK", "IP", "GATEWAY"},
		Table: [][]string{
			{buddy},
			{s.localIP()},
			{gwIP},
		},
	})

	return cargo, nil
}

// buddyFor matches the gateway MAC against the configured networks.
func buddyFor(mac string) string {
	if mac == "" {
		return "unknown"
	}
	for buddy, envVar := range buddyEnvVars {
		for _, known := range strings.Split(os.Getenv(envVar), ",") {
			if known != "" && strings.EqualFold(strings.TrimSpace(known), mac) {
				return buddy
			}
		}
	}

	return "unknown"
}

// defaultGateway reads the kernel routing table for the default route
// and resolves the gateway's MAC from the arp table.
func defaultGateway() (string, string) {
	ip := gatewayFromRoutes(routeFile)
	if ip == "" {
		return "", ""
	}

	return ip, macFromARP(arpFile, ip)
}

func gatewayFromRoutes(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(raw), "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[1] != "00000000" {
			continue
		}
		// the gateway is hex encoded in host byte order
		octets, err := hex.DecodeString(fields[2])
		if err != nil || len(octets) != 4 {
			continue
		}

		return net.IPv4(octets[3], octets[2], octets[1], octets[0]).String()
	}

	return ""
}

func macFromARP(path, gatewayIP string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(raw), "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) >= 4 && fields[0] == gatewayIP {
			return fields[3]
		}
	}

	return ""
}

func localIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			return v4.String()
		}
	}

	return ""
}

func pingHost(ctx context.Context, host string) bool {
	return exec.CommandContext(ctx, "ping", "-c", "1", "-q", "-w", "2", host).Run() == nil
}
