// Package monitors implements the status-bar segments: each sensor
// reads one system concern and loads a waybar cargo with display
// text, style classes and a composed tooltip.
package monitors

import (
	"sort"

	"codeberg.org/mutker/waybarmon/internal/cache"
	"codeberg.org/mutker/waybarmon/internal/config"
	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
)

// Deps carries the shared wiring a sensor may need. Sensors ignore
// what does not concern them.
type Deps struct {
	Segment  config.Segment
	Store    cache.Store
	Caps     tooltip.Caps
	Interval float64
}

type builder func(Deps) (monitor.Sensor, error)

var registry = map[string]builder{
	"processor":   newProcessor,
	"memory":      newMemory,
	"load":        newLoad,
	"temperature": newTemperature,
	"io":          newIO,
	"netio":       newNetIO,
	"netcheck":    newNetcheck,
	"distro":      newDistro,
	"gpu":         newGPU,
}

// Names lists the known segment names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// New builds the sensor for a segment name.
func New(name string, deps Deps) (monitor.Sensor, error) {
	build, ok := registry[name]
	if !ok {
		return nil, errors.New().WithData(errors.ErrUnknownSegment, struct {
			Segment string
			Known   []string
		}{
			Segment: name,
			Known:   Names(),
		})
	}

	return build(deps)
}
