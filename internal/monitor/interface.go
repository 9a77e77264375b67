package monitor

import (
	"context"

	"codeberg.org/mutker/waybarmon/internal/waybar"
)

// Sensor is one status-bar segment: it reads system values and loads
// a cargo for the requested tooltip format. A sensor may keep state
// between cycles (previous counters for rate calculations) but must
// treat every Sense call as a fresh cycle.
type Sensor interface {
	// Name identifies the segment; state and socket files derive
	// from it
	Name() string
	// TipTypes lists the tooltip formats the sensor can rotate
	// through; sensors with a single fixed format return one entry
	TipTypes() []string
	// Sense runs one monitoring cycle
	Sense(ctx context.Context, tipType string) (*waybar.Cargo, error)
}
