package cache

import "time"

// Store is the single last-known-value cache. Each monitor keeps at
// most one snapshot: rate monitors persist their previous counters so
// one-shot invocations can still compute deltas.
type Store interface {
	// Load returns the stored payload and its timestamp, or a nil
	// payload when the monitor has no snapshot yet
	Load(monitor string) ([]byte, time.Time, error)
	// Save replaces the monitor's snapshot
	Save(monitor string, payload []byte) error
	Close() error
}

// Config configures the store.
type Config struct {
	Enabled bool
	DBPath  string
}
