package monitors

import (
	"encoding/json"
	"strconv"
	"time"

	"codeberg.org/mutker/waybarmon/internal/cache"
	"codeberg.org/mutker/waybarmon/internal/logger"
)

// pct0 renders a percentage without decimals, pct1 with one.
func pct0(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + "%"
}

func pct1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func num(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// loadBaseline restores a monitor's previous counter snapshot from
// the last-value store. A missing or unreadable snapshot is not an
// error; the first cycle simply has no baseline.
func loadBaseline(store cache.Store, name string, dest any) (time.Time, bool) {
	payload, takenAt, err := store.Load(name)
	if err != nil {
		logger.Debug().Err(err).Str("monitor", name).Msg("Failed to load counter baseline")
		return time.Time{}, false
	}
	if payload == nil {
		return time.Time{}, false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		logger.Debug().Err(err).Str("monitor", name).Msg("Discarding unreadable counter baseline")
		return time.Time{}, false
	}

	return takenAt, true
}

// saveBaseline stores the current counter snapshot for the next
// invocation. Failures are logged and swallowed; a lost baseline only
// costs one cycle of rates.
func saveBaseline(store cache.Store, name string, src any) {
	payload, err := json.Marshal(src)
	if err != nil {
		logger.Debug().Err(err).Str("monitor", name).Msg("Failed to encode counter baseline")
		return
	}
	if err := store.Save(name, payload); err != nil {
		logger.Debug().Err(err).Str("monitor", name).Msg("Failed to save counter baseline")
	}
}

// rate converts a counter delta over elapsed seconds to a per-second
// rate, zero when the clock or the counter went backwards.
func rate(current, previous uint64, elapsed float64) float64 {
	if elapsed <= 0 || current < previous {
		return 0
	}

	return float64(current-previous) / elapsed
}

func clampPct(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
