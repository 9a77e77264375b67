package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
)

// PidFile guards against two looping instances of the same segment
// feeding the bar at once.
type PidFile struct {
	path string
}

// AcquirePidFile writes the pid file for a segment, failing when
// another live process already holds it. Stale files from crashed
// runs are taken over.
func AcquirePidFile(name string) (*PidFile, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("waybarmon-%s.pid", name))

	if raw, err := os.ReadFile(path); err == nil {
		pid, convErr := strconv.Atoi(strings.TrimSpace(string(raw)))
		if convErr == nil && processAlive(pid) {
			return nil, errors.New().WithData(errors.ErrAlreadyRunning, struct {
				Segment string
				PID     int
			}{
				Segment: name,
				PID:     pid,
			})
		}
		logger.Debug().Str("path", path).Msg("Removing stale pid file")
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), filePerm); err != nil {
		return nil, errors.New().Wrap(errors.ErrStateFile, err)
	}

	return &PidFile{path: path}, nil
}

// Release removes the pid file.
func (p *PidFile) Release() {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		logger.Debug().Err(err).Msg("Failed to remove pid file")
	}
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return proc.Signal(syscall.Signal(0)) == nil
}
