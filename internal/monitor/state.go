package monitor

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/waybarmon/internal/errors"
)

const (
	runSubdir   = "waybar"
	stateSuffix = ".dat"
	sockSuffix  = ".sock"
	dirPerm     = 0o755
	filePerm    = 0o600
)

// RunDir returns the directory holding segment state and socket
// files, preferring $XDG_RUNTIME_DIR, then $TMPDIR, then /tmp, with
// ./tmp as the last resort.
func RunDir() (string, error) {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.Getenv("TMPDIR")
	}
	if base == "" {
		base = "/tmp"
	}
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		base = "./tmp"
	}

	dir := filepath.Join(base, runSubdir)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", errors.New().Wrap(errors.ErrStateFile, err)
	}

	return dir, nil
}

// StatePath returns the tip state file for a segment.
func StatePath(name string) (string, error) {
	dir, err := RunDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, name+stateSuffix), nil
}

// SockPath returns the command socket for a segment.
func SockPath(name string) (string, error) {
	dir, err := RunDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, name+sockSuffix), nil
}

// TipState tracks the current tooltip format of a segment in its
// state file, so the format survives across invocations and can be
// pushed from outside.
type TipState struct {
	types    []string
	fallback string
	path     string
}

// NewTipState validates the initial tip type, resolves the state file
// and registers the starting state. An initial type outside the
// sensor's set is a caller error; a configured default outside the
// set silently falls back to the first type.
func NewTipState(name string, types []string, initial, configured string) (*TipState, error) {
	if len(types) == 0 {
		types = []string{""}
	}

	fallback := types[0]
	if configured != "" && contains(types, configured) {
		fallback = configured
	}

	if initial != "" && !contains(types, initial) {
		return nil, errors.New().WithData(errors.ErrBadTipType, initial)
	}

	path, err := StatePath(name)
	if err != nil {
		return nil, err
	}

	s := &TipState{types: types, fallback: fallback, path: path}
	if initial == "" {
		initial = s.Current()
	}
	if err := s.Register(initial); err != nil {
		return nil, err
	}

	return s, nil
}

// Current reads the registered tip type; missing or stale state falls
// back to the configured default.
func (s *TipState) Current() string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return s.fallback
	}
	state := strings.TrimSpace(string(raw))
	if contains(s.types, state) {
		return state
	}

	return s.fallback
}

// Register stores the given tip type in the state file.
func (s *TipState) Register(state string) error {
	if err := os.WriteFile(s.path, []byte(state), filePerm); err != nil {
		return errors.New().Wrap(errors.ErrStateFile, err)
	}

	return nil
}

// Advance rotates the tip type by direction places, wrapping around.
func (s *TipState) Advance(direction int) error {
	idx := 0
	current := s.Current()
	for i, t := range s.types {
		if t == current {
			idx = i
			break
		}
	}
	n := len(s.types)
	next := ((idx+direction)%n + n) % n

	return s.Register(s.types[next])
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}

	return false
}
