package monitor

import (
	"context"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
	"codeberg.org/mutker/waybarmon/internal/style"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
)

// Commands accepted on a segment's socket. Anything else triggers a
// plain refresh.
const (
	CmdNextTip = "next tip"
	CmdPrevTip = "prev tip"
	CmdRefresh = "refresh"
)

const maxCommandLen = 64

// Runner drives one sensor: it emits a cargo line per cycle and
// listens on the segment socket for tip rotation and refresh
// commands between cycles.
type Runner struct {
	sensor   Sensor
	tips     *TipState
	sheet    *style.Sheet
	caps     tooltip.Caps
	interval time.Duration
	lowest   *float64
	out      io.Writer
}

// NewRunner wires a sensor to its output stream. A nil lowest
// disables suppression; a non-positive interval makes Run one-shot.
func NewRunner(
	sensor Sensor,
	tips *TipState,
	sheet *style.Sheet,
	caps tooltip.Caps,
	interval time.Duration,
	lowest *float64,
	out io.Writer,
) *Runner {
	return &Runner{
		sensor:   sensor,
		tips:     tips,
		sheet:    sheet,
		caps:     caps,
		interval: interval,
		lowest:   lowest,
		out:      out,
	}
}

// Run emits the first cycle immediately, then loops on the segment
// socket until the context is cancelled. Each accept window lasts one
// interval; a timeout means no command arrived and the next cycle is
// due anyway.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Cycle(ctx); err != nil {
		return err
	}

	if r.interval <= 0 {
		return nil
	}

	sockPath, err := SockPath(r.sensor.Name())
	if err != nil {
		return err
	}
	// a previous run may have left its socket behind
	_ = os.Remove(sockPath)

	addr, err := net.ResolveUnixAddr("unix", sockPath)
	if err != nil {
		return errors.New().Wrap(errors.ErrSocketListen, err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return errors.New().Wrap(errors.ErrSocketListen, err)
	}
	defer os.Remove(sockPath)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		if err := ln.SetDeadline(time.Now().Add(r.interval)); err != nil {
			return errors.New().Wrap(errors.ErrSocketListen, err)
		}

		conn, err := ln.Accept()
		switch {
		case err == nil:
			r.handle(conn)
		case errors.Is(err, net.ErrClosed):
			return nil
		case isTimeout(err):
			// interval elapsed, fall through to the cycle
		default:
			logger.ErrorWithCode(errors.New().Wrap(errors.ErrSocketComm, err)).
				Msg("Failed to accept segment command")
		}

		if ctx.Err() != nil {
			return nil
		}

		if err := r.Cycle(ctx); err != nil {
			logger.ErrorWithCode(asAppError(err)).
				Str("segment", r.sensor.Name()).
				Msg("Monitoring cycle failed")
		}
	}
}

// Cycle runs one sense pass and writes the cargo line, or the hidden
// payload when the reading falls below the suppression floor.
func (r *Runner) Cycle(ctx context.Context) error {
	cargo, err := r.sensor.Sense(ctx, r.tips.Current())
	if err != nil {
		return err
	}

	if r.suppressed(cargo) {
		_, err := io.WriteString(r.out, waybar.Hidden+"\n")
		return err
	}

	line, err := cargo.Encode(r.sheet, r.caps)
	if err != nil {
		return err
	}
	_, err = r.out.Write(append(line, '\n'))

	return err
}

func (r *Runner) suppressed(cargo *waybar.Cargo) bool {
	if r.lowest == nil || cargo.Percentage == nil {
		return false
	}

	return *cargo.Percentage < *r.lowest
}

func (r *Runner) handle(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, maxCommandLen)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		logger.Debug().Err(err).Msg("Empty segment command")
		return
	}

	command := strings.TrimSpace(string(buf[:n]))
	switch command {
	case CmdNextTip:
		err = r.tips.Advance(1)
	case CmdPrevTip:
		err = r.tips.Advance(-1)
	default:
		// any other write is a refresh request
	}
	if err != nil {
		logger.ErrorWithCode(asAppError(err)).
			Str("command", command).
			Msg("Failed to rotate tooltip format")
	}
}

// Comm sends a command to a running segment's socket and waits for
// the connection to close, so the caller returns after the segment
// has picked it up.
func Comm(name, command string) error {
	sockPath, err := SockPath(name)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("unix", sockPath, time.Second)
	if err != nil {
		return errors.New().Wrap(errors.ErrSocketComm, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(command)); err != nil {
		return errors.New().Wrap(errors.ErrSocketComm, err)
	}

	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func asAppError(err error) errors.Error {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return errors.New().Wrap(errors.ErrInternal, err)
}
