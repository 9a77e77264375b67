package monitor_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/style"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init("error", true)
}

type fakeSensor struct {
	name     string
	tipTypes []string
	pct      *float64
	lastTip  string
}

func (f *fakeSensor) Name() string { return f.name }

func (f *fakeSensor) TipTypes() []string { return f.tipTypes }

func (f *fakeSensor) Sense(_ context.Context, tipType string) (*waybar.Cargo, error) {
	f.lastTip = tipType

	cargo := &waybar.Cargo{}
	cargo.SetText("42%")
	cargo.SetClass("fake")
	if f.pct != nil {
		cargo.SetPercentage(*f.pct)
	}
	cargo.Tooltip = tooltip.FromText("", "hello")

	return cargo, nil
}

func isolateRunDir(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
}

func TestTipStateRotation(t *testing.T) {
	isolateRunDir(t)

	types := []string{"combined", "pids", "processors"}
	state, err := monitor.NewTipState("processor", types, "", "")
	require.NoError(t, err)
	assert.Equal(t, "combined", state.Current())

	require.NoError(t, state.Advance(1))
	assert.Equal(t, "pids", state.Current())

	require.NoError(t, state.Advance(-2))
	assert.Equal(t, "processors", state.Current())

	require.NoError(t, state.Advance(1))
	assert.Equal(t, "combined", state.Current())
}

func TestTipStateConfiguredDefault(t *testing.T) {
	isolateRunDir(t)

	state, err := monitor.NewTipState("memory", []string{"combined", "pids"}, "", "pids")
	require.NoError(t, err)
	assert.Equal(t, "pids", state.Current())
}

func TestTipStateRejectsUnknownInitial(t *testing.T) {
	isolateRunDir(t)

	_, err := monitor.NewTipState("memory", []string{"combined"}, "bogus", "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrBadTipType, errors.CodeOf(err))
}

func TestTipStateSurvivesReopen(t *testing.T) {
	isolateRunDir(t)

	types := []string{"combined", "pids"}
	state, err := monitor.NewTipState("load", types, "", "")
	require.NoError(t, err)
	require.NoError(t, state.Advance(1))

	reopened, err := monitor.NewTipState("load", types, "", "")
	require.NoError(t, err)
	assert.Equal(t, "pids", reopened.Current())
}

func TestCycleWritesCargoLine(t *testing.T) {
	isolateRunDir(t)

	sensor := &fakeSensor{name: "fake", tipTypes: []string{"combined"}}
	tips, err := monitor.NewTipState(sensor.Name(), sensor.TipTypes(), "", "")
	require.NoError(t, err)

	var out bytes.Buffer
	runner := monitor.NewRunner(sensor, tips, style.NewSheet(), tooltip.DefaultCaps(), 0, nil, &out)
	require.NoError(t, runner.Cycle(context.Background()))

	assert.Equal(t, "combined", sensor.lastTip)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "42%", payload["text"])
	assert.Equal(t, "fake", payload["class"])
	assert.Equal(t, "hello", payload["tooltip"])
}

func TestCycleSuppressesBelowLowest(t *testing.T) {
	isolateRunDir(t)

	pct := 3.0
	lowest := 5.0
	sensor := &fakeSensor{name: "quiet", tipTypes: []string{"combined"}, pct: &pct}
	tips, err := monitor.NewTipState(sensor.Name(), sensor.TipTypes(), "", "")
	require.NoError(t, err)

	var out bytes.Buffer
	runner := monitor.NewRunner(sensor, tips, style.NewSheet(), tooltip.DefaultCaps(), 0, &lowest, &out)
	require.NoError(t, runner.Cycle(context.Background()))
	assert.JSONEq(t, waybar.Hidden, out.String())

	out.Reset()
	pct = 7.0
	require.NoError(t, runner.Cycle(context.Background()))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "7", payload["percentage"])
}

func TestRunOneShot(t *testing.T) {
	isolateRunDir(t)

	sensor := &fakeSensor{name: "oneshot", tipTypes: []string{"combined"}}
	tips, err := monitor.NewTipState(sensor.Name(), sensor.TipTypes(), "", "")
	require.NoError(t, err)

	var out bytes.Buffer
	runner := monitor.NewRunner(sensor, tips, style.NewSheet(), tooltip.DefaultCaps(), 0, nil, &out)
	require.NoError(t, runner.Run(context.Background()))
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestPidFileConflict(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	pidFile, err := monitor.AcquirePidFile("fake")
	require.NoError(t, err)

	_, err = monitor.AcquirePidFile("fake")
	require.Error(t, err)
	assert.Equal(t, errors.ErrAlreadyRunning, errors.CodeOf(err))

	pidFile.Release()
	again, err := monitor.AcquirePidFile("fake")
	require.NoError(t, err)
	again.Release()
}
