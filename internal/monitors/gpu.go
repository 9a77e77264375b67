package monitors

import (
	"context"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
	"codeberg.org/mutker/waybarmon/internal/monitor"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	gpuBusyThreshold = 75.0

	iconGamepad = "🎮"
)

type gpuReading struct {
	name        string
	temperature uint32
	utilization uint32
	fanSpeed    uint32
	powerWatts  float64
}

type gpuSensor struct {
	read func(ctx context.Context) (gpuReading, error)
}

func newGPU(Deps) (monitor.Sensor, error) {
	return &gpuSensor{read: readGPU}, nil
}

func (*gpuSensor) Name() string { return "gpu" }

func (*gpuSensor) TipTypes() []string { return []string{"device"} }

func (s *gpuSensor) Sense(ctx context.Context, _ string) (*waybar.Cargo, error) {
	reading, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	util := float64(reading.utilization)

	cargo := waybar.New()
	cargo.SetText(iconGamepad + " " + pct0(util))
	cargo.SetPercentage(util)
	if util > gpuBusyThreshold {
		cargo.SetClass("gpu", "busy")
	} else {
		cargo.SetClass("gpu")
	}

	cargo.Tooltip = tooltip.Build(tooltip.Fields{
		Title:    reading.name,
		RowNames: []string{"TEMP", "UTIL", "FAN", "POWER"},
		Table: [][]string{
			{num(float64(reading.temperature), 0) + "°C"},
			{pct0(util)},
			{pct0(float64(reading.fanSpeed))},
			{num(reading.powerWatts, 1) + " W"},
		},
	})

	return cargo, nil
}

var nvmlReady bool

// readGPU reads the first device through NVML. Initialization sticks
// for the process lifetime; waybar restarts the module on failure
// anyway.
func readGPU(_ context.Context) (gpuReading, error) {
	errFactory := errors.New()

	if !nvmlReady {
		if ret := nvml.Init(); ret != nvml.SUCCESS {
			return gpuReading{}, errFactory.WithData(errors.ErrInitGPU, nvml.ErrorString(ret))
		}
		nvmlReady = true
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		return gpuReading{}, errFactory.WithData(errors.ErrInitGPU, nvml.ErrorString(ret))
	}

	reading := gpuReading{name: "GPU"}
	if name, ret := device.GetName(); ret == nvml.SUCCESS {
		reading.name = name
	} else {
		logger.Warn().Msgf("Failed to get GPU name: %v", nvml.ErrorString(ret))
	}

	temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return gpuReading{}, errFactory.WithData(errors.ErrSenseFailed, nvml.ErrorString(ret))
	}
	reading.temperature = temp

	util, ret := device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return gpuReading{}, errFactory.WithData(errors.ErrSenseFailed, nvml.ErrorString(ret))
	}
	reading.utilization = util.Gpu

	if speed, ret := device.GetFanSpeed(); ret == nvml.SUCCESS {
		reading.fanSpeed = speed
	}
	if milliwatts, ret := device.GetPowerUsage(); ret == nvml.SUCCESS {
		reading.powerWatts = float64(milliwatts) / 1000
	}

	return reading, nil
}
