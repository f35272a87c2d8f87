package sampler

import (
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Dicklesworthstone/zenmon/internal/model"
)

const (
	DefaultGPUCommand = "nvidia-smi"
	DefaultGPUTimeout = time.Second
)

// Source produces best-effort instantaneous hardware readings. CPU, memory
// and sensor values are cached by Refresh; the getters never touch the OS.
type Source struct {
	gpuCommand string
	gpuTimeout time.Duration
	log        zerolog.Logger

	cpuPct   float64
	memUsed  uint64
	memTotal uint64
	sensors  []model.Sensor

	// Overridable for testing.
	cpuPercent    func() (float64, error)
	virtualMemory func() (used, total uint64, err error)
	temperatures  func() ([]model.Sensor, error)
	runCmd        func(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)
}

// New returns a Source that queries the OS through gopsutil and the GPU
// through gpuCommand. Empty or zero arguments fall back to the defaults.
func New(gpuCommand string, gpuTimeout time.Duration, log zerolog.Logger) *Source {
	if gpuCommand == "" {
		gpuCommand = DefaultGPUCommand
	}
	if gpuTimeout <= 0 {
		gpuTimeout = DefaultGPUTimeout
	}
	return &Source{
		gpuCommand:    gpuCommand,
		gpuTimeout:    gpuTimeout,
		log:           log,
		cpuPercent:    cpuTotalPercent,
		virtualMemory: virtualMemory,
		temperatures:  sensorTemperatures,
		runCmd:        runCmd,
	}
}

// Refresh re-reads CPU utilization, memory and temperature sensors.
// Failed reads degrade to zero values.
func (s *Source) Refresh() {
	pct, err := s.cpuPercent()
	if err != nil {
		s.log.Debug().Err(err).Msg("cpu percent unavailable")
		pct = 0
	}
	s.cpuPct = pct

	used, total, err := s.virtualMemory()
	if err != nil {
		s.log.Debug().Err(err).Msg("virtual memory unavailable")
		used, total = 0, 0
	}
	s.memUsed, s.memTotal = used, total

	sensors, err := s.temperatures()
	if err != nil && len(sensors) == 0 {
		s.log.Debug().Err(err).Msg("temperature sensors unavailable")
	}
	s.sensors = sensors
}

// CPU returns global CPU utilization (0-100) as of the last Refresh.
func (s *Source) CPU() float64 { return s.cpuPct }

// Memory returns used/total memory in percent as of the last Refresh.
func (s *Source) Memory() float64 { return MemoryPercent(s.memUsed, s.memTotal) }

func (s *Source) MemoryUsedBytes() uint64 { return s.memUsed }

// Temperature returns the best guess at the CPU package temperature.
func (s *Source) Temperature() float32 { return SelectCPUTemperature(s.sensors) }

// MemoryPercent is used/total*100, or 0 when total is 0.
func MemoryPercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) * 100 / float64(total)
}

func cpuTotalPercent() (float64, error) {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}

func virtualMemory() (uint64, uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		return 0, 0, err
	}
	return vm.Used, vm.Total, nil
}

// sensorTemperatures lists sensors in gopsutil enumeration order. gopsutil
// returns partial results alongside warnings, so both are passed through.
func sensorTemperatures() ([]model.Sensor, error) {
	stats, err := host.SensorsTemperatures()
	sensors := make([]model.Sensor, 0, len(stats))
	for _, st := range stats {
		sensors = append(sensors, model.Sensor{
			Label:   st.SensorKey,
			Celsius: st.Temperature,
			// Unpopulated hwmon inputs read as 0, so 0 means no reading.
			Valid: st.Temperature > 0,
		})
	}
	return sensors, err
}

func runCmd(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return string(out), err
}
