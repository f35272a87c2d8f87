package sampler

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dicklesworthstone/zenmon/internal/model"
)

func newTestSource() *Source {
	s := New("", 0, zerolog.Nop())
	s.cpuPercent = func() (float64, error) { return 0, nil }
	s.virtualMemory = func() (uint64, uint64, error) { return 0, 0, nil }
	s.temperatures = func() ([]model.Sensor, error) { return nil, nil }
	s.runCmd = func(context.Context, time.Duration, string, ...string) (string, error) {
		return "", errors.New("not stubbed")
	}
	return s
}

func TestNewDefaults(t *testing.T) {
	s := New("", 0, zerolog.Nop())
	if s.gpuCommand != DefaultGPUCommand {
		t.Errorf("gpuCommand = %q, want %q", s.gpuCommand, DefaultGPUCommand)
	}
	if s.gpuTimeout != DefaultGPUTimeout {
		t.Errorf("gpuTimeout = %v, want %v", s.gpuTimeout, DefaultGPUTimeout)
	}
}

func TestMemoryPercent(t *testing.T) {
	tests := []struct {
		name        string
		used, total uint64
		want        float64
	}{
		{name: "zero total", used: 0, total: 0, want: 0},
		{name: "used without total", used: 10, total: 0, want: 0},
		{name: "three quarters", used: 12, total: 16, want: 75},
		{name: "full", used: 8, total: 8, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MemoryPercent(tt.used, tt.total)
			if math.IsNaN(got) || got != tt.want {
				t.Errorf("MemoryPercent(%d, %d) = %f, want %f", tt.used, tt.total, got, tt.want)
			}
		})
	}
}

func TestRefreshCachesReadings(t *testing.T) {
	s := newTestSource()
	s.cpuPercent = func() (float64, error) { return 42.5, nil }
	s.virtualMemory = func() (uint64, uint64, error) { return 4 << 30, 16 << 30, nil }
	s.temperatures = func() ([]model.Sensor, error) {
		return []model.Sensor{{Label: "k10temp Tctl", Celsius: 61, Valid: true}}, nil
	}

	if s.CPU() != 0 || s.Memory() != 0 || s.Temperature() != 0 {
		t.Fatal("getters must not read before Refresh")
	}

	s.Refresh()

	if s.CPU() != 42.5 {
		t.Errorf("CPU = %f, want 42.5", s.CPU())
	}
	if s.Memory() != 25 {
		t.Errorf("Memory = %f, want 25", s.Memory())
	}
	if s.MemoryUsedBytes() != 4<<30 {
		t.Errorf("MemoryUsedBytes = %d, want %d", s.MemoryUsedBytes(), uint64(4<<30))
	}
	if s.Temperature() != 61 {
		t.Errorf("Temperature = %f, want 61", s.Temperature())
	}
}

func TestRefreshDegradesToZero(t *testing.T) {
	s := newTestSource()
	s.cpuPercent = func() (float64, error) { return 50, nil }
	s.virtualMemory = func() (uint64, uint64, error) { return 1, 2, nil }
	s.Refresh()

	boom := errors.New("boom")
	s.cpuPercent = func() (float64, error) { return 99, boom }
	s.virtualMemory = func() (uint64, uint64, error) { return 1, 2, boom }
	s.temperatures = func() ([]model.Sensor, error) { return nil, boom }
	s.Refresh()

	if s.CPU() != 0 {
		t.Errorf("CPU = %f, want 0 after failed read", s.CPU())
	}
	if s.Memory() != 0 {
		t.Errorf("Memory = %f, want 0 after failed read", s.Memory())
	}
	if s.Temperature() != 0 {
		t.Errorf("Temperature = %f, want 0 after failed read", s.Temperature())
	}
}

func TestRefreshKeepsPartialSensors(t *testing.T) {
	s := newTestSource()
	s.temperatures = func() ([]model.Sensor, error) {
		return []model.Sensor{{Label: "acpitz", Celsius: 48, Valid: true}}, errors.New("some sensors failed")
	}
	s.Refresh()
	if s.Temperature() != 48 {
		t.Errorf("Temperature = %f, want 48", s.Temperature())
	}
}

func TestSelectCPUTemperature(t *testing.T) {
	tests := []struct {
		name    string
		sensors []model.Sensor
		want    float32
	}{
		{
			name: "label match wins over first available",
			sensors: []model.Sensor{
				{Label: "Tctl", Celsius: 55, Valid: true},
				{Label: "Core 0", Celsius: 40, Valid: true},
				{Label: "Core 1", Celsius: 42, Valid: true},
			},
			want: 55,
		},
		{
			name: "match later in list",
			sensors: []model.Sensor{
				{Label: "acpitz", Celsius: 30, Valid: true},
				{Label: "coretemp_package_id_0", Celsius: 70, Valid: true},
			},
			want: 70,
		},
		{
			name: "tctl has priority over package",
			sensors: []model.Sensor{
				{Label: "Package id 0", Celsius: 66, Valid: true},
				{Label: "k10temp_tctl", Celsius: 58, Valid: true},
			},
			want: 58,
		},
		{
			name: "case insensitive",
			sensors: []model.Sensor{
				{Label: "nvme", Celsius: 35, Valid: true},
				{Label: "TCTL", Celsius: 51, Valid: true},
			},
			want: 51,
		},
		{
			name: "fallback to first sensor with a reading",
			sensors: []model.Sensor{
				{Label: "Core 0", Valid: false},
				{Label: "Core 1", Celsius: 42, Valid: true},
				{Label: "Core 2", Celsius: 44, Valid: true},
			},
			want: 42,
		},
		{
			name: "matched sensor without reading is skipped",
			sensors: []model.Sensor{
				{Label: "Tctl", Valid: false},
				{Label: "Core 0", Celsius: 40, Valid: true},
			},
			want: 40,
		},
		{name: "no sensors", sensors: nil, want: 0},
		{
			name:    "no readings",
			sensors: []model.Sensor{{Label: "Tctl"}, {Label: "Core 0"}},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectCPUTemperature(tt.sensors); got != tt.want {
				t.Errorf("SelectCPUTemperature = %f, want %f", got, tt.want)
			}
		})
	}
}
