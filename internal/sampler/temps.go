package sampler

import (
	"strings"

	"github.com/Dicklesworthstone/zenmon/internal/model"
)

// cpuTempPatterns are lower-case label substrings that identify the CPU
// package sensor, highest priority first. "tctl" is AMD, "package" Intel.
var cpuTempPatterns = []string{"tctl", "package"}

// SelectCPUTemperature picks the CPU temperature from a sensor list: the
// first sensor matching the highest-priority label pattern, otherwise the
// first sensor with a reading, otherwise 0. Best effort only.
func SelectCPUTemperature(sensors []model.Sensor) float32 {
	for _, p := range cpuTempPatterns {
		for _, s := range sensors {
			if s.Valid && strings.Contains(strings.ToLower(s.Label), p) {
				return float32(s.Celsius)
			}
		}
	}
	for _, s := range sensors {
		if s.Valid {
			return float32(s.Celsius)
		}
	}
	return 0
}
