package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/zenmon/internal/model"
)

var (
	// ErrGPUUnavailable means the query tool could not be run, exited
	// non-zero or timed out.
	ErrGPUUnavailable = errors.New("gpu query tool unavailable")
	// ErrMalformedGPUOutput means the tool ran but its output did not
	// carry the four expected fields.
	ErrMalformedGPUOutput = errors.New("malformed gpu query output")
)

// Field order matters: ParseGPUOutput reads them positionally.
var gpuQueryArgs = []string{
	"--query-gpu=utilization.gpu,temperature.gpu,memory.total,memory.used",
	"--format=csv,noheader,nounits",
}

// PollGPU runs the GPU query tool once. On error the returned reading is
// zero and must not replace a previously cached one.
func (s *Source) PollGPU(ctx context.Context) (model.GPUReading, error) {
	out, err := s.runCmd(ctx, s.gpuTimeout, s.gpuCommand, gpuQueryArgs...)
	if err != nil {
		return model.GPUReading{}, fmt.Errorf("%w: %s: %w", ErrGPUUnavailable, s.gpuCommand, err)
	}
	return ParseGPUOutput(out)
}

// ParseGPUOutput parses "usage, temp, total MiB, used MiB" from the first
// non-empty line. Fields that do not parse are left at zero; fewer than
// four fields reject the whole reading.
func ParseGPUOutput(out string) (model.GPUReading, error) {
	line := firstLine(out)
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return model.GPUReading{}, fmt.Errorf("%w: %q", ErrMalformedGPUOutput, line)
	}

	total := parseFloat(parts[2])
	used := parseFloat(parts[3])
	r := model.GPUReading{
		Usage:        float32(parseFloat(parts[0])),
		TempC:        parseInt32(parts[1]),
		VRAMTotalMiB: uint64(total),
		VRAMUsedMiB:  uint64(used),
	}
	if total > 0 {
		r.MemPct = float32(used / total * 100)
	}
	return r, nil
}

func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// Helpers
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(s, 64)
	// ParseFloat accepts "NaN" and "Inf"; neither is a usable reading.
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseInt32(s string) int32 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}
