// Package telemetry owns the rolling history of CPU, RAM and GPU usage and
// decides, once per redraw tick, when to sample each source.
package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dicklesworthstone/zenmon/internal/model"
	"github.com/Dicklesworthstone/zenmon/internal/window"
)

const (
	DefaultWindowSize   = 120
	DefaultFastInterval = 500 * time.Millisecond
	DefaultSlowInterval = 2 * time.Second
)

// MetricSource is what the buffer samples. Refresh must be called before
// the CPU, Memory and Temperature getters are read.
type MetricSource interface {
	Refresh()
	CPU() float64
	Memory() float64
	MemoryUsedBytes() uint64
	Temperature() float32
	PollGPU(ctx context.Context) (model.GPUReading, error)
}

// Options tunes a Buffer. Zero fields use the package defaults.
type Options struct {
	WindowSize   int
	FastInterval time.Duration
	SlowInterval time.Duration
	Logger       *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.WindowSize <= 0 {
		o.WindowSize = DefaultWindowSize
	}
	if o.FastInterval <= 0 {
		o.FastInterval = DefaultFastInterval
	}
	if o.SlowInterval <= 0 {
		o.SlowInterval = DefaultSlowInterval
	}
	return o
}

// Buffer holds four time-aligned rolling windows fed by a fast path
// (CPU, memory, temperature) and a slow path (GPU). It is not safe for
// concurrent use; Tick and the readers belong to a single goroutine.
type Buffer struct {
	src   MetricSource
	log   zerolog.Logger
	start time.Time

	fast PollTimer
	slow PollTimer

	times *window.Window[float64]
	cpu   *window.Window[float64]
	ram   *window.Window[float64]
	gpu   *window.Window[float64]

	ramUsed uint64
	cpuTemp float32
	reading model.GPUReading
}

// New builds a buffer whose windows are full of zeros. Both timers are
// primed in the past so the first Tick samples every source.
func New(src MetricSource, start time.Time, opts Options) *Buffer {
	opts = opts.withDefaults()
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Buffer{
		src:   src,
		log:   log,
		start: start,
		fast:  NewPollTimer(start.Add(-2*opts.FastInterval), opts.FastInterval),
		slow:  NewPollTimer(start.Add(-2*opts.SlowInterval), opts.SlowInterval),
		times: window.New[float64](opts.WindowSize),
		cpu:   window.New[float64](opts.WindowSize),
		ram:   window.New[float64](opts.WindowSize),
		gpu:   window.New[float64](opts.WindowSize),
	}
}

// Tick samples whichever paths are due at now. The fast path runs first,
// so a sample taken in the same tick as a GPU poll carries the previous
// GPU value. Tick never fails; unavailable readings degrade to zero or to
// the last known GPU reading.
func (b *Buffer) Tick(ctx context.Context, now time.Time) {
	if b.fast.Fire(now) {
		b.src.Refresh()
		b.ramUsed = b.src.MemoryUsedBytes()
		b.cpuTemp = b.src.Temperature()
		b.push(model.Sample{
			Elapsed: now.Sub(b.start).Seconds(),
			CPU:     b.src.CPU(),
			RAM:     b.src.Memory(),
			GPU:     float64(b.reading.Usage),
		})
	}

	if b.slow.Fire(now) {
		r, err := b.src.PollGPU(ctx)
		if err != nil {
			b.log.Debug().Err(err).Msg("gpu poll failed, keeping last reading")
			return
		}
		b.reading = r
	}
}

// push appends to all four windows together so their lengths never differ.
func (b *Buffer) push(s model.Sample) {
	b.times.Push(s.Elapsed)
	b.cpu.Push(s.CPU)
	b.ram.Push(s.RAM)
	b.gpu.Push(s.GPU)
}

// Snapshot copies the four windows, oldest first.
func (b *Buffer) Snapshot() model.Snapshot {
	return model.Snapshot{
		Times: b.times.Values(),
		CPU:   b.cpu.Values(),
		RAM:   b.ram.Values(),
		GPU:   b.gpu.Values(),
	}
}

// Latest returns the newest row of the windows.
func (b *Buffer) Latest() model.Sample {
	return model.Sample{
		Elapsed: b.times.Last(),
		CPU:     b.cpu.Last(),
		RAM:     b.ram.Last(),
		GPU:     b.gpu.Last(),
	}
}

func (b *Buffer) Capacity() int { return b.times.Cap() }

func (b *Buffer) CPU() float64 { return b.cpu.Last() }
func (b *Buffer) RAM() float64 { return b.ram.Last() }

// GPU is the usage of the latest GPU reading, which may be newer than the
// last GPU value in the history.
func (b *Buffer) GPU() float32 { return b.reading.Usage }

func (b *Buffer) CPUTemp() float32             { return b.cpuTemp }
func (b *Buffer) GPUTemp() int32               { return b.reading.TempC }
func (b *Buffer) RAMUsedBytes() uint64         { return b.ramUsed }
func (b *Buffer) GPUReading() model.GPUReading { return b.reading }

// VRAM returns used and total video memory in bytes.
func (b *Buffer) VRAM() (used, total uint64) {
	return b.reading.VRAMUsedBytes(), b.reading.VRAMTotalBytes()
}

// Gauges collects the scalar accessors for the renderer.
func (b *Buffer) Gauges() model.Gauges {
	used, total := b.VRAM()
	return model.Gauges{
		CPU:            b.CPU(),
		RAM:            b.RAM(),
		GPU:            b.GPU(),
		CPUTempC:       b.CPUTemp(),
		GPUTempC:       b.GPUTemp(),
		RAMUsedBytes:   b.RAMUsedBytes(),
		VRAMUsedBytes:  used,
		VRAMTotalBytes: total,
	}
}
