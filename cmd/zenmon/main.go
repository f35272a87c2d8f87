package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"

	"github.com/Dicklesworthstone/zenmon/internal/config"
	"github.com/Dicklesworthstone/zenmon/internal/model"
	"github.com/Dicklesworthstone/zenmon/internal/sampler"
	"github.com/Dicklesworthstone/zenmon/internal/telemetry"
	"github.com/Dicklesworthstone/zenmon/internal/ui"
)

var _ telemetry.MetricSource = (*sampler.Source)(nil)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "zenmon:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout *os.File) error {
	cfg, err := config.FromFlags(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	jsonMode := cfg.JSON || !term.IsTerminal(stdout.Fd())

	log, closeLog, err := newLogger(cfg, jsonMode)
	if err != nil {
		return err
	}
	defer closeLog()

	src := sampler.New(cfg.GPUCommand, cfg.GPUTimeout, log.With().Str("component", "sampler").Logger())
	bufLog := log.With().Str("component", "telemetry").Logger()
	buf := telemetry.New(src, time.Now(), telemetry.Options{
		WindowSize:   cfg.Window,
		FastInterval: cfg.FastInterval,
		SlowInterval: cfg.SlowInterval,
		Logger:       &bufLog,
	})

	log.Info().
		Dur("fast_interval", cfg.FastInterval).
		Dur("slow_interval", cfg.SlowInterval).
		Int("window", cfg.Window).
		Str("gpu_cmd", cfg.GPUCommand).
		Bool("json", jsonMode).
		Msg("starting zenmon")

	if jsonMode {
		return writeJSON(stdout, buf, cfg.FastInterval)
	}

	themes := ui.Presets()
	if cfg.ThemesFile != "" {
		extra, err := ui.LoadThemes(cfg.ThemesFile)
		if err != nil {
			return err
		}
		themes = ui.MergeThemes(themes, extra)
	}
	idx := 0
	if cfg.Theme != "" {
		if idx = ui.ThemeIndex(themes, cfg.Theme); idx < 0 {
			log.Warn().Str("theme", cfg.Theme).Msg("unknown theme, using default")
			idx = 0
		}
	}

	return ui.RunTUI(ui.New(buf, themes, idx, cfg.Repaint))
}

type jsonReport struct {
	Gauges   model.Gauges   `json:"gauges"`
	Snapshot model.Snapshot `json:"history"`
}

// writeJSON samples twice, one fast interval apart, so CPU utilization is
// measured over a real window, then prints the result.
func writeJSON(w io.Writer, buf *telemetry.Buffer, fast time.Duration) error {
	ctx := context.Background()
	buf.Tick(ctx, time.Now())
	time.Sleep(fast + 10*time.Millisecond)
	buf.Tick(ctx, time.Now())

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Gauges: buf.Gauges(), Snapshot: buf.Snapshot()})
}

// newLogger writes to -log-file when set. Without one, logs go to stderr in
// JSON mode and nowhere while the TUI owns the terminal.
func newLogger(cfg config.Config, jsonMode bool) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("log level: %w", err)
	}

	var out io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	case jsonMode:
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closeFn, nil
}
