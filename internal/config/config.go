package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config carries runtime options for zenmon.
type Config struct {
	FastInterval time.Duration `validate:"gt=0"`
	SlowInterval time.Duration `validate:"gt=0"`
	Window       int           `validate:"min=2"`
	GPUTimeout   time.Duration `validate:"gt=0"`
	GPUCommand   string        `validate:"required"`
	Repaint      time.Duration `validate:"gt=0"`
	LogLevel     string        `validate:"oneof=trace debug info warn error disabled"`

	Theme      string
	ThemesFile string
	JSON       bool
	LogFile    string
	EnvFile    string
}

func Default() Config {
	return Config{
		FastInterval: 500 * time.Millisecond,
		SlowInterval: 2 * time.Second,
		Window:       120,
		GPUTimeout:   time.Second,
		GPUCommand:   "nvidia-smi",
		Repaint:      100 * time.Millisecond,
		Theme:        "",
		ThemesFile:   "",
		JSON:         false,
		LogFile:      "",
		LogLevel:     "info",
		EnvFile:      "",
	}
}

// FromFlags parses flags, then applies environment overrides. When
// -env-file is given, that file is loaded into the environment first
// without clobbering variables that are already set; a file that cannot be
// read or parsed is an error.
func FromFlags(args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("zenmon", flag.ContinueOnError)
	fs.DurationVar(&cfg.FastInterval, "fast-interval", cfg.FastInterval, "CPU/RAM/temperature sampling interval")
	fs.DurationVar(&cfg.SlowInterval, "slow-interval", cfg.SlowInterval, "GPU polling interval")
	fs.IntVar(&cfg.Window, "window", cfg.Window, "number of samples kept for the graph")
	fs.DurationVar(&cfg.GPUTimeout, "gpu-timeout", cfg.GPUTimeout, "upper bound on one GPU query")
	fs.StringVar(&cfg.GPUCommand, "gpu-cmd", cfg.GPUCommand, "path to nvidia-smi")
	fs.DurationVar(&cfg.Repaint, "repaint", cfg.Repaint, "redraw interval")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "initial theme name")
	fs.StringVar(&cfg.ThemesFile, "themes", cfg.ThemesFile, "YAML file with extra themes")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print one JSON snapshot and exit")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file (discarded when empty)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace|debug|info|warn|error|disabled")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "dotenv file with ZENMON_* overrides")
	_ = fs.Parse(args)

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			return cfg, fmt.Errorf("loading env file %s: %w", cfg.EnvFile, err)
		}
	}

	if v := os.Getenv("ZENMON_FAST_INTERVAL"); v != "" {
		cfg.FastInterval = parseDuration(v, cfg.FastInterval)
	}
	if v := os.Getenv("ZENMON_SLOW_INTERVAL"); v != "" {
		cfg.SlowInterval = parseDuration(v, cfg.SlowInterval)
	}
	if v := os.Getenv("ZENMON_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Window = n
		}
	}
	if v := os.Getenv("ZENMON_GPU_TIMEOUT"); v != "" {
		cfg.GPUTimeout = parseDuration(v, cfg.GPUTimeout)
	}
	if v := os.Getenv("ZENMON_GPU_CMD"); v != "" {
		cfg.GPUCommand = v
	}
	if v := os.Getenv("ZENMON_REPAINT"); v != "" {
		cfg.Repaint = parseDuration(v, cfg.Repaint)
	}
	if v := os.Getenv("ZENMON_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("ZENMON_THEMES"); v != "" {
		cfg.ThemesFile = v
	}
	if v := os.Getenv("ZENMON_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// parseDuration accepts Go durations and bare seconds ("2" == "2s").
func parseDuration(v string, fallback time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(v); err == nil {
		return parsed
	} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil {
		return parsed
	}
	return fallback
}

var validate = validator.New()

// Validate rejects settings the sampler cannot run with.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
