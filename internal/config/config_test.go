package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.FastInterval != 500*time.Millisecond || cfg.SlowInterval != 2*time.Second || cfg.Window != 120 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestFromFlags(t *testing.T) {
	cfg, err := FromFlags([]string{
		"-fast-interval", "250ms",
		"-slow-interval", "5s",
		"-window", "60",
		"-gpu-cmd", "/usr/local/bin/nvidia-smi",
		"-theme", "Tokyo Night",
		"-json",
	})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	if cfg.FastInterval != 250*time.Millisecond {
		t.Errorf("FastInterval = %v", cfg.FastInterval)
	}
	if cfg.SlowInterval != 5*time.Second {
		t.Errorf("SlowInterval = %v", cfg.SlowInterval)
	}
	if cfg.Window != 60 {
		t.Errorf("Window = %d", cfg.Window)
	}
	if cfg.GPUCommand != "/usr/local/bin/nvidia-smi" {
		t.Errorf("GPUCommand = %q", cfg.GPUCommand)
	}
	if cfg.Theme != "Tokyo Night" || !cfg.JSON {
		t.Errorf("Theme/JSON = %q/%v", cfg.Theme, cfg.JSON)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ZENMON_FAST_INTERVAL", "1")
	t.Setenv("ZENMON_SLOW_INTERVAL", "3s")
	t.Setenv("ZENMON_WINDOW", "30")
	t.Setenv("ZENMON_GPU_CMD", "/opt/nvidia-smi")
	t.Setenv("ZENMON_LOG_LEVEL", "debug")
	t.Setenv("ZENMON_GPU_TIMEOUT", "300ms")
	t.Setenv("ZENMON_REPAINT", "2")
	t.Setenv("ZENMON_THEMES", "/etc/zenmon/themes.yaml")

	cfg, err := FromFlags([]string{"-window", "90", "-gpu-timeout", "5s"})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	if cfg.FastInterval != time.Second {
		t.Errorf("FastInterval = %v, want 1s from bare seconds", cfg.FastInterval)
	}
	if cfg.SlowInterval != 3*time.Second {
		t.Errorf("SlowInterval = %v", cfg.SlowInterval)
	}
	if cfg.Window != 30 {
		t.Errorf("Window = %d, want env to win", cfg.Window)
	}
	if cfg.GPUCommand != "/opt/nvidia-smi" || cfg.LogLevel != "debug" {
		t.Errorf("GPUCommand/LogLevel = %q/%q", cfg.GPUCommand, cfg.LogLevel)
	}
	if cfg.GPUTimeout != 300*time.Millisecond {
		t.Errorf("GPUTimeout = %v, want env to win", cfg.GPUTimeout)
	}
	if cfg.Repaint != 2*time.Second {
		t.Errorf("Repaint = %v, want 2s from bare seconds", cfg.Repaint)
	}
	if cfg.ThemesFile != "/etc/zenmon/themes.yaml" {
		t.Errorf("ThemesFile = %q", cfg.ThemesFile)
	}
}

func TestBadEnvKeepsFlagValue(t *testing.T) {
	t.Setenv("ZENMON_FAST_INTERVAL", "soon")
	t.Setenv("ZENMON_WINDOW", "lots")
	t.Setenv("ZENMON_REPAINT", "often")
	cfg, err := FromFlags([]string{"-fast-interval", "750ms", "-window", "40", "-repaint", "50ms"})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	if cfg.Repaint != 50*time.Millisecond {
		t.Errorf("Repaint = %v, want flag value", cfg.Repaint)
	}
	if cfg.FastInterval != 750*time.Millisecond || cfg.Window != 40 {
		t.Errorf("got %v/%d", cfg.FastInterval, cfg.Window)
	}
}

func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zenmon.env")
	if err := os.WriteFile(path, []byte("ZENMON_THEME=Cyberpunk\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ZENMON_THEME", "")
	os.Unsetenv("ZENMON_THEME")

	cfg, err := FromFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	if cfg.Theme != "Cyberpunk" {
		t.Errorf("Theme = %q, want value from env file", cfg.Theme)
	}
}

func TestEnvFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.env")
	if _, err := FromFlags([]string{"-env-file", path}); err == nil {
		t.Error("expected error for a missing env file")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero fast interval", mutate: func(c *Config) { c.FastInterval = 0 }},
		{name: "negative slow interval", mutate: func(c *Config) { c.SlowInterval = -time.Second }},
		{name: "tiny window", mutate: func(c *Config) { c.Window = 1 }},
		{name: "no gpu command", mutate: func(c *Config) { c.GPUCommand = "" }},
		{name: "zero gpu timeout", mutate: func(c *Config) { c.GPUTimeout = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
