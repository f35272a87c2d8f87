package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme is a named palette. Accent1..3 color CPU, RAM and GPU.
type Theme struct {
	Name    string         `yaml:"name"`
	Light   bool           `yaml:"light"`
	BG      lipgloss.Color `yaml:"bg"`
	Accent1 lipgloss.Color `yaml:"accent1"`
	Accent2 lipgloss.Color `yaml:"accent2"`
	Accent3 lipgloss.Color `yaml:"accent3"`
	Border  lipgloss.Color `yaml:"border"`
	Text    lipgloss.Color `yaml:"text"`
	TextDim lipgloss.Color `yaml:"text_dim"`
}

// Presets returns the built-in themes; the first is the default.
func Presets() []Theme {
	return []Theme{
		{
			Name:    "Cyberpunk",
			BG:      "#0A0C14",
			Accent1: "#FF006E",
			Accent2: "#00F6FF",
			Accent3: "#FFD60A",
			Border:  "#3C3C50",
			Text:    "#E6E6F0",
			TextDim: "#788296",
		},
		{
			Name:    "Catppuccin Mocha",
			BG:      "#1E1E2E",
			Accent1: "#F38BA8", // red
			Accent2: "#89B4FA", // blue
			Accent3: "#F9E2AF", // yellow
			Border:  "#313244",
			Text:    "#CDD6F4",
			TextDim: "#A6ADC8",
		},
		{
			Name:    "Tokyo Night",
			BG:      "#1A1B26",
			Accent1: "#F7768E",
			Accent2: "#7AA2F7",
			Accent3: "#E0AF68",
			Border:  "#414868",
			Text:    "#C0CAF5",
			TextDim: "#565F89",
		},
		{
			Name:    "Dark Traditional",
			BG:      "#121212",
			Accent1: "#BB86FC",
			Accent2: "#03DAC6",
			Accent3: "#CF6679",
			Border:  "#333333",
			Text:    "#FFFFFF",
			TextDim: "#B0B0B0",
		},
		{
			Name:    "Light Traditional",
			Light:   true,
			BG:      "#FFFFFF",
			Accent1: "#6200EE",
			Accent2: "#03DAC6",
			Accent3: "#B00020",
			Border:  "#E0E0E0",
			Text:    "#000000",
			TextDim: "#606060",
		},
	}
}

type themeFile struct {
	Themes []Theme `yaml:"themes"`
}

// LoadThemes reads a YAML file of the form
//
//	themes:
//	  - name: Nord
//	    accent1: "#BF616A"
//	    ...
func LoadThemes(path string) ([]Theme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading themes: %w", err)
	}
	var f themeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing themes: %w", err)
	}
	for i, t := range f.Themes {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("parsing themes: entry %d: %w", i, errors.New("missing name"))
		}
	}
	return f.Themes, nil
}

// MergeThemes overlays extra onto base. A theme whose name matches an
// existing one (case-insensitively) replaces it in place; others are appended.
func MergeThemes(base, extra []Theme) []Theme {
	out := append([]Theme(nil), base...)
	for _, t := range extra {
		if i := ThemeIndex(out, t.Name); i >= 0 {
			out[i] = t
			continue
		}
		out = append(out, t)
	}
	return out
}

// ThemeIndex returns the index of the named theme, or -1.
func ThemeIndex(themes []Theme, name string) int {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}
