package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/zenmon/internal/model"
	"github.com/Dicklesworthstone/zenmon/internal/telemetry"
)

const hudTitle = "ZEN MONITOR // SYSTEM_HUD"

// Model renders the telemetry buffer and drives its Tick from the redraw loop.
type Model struct {
	buf       *telemetry.Buffer
	themes    []Theme
	theme     int
	repaint   time.Duration
	ctx       context.Context
	ctxCancel context.CancelFunc
	width     int
	height    int
}

// New returns a model showing buf with themes[theme] selected. An empty
// theme list falls back to Presets.
func New(buf *telemetry.Buffer, themes []Theme, theme int, repaint time.Duration) *Model {
	if len(themes) == 0 {
		themes = Presets()
	}
	if theme < 0 || theme >= len(themes) {
		theme = 0
	}
	if repaint <= 0 {
		repaint = 100 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		buf:       buf,
		themes:    themes,
		theme:     theme,
		repaint:   repaint,
		ctx:       ctx,
		ctxCancel: cancel,
		width:     80,
		height:    24,
	}
}

// Messages
type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.ctxCancel()
			return m, tea.Quit
		case key.Matches(msg, keys.NextTheme):
			m.theme = (m.theme + 1) % len(m.themes)
		case key.Matches(msg, keys.PrevTheme):
			m.theme = (m.theme - 1 + len(m.themes)) % len(m.themes)
		}
	case tickMsg:
		m.buf.Tick(m.ctx, time.Time(msg))
		return m, tickCmd(m.repaint)
	}
	return m, nil
}

// Theme returns the active theme.
func (m *Model) Theme() Theme { return m.themes[m.theme] }

type styles struct {
	title, dim, label, card lipgloss.Style
}

func newStyles(th Theme) styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(th.Text).Background(th.BG).Padding(0, 1),
		dim:   lipgloss.NewStyle().Foreground(th.TextDim),
		label: lipgloss.NewStyle().Bold(true),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1).
			MarginRight(1),
	}
}

var (
	gaugeFill  = "█"
	gaugeEmpty = "░"
	okColor    = lipgloss.Color("#22C55E")
	okColorLow = lipgloss.Color("#15803D")
)

// statusColor keeps the ONLINE marker readable on light backgrounds.
func statusColor(th Theme) lipgloss.Color {
	if th.Light {
		return okColorLow
	}
	return okColor
}

func (m *Model) View() string {
	th := m.Theme()
	st := newStyles(th)
	g := m.buf.Gauges()

	header := st.title.Render(hudTitle) + "  " + st.dim.Render("["+th.Name+"]")

	cpuCard := gaugeCard(st, th.Accent1, "CPU", g.CPU,
		fmt.Sprintf("%.0f°C", g.CPUTempC))
	ramCard := gaugeCard(st, th.Accent2, "RAM", g.RAM,
		fmt.Sprintf("%.1fGB", float64(g.RAMUsedBytes)/1e9))
	gpuCard := gaugeCard(st, th.Accent3, "GPU", float64(g.GPU),
		fmt.Sprintf("%d°C  %.1f/%.1f GiB", g.GPUTempC, bytesToGiB(g.VRAMUsedBytes), bytesToGiB(g.VRAMTotalBytes)))

	gauges := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, ramCard, gpuCard)
	graph := st.card.Render(m.graph(st, th, m.buf.Snapshot()))

	status := st.dim.Render("SYSTEM STATUS: ") + lipgloss.NewStyle().Foreground(statusColor(th)).Render("ONLINE")
	help := st.dim.Render(helpLine(keys.ShortHelp()))

	return lipgloss.JoinVertical(lipgloss.Left, header, gauges, graph, status+"   "+help)
}

func (m *Model) graph(st styles, th Theme, s model.Snapshot) string {
	width := m.width - 10
	if width < 10 {
		width = 10
	}
	rows := []struct {
		name  string
		color lipgloss.Color
		data  []float64
	}{
		{"CPU", th.Accent1, s.CPU},
		{"RAM", th.Accent2, s.RAM},
		{"GPU", th.Accent3, s.GPU},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		c := lipgloss.NewStyle().Foreground(r.color)
		lines = append(lines, st.label.Foreground(r.color).Render(r.name)+" "+c.Render(sparkline(r.data, width)))
	}
	return strings.Join(lines, "\n")
}

// Helpers
func gaugeBar(pct float64, width int) string {
	pct = clampPct(pct)
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders the newest width points of a 0-100 series.
func sparkline(data []float64, width int) string {
	if width <= 0 || len(data) == 0 {
		return ""
	}
	if width < len(data) {
		data = data[len(data)-width:]
	}
	var b strings.Builder
	for _, v := range data {
		n := clampPct(v) / 100
		b.WriteRune(sparkBlocks[int(n*float64(len(sparkBlocks)-1)+0.5)])
	}
	return b.String()
}

// clampPct maps v into [0, 100]; NaN counts as 0.
func clampPct(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func gaugeCard(st styles, accent lipgloss.Color, title string, pct float64, detail string) string {
	c := lipgloss.NewStyle().Foreground(accent)
	content := st.label.Foreground(accent).Render(title) + "\n" +
		c.Render(gaugeBar(pct, 14)) + "\n" +
		st.dim.Render(detail)
	return st.card.Render(content)
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func bytesToGiB(b uint64) float64 { return float64(b) / (1024 * 1024 * 1024) }

// RunTUI starts the Bubble Tea program.
func RunTUI(m *Model) error {
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	m.ctxCancel()
	return err
}
