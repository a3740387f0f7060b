// Package ui is the interactive terminal chart: the same night the figure
// renderer draws, viewed as colored columns in the terminal.
package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-visplot/internal/chart"
	"github.com/litescript/ls-visplot/internal/ephem"
)

const (
	// Sky background colors by darkness class
	colorDay      = "252" // light gray
	colorCivil    = "246"
	colorNautical = "240"
	colorAstro    = "234" // near black
	colorMoonlit  = "24"  // dark steel blue over dark sky

	colorAxis   = "244"
	colorCursor = "229" // gold
)

// targetGlyphs cycle per target, matching the legend order.
var targetGlyphs = []rune{'●', '▲', '■', '◆', '★', '✚'}

// targetColors cycle per target.
var targetColors = []lipgloss.Color{"213", "117", "156", "215", "141", "210"}

// Panel selects which quantity the canvas plots.
type Panel int

const (
	PanelAltitude Panel = iota
	PanelAzimuth
)

// ChartData is the precomputed night handed to the viewer.
type ChartData struct {
	Site    string
	Date    string
	Series  ephem.Series
	Bands   ephem.Bands
	Targets []chart.TargetTrack
}

// Model is the bubbletea model for the chart viewer.
type Model struct {
	data   ChartData
	width  int
	height int
	ready  bool

	panel  Panel
	cursor int // sample index under the time cursor
}

// New creates a viewer model centered on the middle of the night.
func New(data ChartData) Model {
	return Model{
		data:   data,
		cursor: len(data.Series.Times) / 2,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "a":
			if m.panel == PanelAltitude {
				m.panel = PanelAzimuth
			} else {
				m.panel = PanelAltitude
			}
		case "left", "h":
			m.cursor = m.clampCursor(m.cursor - m.cursorStep())
		case "right", "l":
			m.cursor = m.clampCursor(m.cursor + m.cursorStep())
		case "home", "0":
			m.cursor = len(m.data.Series.Times) / 2
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
	}

	return m, nil
}

// cursorStep moves the cursor one screen column's worth of samples.
func (m Model) cursorStep() int {
	w := m.canvasWidth()
	if w <= 0 {
		return 1
	}
	step := len(m.data.Series.Times) / w
	if step < 1 {
		step = 1
	}
	return step
}

func (m Model) clampCursor(i int) int {
	if i < 0 {
		return 0
	}
	if n := len(m.data.Series.Times); i >= n {
		return n - 1
	}
	return i
}

func (m Model) canvasWidth() int {
	return m.width - 7 // leave room for the y-axis gutter
}

func (m Model) canvasHeight() int {
	return m.height - 6 // header, axis, readout, footer
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Preparing chart..."
	}
	if m.width < 30 || m.height < 12 {
		return "Chart view requires a larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	b.WriteString(m.renderTimeAxis())
	b.WriteString("\n")
	b.WriteString(m.renderReadout())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAxis))

	panel := "Altitude"
	if m.panel == PanelAzimuth {
		panel = "Azimuth"
	}
	title := titleStyle.Render(fmt.Sprintf("Visibility from %s, %s", m.data.Site, m.data.Date))

	var legend []string
	for i, tt := range m.data.Targets {
		style := lipgloss.NewStyle().Foreground(targetColors[i%len(targetColors)])
		legend = append(legend, style.Render(fmt.Sprintf("%c %s", targetGlyphs[i%len(targetGlyphs)], tt.Label)))
	}
	return fmt.Sprintf("%s | %s | %s", title, dimStyle.Render(panel), strings.Join(legend, "  "))
}

// yRange is the plotted value span for the active panel.
func (m Model) yRange() (lo, hi float64) {
	if m.panel == PanelAzimuth {
		return 0, 360
	}
	return -90, 90
}

func (m Model) value(tr ephem.Track, i int) float64 {
	if m.panel == PanelAzimuth {
		return tr.Az[i]
	}
	return tr.Alt[i]
}

// sampleFor maps a canvas column to a sample index.
func (m Model) sampleFor(col, width int) int {
	n := len(m.data.Series.Times)
	i := col * (n - 1) / (width - 1)
	return m.clampCursor(i)
}

func (m Model) renderCanvas() string {
	width, height := m.canvasWidth(), m.canvasHeight()
	lo, hi := m.yRange()

	glyphs := make([][]rune, height)
	fgs := make([][]lipgloss.Color, height)
	bgs := make([]lipgloss.Color, width)
	for y := range glyphs {
		glyphs[y] = make([]rune, width)
		fgs[y] = make([]lipgloss.Color, width)
		for x := range glyphs[y] {
			glyphs[y][x] = ' '
		}
	}

	cursorCol := -1
	for x := 0; x < width; x++ {
		i := m.sampleFor(x, width)
		bgs[x] = m.skyColor(i)
		if cursorCol < 0 && i >= m.cursor {
			cursorCol = x
		}
	}

	// Plot targets over the sky, later targets win collisions.
	for ti, tt := range m.data.Targets {
		glyph := targetGlyphs[ti%len(targetGlyphs)]
		color := targetColors[ti%len(targetColors)]
		for x := 0; x < width; x++ {
			i := m.sampleFor(x, width)
			v := m.value(tt.Track, i)
			if v < lo || v > hi || math.IsNaN(v) {
				continue
			}
			y := int(math.Round((hi - v) / (hi - lo) * float64(height-1)))
			glyphs[y][x] = glyph
			fgs[y][x] = color
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAxis))
	var b strings.Builder
	for y := 0; y < height; y++ {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%5.0f ", hi-(hi-lo)*float64(y)/float64(height-1))))
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Background(bgs[x])
			if x == cursorCol {
				style = style.Background(lipgloss.Color(colorCursor))
			}
			if fgs[y][x] != "" {
				style = style.Foreground(fgs[y][x])
			}
			b.WriteString(style.Render(string(glyphs[y][x])))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// skyColor picks the darkest applicable band at sample i.
func (m Model) skyColor(i int) lipgloss.Color {
	b := m.data.Bands
	switch {
	case i < len(b.MoonUp) && b.MoonUp[i]:
		return colorMoonlit
	case i < len(b.Astronomical) && b.Astronomical[i]:
		return colorAstro
	case i < len(b.Nautical) && b.Nautical[i]:
		return colorNautical
	case i < len(b.Civil) && b.Civil[i]:
		return colorCivil
	default:
		return colorDay
	}
}

func (m Model) renderTimeAxis() string {
	width := m.canvasWidth()
	axisStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAxis))

	line := make([]byte, width)
	for i := range line {
		line[i] = ' '
	}
	// A tick every 12 columns, labeled HH:MM.
	for x := 0; x+5 <= width; x += 12 {
		label := m.data.Series.Times[m.sampleFor(x, width)].Format("15:04")
		copy(line[x:], label)
	}
	return axisStyle.Render(strings.Repeat(" ", 6) + string(line))
}

func (m Model) renderReadout() string {
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorCursor))

	at := m.data.Series.Times[m.cursor]
	parts := []string{cursorStyle.Render(fmt.Sprintf(">>> %s UTC", at.Format("15:04")))}
	for i, tt := range m.data.Targets {
		style := lipgloss.NewStyle().Foreground(targetColors[i%len(targetColors)])
		parts = append(parts, style.Render(fmt.Sprintf("%s alt %.1f° az %.1f°",
			tt.Label, tt.Track.Alt[m.cursor], tt.Track.Az[m.cursor])))
	}
	return strings.Join(parts, " | ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAxis))
	return dimStyle.Render("tab: altitude/azimuth | ←/→: move cursor | 0: center | q: quit")
}

// Run launches the viewer in the alternate screen and blocks until quit.
func Run(data ChartData) error {
	p := tea.NewProgram(New(data), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chart view: %w", err)
	}
	return nil
}
