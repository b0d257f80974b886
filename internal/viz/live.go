package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/field"
)

const (
	historyCapacity = 300
	panelWidth      = 45
	padTop          = 1
	padLeft         = 2
	// GIFPath is where a finished recording is written.
	GIFPath = "meshsim.gif"
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(padTop, padLeft)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(panelWidth)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model hosts one effect in the terminal. The canvas fills the window
// left of the side panel and mouse motion over it drives the listener.
type Model struct {
	effect   field.Effect
	listener *energy.Listener
	name     string
	fps      float64
	dt, t    float64

	width, height int
	canvas        *Canvas
	surface       *CanvasSurface
	input         field.Input
	activity      []float64

	running   bool
	showPanel bool
	showHelp  bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	energyHistory []float64
	activityMeans []float64
	lastTick      time.Time
	measuredFPS   float64

	recording bool
	frames    []*image.Paletted
	gifErr    error
}

// NewModel prepares a live view of effect. The effect is sized on the
// first WindowSizeMsg.
func NewModel(effect field.Effect, listener *energy.Listener, fps float64) Model {
	if fps <= 0 {
		fps = 60
	}
	params := make(map[string]float64)
	if t, ok := effect.(field.Tunable); ok {
		for k, v := range t.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	canvas := NewCanvas(0, 0)
	return Model{
		effect:        effect,
		listener:      listener,
		name:          effect.Name(),
		fps:           fps,
		dt:            1 / fps,
		canvas:        canvas,
		surface:       NewCanvasSurface(canvas),
		input:         field.Input{Pointer: field.Absent},
		running:       true,
		showPanel:     true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(float64(time.Second)/m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the effect.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.pointer(msg.X, msg.Y)
	case tea.FocusMsg:
		m.listener.Enter()
	case tea.BlurMsg:
		m.listener.Leave()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "p":
			m.showPanel = !m.showPanel
			m.resize(m.width, m.height)
		case "g":
			if m.recording {
				m.gifErr = saveGIF(GIFPath, m.frames)
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			SetTheme(NextTheme(CurrentTheme.Name))
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if d := now.Sub(m.lastTick).Seconds(); d > 0 {
				m.measuredFPS = 0.9*m.measuredFPS + 0.1/d
			}
		}
		m.lastTick = now
		if m.running {
			m.step()
		}
		if m.recording {
			m.frames = append(m.frames, captureFrame(m.canvas, CurrentTheme))
		}
		return m, m.tick()
	}
	return m, nil
}

// resize reallocates the canvas for a w x h terminal and rebuilds the
// effect for the new pixel size.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw := w - 2*padLeft
	if m.showPanel {
		cw -= panelWidth + 1
	}
	ch := h - 2*padTop
	m.canvas = NewCanvas(max(cw, 0), max(ch, 0))
	m.surface = NewCanvasSurface(m.canvas)
	pw, ph := m.surface.Size()
	m.effect.Resize(pw, ph)
	m.redraw()
}

// pointer maps a terminal cell to the center of its pixel box. Cells
// outside the canvas count as leaving the surface.
func (m *Model) pointer(x, y int) {
	col, row := x-padLeft, y-padTop
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		if m.listener.Pointer().Present() {
			m.listener.Leave()
		}
		return
	}
	m.listener.Move((float64(col)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight)
}

func (m *Model) step() {
	m.listener.Advance(m.dt)
	m.input = m.listener.Input(m.t, m.dt)
	m.effect.Step(m.input)
	m.t += m.dt

	m.energyHistory = append(m.energyHistory, m.input.Energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.redraw()

	mean := 0.0
	if len(m.activity) > 0 {
		for _, a := range m.activity {
			mean += a
		}
		mean /= float64(len(m.activity))
	}
	m.activityMeans = append(m.activityMeans, mean)
	if len(m.activityMeans) > historyCapacity {
		m.activityMeans = m.activityMeans[1:]
	}
}

func (m *Model) redraw() {
	m.canvas.Clear()
	m.effect.Draw(m.surface, m.input)
	m.activity = m.effect.Activity(m.activity[:0])
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	t, ok := m.effect.(field.Tunable)
	if !ok || len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	// Rejected values leave the parameter where it was.
	if err := t.SetParam(key, val); err == nil {
		m.params[key] = val
	}
}

// reset rebuilds the effect at its current size and restores parameters.
func (m *Model) reset() {
	m.t = 0
	m.energyHistory = m.energyHistory[:0]
	m.activityMeans = m.activityMeans[:0]
	m.listener.Reset()
	m.input = field.Input{Pointer: field.Absent}
	if t, ok := m.effect.(field.Tunable); ok {
		for k, v := range m.initialParams {
			m.params[k] = v
			t.SetParam(k, v)
		}
	}
	pw, ph := m.surface.Size()
	m.effect.Resize(pw, ph)
	m.redraw()
}

// View renders the canvas and, when enabled, the side panel.
func (m Model) View() string {
	canvasView := canvasStyle.Render(CurrentTheme.RenderCanvas(m.canvas))
	if !m.showPanel {
		return canvasView
	}
	var panel string
	if m.showHelp {
		panel = helpText
	} else {
		panel = m.panel()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(panel))
}

func (m Model) panel() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + StatusRecording.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30),
			asciigraph.LowerBound(0), asciigraph.UpperBound(1), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + ProgressBar(m.input.Energy, 12) + valueStyle.Render(fmt.Sprintf(" %.2f", m.input.Energy)) + "\n")
	s.WriteString(labelStyle.Render("FPS") + valueStyle.Render(fmt.Sprintf("%.0f / %.0f", m.measuredFPS, m.fps)) + "\n")
	s.WriteString(labelStyle.Render("Points") + valueStyle.Render(fmt.Sprintf("%d", len(m.activity))) + "\n")
	s.WriteString(labelStyle.Render("Activity") + SparklineChart(m.activityMeans, 24) + "\n")
	pointer := "absent"
	if p := m.input.Pointer; p.Present() {
		pointer = fmt.Sprintf("%.0f, %.0f", p.X, p.Y)
	}
	s.WriteString(labelStyle.Render("Pointer") + valueStyle.Render(pointer) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(CurrentTheme.Name) + "\n")
	if m.gifErr != nil {
		s.WriteString(labelStyle.Render("GIF") + StatusPaused.Render(m.gifErr.Error()) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) > 0 {
		for i, k := range m.paramKeys {
			val, initial := m.params[k], m.initialParams[k]
			ratio := 0.5
			if initial != 0 {
				ratio = field.Clamp01(val / (2 * initial))
			}
			barWidth := 10
			filled := int(ratio * float64(barWidth))
			bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
			line := fmt.Sprintf("%-12s %s %.4g", k, bar, val)
			if i == m.selected {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + labelStyle.Render(line) + "\n")
			}
		}
	} else {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	s.WriteString("\n" + Separator(panelWidth-6) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\nP:Panel  ↑↓:Tune"))
	return s.String()
}

const helpText = `KEYBOARD SHORTCUTS

  Space    Pause/Resume
  R        Rebuild the effect
  Q        Quit
  Tab      Cycle parameters
  Up/K     Increase parameter (+5%)
  Down/J   Decrease parameter (-5%)
  P        Toggle this panel
  G        Toggle GIF recording
  T        Cycle themes
  ?        Toggle this help

Move the mouse over the canvas to
disturb the field.`

// captureFrame rasterizes the canvas at 8x16 px per cell using the
// rendered cell colors.
func captureFrame(c *Canvas, theme Theme) *image.Paletted {
	imgW, imgH := c.Width*int(CellWidth), c.Height*int(CellHeight)
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.Plan9)
	bg := theme.Background
	bgIdx := uint8(img.Palette.Index(color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}))
	for i := range img.Pix {
		img.Pix[i] = bgIdx
	}
	gain := max(theme.Gain, 1)
	dotW, dotH := int(dotPx), int(dotPx)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Grid[row][col]
			if r == blank {
				continue
			}
			fg := c.Colors[row][col]
			if theme.Mono {
				fg = theme.Ink
			}
			fg = fg.Over(bg, field.Clamp01(c.Alpha[row][col]*gain))
			idx := uint8(img.Palette.Index(color.RGBA{R: fg.R, G: fg.G, B: fg.B, A: 255}))
			pattern := int(r - blank)
			baseX, baseY := col*int(CellWidth), row*int(CellHeight)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	return img
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
