package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/meshsim/internal/config"
	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/field"
)

var (
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var effectInfo = map[string]string{
	"mesh":    "spring lattice that parts around the pointer",
	"hexgrid": "hex sonar lit by proximity",
	"circuit": "travelers on a grid that surge",
}

// DefaultPreset selects the base configuration in the preset list.
const DefaultPreset = "default"

// Launcher builds a live effect from a resolved configuration.
type Launcher func(cfg *config.Config) (field.Effect, *energy.Listener, error)

const (
	stateMenu = iota
	statePreset
	stateSim
)

type picker struct {
	state, cursor int
	effects       []string
	presets       []string
	presetCursor  int
	selected      string
	base          *config.Config
	launch        Launcher
	err           error
	width, height int
	live          Model
}

// NewPicker returns a menu that picks an effect and preset before starting
// a live view. base supplies everything a preset does not override.
func NewPicker(base *config.Config, launch Launcher) tea.Model {
	effects := make([]string, 0, len(effectInfo))
	for name := range effectInfo {
		effects = append(effects, name)
	}
	sort.Strings(effects)
	return &picker{
		effects: effects,
		base:    base,
		launch:  launch,
		width:   80,
		height:  24,
	}
}

func (m *picker) Init() tea.Cmd { return nil }

func (m *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state = statePreset
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m *picker) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, len(m.effects)-1)
		case "enter", " ":
			m.selected = m.effects[m.cursor]
			presets := config.ListPresets(m.selected)
			sort.Strings(presets)
			m.presets = append([]string{DefaultPreset}, presets...)
			m.presetCursor, m.err = 0, nil
			m.state = statePreset
		}
	case statePreset:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc":
			m.state = stateMenu
		case "up", "k":
			m.presetCursor = max(m.presetCursor-1, 0)
		case "down", "j":
			m.presetCursor = min(m.presetCursor+1, len(m.presets)-1)
		case "enter", " ", "s":
			return m, m.start()
		}
	}
	return m, nil
}

func (m *picker) resolve() *config.Config {
	name := m.presets[m.presetCursor]
	if name != DefaultPreset {
		if cfg := config.GetPreset(m.selected, name); cfg != nil {
			return cfg
		}
	}
	cfg := m.base.Clone()
	cfg.Effect = m.selected
	return cfg
}

func (m *picker) start() tea.Cmd {
	cfg := m.resolve()
	effect, listener, err := m.launch(cfg)
	if err != nil {
		m.err = err
		return nil
	}
	SetTheme(cfg.Theme)
	m.live = NewModel(effect, listener, cfg.FPS)
	m.live.resize(m.width, m.height)
	m.state = stateSim
	return m.live.Init()
}

func (m *picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePreset:
		return m.viewPresets()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m *picker) header(title, sub string) string {
	return "\n\n    " + GradientText(title, field.RGB(0, 204, 204), field.RGB(168, 85, 247)) + "\n    " + subStyle.Render(sub) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n"
}

func (m *picker) row(active bool, name, desc string) string {
	if active {
		return fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), pickStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc))
	}
	return fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDesc.Render(desc))
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n   ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(" " + keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]) + " ")
	}
	return b.String() + "\n"
}

func (m *picker) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("MESHSIM", "pointer-reactive fields"))
	for i, name := range m.effects {
		b.WriteString(m.row(i == m.cursor, name, effectInfo[name]))
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m *picker) viewPresets() string {
	var b strings.Builder
	b.WriteString(m.header(strings.ToUpper(m.selected), effectInfo[m.selected]))
	for i, name := range m.presets {
		desc := "configured values"
		if cfg := config.GetPreset(m.selected, name); cfg != nil {
			desc = "script " + cfg.Script + ", theme " + cfg.Theme
		}
		b.WriteString(m.row(i == m.presetCursor, name, desc))
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusPaused.Render(m.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "navigate", "enter", "start", "esc", "back"))
	return b.String()
}

// RunInteractive opens the effect picker in the alternate screen with
// mouse motion and focus reporting enabled.
func RunInteractive(base *config.Config, launch Launcher) error {
	p := tea.NewProgram(NewPicker(base, launch), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

// RunLive shows a single effect without the picker.
func RunLive(effect field.Effect, listener *energy.Listener, fps float64) error {
	p := tea.NewProgram(NewModel(effect, listener, fps), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
