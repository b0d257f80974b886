package viz

import (
	"image"
	"math"
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/mesh"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := mesh.New(mesh.DefaultConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	l, err := energy.NewListener(energy.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	model := NewModel(m, l, 60)
	next, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	if m.canvas.Width != 120-2*padLeft-panelWidth-1 || m.canvas.Height != 38 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}
	if len(m.activity) == 0 {
		t.Error("effect not sized on resize")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.canvas.Width != 120-2*padLeft {
		t.Errorf("canvas width without panel = %d", m.canvas.Width)
	}
}

func TestModelTinyWindow(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 10, Height: 1})
	m = update(m, tick())
	if m.canvas.Width != 0 || m.canvas.Height != 0 {
		t.Errorf("canvas = %dx%d, want empty", m.canvas.Width, m.canvas.Height)
	}
	_ = m.View()
}

func tick() TickMsg { return TickMsg{} }

func TestModelMouseMovesPointer(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion})

	p := m.listener.Pointer()
	if p.X != (8+0.5)*CellWidth || p.Y != (4+0.5)*CellHeight {
		t.Errorf("pointer = %+v", p)
	}

	m = update(m, tea.MouseMsg{X: 119, Y: 5, Action: tea.MouseActionMotion})
	if m.listener.Pointer().Present() {
		t.Error("pointer over the panel should leave the surface")
	}
}

func TestModelFocus(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.FocusMsg{})
	for i := 0; i < 30; i++ {
		m = update(m, tick())
	}
	if m.input.Energy <= 0 {
		t.Error("focus should raise energy")
	}

	m = update(m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion})
	m = update(m, tea.BlurMsg{})
	if m.listener.Pointer().Present() {
		t.Error("blur should park the pointer")
	}
}

func TestModelPauseAndTick(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tick())
	if math.Abs(m.t-1.0/60) > 1e-12 {
		t.Errorf("t = %v after one tick", m.t)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	before := m.t
	m = update(m, tick())
	if m.t != before {
		t.Error("paused model advanced")
	}
}

func TestModelTuneAndReset(t *testing.T) {
	m := newTestModel(t)
	if m.paramKeys[1] != "radius" {
		t.Fatalf("param keys = %v", m.paramKeys)
	}
	initial := m.params["radius"]

	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.params["radius"]; math.Abs(got-initial*1.05) > 1e-9 {
		t.Errorf("radius = %v, want %v", got, initial*1.05)
	}

	m = update(m, tick())
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.params["radius"] != initial || m.t != 0 {
		t.Errorf("reset left radius=%v t=%v", m.params["radius"], m.t)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelThemeCycle(t *testing.T) {
	defer SetTheme(ThemeMidnight.Name)
	m := newTestModel(t)
	start := CurrentTheme.Name
	update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if CurrentTheme.Name == start {
		t.Error("theme did not change")
	}
}

func TestCaptureFrame(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionMotion})
	for i := 0; i < 5; i++ {
		m = update(m, tick())
	}
	img := captureFrame(m.canvas, ThemeMidnight)
	b := img.Bounds()
	if b.Dx() != m.canvas.Width*8 || b.Dy() != m.canvas.Height*16 {
		t.Errorf("frame = %v", b)
	}
	if err := saveGIF(t.TempDir()+"/out.gif", nil); err != nil {
		t.Errorf("empty recording: %v", err)
	}
	if err := saveGIF(t.TempDir()+"/out.gif", []*image.Paletted{img}); err != nil {
		t.Errorf("save: %v", err)
	}
}
