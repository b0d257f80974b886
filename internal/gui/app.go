// Package gui hosts effects in a resizable raylib window with raygui
// sliders for live tuning.
package gui

import (
	"fmt"
	"math"
	"sort"

	raygui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/field"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(34, 211, 238, 255)
	ColPanel   = rl.NewColor(15, 23, 42, 220)
)

const (
	panelWidth = 300
	telemetry  = 240
)

// sliderRanges bounds the sliders of known parameters. Anything else gets
// [0, 2x] around its starting value.
var sliderRanges = map[string][2]float32{
	"repulsion":    {0, 10},
	"spring":       {0.001, 0.2},
	"friction":     {0.5, 0.99},
	"radius":       {20, 600},
	"hover_radius": {20, 500},
	"decay":        {0.5, 0.99},
	"pulse_prob":   {0, 0.01},
	"speed":        {0.5, 10},
	"turn_chance":  {0, 0.5},
	"surge_radius": {20, 400},
}

type slider struct {
	name     string
	min, max float32
}

type App struct {
	Effect     field.Effect
	Listener   *energy.Listener
	Background field.Color
	FPS        float64

	time      float64
	running   bool
	showPanel bool
	onScreen  bool
	sliders   []slider
	initial   map[string]float64
	energy    []float64
	w, h      int
}

func NewApp(effect field.Effect, listener *energy.Listener, background field.Color, fps float64) *App {
	a := &App{
		Effect:     effect,
		Listener:   listener,
		Background: background,
		FPS:        fps,
		running:    true,
		showPanel:  true,
		initial:    make(map[string]float64),
		energy:     make([]float64, 0, telemetry),
	}
	if t, ok := effect.(field.Tunable); ok {
		for name, v := range t.GetParams() {
			a.initial[name] = v
			r, ok := sliderRanges[name]
			if !ok {
				r = [2]float32{0, float32(2 * math.Max(v, 1e-3))}
			}
			a.sliders = append(a.sliders, slider{name: name, min: r[0], max: r[1]})
		}
		sort.Slice(a.sliders, func(i, j int) bool { return a.sliders[i].name < a.sliders[j].name })
	}
	return a
}

func initWindow(fps float64) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "meshsim")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(effect field.Effect, listener *energy.Listener, background field.Color, fps float64) {
	initWindow(fps)
	defer rl.CloseWindow()
	app := NewApp(effect, listener, background, fps)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) resize() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if w == a.w && h == a.h {
		return
	}
	a.w, a.h = w, h
	a.Effect.Resize(float64(w), float64(h))
}

// trackCursor turns raylib's cursor state into listener events. Leaving
// the window parks the pointer; re-entering rises again on the next move.
func (a *App) trackCursor() {
	on := rl.IsCursorOnScreen() && rl.IsWindowFocused()
	pos := rl.GetMousePosition()
	if a.showPanel && on && pos.X < panelWidth {
		on = false
	}
	switch {
	case on && !a.onScreen:
		a.Listener.Enter()
		a.Listener.Move(float64(pos.X), float64(pos.Y))
	case on:
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			a.Listener.Move(float64(pos.X), float64(pos.Y))
		}
	case a.onScreen:
		a.Listener.Leave()
	}
	a.onScreen = on
}

func (a *App) Update() {
	a.resize()
	a.trackCursor()

	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.showPanel = !a.showPanel
	}
	if !a.running {
		return
	}

	dt := float64(rl.GetFrameTime())
	if dt <= 0 || dt > 0.1 {
		dt = 1 / a.FPS
	}
	a.Listener.Advance(dt)
	a.Effect.Step(a.Listener.Input(a.time, dt))
	a.time += dt

	a.energy = append(a.energy, a.Listener.Energy())
	if len(a.energy) > telemetry {
		a.energy = a.energy[1:]
	}
}

func (a *App) reset() {
	a.time = 0
	a.energy = a.energy[:0]
	a.Listener.Reset()
	a.onScreen = false
	if t, ok := a.Effect.(field.Tunable); ok {
		for name, v := range a.initial {
			t.SetParam(name, v)
		}
	}
	a.Effect.Resize(float64(a.w), float64(a.h))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(toColor(a.Background, 1))

	in := a.Listener.Input(a.time, 0)
	a.Effect.Draw(Surface{}, in)

	if a.showPanel {
		a.drawPanel(in)
	}
	rl.EndDrawing()
}

func (a *App) drawPanel(in field.Input) {
	rl.DrawRectangle(0, 0, panelWidth, int32(a.h), ColPanel)
	x, y := float32(20), float32(20)

	rl.DrawText("meshsim", int32(x), int32(y), 24, ColSelect)
	rl.DrawText(":: "+a.Effect.Name(), int32(x)+110, int32(y)+6, 16, ColText)
	y += 40

	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, int32(x), int32(y), 16, col)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(x)+150, int32(y), 16, ColTextDim)
	y += 30

	rl.DrawText(fmt.Sprintf("energy %.2f", in.Energy), int32(x), int32(y), 14, ColText)
	y += 20
	a.drawTelemetry(x, y, panelWidth-40, 50)
	y += 70

	if t, ok := a.Effect.(field.Tunable); ok {
		params := t.GetParams()
		for _, s := range a.sliders {
			cur := float32(params[s.name])
			rl.DrawText(s.name, int32(x), int32(y), 14, ColText)
			y += 18
			next := raygui.SliderBar(
				rl.Rectangle{X: x, Y: y, Width: panelWidth - 110, Height: 20},
				"", fmt.Sprintf("%.3g", cur),
				cur, s.min, s.max,
			)
			if next != cur {
				// Values the effect rejects snap back on the next frame.
				t.SetParam(s.name, float64(next))
			}
			y += 32
		}
	}

	rl.DrawText("[SPACE] PAUSE  [R] RESET", int32(x), int32(a.h)-50, 14, ColTextDim)
	rl.DrawText("[TAB] PANEL  [Q] QUIT", int32(x), int32(a.h)-30, 14, ColTextDim)
}

func (a *App) drawTelemetry(x, y, width, height float32) {
	if len(a.energy) < 2 {
		return
	}
	points := make([]rl.Vector2, len(a.energy))
	for i, v := range a.energy {
		px := x + float32(i)/float32(telemetry)*width
		py := y + height - float32(v)*height
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
}
