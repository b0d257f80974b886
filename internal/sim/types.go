package sim

import (
	"time"

	"github.com/san-kum/meshsim/internal/field"
)

// Frame is what metrics and observers see after each step. Activity is
// reused by the runner and is only valid during the callback.
type Frame struct {
	Index    int
	Input    field.Input
	Activity []float64
	Stats    FrameStats
}

// FrameStats is one recorded row of a run.
type FrameStats struct {
	Frame        int     `csv:"frame" json:"frame"`
	Time         float64 `csv:"time" json:"time"`
	Present      bool    `csv:"present" json:"present"`
	PointerX     float64 `csv:"pointer_x" json:"pointer_x"`
	PointerY     float64 `csv:"pointer_y" json:"pointer_y"`
	Energy       float64 `csv:"energy" json:"energy"`
	MeanActivity float64 `csv:"mean_activity" json:"mean_activity"`
	MaxActivity  float64 `csv:"max_activity" json:"max_activity"`
	ActiveCount  int     `csv:"active_count" json:"active_count"`
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnFrame(f *Frame) { fn(f) }

type Config struct {
	Frames int
	FPS    float64
	Width  float64
	Height float64
	Seed   int64
	// ActiveThreshold is the activity above which an element counts as
	// active in FrameStats.
	ActiveThreshold float64
}

type Result struct {
	Frames  []FrameStats
	Metrics map[string]float64
	Elapsed time.Duration
}
