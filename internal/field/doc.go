// Package field provides the shared primitives for reactive background effects.
//
// An effect is a self-contained frame simulation that reacts to a pointer:
//
//   - [Input]: per-frame snapshot of pointer position, energy and clock
//   - [Effect]: interface implemented by every simulation (mesh, hexgrid, circuit)
//   - [Surface]: batched 2D drawing target provided by a host
//   - [Pointer]: pointer position with an off-screen [Absent] sentinel
//
// # Example
//
//	fx, _ := mesh.New(mesh.DefaultConfig(), rand.New(rand.NewSource(1)))
//	fx.Resize(800, 600)
//	for frame := range frames {
//	    in := listener.Input(t, dt)
//	    fx.Step(in)
//	    fx.Draw(surface, in)
//	}
//
// # Thread Safety
//
// Effects are NOT thread-safe. A host owns an effect and calls Resize, Step
// and Draw from a single goroutine, which is what makes resizes impossible to
// interleave with an in-flight frame.
package field
