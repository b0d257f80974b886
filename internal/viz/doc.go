// Package viz hosts effects in the terminal.
//
// Effects draw in pixel space onto a [CanvasSurface], which maps every
// 8x16 px terminal cell to one braille character of 2x4 dots. Each cell
// keeps the color of its strongest draw, so overlapping strokes of
// different alpha stay readable.
//
//   - [Model]: Bubble Tea live view of one effect with a side panel
//   - [NewPicker]: effect and preset menu in front of the live view
//   - [Canvas]: colored braille canvas
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the effect
//	T     - Cycle color themes
//	Tab   - Cycle parameters, Up/Down to tune
//	P     - Toggle the side panel
//	G     - Toggle GIF recording
//	?     - Show help
//
// Mouse motion over the canvas moves the pointer. Leaving the canvas or
// the terminal losing focus counts as the pointer leaving.
package viz
