package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/meshsim/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid with one color per cell. When several draws
// touch a cell, the one with the highest alpha decides its color.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]field.Color
	Alpha         [][]float64
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]field.Color, h),
		Alpha:  make([][]float64, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]field.Color, w)
		c.Alpha[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// DotSize is the canvas size in braille dots.
func (c *Canvas) DotSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y) in dot coordinates without touching the
// cell color.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Paint turns on a dot and offers the cell a color.
func (c *Canvas) Paint(x, y int, col field.Color, alpha float64) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Set(x, y)
	row, cell := y/4, x/2
	if alpha > c.Alpha[row][cell] {
		c.Alpha[row][cell] = alpha
		c.Colors[row][cell] = col
	}
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

// Clear resets every dot and color.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Alpha[i][j] = 0
			c.Colors[i][j] = field.Color{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col field.Color, alpha float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Paint(x0, y0, col, alpha)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the dots without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the canvas with each cell colored by its strongest draw,
// blended over bg. gain scales alpha so faint strokes stay visible on a
// terminal. Runs of equal color share one style.
func (c *Canvas) Render(bg field.Color, gain float64) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for start < len(row) {
			fg := c.cellColor(i, start, bg, gain)
			end := start + 1
			for end < len(row) && c.cellColor(i, end, bg, gain) == fg {
				end++
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(fg.Hex()))
			b.WriteString(style.Render(string(row[start:end])))
			start = end
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) cellColor(row, col int, bg field.Color, gain float64) field.Color {
	if c.Grid[row][col] == blank {
		return bg
	}
	return c.Colors[row][col].Over(bg, field.Clamp01(c.Alpha[row][col]*gain))
}

// Lit reports whether any dot of the cell at (col, row) is on.
func (c *Canvas) Lit(col, row int) bool {
	return c.Grid[row][col] != blank
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
