package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
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

// Ink is what a dot belongs to. A cell takes the color of the highest ink
// drawn into it.
type Ink uint8

const (
	InkNone Ink = iota
	InkTrail
	InkScenery
	InkStandard
	InkAccel
	InkContact
	InkSelection
	InkKnob
	InkRider
	InkCrash
	numInks
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Inks          [][]Ink
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Grid = make([][]rune, h)
	c.Inks = make([][]Ink, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Inks[i] = make([]Ink, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets the dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int, ink Ink) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if ink > c.Inks[row][col] {
		c.Inks[row][col] = ink
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// InkAt returns the ink of the cell holding dot (x, y).
func (c *Canvas) InkAt(x, y int) Ink {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return InkNone
	}
	return c.Inks[y/4][x/2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Inks[i][j] = InkNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm. Lines far outside the
// canvas are clipped to its bounds first.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, ink Ink) {
	w, h := c.Dots()
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) || (x0 >= w && x1 >= w) || (y0 >= h && y1 >= h) {
		return
	}
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	if dx+dy > 4*(w+h) {
		return
	}
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
		c.Set(x0, y0, ink)
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

// DrawRect outlines the rectangle spanned by two dots.
func (c *Canvas) DrawRect(x0, y0, x1, y1 int, ink Ink) {
	c.DrawLine(x0, y0, x1, y0, ink)
	c.DrawLine(x1, y0, x1, y1, ink)
	c.DrawLine(x1, y1, x0, y1, ink)
	c.DrawLine(x0, y1, x0, y0, ink)
}

// DrawDot draws a small plus shape centered on (x, y).
func (c *Canvas) DrawDot(x, y int, ink Ink) {
	c.Set(x, y, ink)
	c.Set(x-1, y, ink)
	c.Set(x+1, y, ink)
	c.Set(x, y-1, ink)
	c.Set(x, y+1, ink)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each run of same-ink cells colored by the theme.
func (c *Canvas) Render(t Theme) string {
	styles := t.inkStyles()
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Inks[i][j] == c.Inks[i][start] {
				continue
			}
			run := string(row[start:j])
			if ink := c.Inks[i][start]; ink == InkNone {
				b.WriteString(run)
			} else {
				b.WriteString(styles[ink].Render(run))
			}
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (t Theme) inkStyles() [numInks]lipgloss.Style {
	var s [numInks]lipgloss.Style
	color := func(ink Ink, c lipgloss.Color) { s[ink] = lipgloss.NewStyle().Foreground(c) }
	color(InkTrail, t.Muted)
	color(InkScenery, t.Scenery)
	color(InkStandard, t.Standard)
	color(InkAccel, t.Accel)
	color(InkContact, t.Accent)
	color(InkSelection, t.Selection)
	color(InkKnob, t.Selection)
	color(InkRider, t.Rider)
	color(InkCrash, t.Error)
	s[InkKnob] = s[InkKnob].Bold(true)
	return s
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
