// Package games holds the built-in full-screen executables and the cell
// canvas they draw on.
package games

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/termsite/internal/executable"
)

// MinWidth and MinHeight bound the canvas so tiny terminals still fit a board.
const (
	MinWidth  = 40
	MinHeight = 12
)

// Canvas is a fixed grid of runes with an optional colour per cell. An empty
// colour means the terminal default.
type Canvas struct {
	w, h   int
	chars  [][]rune
	colors [][]string
	styles map[string]lipgloss.Style
}

// NewCanvas sizes a canvas to the screen, clamped to the minimum size.
func NewCanvas(screen executable.Screen) *Canvas {
	w := max(screen.Width, MinWidth)
	h := max(screen.Height, MinHeight)
	c := &Canvas{w: w, h: h, styles: make(map[string]lipgloss.Style)}
	c.chars = make([][]rune, h)
	c.colors = make([][]string, h)
	for y := range h {
		c.chars[y] = make([]rune, w)
		c.colors[y] = make([]string, w)
	}
	c.Clear()
	return c
}

// Width is the canvas width in cells.
func (c *Canvas) Width() int { return c.w }

// Height is the canvas height in cells.
func (c *Canvas) Height() int { return c.h }

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for y := range c.h {
		for x := range c.w {
			c.chars[y][x] = ' '
			c.colors[y][x] = ""
		}
	}
}

// Set writes one cell. Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, r rune, color string) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.chars[y][x] = r
	c.colors[y][x] = color
}

// At returns the rune at a cell, or a space when out of range.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return ' '
	}
	return c.chars[y][x]
}

// ColorAt returns the colour at a cell.
func (c *Canvas) ColorAt(x, y int) string {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return ""
	}
	return c.colors[y][x]
}

// DrawString writes s starting at (x, y), one rune per cell.
func (c *Canvas) DrawString(x, y int, s, color string) {
	for _, r := range s {
		c.Set(x, y, r, color)
		x++
	}
}

// DrawCentered writes s centred horizontally on row y.
func (c *Canvas) DrawCentered(y int, s, color string) {
	c.DrawString(c.w/2-runewidth.StringWidth(s)/2, y, s, color)
}

// Row returns the plain text of one row.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.h {
		return ""
	}
	return string(c.chars[y])
}

// Render joins the rows, styling runs of equal colour. With plain set the
// colours are dropped.
func (c *Canvas) Render(plain bool) string {
	var b strings.Builder
	for y := range c.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		if plain {
			b.WriteString(string(c.chars[y]))
			continue
		}
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.colors[y][x] == c.colors[y][start] {
				continue
			}
			b.WriteString(c.paint(string(c.chars[y][start:x]), c.colors[y][start]))
			start = x
		}
	}
	return b.String()
}

func (c *Canvas) paint(s, color string) string {
	if color == "" {
		return s
	}
	st, ok := c.styles[color]
	if !ok {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		c.styles[color] = st
	}
	return st.Render(s)
}
