package fih

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/oakwood-commons/termsite/internal/games"
)

const (
	colorTank       = "#446688"
	colorCorner     = "#5588aa"
	colorPlayer     = "#55ff55"
	colorHUD        = "#888888"
	colorHUDBright  = "#aaaaaa"
	colorBubble     = "#6699cc"
	colorSeaweed    = "#1a5c2a"
	colorChest      = "#aa8844"
	nearPlane       = 0.5
	focalScale      = 0.6
	cellAspect      = 0.5
	blueShiftStart  = 10.0
	blueShiftLength = 30.0
)

var npcColors = []string{"#ff8855", "#55ccff", "#ffcc44", "#ff55aa"}

var playerRight = []string{
	"    ,/>>",
	"  ,/  >>",
	">==/o >>",
	"  `\\  >>",
	"    `\\>>",
}

var playerLeft = []string{
	"<<\\,    ",
	"<<  \\,  ",
	"<< o\\==<",
	"<<  /`  ",
	"<</`    ",
}

type sprites struct {
	right, left       []string
	bigRight, bigLeft []string
}

var species = []sprites{
	{
		right:    []string{" />", ">=>", " \\>"},
		left:     []string{"<\\ ", "<=<", "</  "},
		bigRight: playerRight,
		bigLeft:  playerLeft,
	},
	{
		right:    []string{" /}", ">=}>", " \\}"},
		left:     []string{"{\\  ", "<{=<", "{/  "},
		bigRight: []string{"    /}}>", "  ,/ }}>", ">==>o}}>", "  `\\ }}>", "    \\}}>"},
		bigLeft:  []string{"<{{\\    ", "<{{ \\,  ", "<{{o<==>", "<{{ /`  ", "<{{/    "},
	},
	{
		right:    []string{"-/>", "-->", "-\\>"},
		left:     []string{"<\\-", "<--", "</-"},
		bigRight: []string{"  --/>>", " --/ >>", "------>", " --\\ >>", "  --\\>>"},
		bigLeft:  []string{"<<\\--  ", "<< \\-- ", "<------", "<< /-- ", "<</--  "},
	},
	{
		right:    []string{"  ,/>>", ">==/>>", "  `\\>>"},
		left:     []string{"<<\\,  ", "<<\\==<", "<</`  "},
		bigRight: []string{"     ,/>>>", "  ,,/  >>>", ">===/ o>>>", "  ``\\  >>>", "     `\\>>>"},
		bigLeft:  []string{"<<<\\,     ", "<<<  \\,,  ", "<<<o \\===<", "<<<  /``  ", "<<</`     "},
	},
}

var chestNear = []string{
	" ___ ",
	"[___]",
	"|   |",
	"|___|",
}

var chestMid = []string{
	"[_]",
	"|_|",
}

var (
	fronds = [][]string{
		{"()", ")(", "()", ")("},
		{"){", "({", "){", "({"},
		{"}/", "{\\", "}/", "{\\"},
	}
	frondsThin = [][]string{
		{"(", ")", "(", ")"},
		{")", "(", ")", "("},
		{"}", "{", "}", "{"},
	}
)

var tankEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func tankCorners() [8]Vec3 {
	hw, hh, hd := TankW/2, TankH/2, TankD/2
	return [8]Vec3{
		{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}, {-hw, -hh, hd},
		{-hw, hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}, {-hw, hh, hd},
	}
}

// point is a projected position with its camera depth.
type point struct {
	X, Y int
	Z    float64
}

// renderer draws a World onto a Canvas with a pinhole projection. The focal
// length scales with the canvas width and rows are squashed for tall cells.
type renderer struct {
	c     *games.Canvas
	cam   Camera
	focal float64
}

func newRenderer(c *games.Canvas, cam Camera) *renderer {
	return &renderer{c: c, cam: cam, focal: float64(c.Width()) * focalScale}
}

func (r *renderer) project(p Vec3) (point, bool) {
	v := r.cam.ToCamera(p)
	if v.Z < nearPlane {
		return point{}, false
	}
	sx := v.X/v.Z*r.focal + float64(r.c.Width())/2
	sy := -(v.Y/v.Z)*r.focal*cellAspect + float64(r.c.Height())/2
	return point{X: int(math.Round(sx)), Y: int(math.Round(sy)), Z: v.Z}, true
}

// depthColor shifts distant colours towards deep blue.
func depthColor(z float64, base string) string {
	if z < blueShiftStart {
		return base
	}
	t := min(1, (z-blueShiftStart)/blueShiftLength)
	r, g, b := parseHex(base)
	r = int(math.Round(float64(r) + float64(0x33-r)*t*0.5))
	g = int(math.Round(float64(g) + float64(0x44-g)*t*0.5))
	b = int(math.Round(float64(b) + float64(0x66-b)*t*0.3))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func parseHex(s string) (r, g, b int) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func lineRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	}
	ratio := float64(dx) / float64(dy)
	switch {
	case ratio > 2:
		return '─'
	case ratio < 0.5:
		return '│'
	default:
		return '·'
	}
}

// line draws with Bresenham's algorithm.
func (r *renderer) line(x0, y0, x1, y1 int, color string) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	ch := lineRune(dx, dy)
	err := dx - dy
	for {
		r.c.Set(x0, y0, ch, color)
		if x0 == x1 && y0 == y1 {
			return
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// sprite draws lines centred on (cx, cy); spaces are transparent.
func (r *renderer) sprite(cx, cy int, lines []string, color string) {
	for row, l := range lines {
		runes := []rune(l)
		sx := cx - len(runes)/2
		sy := cy - len(lines)/2 + row
		for i, ch := range runes {
			if ch != ' ' {
				r.c.Set(sx+i, sy, ch, color)
			}
		}
	}
}

func (r *renderer) tank() {
	corners := tankCorners()
	for _, e := range tankEdges {
		p0, ok0 := r.project(corners[e[0]])
		p1, ok1 := r.project(corners[e[1]])
		if !ok0 || !ok1 {
			continue
		}
		r.line(p0.X, p0.Y, p1.X, p1.Y, depthColor((p0.Z+p1.Z)/2, colorTank))
	}
	for _, corner := range corners {
		if p, ok := r.project(corner); ok {
			r.c.Set(p.X, p.Y, '+', depthColor(p.Z, colorCorner))
		}
	}
}

func (r *renderer) seaweed(w *World) {
	floor := -TankH / 2
	for i, sw := range w.Seaweed {
		wide := fronds[i%len(fronds)]
		thin := frondsThin[i%len(frondsThin)]
		for j := range sw.Height {
			sway := math.Sin(w.Time*1.5+sw.Phase+float64(j)*0.4) * 0.6
			p, ok := r.project(Vec3{X: sw.BaseX + sway, Y: floor + float64(j) + 0.5, Z: sw.BaseZ})
			if !ok {
				continue
			}
			color := depthColor(p.Z, colorSeaweed)
			idx := (j + int(math.Floor(w.Time*1.5))) % len(wide)
			if p.Z > 15 {
				r.c.DrawString(p.X, p.Y, thin[idx], color)
			} else {
				r.c.DrawString(p.X-1, p.Y, wide[idx], color)
			}
		}
	}
}

func (r *renderer) chest(w *World) {
	p, ok := r.project(w.Chest)
	if !ok {
		return
	}
	color := depthColor(p.Z, colorChest)
	switch {
	case p.Z > 20:
		r.c.Set(p.X, p.Y, '#', color)
	case p.Z > 12:
		r.sprite(p.X, p.Y, chestMid, color)
	default:
		// The chest sits on the floor, so the sprite grows upwards.
		for row, l := range chestNear {
			sx := p.X - len(l)/2
			sy := p.Y - len(chestNear) + row + 1
			for i, ch := range l {
				if ch != ' ' {
					r.c.Set(sx+i, sy, ch, color)
				}
			}
		}
	}
}

func (r *renderer) bubbles(w *World) {
	for _, b := range w.Bubbles {
		p, ok := r.project(b.Pos)
		if !ok {
			continue
		}
		ch := '.'
		switch {
		case b.Size > 0.7:
			ch = 'O'
		case b.Size > 0.3:
			ch = 'o'
		}
		r.c.Set(p.X, p.Y, ch, depthColor(p.Z, colorBubble))
	}
}

func (r *renderer) npcs(w *World) {
	sorted := slices.Clone(w.NPCs)
	slices.SortFunc(sorted, func(a, b NPC) int {
		za, zb := r.cam.ToCamera(a.Pos).Z, r.cam.ToCamera(b.Pos).Z
		switch {
		case za > zb:
			return -1
		case za < zb:
			return 1
		}
		return 0
	})
	for _, n := range sorted {
		p, ok := r.project(n.Pos)
		if !ok {
			continue
		}
		sp := species[n.Species%len(species)]
		color := depthColor(p.Z, npcColors[n.Species%len(npcColors)])
		switch {
		case p.Z > 25:
			tiny := "<><"
			if n.FacingRight {
				tiny = "><>"
			}
			r.c.DrawString(p.X-1, p.Y, tiny, color)
		case p.Z > 15:
			lines := sp.left
			if n.FacingRight {
				lines = sp.right
			}
			r.sprite(p.X, p.Y, lines, color)
		default:
			lines := sp.bigLeft
			if n.FacingRight {
				lines = sp.bigRight
			}
			r.sprite(p.X, p.Y, lines, color)
		}
	}
}

func (r *renderer) player(w *World) {
	p, ok := r.project(w.Player.Pos)
	if !ok {
		return
	}
	lines := playerLeft
	if w.Player.FacingRight {
		lines = playerRight
	}
	r.sprite(p.X, p.Y, lines, colorPlayer)
}

func (r *renderer) hud(w *World) {
	hint := "WASD:swim  Space/C:up/down  Arrows/R/F:look  q:exit"
	if len(hint) > r.c.Width() {
		hint = "WASD Space/C Arrows q:exit"
	}
	r.c.DrawString((r.c.Width()-len(hint))/2, r.c.Height()-1, hint, colorHUD)

	depth := fmt.Sprintf("depth:%d%%", w.DepthPercent())
	r.c.DrawString(r.c.Width()-len(depth)-1, 0, depth, colorHUDBright)
}

// draw renders the whole scene back to front.
func draw(c *games.Canvas, w *World) {
	c.Clear()
	r := newRenderer(c, w.Camera)
	r.tank()
	r.seaweed(w)
	r.chest(w)
	r.bubbles(w)
	r.npcs(w)
	r.player(w)
	r.hud(w)
}
