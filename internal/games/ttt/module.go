package ttt

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/termsite/internal/executable"
	"github.com/oakwood-commons/termsite/internal/games"
)

// ID is the module identifier manifests refer to.
const ID = "ttt"

const (
	boardW = 23
	boardH = 11

	frameInterval = 33 * time.Millisecond
	maxStep       = 100 * time.Millisecond
)

const (
	colorGrid     = "#888888"
	colorPlayer   = "#55ff55"
	colorComputer = "#ff5555"
	colorHint     = "#444444"
	colorCoin     = "#ffcc44"
	colorHUD      = "#888888"
	colorText     = "#d0d0d0"
	colorCursor   = "#ffffff"
)

var coinFrames = [][]string{
	coinWide("HEADS"),
	coinMedium("HEADS"),
	coinNarrow("H D"),
	coinEdge(),
	coinNarrow("T S"),
	coinMedium("TAILS"),
	coinWide("TAILS"),
	coinMedium("TAILS"),
	coinNarrow("T S"),
	coinEdge(),
	coinNarrow("H D"),
	coinMedium("HEADS"),
}

func coinWide(face string) []string {
	return []string{
		"     ___     ",
		`   /     \   `,
		`  /       \  `,
		" |  " + face + "  | ",
		`  \       /  `,
		`   \_____/   `,
	}
}

func coinMedium(face string) []string {
	return []string{
		"      _      ",
		`    /   \    `,
		`   /     \   `,
		"  | " + face + " |  ",
		`   \     /   `,
		`    \___/    `,
	}
}

func coinNarrow(face string) []string {
	return []string{
		"      _      ",
		`     / \     `,
		`    /   \    `,
		"   | " + face + " |   ",
		`    \   /    `,
		`     \_/     `,
	}
}

func coinEdge() []string {
	out := make([]string, 6)
	for i := range out {
		out[i] = "      |      "
	}
	return out
}

type frameMsg time.Time

// Module adapts Game to the executable host.
type Module struct {
	game    *Game
	canvas  *games.Canvas
	exit    tea.Cmd
	plain   bool
	cursor  int
	running bool
	last    time.Time
	now     func() time.Time

	originX, originY int
}

// New builds a module sharing scores with earlier launches.
func New(scores *Scores, rng *rand.Rand, plain bool) *Module {
	return &Module{
		game:   NewGame(rng, scores),
		plain:  plain,
		cursor: 4,
		now:    time.Now,
	}
}

// Register adds the module to reg. Scores live as long as the registry.
func Register(reg *executable.Registry, plain bool) {
	scores := &Scores{}
	reg.Register(ID, func() executable.GameModule {
		seed := uint64(time.Now().UnixNano())
		return New(scores, rand.New(rand.NewPCG(seed, seed>>1)), plain)
	})
}

// Game exposes the state machine.
func (m *Module) Game() *Game { return m.game }

func (m *Module) Start(screen executable.Screen, exit tea.Cmd) tea.Cmd {
	m.exit = exit
	m.canvas = games.NewCanvas(screen)
	m.running = true
	m.last = m.now()
	return m.nextFrame()
}

func (m *Module) Stop() { m.running = false }

func (m *Module) HandleResize(screen executable.Screen) tea.Cmd {
	if !m.running {
		return nil
	}
	m.canvas = games.NewCanvas(screen)
	return nil
}

func (m *Module) nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Module) Update(msg tea.Msg) tea.Cmd {
	if !m.running {
		return nil
	}
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		dt := min(now.Sub(m.last), maxStep)
		m.last = now
		if dt > 0 {
			m.game.Advance(dt)
		}
		return m.nextFrame()
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if idx, ok := m.cellAt(mouse.X, mouse.Y); ok {
			m.cursor = idx
			m.game.PlayerMove(idx)
		}
	}
	return nil
}

func (m *Module) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "esc", "q", "ctrl+c":
		return m.exit
	case "left", "h":
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case "down", "j":
		if m.cursor < 6 {
			m.cursor += 3
		}
	case "enter", "space":
		m.game.PlayerMove(m.cursor)
	default:
		if d, err := strconv.Atoi(key); err == nil {
			if idx, ok := CellForDigit(d); ok {
				m.cursor = idx
				m.game.PlayerMove(idx)
			}
		}
	}
	return nil
}

// cellAt maps a screen cell onto a board index. Grid lines map to nothing.
func (m *Module) cellAt(x, y int) (int, bool) {
	relX, relY := x-m.originX, y-m.originY
	if relX < 0 || relX >= boardW || relY < 0 || relY >= boardH {
		return 0, false
	}
	if relX%8 == 7 || relY%4 == 3 {
		return 0, false
	}
	return (relY/4)*3 + relX/8, true
}

func (m *Module) View() string {
	if m.canvas == nil {
		return ""
	}
	c := m.canvas
	c.Clear()
	m.drawScores()
	if m.game.Phase() == PhaseCoinFlip {
		m.drawCoin()
	} else {
		m.originX = (c.Width() - boardW) / 2
		m.originY = max((c.Height()-boardH)/2-1, 2)
		m.drawBoard()
		if m.game.Phase() == PhaseGameOver {
			m.drawOutcome()
		}
	}
	c.DrawCentered(c.Height()-1, m.hud(), colorHUD)
	return c.Render(m.plain)
}

func (m *Module) hud() string {
	switch {
	case m.game.PlayerCanMove():
		return "Your turn! 1-9/arrows:place  q:exit"
	case m.game.Phase() == PhasePlaying:
		return "Computer thinking...  q:exit"
	default:
		return "q:exit"
	}
}

func (m *Module) drawScores() {
	s := m.game.Scores()
	line := fmt.Sprintf("X: %d  O: %d  Draw: %d", s.Player, s.Computer, s.Draws)
	c := m.canvas
	sx := c.Width()/2 - len(line)/2
	c.DrawString(sx, 0, line, colorText)
	c.DrawString(sx, 0, "X:", colorPlayer)
	c.DrawString(sx+strings.Index(line, "O:"), 0, "O:", colorComputer)
	c.DrawString(sx+strings.Index(line, "Draw:"), 0, "Draw:", colorCoin)
}

func (m *Module) drawBoard() {
	c := m.canvas
	ox, oy := m.originX, m.originY
	board := m.game.Board()
	line, won := m.game.WinningLine()

	for idx, mark := range board {
		x := ox + (idx%3)*8 + 3
		y := oy + (idx/3)*4 + 1
		switch mark {
		case X:
			c.DrawString(x, y, "X", colorPlayer)
		case O:
			c.DrawString(x, y, "O", colorComputer)
		default:
			color := colorHint
			if idx == m.cursor && m.game.PlayerCanMove() {
				color = colorCursor
			}
			c.DrawString(x, y, strconv.Itoa(hints[idx]), color)
		}
		if won && (line[0] == idx || line[1] == idx || line[2] == idx) {
			c.Set(x-1, y, '[', colorCoin)
			c.Set(x+1, y, ']', colorCoin)
		} else if idx == m.cursor && m.game.PlayerCanMove() {
			c.Set(x-1, y, '>', colorCursor)
			c.Set(x+1, y, '<', colorCursor)
		}
	}

	for r := range 2 {
		y := oy + 3 + r*4
		for x := range boardW {
			ch := '-'
			if x == 7 || x == 15 {
				ch = '+'
			}
			c.Set(ox+x, y, ch, colorGrid)
		}
	}
	for col := range 2 {
		x := ox + 7 + col*8
		for row := range boardH {
			if row == 3 || row == 7 {
				continue
			}
			c.Set(x, oy+row, '|', colorGrid)
		}
	}
}

func (m *Module) drawCoin() {
	c := m.canvas
	lines := coinFrames[m.game.CoinFrame()]
	if !m.game.Spinning() {
		if m.game.Heads() {
			lines = coinWide("HEADS")
		} else {
			lines = coinWide("TAILS")
		}
	}
	cy := c.Height()/2 - 3
	c.DrawCentered(cy-2, "COIN FLIP", colorText)
	for i, l := range lines {
		c.DrawCentered(cy+i, l, colorCoin)
	}
	if m.game.Spinning() {
		return
	}
	if m.game.Heads() {
		c.DrawCentered(cy+len(lines)+1, "You go first!", colorPlayer)
	} else {
		c.DrawCentered(cy+len(lines)+1, "Computer goes first...", colorComputer)
	}
}

func (m *Module) drawOutcome() {
	msg, color := "It's a draw!", colorCoin
	switch m.game.Outcome() {
	case OutcomeWin:
		msg, color = "You win!", colorPlayer
	case OutcomeLose:
		msg, color = "Computer wins!", colorComputer
	}
	m.canvas.DrawCentered(m.originY+boardH+1, msg, color)
}
