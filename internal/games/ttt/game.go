// Package ttt is a tic-tac-toe executable: the player (X) against the
// computer (O), with a coin flip deciding who opens.
package ttt

import (
	"math/rand/v2"
	"time"
)

// Mark is the content of a board cell.
type Mark byte

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (m Mark) other() Mark {
	if m == X {
		return O
	}
	return X
}

// Phase is the game's current stage.
type Phase int

const (
	PhaseCoinFlip Phase = iota
	PhasePlaying
	PhaseGameOver
)

// Outcome is the result of a finished round.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
	OutcomeDraw
)

// Timings of the game loop.
const (
	CoinSpin      = 1500 * time.Millisecond
	CoinResult    = 800 * time.Millisecond
	CoinFrame     = 100 * time.Millisecond
	ComputerDelay = 500 * time.Millisecond
	GameOverPause = 2000 * time.Millisecond
)

// Board is the 3x3 grid, row-major from the top-left.
type Board [9]Mark

// numpad maps a digit key onto a cell so the keypad layout mirrors the board.
var numpad = map[int]int{7: 0, 8: 1, 9: 2, 4: 3, 5: 4, 6: 5, 1: 6, 2: 7, 3: 8}

// hints is the digit shown in each empty cell.
var hints = [9]int{7, 8, 9, 4, 5, 6, 1, 2, 3}

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// CellForDigit maps a keypad digit to a board index.
func CellForDigit(d int) (int, bool) {
	idx, ok := numpad[d]
	return idx, ok
}

// WinningLine returns the line completed by mark, if any.
func (b *Board) WinningLine(mark Mark) ([3]int, bool) {
	for _, l := range winLines {
		if b[l[0]] == mark && b[l[1]] == mark && b[l[2]] == mark {
			return l, true
		}
	}
	return [3]int{}, false
}

// Full reports whether no empty cell remains.
func (b *Board) Full() bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

// EmptyCells lists the free indexes in order.
func (b *Board) EmptyCells() []int {
	var out []int
	for i, m := range b {
		if m == Empty {
			out = append(out, i)
		}
	}
	return out
}

// ChooseMove picks the computer's cell: complete a line, else block the
// player, else take the centre, else any free cell. It returns -1 on a full
// board.
func ChooseMove(b Board, rng *rand.Rand) int {
	for _, mark := range []Mark{O, X} {
		for _, idx := range b.EmptyCells() {
			trial := b
			trial[idx] = mark
			if _, ok := trial.WinningLine(mark); ok {
				return idx
			}
		}
	}
	if b[4] == Empty {
		return 4
	}
	free := b.EmptyCells()
	if len(free) == 0 {
		return -1
	}
	return free[rng.IntN(len(free))]
}

// Scores persist across rounds and across launches of the executable.
type Scores struct {
	Player   int
	Computer int
	Draws    int
}

// Game is the state machine without any rendering.
type Game struct {
	rng    *rand.Rand
	scores *Scores

	board   Board
	phase   Phase
	turn    Mark
	outcome Outcome
	winLine [3]int
	hasWin  bool
	loser   Mark

	heads     bool
	spinning  bool
	coinTimer time.Duration
	timer     time.Duration
}

// NewGame starts a round with a coin flip.
func NewGame(rng *rand.Rand, scores *Scores) *Game {
	if scores == nil {
		scores = &Scores{}
	}
	g := &Game{rng: rng, scores: scores}
	g.flipCoin()
	return g
}

func (g *Game) flipCoin() {
	g.phase = PhaseCoinFlip
	g.heads = g.rng.Float64() < 0.5
	g.spinning = true
	g.coinTimer = 0
	g.timer = 0
}

func (g *Game) reset() {
	g.board = Board{}
	g.hasWin = false
	g.outcome = OutcomeNone
}

// Board returns a copy of the grid.
func (g *Game) Board() Board { return g.board }

// Phase is the current stage.
func (g *Game) Phase() Phase { return g.phase }

// Turn is whose move it is while playing.
func (g *Game) Turn() Mark { return g.turn }

// Outcome is the last round's result while the game-over pause runs.
func (g *Game) Outcome() Outcome { return g.outcome }

// Scores returns the running tally.
func (g *Game) Scores() Scores { return *g.scores }

// Heads reports the coin result; the player opens on heads.
func (g *Game) Heads() bool { return g.heads }

// Spinning reports whether the coin animation is still running.
func (g *Game) Spinning() bool { return g.phase == PhaseCoinFlip && g.spinning }

// CoinFrame is the index into the spin animation.
func (g *Game) CoinFrame() int {
	return int(g.coinTimer/CoinFrame) % len(coinFrames)
}

// WinningLine is the completed line of the last round, if any.
func (g *Game) WinningLine() ([3]int, bool) { return g.winLine, g.hasWin }

// PlayerCanMove reports whether player input is accepted.
func (g *Game) PlayerCanMove() bool {
	return g.phase == PhasePlaying && g.turn == X
}

// PlayerMove places an X. It is ignored unless it is the player's turn and
// the cell is free.
func (g *Game) PlayerMove(idx int) bool {
	if !g.PlayerCanMove() {
		return false
	}
	return g.place(idx, X)
}

func (g *Game) place(idx int, mark Mark) bool {
	if idx < 0 || idx > 8 || g.board[idx] != Empty {
		return false
	}
	g.board[idx] = mark

	if line, ok := g.board.WinningLine(mark); ok {
		g.winLine, g.hasWin = line, true
		if mark == X {
			g.outcome = OutcomeWin
			g.scores.Player++
		} else {
			g.outcome = OutcomeLose
			g.scores.Computer++
		}
		g.loser = mark.other()
		g.phase = PhaseGameOver
		g.timer = 0
		return true
	}
	if g.board.Full() {
		g.outcome = OutcomeDraw
		g.scores.Draws++
		g.loser = Empty
		g.phase = PhaseGameOver
		g.timer = 0
		return true
	}

	g.turn = mark.other()
	if g.turn == O {
		g.timer = ComputerDelay
	}
	return true
}

func (g *Game) openWith(mark Mark) {
	g.phase = PhasePlaying
	g.turn = mark
	if mark == O {
		g.timer = ComputerDelay
	}
}

// Advance moves the clock forward by dt.
func (g *Game) Advance(dt time.Duration) {
	switch g.phase {
	case PhaseCoinFlip:
		if g.spinning {
			g.coinTimer += dt
			if g.coinTimer >= CoinSpin {
				g.spinning = false
				g.timer = 0
			}
			return
		}
		g.timer += dt
		if g.timer >= CoinResult {
			if g.heads {
				g.openWith(X)
			} else {
				g.openWith(O)
			}
		}
	case PhasePlaying:
		if g.turn != O {
			return
		}
		g.timer -= dt
		if g.timer <= 0 {
			if move := ChooseMove(g.board, g.rng); move >= 0 {
				g.place(move, O)
			}
		}
	case PhaseGameOver:
		g.timer += dt
		if g.timer < GameOverPause {
			return
		}
		g.reset()
		if g.loser == Empty {
			g.flipCoin()
			return
		}
		g.openWith(g.loser)
	}
}
