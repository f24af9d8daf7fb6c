package fih

import (
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/termsite/internal/executable"
	"github.com/oakwood-commons/termsite/internal/games"
)

// ID is the module identifier manifests refer to.
const ID = "fih"

const (
	frameInterval = time.Second / 30
	maxStep       = 100 * time.Millisecond
	lookStep      = 0.08
)

var actionKeys = map[string]Action{
	"w":     Forward,
	"up":    Forward,
	"s":     Back,
	"down":  Back,
	"a":     Left,
	"d":     Right,
	"space": Rise,
	"c":     Sink,
}

type frameMsg time.Time

// Module adapts World to the executable host.
type Module struct {
	world   *World
	canvas  *games.Canvas
	exit    tea.Cmd
	rng     *rand.Rand
	plain   bool
	running bool
	last    time.Time
	now     func() time.Time
}

// New builds a module.
func New(rng *rand.Rand, plain bool) *Module {
	return &Module{rng: rng, plain: plain, now: time.Now}
}

// Register adds the module to reg.
func Register(reg *executable.Registry, plain bool) {
	reg.Register(ID, func() executable.GameModule {
		seed := uint64(time.Now().UnixNano())
		return New(rand.New(rand.NewPCG(seed, seed>>1)), plain)
	})
}

// World exposes the simulation.
func (m *Module) World() *World { return m.world }

func (m *Module) Start(screen executable.Screen, exit tea.Cmd) tea.Cmd {
	m.exit = exit
	m.canvas = games.NewCanvas(screen)
	m.world = NewWorld(m.rng)
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
			m.world.Step(dt.Seconds())
		}
		return m.nextFrame()
	case tea.KeyPressMsg:
		key := msg.String()
		if a, ok := actionKeys[key]; ok {
			m.world.Press(a)
			return nil
		}
		switch key {
		case "esc", "q", "ctrl+c":
			return m.exit
		case "left":
			m.world.Look(-lookStep, 0)
		case "right":
			m.world.Look(lookStep, 0)
		case "r":
			m.world.Look(0, -lookStep)
		case "f":
			m.world.Look(0, lookStep)
		}
	case tea.KeyReleaseMsg:
		if a, ok := actionKeys[msg.String()]; ok {
			m.world.Release(a)
		}
	}
	return nil
}

func (m *Module) View() string {
	if m.canvas == nil || m.world == nil {
		return ""
	}
	draw(m.canvas, m.world)
	return m.canvas.Render(m.plain)
}
