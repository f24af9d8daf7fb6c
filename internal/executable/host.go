package executable

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/pkg/logger"
)

// DefaultResizeDebounce delays HandleResize until the size settles.
const DefaultResizeDebounce = 150 * time.Millisecond

// Messages produced by a module are tagged with the run they belong to so a
// tick that outlives its module is dropped.
type moduleMsg struct {
	run uint64
	msg tea.Msg
}

type exitMsg struct{ run uint64 }

type resizeMsg struct {
	run uint64
	seq uint64
}

// Host runs at most one module at a time.
type Host struct {
	registry *Registry
	debounce time.Duration

	current GameModule
	run     uint64
	screen  Screen
	seq     uint64
	lgr     logr.Logger
}

// NewHost creates a host. A non-positive debounce uses the default.
func NewHost(registry *Registry, debounce time.Duration) *Host {
	if debounce <= 0 {
		debounce = DefaultResizeDebounce
	}
	return &Host{registry: registry, debounce: debounce, lgr: logr.Discard()}
}

// Running reports whether a module owns the screen.
func (h *Host) Running() bool { return h.current != nil }

// Start launches the module for exec.
func (h *Host) Start(ctx context.Context, exec *manifest.Executable, screen Screen) (tea.Cmd, error) {
	factory, err := h.registry.Lookup(exec.Source)
	if err != nil {
		return nil, err
	}
	if h.current != nil {
		h.Stop()
	}
	h.lgr = logger.FromContext(ctx).WithValues(logger.ExecutableKey, exec.Name)
	h.run++
	h.current = factory()
	h.screen = screen
	run := h.run
	exit := func() tea.Msg { return exitMsg{run: run} }
	h.lgr.Info("executable started", "source", exec.Source)
	return h.wrap(h.current.Start(screen, exit)), nil
}

// Stop ends the running module, if any.
func (h *Host) Stop() {
	if h.current == nil {
		return
	}
	h.current.Stop()
	h.lgr.Info("executable stopped")
	h.current = nil
	h.run++
}

// Update routes a message to the module. exited is true when the module
// handed control back on its own.
func (h *Host) Update(msg tea.Msg) (cmd tea.Cmd, exited bool) {
	if h.current == nil {
		return nil, false
	}
	switch msg := msg.(type) {
	case exitMsg:
		if msg.run != h.run {
			return nil, false
		}
		h.Stop()
		return nil, true
	case moduleMsg:
		if msg.run != h.run {
			return nil, false
		}
		return h.wrap(h.current.Update(msg.msg)), false
	case tea.WindowSizeMsg:
		h.screen = Screen{Width: msg.Width, Height: msg.Height}
		h.seq++
		run, seq := h.run, h.seq
		return tea.Tick(h.debounce, func(time.Time) tea.Msg {
			return resizeMsg{run: run, seq: seq}
		}), false
	case resizeMsg:
		if msg.run != h.run || msg.seq != h.seq {
			return nil, false
		}
		return h.wrap(h.current.HandleResize(h.screen)), false
	}
	return h.wrap(h.current.Update(msg)), false
}

// View renders the module.
func (h *Host) View() string {
	if h.current == nil {
		return ""
	}
	return h.current.View()
}

// wrap tags every message cmd produces with the current run. Batches are
// unpacked so each inner command is tagged.
func (h *Host) wrap(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	run := h.run
	var tagged func(c tea.Cmd) tea.Cmd
	tagged = func(c tea.Cmd) tea.Cmd {
		return func() tea.Msg {
			msg := c()
			switch m := msg.(type) {
			case nil:
				return nil
			case exitMsg:
				return m
			case tea.BatchMsg:
				out := make(tea.BatchMsg, 0, len(m))
				for _, inner := range m {
					if inner != nil {
						out = append(out, tagged(inner))
					}
				}
				return out
			default:
				return moduleMsg{run: run, msg: msg}
			}
		}
	}
	return tagged(cmd)
}
