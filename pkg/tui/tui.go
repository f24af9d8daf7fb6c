// Package tui runs termsite's interactive terminal for host applications.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/termsite/internal/ui"
	"github.com/oakwood-commons/termsite/pkg/core"
)

const (
	defaultFallbackTermWidth  = 80
	defaultFallbackTermHeight = 24
)

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS and LINES
// environment variables. If detection fails completely it returns 80x24.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	width, height = defaultFallbackTermWidth, defaultFallbackTermHeight
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			width = w
		}
	}
	if rows := os.Getenv("LINES"); rows != "" {
		if h, err := strconv.Atoi(rows); err == nil && h > 0 {
			height = h
		}
	}
	return width, height
}

// NewModel builds the terminal model over a loaded engine without running it.
func NewModel(ctx context.Context, engine *core.Engine, cfg Config) (*ui.Model, error) {
	if engine == nil || engine.Processor() == nil {
		return nil, core.ErrNotLoaded
	}
	settings := cfg.settings(engine.Config)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	mobile := cfg.Mobile || engine.Mobile
	return ui.New(ctx, engine.Processor(), core.NewRegistry(cfg.NoColor), ui.Options{
		Config:  settings,
		Mobile:  mobile,
		NoColor: cfg.NoColor,
		Width:   cfg.Width,
		Height:  cfg.Height,
	}), nil
}

// Run starts the terminal over a loaded engine and blocks until the user
// quits. Host applications can pass optional tea.ProgramOption values to
// control IO.
func Run(ctx context.Context, engine *core.Engine, cfg Config, opts ...tea.ProgramOption) error {
	if ctx == nil {
		return errors.New("nil context")
	}
	m, err := NewModel(ctx, engine, cfg)
	if err != nil {
		return err
	}
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	return ui.RunModel(m, cfg.Width, cfg.Height, cfg.StartKeys, opts...)
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
