package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// RunModel runs the terminal until the user quits. A width or height of 0
// is detected from stdout, falling back to 80x24; when both are 0 the
// program follows the real terminal size. startKeys are applied before the
// first frame. Extra ProgramOptions (e.g., custom IO) are passed through to
// tea.NewProgram.
func RunModel(m *Model, width, height int, startKeys []string, opts ...tea.ProgramOption) error {
	if width > 0 || height > 0 {
		runW, runH := width, height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = defaultWidth
		}
		if runH <= 0 {
			runH = defaultHeight
		}
		m.width, m.height = runW, runH
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	if len(startKeys) > 0 {
		m.startup = ApplyStartupKeys(m, startKeys)
	}

	prog := tea.NewProgram(m, opts...)
	_, err := prog.Run()
	return err
}
