package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/termsite/internal/command"
	"github.com/oakwood-commons/termsite/internal/config"
	"github.com/oakwood-commons/termsite/internal/linkify"
)

// Theme holds the terminal's colours.
type Theme struct {
	User       color.Color // Prompt user@host
	RootUser   color.Color // Prompt user@host after sudo
	Path       color.Color // Prompt path
	Dollar     color.Color // Prompt "$ "
	Text       color.Color // Plain output and typed input
	Hint       color.Color // Hint after an empty prompt
	Directory  color.Color // Directory entries in ls
	Subpage    color.Color // Subpage entries in ls
	Executable color.Color // Executable entries in ls
	Link       color.Color // Links found in output
	Accent     color.Color // Reverse search label
	Welcome    color.Color // Boot greeting
	Candidate  color.Color // Tab completion listing
	Nav        color.Color // Top bar
}

// ThemeFromConfig converts hex strings to colours. Empty values fall back
// to the embedded defaults.
func ThemeFromConfig(c config.ThemeConfig) Theme {
	var defaults config.ThemeConfig
	if cfg, err := config.Default(); err == nil {
		defaults = cfg.Theme
	}
	pick := func(v, fallback string) color.Color {
		if v == "" {
			v = fallback
		}
		if v == "" {
			return nil
		}
		return lipgloss.Color(v)
	}
	return Theme{
		User:       pick(c.User, defaults.User),
		RootUser:   pick(c.RootUser, defaults.RootUser),
		Path:       pick(c.Path, defaults.Path),
		Dollar:     pick(c.Dollar, defaults.Dollar),
		Text:       pick(c.Text, defaults.Text),
		Hint:       pick(c.Hint, defaults.Hint),
		Directory:  pick(c.Directory, defaults.Directory),
		Subpage:    pick(c.Subpage, defaults.Subpage),
		Executable: pick(c.Executable, defaults.Executable),
		Link:       pick(c.Link, defaults.Link),
		Accent:     pick(c.Accent, defaults.Accent),
		Welcome:    pick(c.Welcome, defaults.Welcome),
		Candidate:  pick(c.Candidate, defaults.Candidate),
		Nav:        pick(c.Nav, defaults.Nav),
	}
}

// styles are the lipgloss styles derived from a Theme. With noColor every
// style is colourless but keeps its attributes.
type styles struct {
	user, rootUser, path, dollar lipgloss.Style
	text, hint, welcome          lipgloss.Style
	directory, subpage, exec     lipgloss.Style
	link, accent, candidate, nav lipgloss.Style
	cursor                       lipgloss.Style
	noColor                      bool
}

func newStyles(t Theme, noColor bool) styles {
	fg := func(c color.Color) lipgloss.Style {
		s := lipgloss.NewStyle()
		if noColor || c == nil {
			return s
		}
		return s.Foreground(c)
	}
	return styles{
		user:      fg(t.User),
		rootUser:  fg(t.RootUser),
		path:      fg(t.Path),
		dollar:    fg(t.Dollar),
		text:      fg(t.Text),
		hint:      fg(t.Hint),
		welcome:   fg(t.Welcome),
		directory: fg(t.Directory).Bold(true),
		subpage:   fg(t.Subpage),
		exec:      fg(t.Executable),
		link:      fg(t.Link).Underline(true),
		accent:    fg(t.Accent),
		candidate: fg(t.Candidate),
		nav:       fg(t.Nav),
		cursor:    lipgloss.NewStyle().Reverse(true),
		noColor:   noColor,
	}
}

// fragment picks the style of an output line.
func (s styles) fragment(f command.Fragment) lipgloss.Style {
	if f.Color != "" && !s.noColor {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(f.Color))
	}
	switch f.Kind {
	case command.FragmentDirectory:
		return s.directory
	case command.FragmentSubpage:
		return s.subpage
	case command.FragmentExecutable:
		return s.exec
	}
	return s.text
}

// segment picks the style of a linkified run.
func (s styles) segment(seg linkify.Segment, base lipgloss.Style) lipgloss.Style {
	if seg.IsLink() {
		return s.link
	}
	return base
}
