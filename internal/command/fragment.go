package command

import (
	"strings"

	"github.com/oakwood-commons/termsite/internal/navigator"
)

// FragmentKind styles an output line.
type FragmentKind int

const (
	FragmentText FragmentKind = iota
	FragmentDirectory
	FragmentSubpage
	FragmentExecutable
)

// Fragment is one line of command output.
type Fragment struct {
	Text string
	// Instant fragments skip the typing animation.
	Instant bool
	Kind    FragmentKind
	// Color overrides the theme colour (hex, e.g. "#D97757").
	Color string
	// Tight lines render without the usual spacing; used for art.
	Tight bool
	// Action is set on clickable lines.
	Action *Action
}

// ActionKind identifies what a clickable line does.
type ActionKind int

const (
	// ActionOpenPage enters a top-level directory and shows it.
	ActionOpenPage ActionKind = iota
	// ActionOpenRootPage shows a top-level page that is not a directory.
	ActionOpenRootPage
	// ActionBack climbs one level.
	ActionBack
	// ActionOpenChild shows a child of the listed directory.
	ActionOpenChild
	// ActionRun launches an executable of the listed directory.
	ActionRun
)

// Action describes a click target. The command it types is computed at click
// time from the session's current path, not when the line was printed.
type Action struct {
	Kind ActionKind
	Name string
	// Dir is the directory the line was listed from.
	Dir navigator.Path
	// HasContents adds "&& ls ." after showing a page.
	HasContents bool
}

// Command returns the command line a click on the action types out.
func (a Action) Command(cur navigator.Path) string {
	switch a.Kind {
	case ActionOpenPage:
		show := "cat ."
		if a.HasContents {
			show += " && ls ."
		}
		if cur.Equal(navigator.NewPath(a.Name)) {
			return show
		}
		return navigator.CdCommandFor(cur, a.Name) + " && " + show
	case ActionOpenRootPage:
		if cur.IsRoot() {
			return "cat " + a.Name
		}
		return navigator.RelativeCd(cur, navigator.Root) + " && cat " + a.Name
	case ActionBack:
		return "cd .."
	case ActionOpenChild:
		return "cat " + a.Name
	case ActionRun:
		if cur.Equal(a.Dir) {
			return "sh " + a.Name
		}
		if nav := navigator.RelativeCd(cur, a.Dir); nav != "" {
			return nav + " && sh " + a.Name
		}
		return "sh " + a.Name
	default:
		return ""
	}
}

// Title is the tooltip-style verb for a clickable line.
func (a Action) Title() string {
	switch a.Kind {
	case ActionOpenPage:
		return "go to"
	case ActionBack:
		return "back"
	case ActionRun:
		return "run"
	default:
		return "open"
	}
}

// SplitChain splits a line on "&&", trimming each command. Empty commands
// are kept so their position in the chain is preserved.
func SplitChain(line string) []string {
	parts := strings.Split(line, "&&")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
