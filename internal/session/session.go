// Package session holds the per-terminal state shared by the command
// processor and the input line.
package session

import (
	"github.com/oakwood-commons/termsite/internal/navigator"
)

// Session is owned by exactly one terminal instance.
type Session struct {
	// CurrentPath changes only on a successful cd.
	CurrentPath navigator.Path
	// IsRoot is set by the first sudo and never cleared.
	IsRoot bool
	// CatUsed suppresses the hint line until the next directory change.
	CatUsed bool
	// Mobile selects the constrained client class.
	Mobile bool
}

// New returns a session at the root.
func New(mobile bool) *Session {
	return &Session{CurrentPath: navigator.Root, Mobile: mobile}
}

// ChangeDir moves to p, re-arming the hint when the path actually changes.
func (s *Session) ChangeDir(p navigator.Path) {
	if !p.Equal(s.CurrentPath) {
		s.CatUsed = false
	}
	s.CurrentPath = p
}

// GoHome returns to the root and always re-arms the hint.
func (s *Session) GoHome() {
	s.CatUsed = false
	s.CurrentPath = navigator.Root
}
