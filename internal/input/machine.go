// Package input owns the prompt's edit line: cursor movement, kill commands,
// history recall, reverse history search and tab completion.
package input

import (
	"strings"

	"github.com/oakwood-commons/termsite/internal/completion"
)

// Key is a key press as named by the terminal layer ("ctrl+a", "left",
// "space", "x") plus the text it would insert, if any.
type Key struct {
	Name string
	Text string
}

// EffectKind tells the caller what a key press requires beyond the edit.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectSubmit carries the line to echo and run.
	EffectSubmit
	// EffectClearScreen wipes the scrollback.
	EffectClearScreen
	// EffectCancelLine echoes the abandoned line followed by ^C.
	EffectCancelLine
	// EffectShowCandidates lists completion candidates under the prompt.
	EffectShowCandidates
)

// Effect is the result of handling a key.
type Effect struct {
	Kind       EffectKind
	Line       string
	Candidates []completion.Completion
}

// Completer returns completions for a whole input line.
type Completer func(line string) []completion.Completion

// Machine is the edit-line state machine. It is not safe for concurrent use.
type Machine struct {
	buf    []rune
	cursor int

	history []string
	histIdx int

	lastTab    string
	lastTabSet bool

	searching bool
	query     string
	match     int

	complete Completer
}

// NewMachine creates an empty line. complete may be nil.
func NewMachine(complete Completer) *Machine {
	return &Machine{complete: complete, match: -1}
}

// Line is the current edit buffer.
func (m *Machine) Line() string { return string(m.buf) }

// Cursor is the rune offset of the cursor.
func (m *Machine) Cursor() int { return m.cursor }

// History returns submitted lines, oldest first.
func (m *Machine) History() []string { return append([]string(nil), m.history...) }

// Searching reports whether reverse search is active.
func (m *Machine) Searching() bool { return m.searching }

// SearchQuery is the reverse search query.
func (m *Machine) SearchQuery() string { return m.query }

// SearchMatch is the history entry the query currently matches, or "".
func (m *Machine) SearchMatch() string {
	if m.match < 0 || m.match >= len(m.history) {
		return ""
	}
	return m.history[m.match]
}

// SetLine replaces the buffer and puts the cursor at its end.
func (m *Machine) SetLine(s string) {
	m.buf = []rune(s)
	m.cursor = len(m.buf)
}

// Clear empties the buffer.
func (m *Machine) Clear() { m.SetLine("") }

// Reset leaves reverse search and empties the buffer, ready for typing
// driven from outside the keyboard.
func (m *Machine) Reset() {
	m.endSearch()
	m.lastTabSet = false
	m.Clear()
}

// Insert types s at the cursor. Only the first line of s is used.
func (m *Machine) Insert(s string) {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return
	}
	if m.searching {
		m.query += s
		m.search(m.searchStart())
		return
	}
	r := []rune(s)
	out := make([]rune, 0, len(m.buf)+len(r))
	out = append(out, m.buf[:m.cursor]...)
	out = append(out, r...)
	out = append(out, m.buf[m.cursor:]...)
	m.buf = out
	m.cursor += len(r)
}

// Paste inserts the first line of clipboard text.
func (m *Machine) Paste(text string) { m.Insert(text) }

// Commit records line in history (unless blank), resets recall and clears
// the buffer. It returns line unchanged.
func (m *Machine) Commit(line string) string {
	if strings.TrimSpace(line) != "" {
		m.history = append(m.history, line)
	}
	m.histIdx = len(m.history)
	m.Clear()
	return line
}

// HandleKey applies one key press.
func (m *Machine) HandleKey(k Key) Effect {
	if m.searching {
		return m.handleSearchKey(k)
	}
	if k.Name != "tab" {
		m.lastTabSet = false
	}

	switch k.Name {
	case "ctrl+left", "alt+left", "alt+b":
		m.cursor = m.wordLeft(m.cursor)
	case "ctrl+right", "alt+right", "alt+f":
		m.cursor = m.wordRight(m.cursor)
	case "ctrl+backspace", "alt+backspace", "ctrl+w":
		start := m.wordLeft(m.cursor)
		m.buf = append(m.buf[:start:start], m.buf[m.cursor:]...)
		m.cursor = start
	case "alt+d":
		end := m.wordRight(m.cursor)
		m.buf = append(m.buf[:m.cursor:m.cursor], m.buf[end:]...)
	case "ctrl+l":
		m.Clear()
		return Effect{Kind: EffectClearScreen}
	case "ctrl+c":
		line := m.Line()
		m.Clear()
		return Effect{Kind: EffectCancelLine, Line: line + "^C"}
	case "ctrl+u", "super+backspace":
		m.buf = append([]rune(nil), m.buf[m.cursor:]...)
		m.cursor = 0
	case "ctrl+a", "home", "super+left":
		m.cursor = 0
	case "ctrl+e", "end", "super+right":
		m.cursor = len(m.buf)
	case "ctrl+k":
		m.buf = m.buf[:m.cursor]
	case "ctrl+r":
		m.searching = true
		m.query = ""
		m.match = -1
	case "tab":
		return m.tab()
	case "enter":
		return Effect{Kind: EffectSubmit, Line: m.Commit(m.Line())}
	case "backspace", "ctrl+h":
		if m.cursor > 0 {
			m.buf = append(m.buf[:m.cursor-1:m.cursor-1], m.buf[m.cursor:]...)
			m.cursor--
		}
	case "delete", "ctrl+d":
		if m.cursor < len(m.buf) {
			m.buf = append(m.buf[:m.cursor:m.cursor], m.buf[m.cursor+1:]...)
		}
	case "left", "ctrl+b":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "ctrl+f":
		if m.cursor < len(m.buf) {
			m.cursor++
		}
	case "up", "ctrl+p":
		if m.histIdx > 0 {
			m.histIdx--
			m.SetLine(m.history[m.histIdx])
		}
	case "down", "ctrl+n":
		if m.histIdx < len(m.history)-1 {
			m.histIdx++
			m.SetLine(m.history[m.histIdx])
		} else {
			m.histIdx = len(m.history)
			m.Clear()
		}
	case "space":
		m.Insert(" ")
	default:
		if isPrintable(k) {
			m.Insert(k.Text)
		}
	}
	return Effect{}
}

func isPrintable(k Key) bool {
	if k.Text == "" {
		return false
	}
	return !strings.HasPrefix(k.Name, "ctrl+") && !strings.HasPrefix(k.Name, "alt+") && !strings.HasPrefix(k.Name, "super+")
}

// tab accepts a single candidate, and lists several only when Tab is
// pressed twice on the same input.
func (m *Machine) tab() Effect {
	if m.complete == nil {
		return Effect{}
	}
	line := m.Line()
	cands := m.complete(line)
	switch {
	case len(cands) == 1:
		m.SetLine(cands[0].Text)
		m.lastTabSet = false
	case len(cands) > 1:
		if m.lastTabSet && m.lastTab == line {
			m.lastTabSet = false
			return Effect{Kind: EffectShowCandidates, Candidates: cands}
		}
		m.lastTab, m.lastTabSet = line, true
	}
	return Effect{}
}

func (m *Machine) handleSearchKey(k Key) Effect {
	switch k.Name {
	case "ctrl+r":
		if m.match > 0 {
			m.search(m.match - 1)
		}
	case "enter":
		line := m.SearchMatch()
		m.endSearch()
		// A failed search gives the edited line back untouched.
		if line == "" {
			return Effect{}
		}
		return Effect{Kind: EffectSubmit, Line: m.Commit(line)}
	case "left", "right", "up", "down", "home", "end":
		line := m.SearchMatch()
		m.endSearch()
		if line != "" {
			m.SetLine(line)
		}
	case "esc", "ctrl+c", "ctrl+g":
		m.endSearch()
		m.Clear()
	case "backspace", "ctrl+h":
		if q := []rune(m.query); len(q) > 0 {
			m.query = string(q[:len(q)-1])
			m.search(len(m.history) - 1)
		}
	case "space":
		m.Insert(" ")
	default:
		if isPrintable(k) {
			m.Insert(k.Text)
		}
	}
	return Effect{}
}

func (m *Machine) searchStart() int {
	if m.match >= 0 {
		return m.match
	}
	return len(m.history) - 1
}

// search finds the newest entry at or before from containing the query.
// The current match is kept when nothing is found.
func (m *Machine) search(from int) {
	if m.query == "" {
		m.match = -1
		return
	}
	for i := from; i >= 0; i-- {
		if strings.Contains(m.history[i], m.query) {
			m.match = i
			return
		}
	}
}

func (m *Machine) endSearch() {
	m.searching = false
	m.query = ""
	m.match = -1
}

func (m *Machine) wordLeft(pos int) int {
	i := pos - 1
	for i > 0 && m.buf[i] == ' ' {
		i--
	}
	for i > 0 && m.buf[i-1] != ' ' {
		i--
	}
	if i < 0 {
		return 0
	}
	return i
}

func (m *Machine) wordRight(pos int) int {
	i := pos
	for i < len(m.buf) && m.buf[i] != ' ' {
		i++
	}
	for i < len(m.buf) && m.buf[i] == ' ' {
		i++
	}
	return i
}
