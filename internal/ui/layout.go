package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/termsite/internal/linkify"
)

// span is a styled run of text. link is set for runs linkify recognised;
// cmd is the fixed command a click on the span types out.
type span struct {
	text  string
	style lipgloss.Style
	link  *linkify.Segment
	cmd   string
}

// rowKind says what a click on a row refers to.
type rowKind int

const (
	rowOther rowKind = iota
	rowLine
	rowNav
)

// row is one screen line.
type row struct {
	kind  rowKind
	spans []span
	// line indexes the scrollback for rowLine.
	line int
}

func (r row) plain() string {
	var b strings.Builder
	for _, s := range r.spans {
		b.WriteString(s.text)
	}
	return b.String()
}

// wrap breaks spans into rows at most width cells wide. A wide rune that
// would straddle the edge moves to the next row. There is always at least
// one row.
func wrap(spans []span, width int) [][]span {
	if width <= 0 {
		return [][]span{spans}
	}
	var (
		rows [][]span
		cur  []span
		used int
	)
	for _, sp := range spans {
		var b strings.Builder
		flush := func() {
			if b.Len() > 0 {
				cur = append(cur, span{text: b.String(), style: sp.style, link: sp.link, cmd: sp.cmd})
				b.Reset()
			}
		}
		for _, r := range sp.text {
			w := runewidth.RuneWidth(r)
			if used > 0 && used+w > width {
				flush()
				rows = append(rows, cur)
				cur, used = nil, 0
			}
			b.WriteRune(r)
			used += w
		}
		flush()
	}
	return append(rows, cur)
}

// render styles a row, wrapping links in terminal hyperlinks.
func render(spans []span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.text == "" {
			continue
		}
		styled := s.style.Render(s.text)
		if s.link != nil {
			styled = linkify.Hyperlink(*s.link, styled)
		}
		b.WriteString(styled)
	}
	return b.String()
}

// spanAt returns the span under column x.
func spanAt(spans []span, x int) (span, bool) {
	col := 0
	for _, s := range spans {
		w := runewidth.StringWidth(s.text)
		if x >= col && x < col+w {
			return s, true
		}
		col += w
	}
	return span{}, false
}
