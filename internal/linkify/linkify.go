// Package linkify finds link-like text in output lines.
package linkify

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Kind of a segment.
type Kind int

const (
	Text     Kind = iota
	URL           // http(s) address
	Email         // bare e-mail address
	Domain        // bare domain, opened over https
	External      // [label](http... or mailto:...)
	Page          // [label](page/path) inside the tree
)

// Segment is a run of a line. Target is the href for external kinds and the
// page path for Page.
type Segment struct {
	Kind   Kind
	Text   string
	Target string
}

// IsLink reports whether the segment is clickable.
func (s Segment) IsLink() bool { return s.Kind != Text }

var (
	conditionalPattern = regexp.MustCompile(`\{\{([^}]*)\}\{([^}]*)\}\}`)
	linkPattern        = regexp.MustCompile(`(https?://[^\s]+)|([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})|([a-zA-Z0-9\-]+\.[a-zA-Z]{2,}(?:/[^\s]*)?)`)
	pageLinkPattern    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// ResolveConditional replaces every {{desktop}{mobile}} group with the side
// for the client class.
func ResolveConditional(text string, mobile bool) string {
	return conditionalPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := conditionalPattern.FindStringSubmatch(m)
		if mobile {
			return sub[2]
		}
		return sub[1]
	})
}

// Split breaks a line into text and link segments. Page references are
// matched first; bare links are found in the text between them.
func Split(line string) []Segment {
	var out []Segment
	last := 0
	for _, m := range pageLinkPattern.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, splitBare(line[last:m[0]])...)
		label, target := line[m[2]:m[3]], line[m[4]:m[5]]
		switch {
		case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"), strings.HasPrefix(target, "mailto:"):
			out = append(out, Segment{Kind: External, Text: label, Target: target})
		default:
			out = append(out, Segment{Kind: Page, Text: label, Target: target})
		}
		last = m[1]
	}
	return append(out, splitBare(line[last:])...)
}

func splitBare(text string) []Segment {
	if text == "" {
		return nil
	}
	var out []Segment
	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, Segment{Kind: Text, Text: text[last:m[0]]})
		}
		raw := text[m[0]:m[1]]
		switch {
		case m[4] >= 0:
			out = append(out, Segment{Kind: Email, Text: raw, Target: "mailto:" + raw})
		case m[6] >= 0:
			out = append(out, Segment{Kind: Domain, Text: raw, Target: "https://" + raw})
		default:
			out = append(out, Segment{Kind: URL, Text: raw, Target: raw})
		}
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Segment{Kind: Text, Text: text[last:]})
	}
	return out
}

// HasLinks reports whether any segment is clickable.
func HasLinks(segs []Segment) bool {
	for _, s := range segs {
		if s.IsLink() {
			return true
		}
	}
	return false
}

// Plain joins the visible text of the segments.
func Plain(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Hyperlink wraps already-styled text in an OSC 8 hyperlink for external
// segments. Other segments are returned unchanged.
func Hyperlink(seg Segment, styled string) string {
	switch seg.Kind {
	case URL, Email, Domain, External:
		return ansi.SetHyperlink(seg.Target) + styled + ansi.ResetHyperlink()
	default:
		return styled
	}
}
