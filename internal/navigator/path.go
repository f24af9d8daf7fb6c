// Package navigator resolves virtual paths against the manifest tree.
package navigator

import (
	"strings"
)

// Path is a resolved location in the tree: the root, or a sequence of
// segment names as they are spelled in the manifest.
type Path struct {
	segments []string
}

// Root is the tree root, displayed as "~".
var Root = Path{}

// NewPath builds a path from segment names.
func NewPath(segments ...string) Path {
	if len(segments) == 0 {
		return Root
	}
	return Path{segments: append([]string(nil), segments...)}
}

// ParsePath reads the display form of a path ("~", "~/A/b" or "A/b").
// Empty segments are dropped. No tree lookup is performed.
func ParsePath(s string) Path {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "~"), "/")
	var segs []string
	for _, seg := range strings.Split(s, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return NewPath(segs...)
}

// String renders the display form.
func (p Path) String() string {
	if p.IsRoot() {
		return "~"
	}
	return "~/" + strings.Join(p.segments, "/")
}

func (p Path) IsRoot() bool { return len(p.segments) == 0 }

func (p Path) Depth() int { return len(p.segments) }

// Top returns the first segment, or "" at the root.
func (p Path) Top() string {
	if p.IsRoot() {
		return ""
	}
	return p.segments[0]
}

// Base returns the last segment, or "~" at the root.
func (p Path) Base() string {
	if p.IsRoot() {
		return "~"
	}
	return p.segments[len(p.segments)-1]
}

// Equal compares segment spellings exactly.
func (p Path) Equal(o Path) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

// Join appends one segment.
func (p Path) Join(name string) Path {
	segs := make([]string, 0, len(p.segments)+1)
	segs = append(segs, p.segments...)
	return Path{segments: append(segs, name)}
}

// ParentOf returns the enclosing path. ok is false at the root, which has
// no parent.
func ParentOf(p Path) (parent Path, ok bool) {
	if p.IsRoot() {
		return Root, false
	}
	return NewPath(p.segments[:len(p.segments)-1]...), true
}

// RelativeCd synthesizes the cd command that moves from cur to target. The
// result is empty when they are equal.
func RelativeCd(cur, target Path) string {
	switch {
	case cur.Equal(target):
		return ""
	case target.IsRoot():
		return "cd ~"
	case cur.IsRoot():
		return "cd " + target.Top()
	case cur.Top() == target.Top():
		return "cd " + strings.Repeat("../", cur.Depth()) + strings.Join(target.segments, "/")
	case cur.Depth() == 1 && target.Depth() == 1:
		return "cd ../" + target.Top()
	default:
		return "cd " + strings.Repeat("../", cur.Depth()) + strings.Join(target.segments, "/")
	}
}

// CdCommandFor is RelativeCd to a top-level page.
func CdCommandFor(cur Path, page string) string {
	return RelativeCd(cur, NewPath(page))
}
