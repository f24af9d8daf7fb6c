// Package manifest holds the in-memory content tree behind the terminal:
// pages, their subpages and the executables attached to them.
package manifest

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// RootName is the display name of the tree root.
const RootName = "~"

// Kind tags a tree entry as navigable or not. It is decided when the tree is
// built and never re-derived from the name afterwards.
type Kind int

const (
	// KindUnclassified marks a top-level name that is neither a directory nor a
	// subpage by convention. It is listed and readable but never a cd target.
	KindUnclassified Kind = iota
	KindDirectory
	KindSubpage
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindSubpage:
		return "subpage"
	default:
		return "unclassified"
	}
}

// ParseKind maps the manifest spelling of a kind. ok is false for unknown
// spellings, including the empty string.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "directory", "dir":
		return KindDirectory, true
	case "subpage", "page", "file":
		return KindSubpage, true
	default:
		return KindUnclassified, false
	}
}

// ClassifyName applies the naming convention used when a manifest entry has
// no explicit kind: one optional leading dot is ignored, then an uppercase
// first letter means directory and a lowercase one means subpage.
func ClassifyName(name string) Kind {
	base := strings.TrimPrefix(name, ".")
	for _, r := range base {
		switch {
		case unicode.IsUpper(r):
			return KindDirectory
		case unicode.IsLower(r):
			return KindSubpage
		default:
			return KindUnclassified
		}
	}
	return KindUnclassified
}

// Executable describes a runnable entry attached to a page.
type Executable struct {
	Name string
	// Source identifies the hosted module; the executable registry resolves it.
	Source string
	Help   string
	// MobileHidden disables the executable on constrained clients.
	MobileHidden bool

	helpRef string
}

// HasHelp reports whether help text was loaded for the executable.
func (e *Executable) HasHelp() bool {
	return e != nil && e.Help != ""
}

// Node is one page of the tree. Children keep their declared order and are
// looked up case-insensitively through a folded index.
type Node struct {
	Name    string
	Kind    Kind
	Content string

	contentRef string

	children   []*Node
	index      map[string]*Node
	childOrder []string

	executables []*Executable
	execIndex   map[string]*Executable
}

func newNode(name string, kind Kind) *Node {
	return &Node{
		Name:      name,
		Kind:      kind,
		index:     make(map[string]*Node),
		execIndex: make(map[string]*Executable),
	}
}

func foldKey(name string) string {
	return cases.Fold().String(name)
}

// addChild appends a child. A name that folds onto an existing child keeps
// the first entry in the index, matching first-match lookup.
func (n *Node) addChild(c *Node) {
	n.children = append(n.children, c)
	key := foldKey(c.Name)
	if _, exists := n.index[key]; !exists {
		n.index[key] = c
	}
}

func (n *Node) addExecutable(e *Executable) {
	n.executables = append(n.executables, e)
	key := foldKey(e.Name)
	if _, exists := n.execIndex[key]; !exists {
		n.execIndex[key] = e
	}
}

// Child finds a direct child by case-insensitive name.
func (n *Node) Child(name string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	c, ok := n.index[foldKey(name)]
	return c, ok
}

// Children returns children in display order: childOrder when the manifest
// declared one, insertion order otherwise. Names in childOrder that do not
// exist are skipped.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	if len(n.childOrder) == 0 {
		out := make([]*Node, len(n.children))
		copy(out, n.children)
		return out
	}
	out := make([]*Node, 0, len(n.childOrder))
	for _, name := range n.childOrder {
		if c, ok := n.Child(name); ok {
			out = append(out, c)
		}
	}
	return out
}

// ChildNames returns the names from Children.
func (n *Node) ChildNames() []string {
	children := n.Children()
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	return names
}

// Executable finds an executable by case-insensitive name.
func (n *Node) Executable(name string) (*Executable, bool) {
	if n == nil {
		return nil, false
	}
	e, ok := n.execIndex[foldKey(name)]
	return e, ok
}

// Executables returns the node's executables in declared order.
func (n *Node) Executables() []*Executable {
	if n == nil {
		return nil
	}
	out := make([]*Executable, len(n.executables))
	copy(out, n.executables)
	return out
}

// HasContent reports whether the node carries non-empty text.
func (n *Node) HasContent() bool {
	return n != nil && n.Content != ""
}

// HasVisibleContents reports whether ls would show anything besides "..":
// a non-hidden child, or a non-hidden executable usable on this client.
func (n *Node) HasVisibleContents(mobile bool) bool {
	if n == nil {
		return false
	}
	for _, c := range n.children {
		if !IsHidden(c.Name) {
			return true
		}
	}
	for _, e := range n.executables {
		if IsHidden(e.Name) {
			continue
		}
		if mobile && e.MobileHidden {
			continue
		}
		return true
	}
	return false
}

// IsHidden reports whether a name is dot-prefixed.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Tree is the loaded manifest. Root holds the top-level pages as children.
type Tree struct {
	Root *Node
	// Order is the configured listing order of top-level names.
	Order []string
	// MobileHidden lists top-level names omitted on constrained clients.
	MobileHidden []string
}

// PageNames returns the top-level listing order for a client class.
func (t *Tree) PageNames(mobile bool) []string {
	if t == nil {
		return nil
	}
	hidden := make(map[string]bool, len(t.MobileHidden))
	for _, name := range t.MobileHidden {
		hidden[name] = true
	}
	out := make([]string, 0, len(t.Order))
	for _, name := range t.Order {
		if mobile && hidden[name] {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Page returns a top-level node by case-insensitive name.
func (t *Tree) Page(name string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	return t.Root.Child(name)
}

// Lookup walks segment names from the root, matching case-insensitively.
// An empty segment list returns the root.
func (t *Tree) Lookup(segments []string) (*Node, bool) {
	if t == nil || t.Root == nil {
		return nil, false
	}
	node := t.Root
	for _, seg := range segments {
		next, ok := node.Child(seg)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Walk visits every node below the root depth-first, in insertion order.
func (t *Tree) Walk(fn func(n *Node)) {
	if t == nil || t.Root == nil {
		return
	}
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, c := range n.children {
			fn(c)
			visit(c)
		}
	}
	visit(t.Root)
}
