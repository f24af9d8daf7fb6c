package navigator

import (
	"errors"
	"strings"

	"github.com/oakwood-commons/termsite/internal/manifest"
)

var (
	// ErrNotFound reports a path that names nothing in the tree.
	ErrNotFound = errors.New("no such file or directory")
	// ErrNotDirectory reports a path that exists but cannot be entered.
	ErrNotDirectory = errors.New("not a directory")
)

// Resolver maps path strings onto the manifest tree.
type Resolver struct {
	tree *manifest.Tree
}

// NewResolver wraps a loaded tree.
func NewResolver(tree *manifest.Tree) *Resolver {
	return &Resolver{tree: tree}
}

// Tree returns the underlying manifest tree.
func (r *Resolver) Tree() *manifest.Tree { return r.tree }

// Resolve maps target onto a path relative to cur. Rules in order: empty,
// "~" and "/" are the root; one trailing slash is dropped; a leading "./" is
// dropped; "." is cur; ".." and "../rest" climb from cur; "~/rest" starts at
// the root; anything else walks from cur segment by segment.
func (r *Resolver) Resolve(target string, cur Path) (Path, error) {
	if target == "" || target == "~" || target == "/" {
		return Root, nil
	}
	if len(target) > 1 {
		target = strings.TrimSuffix(target, "/")
	}
	target = strings.TrimPrefix(target, "./")
	switch {
	case target == ".":
		return cur, nil
	case target == "..":
		parent, ok := ParentOf(cur)
		if !ok {
			return Root, ErrNotFound
		}
		return parent, nil
	case strings.HasPrefix(target, "../"):
		parent, ok := ParentOf(cur)
		if !ok {
			return Root, ErrNotFound
		}
		return r.ResolveFrom(parent, target[3:])
	case strings.HasPrefix(target, "~/"):
		return r.ResolveFrom(Root, target[2:])
	}
	return r.ResolveFrom(cur, target)
}

// ResolveFrom walks rel from base. Empty and "." segments are skipped, ".."
// climbs, and every other segment must name a child case-insensitively.
func (r *Resolver) ResolveFrom(base Path, rel string) (Path, error) {
	if rel == "" {
		return base, nil
	}
	cur := base
	for _, part := range strings.Split(rel, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			parent, ok := ParentOf(cur)
			if !ok {
				return Root, ErrNotFound
			}
			cur = parent
			continue
		}
		node, ok := r.Node(cur)
		if !ok {
			return Root, ErrNotFound
		}
		child, ok := node.Child(part)
		if !ok {
			return Root, ErrNotFound
		}
		cur = cur.Join(child.Name)
	}
	return cur, nil
}

// Node returns the tree node at p.
func (r *Resolver) Node(p Path) (*manifest.Node, bool) {
	if r == nil {
		return nil, false
	}
	return r.tree.Lookup(p.segments)
}

// IsDirectory holds for the root and for top-level directory pages.
func (r *Resolver) IsDirectory(p Path) bool {
	if p.IsRoot() {
		return true
	}
	if p.Depth() != 1 {
		return false
	}
	node, ok := r.Node(p)
	return ok && node.Kind == manifest.KindDirectory
}

// ResolveDirectory resolves target and requires a directory.
func (r *Resolver) ResolveDirectory(target string, cur Path) (Path, error) {
	p, err := r.Resolve(target, cur)
	if err != nil {
		return Root, err
	}
	if !r.IsDirectory(p) {
		return Root, ErrNotDirectory
	}
	return p, nil
}

// ResolveExecutable finds the executable named by target: a bare name, or a
// path whose last segment is the executable. At the root every top-level
// page is searched in declaration order.
func (r *Resolver) ResolveExecutable(target string, cur Path) (*manifest.Executable, bool) {
	clean := strings.TrimPrefix(target, "./")
	base := cur
	switch {
	case strings.HasPrefix(clean, "~/"):
		base = Root
		clean = clean[2:]
	case strings.HasPrefix(clean, "../"):
		parent, ok := ParentOf(cur)
		if !ok {
			return nil, false
		}
		base = parent
		clean = clean[3:]
	}

	dir, name := "", clean
	if i := strings.LastIndex(clean, "/"); i >= 0 {
		dir, name = clean[:i], clean[i+1:]
	}
	if dir != "" {
		p, err := r.ResolveFrom(base, dir)
		if err != nil {
			return nil, false
		}
		base = p
	}

	if base.IsRoot() {
		for _, page := range r.tree.Root.Children() {
			if exec, ok := page.Executable(name); ok {
				return exec, true
			}
		}
		return nil, false
	}
	node, ok := r.Node(base)
	if !ok {
		return nil, false
	}
	return node.Executable(name)
}
