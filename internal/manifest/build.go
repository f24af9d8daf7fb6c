package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

const (
	orderFile        = ".order"
	mobileHiddenFile = ".mobile-hidden"
	contentExt       = ".txt"
)

// BuildOptions names the source trees for BuildDocument. Either may be nil.
type BuildOptions struct {
	// Pages holds *.txt content files and directories of subpages.
	Pages fs.FS
	// PagesPrefix is prepended to content references ("pages" by default).
	PagesPrefix string
	// Executables mirrors the page layout; each non-.txt file is a module.
	Executables fs.FS
	// ExecutablesPrefix is prepended to help references ("executables" by default).
	ExecutablesPrefix string
}

// BuildDocument scans page and executable trees and produces the manifest
// document that describes them. Top-level entries get an explicit kind.
func BuildDocument(opts BuildOptions) (*Document, error) {
	pagesPrefix := opts.PagesPrefix
	if pagesPrefix == "" {
		pagesPrefix = "pages"
	}
	execPrefix := opts.ExecutablesPrefix
	if execPrefix == "" {
		execPrefix = "executables"
	}

	doc := &Document{Order: []string{}, MobileHidden: []string{}}
	if opts.Pages != nil {
		tree, err := scanPages(opts.Pages, ".", pagesPrefix)
		if err != nil {
			return nil, err
		}
		doc.Tree = tree
	}
	if opts.Executables != nil {
		if err := attachExecutables(opts.Executables, ".", execPrefix, doc.Tree); err != nil {
			return nil, err
		}
	}
	for i := range doc.Tree {
		doc.Tree[i].Entry.Kind = ClassifyName(doc.Tree[i].Name).manifestSpelling()
	}

	names := make([]string, len(doc.Tree))
	for i, ne := range doc.Tree {
		names[i] = ne.Name
	}
	if opts.Pages != nil {
		listed, err := readList(opts.Pages, orderFile)
		if err != nil {
			return nil, err
		}
		doc.Order = orderNames(listed, names)
		hidden, err := readList(opts.Pages, mobileHiddenFile)
		if err != nil {
			return nil, err
		}
		doc.MobileHidden = hidden
	}
	return doc, nil
}

func (k Kind) manifestSpelling() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindSubpage:
		return "subpage"
	default:
		return ""
	}
}

func scanPages(fsys fs.FS, dir, prefix string) (EntryList, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("scan pages %s: %w", dir, err)
	}
	var out EntryList
	find := func(name string) *Entry {
		for i := range out {
			if out[i].Name == name {
				return &out[i].Entry
			}
		}
		out = append(out, NamedEntry{Name: name})
		return &out[len(out)-1].Entry
	}

	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), contentExt) {
			continue
		}
		name := strings.TrimSuffix(de.Name(), contentExt)
		find(name).Content = path.Join(prefix, de.Name())
	}
	for _, de := range entries {
		if !de.IsDir() {
			continue
		}
		childDir := path.Join(dir, de.Name())
		children, err := scanPages(fsys, childDir, path.Join(prefix, de.Name()))
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			continue
		}
		names := make([]string, len(children))
		for i, c := range children {
			names[i] = c.Name
		}
		listed, err := readList(fsys, path.Join(childDir, orderFile))
		if err != nil {
			return nil, err
		}
		e := find(de.Name())
		e.Children = children
		e.ChildOrder = orderNames(listed, names)
	}
	return out, nil
}

func attachExecutables(fsys fs.FS, dir, prefix string, tree EntryList) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("scan executables %s: %w", dir, err)
	}
	for _, de := range entries {
		if !de.IsDir() {
			continue
		}
		idx := slices.IndexFunc(tree, func(ne NamedEntry) bool { return ne.Name == de.Name() })
		if idx < 0 {
			continue
		}
		entry := &tree[idx].Entry
		childDir := path.Join(dir, de.Name())
		childPrefix := path.Join(prefix, de.Name())
		execs, err := scanExecutableDir(fsys, childDir, childPrefix)
		if err != nil {
			return err
		}
		if len(execs) > 0 {
			entry.Executables = execs
		}
		if len(entry.Children) > 0 {
			if err := attachExecutables(fsys, childDir, childPrefix, entry.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func scanExecutableDir(fsys fs.FS, dir, prefix string) (ExecutableList, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("scan executables %s: %w", dir, err)
	}
	files := make(map[string]bool, len(entries))
	for _, de := range entries {
		if !de.IsDir() {
			files[de.Name()] = true
		}
	}
	var out ExecutableList
	for _, de := range entries {
		if de.IsDir() || strings.HasSuffix(de.Name(), contentExt) {
			continue
		}
		name := strings.TrimSuffix(de.Name(), path.Ext(de.Name()))
		if name == "" {
			continue
		}
		exec := ExecutableEntry{Src: name}
		if files[name+contentExt] {
			exec.Help = path.Join(prefix, name+contentExt)
		}
		out = append(out, NamedExecutable{Name: name, Executable: exec})
	}
	return out, nil
}

// readList reads a newline separated name list, trimming whitespace and a
// trailing .txt. A missing file yields an empty list.
func readList(fsys fs.FS, name string) ([]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	out := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), contentExt)
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// orderNames keeps listed names that exist, then appends the rest sorted.
func orderNames(listed, all []string) []string {
	out := make([]string, 0, len(all))
	for _, name := range listed {
		if slices.Contains(all, name) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	var rest []string
	for _, name := range all {
		if !slices.Contains(out, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
