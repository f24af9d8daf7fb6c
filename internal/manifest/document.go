package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoTree is returned when a manifest document declares no pages.
var ErrNoTree = errors.New("manifest has no tree")

// Document is the serialized manifest.
type Document struct {
	Order        []string  `json:"order"`
	MobileHidden []string  `json:"mobileHidden"`
	Inline       bool      `json:"inline,omitempty"`
	Tree         EntryList `json:"tree"`
}

// Entry describes one page. Content and executable help are references to
// fetch unless the document is inline, in which case they hold the text.
type Entry struct {
	Kind        string         `json:"kind,omitempty"`
	Content     string         `json:"content,omitempty"`
	Children    EntryList      `json:"children,omitempty"`
	ChildOrder  []string       `json:"childOrder,omitempty"`
	Executables ExecutableList `json:"executables,omitempty"`
}

// ExecutableEntry is the serialized form of an executable.
type ExecutableEntry struct {
	Src          string `json:"src"`
	Help         string `json:"help,omitempty"`
	MobileHidden *bool  `json:"mobileHidden,omitempty"`
}

// NamedEntry pairs an entry with its key.
type NamedEntry struct {
	Name  string
	Entry Entry
}

// EntryList is a JSON object decoded with its key order intact.
type EntryList []NamedEntry

// NamedExecutable pairs an executable entry with its key.
type NamedExecutable struct {
	Name       string
	Executable ExecutableEntry
}

// ExecutableList is a JSON object of executables with key order intact.
type ExecutableList []NamedExecutable

// UnmarshalJSON decodes an object while keeping declaration order.
func (l *EntryList) UnmarshalJSON(data []byte) error {
	var out EntryList
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		out = append(out, NamedEntry{Name: key, Entry: e})
		return nil
	})
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalJSON writes the entries as an object in slice order.
func (l EntryList) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(l), func(i int) (string, any) {
		return l[i].Name, l[i].Entry
	})
}

// UnmarshalJSON decodes an object while keeping declaration order.
func (l *ExecutableList) UnmarshalJSON(data []byte) error {
	var out ExecutableList
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var e ExecutableEntry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("executable %q: %w", key, err)
		}
		out = append(out, NamedExecutable{Name: key, Executable: e})
		return nil
	})
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalJSON writes the executables as an object in slice order.
func (l ExecutableList) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(l), func(i int) (string, any) {
		return l[i].Name, l[i].Executable
	})
}

func decodeOrderedObject(data []byte, each func(key string, dec *json.Decoder) error) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		if err := each(key, dec); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func encodeOrderedObject(n int, at func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, val := at(i)
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode parses a manifest document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &doc, nil
}

// Encode renders a document the way the build command writes it:
// two-space indentation and a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	if doc.Order == nil {
		doc.Order = []string{}
	}
	if doc.MobileHidden == nil {
		doc.MobileHidden = []string{}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// NewTree instantiates the node structure of a document. Content is not
// fetched here; inline documents carry their text directly.
func NewTree(doc *Document) (*Tree, error) {
	if doc == nil || len(doc.Tree) == 0 {
		return nil, ErrNoTree
	}
	root := newNode(RootName, KindDirectory)
	for _, ne := range doc.Tree {
		kind, ok := ParseKind(ne.Entry.Kind)
		if !ok {
			if ne.Entry.Kind != "" {
				return nil, fmt.Errorf("page %q: unknown kind %q", ne.Name, ne.Entry.Kind)
			}
			kind = ClassifyName(ne.Name)
		}
		root.addChild(buildNode(ne.Name, kind, ne.Entry, doc.Inline))
	}
	order := doc.Order
	if len(order) == 0 {
		order = make([]string, 0, len(doc.Tree))
		for _, ne := range doc.Tree {
			order = append(order, ne.Name)
		}
	}
	return &Tree{
		Root:         root,
		Order:        append([]string(nil), order...),
		MobileHidden: append([]string(nil), doc.MobileHidden...),
	}, nil
}

func buildNode(name string, kind Kind, e Entry, inline bool) *Node {
	n := newNode(name, kind)
	if inline {
		n.Content = e.Content
	} else {
		n.contentRef = e.Content
	}
	for _, child := range e.Children {
		// Anything below the top level is a subpage.
		n.addChild(buildNode(child.Name, KindSubpage, child.Entry, inline))
	}
	if len(e.ChildOrder) > 0 {
		n.childOrder = append([]string(nil), e.ChildOrder...)
	}
	for _, ne := range e.Executables {
		exec := &Executable{
			Name:         ne.Name,
			Source:       ne.Executable.Src,
			MobileHidden: true,
		}
		if ne.Executable.MobileHidden != nil {
			exec.MobileHidden = *ne.Executable.MobileHidden
		}
		if inline {
			exec.Help = ne.Executable.Help
		} else {
			exec.helpRef = ne.Executable.Help
		}
		n.addExecutable(exec)
	}
	return n
}
