// Package executable hosts full-screen modules launched from the terminal.
package executable

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ErrUnknownModule is returned for a source with no registered factory.
var ErrUnknownModule = errors.New("unknown executable module")

// Screen is the area a module draws into.
type Screen struct {
	Width  int
	Height int
}

// GameModule is a full-screen program. Start receives the screen and a
// command that, when returned from Update, hands control back to the
// terminal. Stop is called on forced exit; HandleResize after the screen
// settles on a new size.
type GameModule interface {
	Start(screen Screen, exit tea.Cmd) tea.Cmd
	Stop()
	HandleResize(screen Screen) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Factory builds a fresh module instance.
type Factory func() GameModule

// Registry maps module identifiers to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds id to f. Registering an id twice panics.
func (r *Registry) Register(id string, f Factory) {
	id = NormalizeSource(id)
	if _, dup := r.factories[id]; dup {
		panic(fmt.Sprintf("executable: module %q registered twice", id))
	}
	r.factories[id] = f
}

// Lookup resolves a manifest source to its factory.
func (r *Registry) Lookup(src string) (Factory, error) {
	id := NormalizeSource(src)
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownModule, src, strings.Join(r.IDs(), ", "))
	}
	return f, nil
}

// IDs lists registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NormalizeSource maps a manifest src to a module identifier: the base name
// without extension, lower-cased. "/executables/Games/ttt.js" and "ttt" are
// the same module.
func NormalizeSource(src string) string {
	base := path.Base(strings.ReplaceAll(src, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.ToLower(base)
}
