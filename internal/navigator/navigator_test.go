package navigator

import (
	"context"
	"strings"
	"testing"

	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "inline": true,
  "order": ["About", "Projects", "Games", "notes"],
  "tree": {
    "About": {"content": "hi"},
    "Projects": {
      "children": {"Demo": {"content": "x"}, "other": {"content": "y"}},
      "childOrder": ["Demo", "other"]
    },
    "Games": {
      "children": {"rules": {"content": "r"}},
      "executables": {"ttt": {"src": "ttt"}, "fih": {"src": "fih"}}
    },
    "notes": {"content": "n"}
  }
}`

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	tree, err := manifest.Parse(context.Background(), []byte(fixture), nil)
	require.NoError(t, err)
	return NewResolver(tree)
}

func TestPathDisplay(t *testing.T) {
	assert.Equal(t, "~", Root.String())
	assert.Equal(t, "~/Projects/Demo", NewPath("Projects", "Demo").String())
	assert.True(t, ParsePath("~/Projects/Demo").Equal(NewPath("Projects", "Demo")))
	assert.True(t, ParsePath("~").IsRoot())
	assert.True(t, ParsePath("Projects/").Equal(NewPath("Projects")))
	assert.Equal(t, "Demo", NewPath("Projects", "Demo").Base())
	assert.Equal(t, "~", Root.Base())
}

func TestParentOf(t *testing.T) {
	_, ok := ParentOf(Root)
	assert.False(t, ok)

	p, ok := ParentOf(NewPath("Projects"))
	require.True(t, ok)
	assert.True(t, p.IsRoot())

	p, ok = ParentOf(NewPath("Projects", "Demo"))
	require.True(t, ok)
	assert.Equal(t, "~/Projects", p.String())
}

func TestResolve(t *testing.T) {
	r := newResolver(t)
	projects := NewPath("Projects")
	demo := NewPath("Projects", "Demo")

	tests := []struct {
		name    string
		target  string
		cur     Path
		want    string
		wantErr error
	}{
		{"empty", "", demo, "~", nil},
		{"tilde", "~", demo, "~", nil},
		{"slash", "/", demo, "~", nil},
		{"dot", ".", demo, "~/Projects/Demo", nil},
		{"dot slash", "./", projects, "~/Projects", nil},
		{"parent at root", "..", Root, "", ErrNotFound},
		{"parent of top", "..", projects, "~", nil},
		{"parent of subpage", "..", demo, "~/Projects", nil},
		{"parent then sibling", "../About", projects, "~/About", nil},
		{"parent prefix at root", "../About", Root, "", ErrNotFound},
		{"from root", "~/projects/demo", NewPath("About"), "~/Projects/Demo", nil},
		{"relative child", "demo", projects, "~/Projects/Demo", nil},
		{"case folded", "PROJECTS", Root, "~/Projects", nil},
		{"trailing slash", "Projects/", Root, "~/Projects", nil},
		{"dot slash prefix", "./Demo", projects, "~/Projects/Demo", nil},
		{"mid path climb", "Projects/../About", Root, "~/About", nil},
		{"mid path dot", "Projects/./Demo", Root, "~/Projects/Demo", nil},
		{"missing", "nonexistent", Root, "", ErrNotFound},
		{"missing nested", "Projects/ghost", Root, "", ErrNotFound},
		{"climb past root", "../..", projects, "", ErrNotFound},
		{"executable is not a path", "ttt", NewPath("Games"), "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.target, tt.cur)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveIsCaseInsensitiveForEveryRootChild(t *testing.T) {
	r := newResolver(t)
	for _, name := range r.Tree().Root.ChildNames() {
		exact, err := r.Resolve(name, Root)
		require.NoError(t, err)
		lower, err := r.Resolve(strings.ToLower(name), Root)
		require.NoError(t, err)
		assert.True(t, exact.Equal(lower), name)
	}
}

func TestResolveDotIsIdentity(t *testing.T) {
	r := newResolver(t)
	for _, p := range []Path{Root, NewPath("Projects"), NewPath("Projects", "Demo"), NewPath("notes")} {
		got, err := r.Resolve(".", p)
		require.NoError(t, err)
		assert.True(t, got.Equal(p), p.String())
	}
}

func TestIsDirectory(t *testing.T) {
	r := newResolver(t)
	assert.True(t, r.IsDirectory(Root))
	assert.True(t, r.IsDirectory(NewPath("Projects")))
	assert.False(t, r.IsDirectory(NewPath("notes")))
	assert.False(t, r.IsDirectory(NewPath("Projects", "Demo")))
	assert.False(t, r.IsDirectory(NewPath("Ghost")))
}

func TestResolveDirectory(t *testing.T) {
	r := newResolver(t)
	_, err := r.ResolveDirectory("notes", Root)
	require.ErrorIs(t, err, ErrNotDirectory)
	_, err = r.ResolveDirectory("nope", Root)
	require.ErrorIs(t, err, ErrNotFound)
	p, err := r.ResolveDirectory("games", Root)
	require.NoError(t, err)
	assert.Equal(t, "~/Games", p.String())
}

func TestResolveExecutable(t *testing.T) {
	r := newResolver(t)
	games := NewPath("Games")

	tests := []struct {
		name   string
		target string
		cur    Path
		want   string
	}{
		{"bare name in page", "ttt", games, "ttt"},
		{"dot slash", "./TTT", games, "ttt"},
		{"root searches pages", "fih", Root, "fih"},
		{"absolute", "~/Games/ttt", NewPath("About"), "ttt"},
		{"relative page", "Games/fih", Root, "fih"},
		{"parent", "../Games/ttt", NewPath("Projects"), "ttt"},
		{"missing", "snake", games, ""},
		{"wrong page", "ttt", NewPath("Projects"), ""},
		{"parent at root", "../ttt", Root, ""},
		{"bad dir", "Ghost/ttt", Root, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, ok := r.ResolveExecutable(tt.target, tt.cur)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, exec.Name)
		})
	}
}

func TestRelativeCd(t *testing.T) {
	tests := []struct {
		name   string
		cur    Path
		target Path
		want   string
	}{
		{"same", NewPath("Projects"), NewPath("Projects"), ""},
		{"same root", Root, Root, ""},
		{"to root", NewPath("Projects", "Demo"), Root, "cd ~"},
		{"from root", Root, NewPath("Projects"), "cd Projects"},
		{"from root deep", Root, NewPath("Projects", "Demo"), "cd Projects"},
		{"same branch", NewPath("Projects", "Demo"), NewPath("Projects"), "cd ../../Projects"},
		{"siblings", NewPath("About"), NewPath("Projects"), "cd ../Projects"},
		{"cross branch", NewPath("Projects", "Demo"), NewPath("About"), "cd ../../About"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeCd(tt.cur, tt.target))
		})
	}
}

func TestRelativeCdRoundTrip(t *testing.T) {
	for _, p := range []Path{Root, NewPath("About"), NewPath("Projects"), NewPath("Games")} {
		assert.Empty(t, RelativeCd(p, p), p.String())
	}
}

func TestCdCommandFor(t *testing.T) {
	assert.Equal(t, "cd About", CdCommandFor(Root, "About"))
	assert.Equal(t, "", CdCommandFor(NewPath("About"), "About"))
	assert.Equal(t, "cd ../Games", CdCommandFor(NewPath("About"), "Games"))
}
