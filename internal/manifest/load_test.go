package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `{
  "order": ["About", "Projects"],
  "mobileHidden": [],
  "tree": {
    "About": {"content": "pages/About.txt"},
    "Projects": {
      "children": {"Demo": {"content": "pages/Projects/Demo.txt"}},
      "childOrder": ["Demo"],
      "executables": {"ttt": {"src": "ttt", "help": "/executables/Projects/ttt.txt"}}
    }
  }
}`

func TestParseResolvesReferencesFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/About.txt":              {Data: []byte("hello\n\n")},
		"pages/Projects/Demo.txt":      {Data: []byte("x \t\n")},
		"executables/Projects/ttt.txt": {Data: []byte("play a game\n")},
	}
	tree, err := Parse(context.Background(), []byte(sampleManifest), FSFetcher{FS: fsys})
	require.NoError(t, err)

	about, _ := tree.Page("About")
	assert.Equal(t, "hello", about.Content)
	demo, _ := tree.Lookup([]string{"Projects", "Demo"})
	assert.Equal(t, "x", demo.Content)
	projects, _ := tree.Page("Projects")
	ttt, _ := projects.Executable("ttt")
	assert.Equal(t, "play a game", ttt.Help)
}

func TestParseFailsOnMissingReference(t *testing.T) {
	fsys := fstest.MapFS{"pages/About.txt": {Data: []byte("hello")}}
	_, err := Parse(context.Background(), []byte(sampleManifest), FSFetcher{FS: fsys})
	require.Error(t, err)
	assert.ErrorContains(t, err, "resolve manifest content")
}

func TestParseWithoutFetcher(t *testing.T) {
	_, err := Parse(context.Background(), []byte(sampleManifest), nil)
	require.ErrorContains(t, err, "no fetcher")

	tree, err := Parse(context.Background(), []byte(`{"inline":true,"tree":{"About":{"content":"hi"}}}`), nil)
	require.NoError(t, err)
	about, _ := tree.Page("about")
	assert.Equal(t, "hi", about.Content)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages", "Projects"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "executables", "Projects"), 0o755))
	write := func(rel, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte(body), 0o600))
	}
	write("manifest.json", sampleManifest)
	write("pages/About.txt", "about me")
	write("pages/Projects/Demo.txt", "demo")
	write("executables/Projects/ttt.txt", "help")

	tree, err := Load(context.Background(), filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	about, _ := tree.Page("About")
	assert.Equal(t, "about me", about.Content)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFromURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "abc", r.URL.Query().Get("v"))
		switch r.URL.Path {
		case "/site/manifest.json":
			_, _ = w.Write([]byte(sampleManifest))
		case "/pages/About.txt":
			_, _ = w.Write([]byte("remote about\n"))
		case "/pages/Projects/Demo.txt":
			_, _ = w.Write([]byte("remote demo"))
		case "/executables/Projects/ttt.txt":
			_, _ = w.Write([]byte("remote help"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tree, err := Load(context.Background(), srv.URL+"/site/manifest.json",
		WithHTTPClient(srv.Client()), WithCacheBust("abc"), WithFetchLimit(2))
	require.NoError(t, err)
	assert.EqualValues(t, 4, hits.Load())

	about, _ := tree.Page("About")
	assert.Equal(t, "remote about", about.Content)
	demo, _ := tree.Lookup([]string{"projects", "demo"})
	assert.Equal(t, "remote demo", demo.Content)
}

func TestLoadFromURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/manifest.json", WithHTTPClient(srv.Client()))
	require.ErrorContains(t, err, "unexpected status")
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/manifest.json"))
	assert.True(t, IsURL("http://localhost:8080/m.json"))
	assert.False(t, IsURL("manifest.json"))
	assert.False(t, IsURL("/srv/http/manifest.json"))
}
