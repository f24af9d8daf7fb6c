package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oakwood-commons/termsite/internal/command"
	"github.com/oakwood-commons/termsite/internal/manifest"
)

const inlineSite = `{
  "inline": true,
  "order": ["About", "Games"],
  "tree": {
    "About": {"content": "{{Click}{Tap}} around"},
    "Games": {"executables": {"ttt": {"src": "ttt", "help": "play"}}}
  }
}`

func texts(frags []command.Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Text
	}
	return out
}

func newInlineEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	tree, err := manifest.Parse(context.Background(), []byte(inlineSite), nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	engine, err := New(append([]Option{WithTree(tree)}, opts...)...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return engine
}

func TestNewDefaults(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if engine.Config.Prompt.Host != "thalis" {
		t.Fatalf("host = %q, want embedded default", engine.Config.Prompt.Host)
	}
	if engine.Tree() != nil || engine.Processor() != nil {
		t.Fatalf("engine should start without a tree")
	}
	if _, err := engine.Run(context.Background(), engine.NewSession(), "ls"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Run before Load error = %v, want ErrNotLoaded", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	engine, _ := New()
	cfg := engine.Config
	cfg.Animation.TargetMs = 0
	if _, err := New(WithConfig(cfg)); err == nil {
		t.Fatalf("New with invalid config should error")
	}
}

func TestRunChain(t *testing.T) {
	engine := newInlineEngine(t)
	sess := engine.NewSession()

	frags, err := engine.Run(context.Background(), sess, "cd About && cat .")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	got := texts(frags)
	if len(got) == 0 || got[0] != "Click around" {
		t.Fatalf("Run output = %q, want desktop text first", got)
	}
	if sess.CurrentPath.String() != "~/About" {
		t.Fatalf("path = %q, want ~/About", sess.CurrentPath.String())
	}
}

func TestRunClearDropsEarlierOutput(t *testing.T) {
	engine := newInlineEngine(t)
	frags, err := engine.Run(context.Background(), engine.NewSession(), "ls && clear && hostname")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := texts(frags); len(got) != 1 || got[0] != "thalis" {
		t.Fatalf("Run output = %q, want [thalis]", got)
	}
}

func TestRunExecutableNeedsTerminal(t *testing.T) {
	engine := newInlineEngine(t)
	frags, err := engine.Run(context.Background(), engine.NewSession(), "sh Games/ttt")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := "ttt: executables need the interactive terminal"
	if got := texts(frags); len(got) != 1 || got[0] != want {
		t.Fatalf("Run output = %q, want %q", got, want)
	}
}

func TestRunMobileConditionalText(t *testing.T) {
	engine := newInlineEngine(t, WithMobile(true))
	frags, err := engine.Run(context.Background(), engine.NewSession(), "cat About")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := texts(frags); got[0] != "Tap around" {
		t.Fatalf("Run output = %q, want mobile text", got)
	}
}

func TestExecuteWritesLines(t *testing.T) {
	engine := newInlineEngine(t)
	var buf bytes.Buffer
	if err := engine.Execute(context.Background(), &buf, "ls ~"); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := buf.String(); got != "About\nGames\n" {
		t.Fatalf("Execute output = %q", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	doc := `{"order":["About"],"tree":{"About":{"content":"pages/About.txt"}}}`
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pages", "About.txt"), []byte("from disk\n"), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	engine, err := New()
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := engine.Load(context.Background(), filepath.Join(dir, "manifest.json")); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	var buf bytes.Buffer
	if err := engine.Execute(context.Background(), &buf, "cat About"); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "from disk\n") {
		t.Fatalf("Execute output = %q", buf.String())
	}
}

func TestLoadUsesConfiguredSource(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	engine.Config.Manifest.Source = filepath.Join(t.TempDir(), "missing.json")
	err = engine.Load(context.Background(), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load error = %v, want not-exist from configured source", err)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(true)
	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != "fih" || ids[1] != "ttt" {
		t.Fatalf("IDs = %v, want [fih ttt]", ids)
	}
}

func TestLoadBytes(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := engine.LoadBytes(context.Background(), []byte(inlineSite)); err != nil {
		t.Fatalf("LoadBytes error: %v", err)
	}
	if engine.Tree() == nil || engine.Processor() == nil {
		t.Fatal("LoadBytes should install the tree")
	}
	if err := engine.LoadBytes(context.Background(), []byte(`{"tree":{"About":{"content":"pages/About.txt"}}}`)); err == nil {
		t.Fatal("LoadBytes should reject documents with references")
	}
}
