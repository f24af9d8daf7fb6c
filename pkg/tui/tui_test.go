package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/pkg/core"
)

func loadedEngine(t *testing.T) *core.Engine {
	t.Helper()
	tree, err := manifest.Parse(context.Background(), []byte(`{"inline":true,"tree":{"About":{"content":"hi"}}}`), nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	engine, err := core.New(core.WithTree(tree))
	if err != nil {
		t.Fatalf("core.New error: %v", err)
	}
	return engine
}

func TestDetectTerminalSizeFallsBackToEnv(t *testing.T) {
	t.Setenv("COLUMNS", "132")
	t.Setenv("LINES", "40")
	w, h := DetectTerminalSize()
	if w <= 0 || h <= 0 {
		t.Fatalf("DetectTerminalSize = %dx%d, want positive", w, h)
	}
}

func TestDefaultConfigCarriesSettings(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Settings == nil {
		t.Fatal("DefaultConfig should carry the embedded settings")
	}
	if cfg.Settings.Prompt.User != "guest" {
		t.Fatalf("prompt user = %q, want guest", cfg.Settings.Prompt.User)
	}
}

func TestNewModelRequiresLoadedEngine(t *testing.T) {
	engine, err := core.New()
	if err != nil {
		t.Fatalf("core.New error: %v", err)
	}
	if _, err := NewModel(context.Background(), engine, Config{}); !errors.Is(err, core.ErrNotLoaded) {
		t.Fatalf("NewModel error = %v, want ErrNotLoaded", err)
	}
	if _, err := NewModel(context.Background(), nil, Config{}); !errors.Is(err, core.ErrNotLoaded) {
		t.Fatalf("NewModel(nil) error = %v, want ErrNotLoaded", err)
	}
}

func TestNewModelRejectsInvalidSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.Animation.CharsDivisor = 0
	if _, err := NewModel(context.Background(), loadedEngine(t), cfg); err == nil {
		t.Fatal("NewModel should reject invalid settings")
	}
}

func TestNewModelUsesClientClass(t *testing.T) {
	m, err := NewModel(context.Background(), loadedEngine(t), Config{Mobile: true, Width: 60, Height: 20})
	if err != nil {
		t.Fatalf("NewModel error: %v", err)
	}
	if !m.Session().Mobile {
		t.Fatal("model session should be mobile")
	}
	if m.Busy() {
		t.Fatal("a fresh model should be idle")
	}
}

func TestWithIO_ReturnsOptions(t *testing.T) {
	in := bytes.NewBufferString("")
	out := bytes.NewBuffer(nil)
	if opts := WithIO(in, out); len(opts) != 2 {
		t.Fatalf("WithIO returned %d options, want 2", len(opts))
	}
}

func TestWithIO_NilInputsHandled(t *testing.T) {
	if opts := WithIO(nil, nil); len(opts) != 0 {
		t.Fatalf("WithIO(nil, nil) returned %d options, want 0", len(opts))
	}
}

func TestWithIO_OnlyOutput(t *testing.T) {
	if opts := WithIO(nil, bytes.NewBuffer(nil)); len(opts) != 1 {
		t.Fatalf("WithIO returned %d options, want 1", len(opts))
	}
}

func TestRunRequiresLoadedEngine(t *testing.T) {
	engine, err := core.New()
	if err != nil {
		t.Fatalf("core.New error: %v", err)
	}
	if err := Run(context.Background(), engine, Config{}); !errors.Is(err, core.ErrNotLoaded) {
		t.Fatalf("Run error = %v, want ErrNotLoaded", err)
	}
}
