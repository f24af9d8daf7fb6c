// Package core exposes termsite's shell without the terminal UI: it loads a
// manifest and runs command lines against it, returning plain output.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oakwood-commons/termsite/internal/command"
	"github.com/oakwood-commons/termsite/internal/config"
	"github.com/oakwood-commons/termsite/internal/executable"
	"github.com/oakwood-commons/termsite/internal/games/fih"
	"github.com/oakwood-commons/termsite/internal/games/ttt"
	"github.com/oakwood-commons/termsite/internal/linkify"
	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/internal/navigator"
	"github.com/oakwood-commons/termsite/internal/session"
	"github.com/oakwood-commons/termsite/pkg/logger"
)

// ErrNotLoaded is returned when a command runs before a manifest is loaded.
var ErrNotLoaded = errors.New("no manifest loaded")

// Engine owns one content tree and the processor over it.
type Engine struct {
	Config config.Config
	Client *http.Client
	Mobile bool

	tree *manifest.Tree
	proc *command.Processor
}

// Option configures the Engine.
type Option func(*Engine)

// WithConfig replaces the embedded default configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.Config = cfg
	}
}

// WithHTTPClient sets the client used for URL manifests.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) {
		e.Client = c
	}
}

// WithMobile selects the constrained client class.
func WithMobile(mobile bool) Option {
	return func(e *Engine) {
		e.Mobile = mobile
	}
}

// WithTree installs an already built tree, skipping Load.
func WithTree(tree *manifest.Tree) Option {
	return func(e *Engine) {
		e.tree = tree
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) (*Engine, error) {
	cfg, err := config.Default()
	if err != nil {
		return nil, err
	}
	engine := &Engine{Config: cfg}
	for _, opt := range opts {
		opt(engine)
	}
	if err := engine.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if engine.tree != nil {
		engine.install(engine.tree)
	}
	return engine, nil
}

// Load reads the manifest at source (file path or http(s) URL) and resolves
// every reference. An empty source falls back to manifest.source from the
// configuration.
func (e *Engine) Load(ctx context.Context, source string) error {
	if source == "" {
		source = e.Config.Manifest.Source
	}
	if timeout := time.Duration(e.Config.Manifest.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	opts := []manifest.LoadOption{manifest.WithFetchLimit(e.Config.Manifest.FetchLimit)}
	if e.Client != nil {
		opts = append(opts, manifest.WithHTTPClient(e.Client))
	}
	if !e.Config.Manifest.CacheBust {
		opts = append(opts, manifest.WithCacheBust(""))
	}
	tree, err := manifest.Load(ctx, source, opts...)
	if err != nil {
		return err
	}
	e.install(tree)
	logger.FromContext(ctx).V(1).Info("manifest loaded", logger.ManifestKey, source, "pages", len(tree.Order))
	return nil
}

// LoadBytes installs a manifest document held in memory. Only inline
// documents (or ones without references) can be loaded this way.
func (e *Engine) LoadBytes(ctx context.Context, data []byte) error {
	tree, err := manifest.Parse(ctx, data, nil)
	if err != nil {
		return err
	}
	e.install(tree)
	return nil
}

func (e *Engine) install(tree *manifest.Tree) {
	e.tree = tree
	e.proc = command.New(navigator.NewResolver(tree), e.Config.CommandOptions())
}

// Tree returns the loaded tree, or nil before Load.
func (e *Engine) Tree() *manifest.Tree { return e.tree }

// Processor returns the command processor, or nil before Load.
func (e *Engine) Processor() *command.Processor { return e.proc }

// NewSession returns a session at the root for this engine's client class.
func (e *Engine) NewSession() *session.Session {
	return session.New(e.Mobile)
}

// Run executes a command line, "&&" chains included, against sess and
// returns the output a terminal would reveal. clear drops what came before
// it; executables cannot run here and say so instead.
func (e *Engine) Run(ctx context.Context, sess *session.Session, line string) ([]command.Fragment, error) {
	if e == nil || e.proc == nil {
		return nil, ErrNotLoaded
	}
	var out []command.Fragment
	for _, part := range command.SplitChain(line) {
		res := e.proc.Process(ctx, sess, part)
		switch {
		case res.Clear:
			out = nil
		case res.Launch != nil:
			out = append(out, command.Fragment{Text: res.Launch.Name + ": executables need the interactive terminal"})
		default:
			for _, f := range res.Fragments {
				f.Text = linkify.ResolveConditional(f.Text, sess.Mobile)
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// Execute runs line in a fresh session and writes the output to w, one
// fragment per line.
func (e *Engine) Execute(ctx context.Context, w io.Writer, line string) error {
	frags, err := e.Run(ctx, e.NewSession(), line)
	if err != nil {
		return err
	}
	for _, f := range frags {
		if _, err := fmt.Fprintln(w, f.Text); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry with the built-in executables. plain
// renders them without colour.
func NewRegistry(plain bool) *executable.Registry {
	reg := executable.NewRegistry()
	ttt.Register(reg, plain)
	fih.Register(reg, plain)
	return reg
}
