package tui

import (
	"github.com/oakwood-commons/termsite/internal/config"
)

// Config holds host-provided settings for running the terminal.
type Config struct {
	Width   int
	Height  int
	NoColor bool
	// Mobile selects the constrained client class: executables and
	// mobile-hidden pages disappear and conditional text takes its second arm.
	Mobile bool
	// StartKeys are fed to the terminal before the first frame, using the
	// same token syntax as --press (e.g. "ls ~<CR>", "<F2>").
	StartKeys []string
	// Settings overrides the engine's configuration for prompt, pacing and
	// theme. Nil keeps the engine's.
	Settings *config.Config
}

// DefaultConfig returns a baseline config with the same defaults as the CLI.
func DefaultConfig() Config {
	cfg, err := config.Default()
	if err != nil {
		return Config{}
	}
	return Config{Settings: &cfg}
}

// settings returns the configuration Run should use.
func (c Config) settings(fallback config.Config) config.Config {
	if c.Settings != nil {
		return *c.Settings
	}
	return fallback
}
