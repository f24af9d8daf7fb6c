// Package config loads termsite's YAML configuration: an embedded default
// overlaid with an optional user file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/termsite/internal/animator"
	"github.com/oakwood-commons/termsite/internal/command"
)

// AppName names the XDG config directory.
const AppName = "termsite"

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Config is the merged configuration.
type Config struct {
	Manifest  ManifestConfig  `yaml:"manifest"`
	Prompt    PromptConfig    `yaml:"prompt"`
	Animation AnimationConfig `yaml:"animation"`
	Typing    TypingConfig    `yaml:"typing"`
	Resize    ResizeConfig    `yaml:"resize"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Theme     ThemeConfig     `yaml:"theme"`
}

// ManifestConfig controls where and how the content tree is fetched.
type ManifestConfig struct {
	Source     string   `yaml:"source"`
	FetchLimit int      `yaml:"fetch_limit"`
	CacheBust  bool     `yaml:"cache_bust"`
	Timeout    Duration `yaml:"timeout"`
}

type PromptConfig struct {
	User     string `yaml:"user"`
	RootUser string `yaml:"root_user"`
	Host     string `yaml:"host"`
}

// AnimationConfig paces the output reveal, in milliseconds.
type AnimationConfig struct {
	TargetMs     int `yaml:"target_ms"`
	MinTickMs    int `yaml:"min_tick_ms"`
	MaxTickMs    int `yaml:"max_tick_ms"`
	CharsDivisor int `yaml:"chars_divisor"`
}

// TypingConfig paces simulated keystrokes.
type TypingConfig struct {
	KeyDelayMs    int `yaml:"key_delay_ms"`
	SubmitDelayMs int `yaml:"submit_delay_ms"`
}

type ResizeConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

type SuggestConfig struct {
	Enabled     bool `yaml:"enabled"`
	MaxDistance int  `yaml:"max_distance"`
}

// ThemeConfig holds hex colours for the terminal's elements.
type ThemeConfig struct {
	User       string `yaml:"user"`
	RootUser   string `yaml:"root_user"`
	Path       string `yaml:"path"`
	Dollar     string `yaml:"dollar"`
	Text       string `yaml:"text"`
	Hint       string `yaml:"hint"`
	Directory  string `yaml:"directory"`
	Subpage    string `yaml:"subpage"`
	Executable string `yaml:"executable"`
	Link       string `yaml:"link"`
	Accent     string `yaml:"accent"`
	Welcome    string `yaml:"welcome"`
	Candidate  string `yaml:"candidate"`
	Nav        string `yaml:"nav"`
}

// Duration reads Go duration strings such as "10s" from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default decodes the embedded configuration.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, errors.New("embedded default config is empty")
	}
	if err := decodeInto(bytes.NewReader(embeddedDefaultConfig), &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// Load returns the default configuration overlaid with the file at path.
// An empty path means defaults only. Keys the file omits keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := decodeInto(f, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func decodeInto(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate rejects values the terminal cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Animation.TargetMs <= 0 {
		errs = append(errs, errors.New("animation.target_ms must be positive"))
	}
	if c.Animation.MinTickMs <= 0 || c.Animation.MaxTickMs < c.Animation.MinTickMs {
		errs = append(errs, errors.New("animation tick bounds must satisfy 0 < min_tick_ms <= max_tick_ms"))
	}
	if c.Animation.CharsDivisor <= 0 {
		errs = append(errs, errors.New("animation.chars_divisor must be positive"))
	}
	if c.Typing.KeyDelayMs < 0 || c.Typing.SubmitDelayMs < 0 {
		errs = append(errs, errors.New("typing delays must not be negative"))
	}
	if c.Suggest.MaxDistance < 0 {
		errs = append(errs, errors.New("suggest.max_distance must not be negative"))
	}
	if c.Manifest.FetchLimit < 0 {
		errs = append(errs, errors.New("manifest.fetch_limit must not be negative"))
	}
	return errors.Join(errs...)
}

// ResolvePath returns explicit when set, otherwise the XDG config file
// ($XDG_CONFIG_HOME/termsite/config.yaml or ~/.config/termsite/config.yaml)
// when it exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, AppName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", AppName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Timing converts the animation section.
func (c Config) Timing() animator.Timing {
	return animator.Timing{
		Target:       ms(c.Animation.TargetMs),
		MinTick:      ms(c.Animation.MinTickMs),
		MaxTick:      ms(c.Animation.MaxTickMs),
		CharsDivisor: c.Animation.CharsDivisor,
	}
}

// CommandOptions converts the prompt and suggestion sections.
func (c Config) CommandOptions() command.Options {
	return command.Options{
		User:            c.Prompt.User,
		RootUser:        c.Prompt.RootUser,
		Host:            c.Prompt.Host,
		Suggest:         c.Suggest.Enabled,
		SuggestDistance: c.Suggest.MaxDistance,
	}
}

// KeyDelay is the pause between simulated keystrokes.
func (c Config) KeyDelay() time.Duration { return ms(c.Typing.KeyDelayMs) }

// SubmitDelay is the pause before a simulated command is submitted.
func (c Config) SubmitDelay() time.Duration { return ms(c.Typing.SubmitDelayMs) }

// ResizeDebounce delays executable resize handling.
func (c Config) ResizeDebounce() time.Duration { return ms(c.Resize.DebounceMs) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
