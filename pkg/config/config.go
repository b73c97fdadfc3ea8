// Package config loads the text pane viewer's YAML configuration.
//
// Files are merged over DefaultConfig, user file first and then the project
// file, followed by TEXTPANE_* environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"

	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
	"github.com/mono-ball/MonoBall-sub005/pkg/logging"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

// Config is the full viewer configuration.
type Config struct {
	Buffer     BufferConfig      `yaml:"buffer"`
	Theme      map[string]string `yaml:"theme"`
	Categories []CategoryRule    `yaml:"categories"`
	Follow     FollowConfig      `yaml:"follow"`
	Metrics    MetricsConfig     `yaml:"metrics"`
	Log        LogConfig         `yaml:"log"`
}

// BufferConfig maps onto textbuffer.Options.
type BufferConfig struct {
	MaxLines       int  `yaml:"max_lines"`
	LineHeight     int  `yaml:"line_height"`
	LinePadding    int  `yaml:"line_padding"`
	MultiClickMS   int  `yaml:"multi_click_ms"`
	WheelLines     int  `yaml:"wheel_lines"`
	ScrollbarWidth int  `yaml:"scrollbar_width"`
	AutoScroll     bool `yaml:"auto_scroll"`
	Border         bool `yaml:"border"`
}

// CategoryRule assigns a category and color to lines containing Keyword.
// Keywords match case-insensitively; the first matching rule wins.
type CategoryRule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
	Color    string `yaml:"color"`
}

// FollowConfig controls tailing a growing file.
type FollowConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchLines   int           `yaml:"batch_lines"`
}

// MetricsConfig controls the Prometheus endpoint. An empty address
// disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Buffer: BufferConfig{
			MaxLines:       textbuffer.DefaultMaxLines,
			LineHeight:     1,
			MultiClickMS:   int(textbuffer.DefaultMultiClickThreshold / time.Millisecond),
			WheelLines:     3,
			ScrollbarWidth: 1,
			AutoScroll:     true,
		},
		Theme: map[string]string{},
		Categories: []CategoryRule{
			{Keyword: "error", Category: "error", Color: "error"},
			{Keyword: "warn", Category: "warn", Color: "warning"},
			{Keyword: "info", Category: "info", Color: "info"},
			{Keyword: "debug", Category: "debug", Color: "debug"},
		},
		Follow: FollowConfig{
			PollInterval: time.Second,
			BatchLines:   512,
		},
		Log: LogConfig{
			Path:  filepath.Join(StateDir(), "textpane.log"),
			Level: string(logging.LevelInfo),
		},
	}
}

// Load reads ~/.config/textpane/config.yaml and ./.textpane.yaml, in that
// order, over the defaults. Missing files are skipped.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range []string{UserConfigPath(), filepath.Join(".", ".textpane.yaml")} {
		if path == "" {
			continue
		}
		if err := loadAndMerge(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return finish(cfg)
}

// LoadFromPath reads one file over the defaults. The file must exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, expandHomeDir(path)); err != nil {
		if os.IsNotExist(err) {
			return nil, tperrors.Wrap(err, tperrors.ErrCodeConfigLoad, "config file not found").
				WithContext("path", path)
		}
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	cfg.Log.Path = expandHomeDir(cfg.Log.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envInt("TEXTPANE_MAX_LINES"); ok {
		cfg.Buffer.MaxLines = v
	}
	if v, ok := envBool("TEXTPANE_AUTO_SCROLL"); ok {
		cfg.Buffer.AutoScroll = v
	}
	if v := strings.TrimSpace(os.Getenv("TEXTPANE_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("TEXTPANE_LOG_PATH"); ok {
		cfg.Log.Path = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("TEXTPANE_METRICS_LISTEN"); ok {
		cfg.Metrics.Listen = strings.TrimSpace(v)
	}
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envBool(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Validate reports the first invalid setting. Values the engine clamps on
// its own (max_lines, padding) are accepted.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return tperrors.Newf(tperrors.ErrCodeConfigInvalid, format, args...).WithContext("field", field)
	}

	if c.Buffer.LineHeight < 0 {
		return invalid("buffer.line_height", "line height must not be negative")
	}
	if c.Buffer.LinePadding < 0 {
		return invalid("buffer.line_padding", "line padding must not be negative")
	}
	if c.Buffer.MultiClickMS < 0 {
		return invalid("buffer.multi_click_ms", "multi-click threshold must not be negative")
	}
	if c.Buffer.WheelLines < 0 {
		return invalid("buffer.wheel_lines", "wheel lines must not be negative")
	}
	if c.Buffer.ScrollbarWidth < 0 {
		return invalid("buffer.scrollbar_width", "scrollbar width must not be negative")
	}

	if _, err := theme.DefaultTheme().Override(c.Theme); err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeConfigInvalid, "invalid theme").WithContext("field", "theme")
	}

	th := theme.DefaultTheme()
	for i, rule := range c.Categories {
		field := "categories[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(rule.Keyword) == "" {
			return invalid(field, "category rule %d has no keyword", i)
		}
		if strings.TrimSpace(rule.Category) == "" {
			return invalid(field, "category rule %q has no category", rule.Keyword)
		}
		if rule.Color == "" {
			continue
		}
		if _, err := th.Resolve(rule.Color); err != nil {
			return tperrors.Wrap(err, tperrors.ErrCodeConfigInvalid, "invalid category color").WithContext("field", field)
		}
	}

	if c.Follow.PollInterval < 0 {
		return invalid("follow.poll_interval", "poll interval must not be negative")
	}
	if c.Follow.BatchLines < 0 {
		return invalid("follow.batch_lines", "batch size must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeConfigInvalid, "invalid log level").WithContext("field", "log.level")
	}
	return nil
}

// BufferOptions converts the buffer section. Host-provided collaborators
// (theme, clipboard, observer, logger) are left for the caller.
func (c *Config) BufferOptions() textbuffer.Options {
	b := c.Buffer
	return textbuffer.Options{
		MaxLines:            b.MaxLines,
		LineHeight:          b.LineHeight,
		LinePadding:         b.LinePadding,
		MultiClickThreshold: time.Duration(b.MultiClickMS) * time.Millisecond,
		WheelLines:          b.WheelLines,
		ScrollbarWidth:      b.ScrollbarWidth,
		DisableAutoScroll:   !b.AutoScroll,
		Style:               textbuffer.Style{ShowBorder: b.Border},
	}
}

// BuildTheme applies the theme overrides and adapts the result to the
// terminal's color profile.
func (c *Config) BuildTheme(profile termenv.Profile) (*theme.Theme, error) {
	th, err := theme.DefaultTheme().Override(c.Theme)
	if err != nil {
		return nil, tperrors.Wrap(err, tperrors.ErrCodeConfigInvalid, "invalid theme")
	}
	return th.Adapt(profile), nil
}
