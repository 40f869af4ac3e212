// Package config loads explorer settings from defaults, a TOML file, and
// environment variables, in that order of increasing priority. Command-line
// flags are applied on top by each binary.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	DefaultAPIURL  = "http://localhost:8080"
	DefaultTimeout = 10 * time.Second

	// DirName is the per-user directory holding config.toml and logs.
	DirName  = ".hubexplorer"
	FileName = "config.toml"
)

// Detail modes for the explorer's node detail strip.
const (
	DetailPane   = "pane"
	DetailHidden = "hidden"
)

// Config holds all settings shared by hubexplorer and hubctl.
type Config struct {
	API APIConfig `toml:"api"`
	Log LogConfig `toml:"log"`
	UI  UIConfig  `toml:"ui"`
}

// APIConfig locates the hub API.
type APIConfig struct {
	URL       string   `toml:"url"        env:"HUB_API_URL"`
	Timeout   Duration `toml:"timeout"    env:"HUB_API_TIMEOUT"`
	UserAgent string   `toml:"user_agent" env:"HUB_API_USER_AGENT"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" env:"HUB_LOG_LEVEL"` // "debug", "info", "warn", "error"
}

// UIConfig holds explorer display settings.
type UIConfig struct {
	DetailMode string `toml:"detail_mode" env:"HUB_DETAIL_MODE"` // "pane" or "hidden"
}

// Duration is a time.Duration read from strings like "5s" in TOML and the
// environment.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: Duration(DefaultTimeout),
		},
		Log: LogConfig{Level: "info"},
		UI:  UIConfig{DetailMode: DetailPane},
	}
}

// DefaultPath returns ~/.hubexplorer/config.toml, or "" when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName, FileName)
}

// Load builds the configuration. When path is empty the default path is
// tried and a missing file is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config: %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks field values after all sources are merged.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil {
		return fmt.Errorf("config: api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("config: api url %q: must be an http or https URL", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api timeout must be positive, got %s", c.API.Timeout)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.UI.DetailMode {
	case DetailPane, DetailHidden:
	default:
		return fmt.Errorf("config: ui detail_mode %q: want %q or %q", c.UI.DetailMode, DetailPane, DetailHidden)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", s, err)
	}
	return level, nil
}
