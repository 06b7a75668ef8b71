package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// SizeConfig is a target size plus the timeout of each fetch at that size.
type SizeConfig struct {
	Width   int      `toml:"width"`
	Height  int      `toml:"height"`
	Timeout Duration `toml:"timeout"`
}

// DetailConfig holds folder detail view settings. Images are fetched at thumbnail size.
type DetailConfig struct {
	Timeout Duration `toml:"timeout"`
}

// CacheConfig holds the on-disk tier settings
type CacheConfig struct {
	Dir      string   `toml:"dir"`
	MaxAge   Duration `toml:"max_age"`
	Disabled bool     `toml:"disabled"`
}

// ThemeConfig holds UI theme settings
type ThemeConfig struct {
	Name    string `toml:"name"`              // preset name
	Mode    string `toml:"mode"`              // "auto", "light" or "dark"
	Primary string `toml:"primary,omitempty"` // color override
	Accent  string `toml:"accent,omitempty"`  // color override
}

// Config holds the vsort configuration
type Config struct {
	Workers   int          `toml:"workers"`
	Thumbnail SizeConfig   `toml:"thumbnail"`
	Detail    DetailConfig `toml:"detail"`
	Viewer    SizeConfig   `toml:"viewer"`
	Cache     CacheConfig  `toml:"cache"`
	Theme     ThemeConfig  `toml:"theme"`
}

// Defaults
const (
	DefaultWorkers  = 5
	DefaultCacheDir = "~/.cache/vsort"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		Workers: DefaultWorkers,
		Thumbnail: SizeConfig{
			Width:   166,
			Height:  136,
			Timeout: Duration{10 * time.Second},
		},
		Detail: DetailConfig{Timeout: Duration{5 * time.Second}},
		Viewer: SizeConfig{
			Width:   1600,
			Height:  1200,
			Timeout: Duration{30 * time.Second},
		},
		Cache: CacheConfig{
			Dir:    DefaultCacheDir,
			MaxAge: Duration{7 * 24 * time.Hour},
		},
		Theme: ThemeConfig{Name: "default", Mode: "auto"},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vsort", "config.toml"), nil
}

// Load reads config from ~/.config/vsort/config.toml and applies env overrides.
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return finish(Default(), os.Getenv)
	}
	return LoadFile(path, os.Getenv)
}

// LoadFile reads config from path. getenv supplies the env overrides.
func LoadFile(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finish(cfg, getenv)
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding onto the defaults keeps every key the file leaves out.
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(cfg, getenv)
}

// finish applies env overrides, validates and expands paths.
func finish(cfg Config, getenv func(string) string) (Config, error) {
	if dir := getenv("VSORT_CACHE_DIR"); dir != "" {
		cfg.Cache.Dir = dir
	}
	if w := getenv("VSORT_WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return Default(), fmt.Errorf("invalid VSORT_WORKERS %q: must be a number", w)
		}
		cfg.Workers = n
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	// Expand ~ in cache.dir (shell doesn't expand in config files)
	expanded, err := ExpandPath(cfg.Cache.Dir)
	if err != nil {
		return Default(), fmt.Errorf("expand cache.dir: %w", err)
	}
	cfg.Cache.Dir = expanded

	return cfg, nil
}

// Encode returns cfg as TOML
func (c Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const defaultConfig = `# vsort configuration

# Number of images fetched at the same time (1-64)
workers = 5

# Grid thumbnails: every image is scaled to fit this box
[thumbnail]
width = 166
height = 136
timeout = "10s"

# Folder detail view (uses the thumbnail size)
[detail]
timeout = "5s"

# Enlarged viewer
[viewer]
width = 1600
height = 1200
timeout = "30s"

# On-disk cache of downloaded images
# Must be an absolute path or start with ~
# VSORT_CACHE_DIR overrides dir
[cache]
dir = "~/.cache/vsort"
max_age = "168h"
disabled = false

# Theme: "default", "dracula", "nord" or "none"
# mode: "auto" (detect terminal background), "light" or "dark"
[theme]
name = "default"
mode = "auto"
# primary = "#89b4fa"  # override single colors
# accent = "#f5c2e7"
`

// DefaultConfig returns the default configuration file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/vsort/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, InitFile(path, force)
}

// InitFile writes the default config to path.
func InitFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
