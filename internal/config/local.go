package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-project override file, placed next to the project file.
const LocalConfigFileName = ".vsort.toml"

// LocalConfig holds per-project overrides from .vsort.toml.
// Pointer fields indicate "not set" (inherit from global).
type LocalConfig struct {
	Workers   *int      `toml:"workers"`
	Thumbnail LocalSize `toml:"thumbnail"`
	Viewer    LocalSize `toml:"viewer"`
	Detail    struct {
		Timeout *Duration `toml:"timeout"`
	} `toml:"detail"`
}

// LocalSize holds size overrides
type LocalSize struct {
	Width   *int      `toml:"width"`
	Height  *int      `toml:"height"`
	Timeout *Duration `toml:"timeout"`
}

// LoadLocal reads .vsort.toml from dir.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse failure.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if _, err := toml.Decode(string(data), &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}
	return &local, nil
}
