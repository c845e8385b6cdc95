// Package config loads and initializes the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/ticktree/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from the global TOML file.
type Loader struct {
	path string
}

// NewLoader creates a Loader over the default config file. TICKTREE_CONFIG
// points at an alternative file; otherwise the file lives under
// XDG_CONFIG_HOME/ticktree, falling back to ~/.config/ticktree.
func NewLoader() *Loader {
	if p := os.Getenv("TICKTREE_CONFIG"); p != "" {
		return &Loader{path: p}
	}
	dir := defaultConfigDir()
	if dir == "" {
		return &Loader{}
	}
	return &Loader{path: domain.ConfigPath(dir)}
}

// NewLoaderWithPath creates a Loader over a custom config file. This is
// useful for testing.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{path: path}
}

// defaultConfigDir returns the default config directory.
func defaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Path returns the config file location the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the effective configuration: the built-in defaults overlaid
// with whatever the config file sets. A missing file is not an error.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	if l.path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Unmarshal into the prefilled struct so absent keys keep defaults.
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", l.path, err)
	}

	cfg.Log.File = expandHome(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", l.path, err)
	}
	return cfg, nil
}

// expandHome resolves a leading ~/ against the user home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
