package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/ticktree/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager reports and initializes the config file.
type Manager struct {
	path string
}

// NewManager creates a Manager over the given config file path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Info returns the config file location and whether it exists.
func (m *Manager) Info() domain.ConfigInfo {
	info := domain.ConfigInfo{Path: m.path}
	if m.path == "" {
		return info
	}
	if _, err := os.Stat(m.path); err == nil {
		info.Exists = true
	}
	return info
}

// Init writes the default config template. It refuses to overwrite an
// existing file.
func (m *Manager) Init() error {
	if m.path == "" {
		return fmt.Errorf("config path could not be resolved")
	}
	if _, err := os.Stat(m.path); err == nil {
		return domain.ErrConfigExists
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(m.path, []byte(domain.ConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
