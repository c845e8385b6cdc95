package domain

import "path/filepath"

// AppName names the config and data directories.
const AppName = "ticktree"

// DBFileName is the timer database file inside the data directory.
const DBFileName = "timers.db"

// DBPath returns the timer database path inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFileName)
}

// ConfigPath returns the config file path inside confDir.
func ConfigPath(confDir string) string {
	return filepath.Join(confDir, ConfigFileName)
}

// GlobalConfigDir returns the application config directory under the
// user's config home.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// DefaultDataDir returns the application data directory under the user's
// data home.
func DefaultDataDir(dataHome string) string {
	return filepath.Join(dataHome, AppName)
}
