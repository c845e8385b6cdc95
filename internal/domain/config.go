package domain

import (
	_ "embed"
	"fmt"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// ConfigFileName is the configuration file name inside the config
// directory.
const ConfigFileName = "config.toml"

// DefaultTickInterval applies when [core].tick_interval is absent.
const DefaultTickInterval = time.Second

// Config represents the application configuration.
type Config struct {
	Core   CoreConfig   `toml:"core"`
	Notify NotifyConfig `toml:"notify"`
	Log    LogConfig    `toml:"log"`
}

// CoreConfig holds engine settings from the [core] section.
type CoreConfig struct {
	TickInterval string `toml:"tick_interval,omitempty"` // Evaluation interval for the run loop (Go duration syntax)
}

// NotifyConfig holds completion hook settings from the [notify] section.
type NotifyConfig struct {
	Command string `toml:"command,omitempty"` // Shell command template run on completion
	Enabled bool   `toml:"enabled"`           // Master switch for completion notifications
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	File  string `toml:"file,omitempty"`  // Log file path; empty disables logging
	Level string `toml:"level,omitempty"` // debug, info, warn, error
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{TickInterval: "1s"},
		Notify: NotifyConfig{
			Enabled: true,
			Command: `notify-send ticktree '{{.Name}} finished'`,
		},
		Log: LogConfig{Level: "info"},
	}
}

// TickInterval parses [core].tick_interval, falling back to the default
// for absent values.
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Core.TickInterval)
	if err != nil || d <= 0 {
		return DefaultTickInterval
	}
	return d
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if c.Core.TickInterval != "" {
		d, err := time.ParseDuration(c.Core.TickInterval)
		if err != nil {
			return fmt.Errorf("core.tick_interval: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("core.tick_interval: must be positive, got %s", d)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if c.Notify.Command != "" {
		if _, err := template.New("notify").Parse(c.Notify.Command); err != nil {
			return fmt.Errorf("notify.command: %w", err)
		}
	}
	return nil
}

// ConfigTemplate returns the commented template written by config init.
func ConfigTemplate() string {
	return configTemplateContent
}
