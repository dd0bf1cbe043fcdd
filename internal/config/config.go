// Package config handles the configuration directory, config.yaml and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskdash"

	// ConfigFile is the optional settings file inside Dir.
	ConfigFile = "config.yaml"

	// SessionFile holds the persisted session cookies.
	SessionFile = "session.json"

	// DefaultServer is the task server used when nothing else is configured.
	DefaultServer = "http://127.0.0.1:5000"

	// DefaultTimeout is how long an HTTP request may go without progress.
	DefaultTimeout = 10 * time.Second

	// DefaultDateFormat renders due dates as month/day/year.
	DefaultDateFormat = "1/2/2006"
)

// Environment variables that override config.yaml.
const (
	EnvServer  = "TASKDASH_SERVER"
	EnvTimeout = "TASKDASH_TIMEOUT"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Server is the base URL of the task server.
	Server string

	// Timeout is how long an HTTP request may go without progress.
	Timeout time.Duration

	// DateFormat is the Go layout used to display due dates.
	DateFormat string

	// Location is the timezone due dates are entered and shown in.
	Location *time.Location

	// Debug enables debug logging and the metrics dump.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileSettings mirrors config.yaml.
type fileSettings struct {
	Server     string `yaml:"server"`
	Timeout    string `yaml:"timeout"`
	DateFormat string `yaml:"date_format"`
}

// New creates a Config for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdash or $HOME/.config/taskdash.
// Values are resolved as: defaults < config.yaml < environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:        dir,
		Server:     DefaultServer,
		Timeout:    DefaultTimeout,
		DateFormat: DefaultDateFormat,
		Location:   time.Local,
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fs.Server != "" {
		c.Server = fs.Server
	}
	if fs.Timeout != "" {
		d, err := time.ParseDuration(fs.Timeout)
		if err != nil {
			return fmt.Errorf("invalid %s: timeout: %w", ConfigFile, err)
		}
		c.Timeout = d
	}
	if fs.DateFormat != "" {
		c.DateFormat = fs.DateFormat
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvServer)); v != "" {
		c.Server = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if a session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}
