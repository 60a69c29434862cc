// Package config provides configuration for scratch-explorer. Settings are
// read from an optional YAML file and overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

const (
	DefaultLogLevel = "info"
	DefaultDataDir  = ".scratch-explorer"

	EnvHost     = "SCRATCH_HOST"
	EnvToken    = "SCRATCH_TOKEN"
	EnvLogLevel = "SCRATCH_LOG_LEVEL"
	EnvDataDir  = "SCRATCH_DATA_DIR"

	ConfigFilename = "config.yaml"
	DBFilename     = "history.db"
)

// Config defines the application configuration interface.
type Config interface {
	Host() string
	Token() string
	LogLevel() string
	DataDir() string
	HistoryDBPath() string
}

// FileConfig is the YAML shape of the config file.
type FileConfig struct {
	Host     string `yaml:"host"`
	Token    string `yaml:"token"`
	LogLevel string `yaml:"log_level"`
	DataDir  string `yaml:"data_dir"`
}

type EnvConfig struct {
	host     string
	token    string
	logLevel string
	dataDir  string
}

// New loads configuration: defaults, then the config file at path (or the
// default location when path is empty; a missing default file is fine),
// then environment overrides.
func New(path string) (*EnvConfig, error) {
	cfg := &EnvConfig{
		host:     scratch.DefaultBaseURL,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
	}
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	explicit := path != ""
	if path == "" {
		path = filepath.Join(cfg.dataDir, ConfigFilename)
	}

	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if h := os.Getenv(EnvHost); h != "" {
		cfg.host = h
	}
	if t := os.Getenv(EnvToken); t != "" {
		cfg.token = t
	}
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	return cfg, nil
}

func (c *EnvConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.Host != "" {
		c.host = file.Host
	}
	if file.Token != "" {
		c.token = file.Token
	}
	if file.LogLevel != "" {
		c.logLevel = file.LogLevel
	}
	if file.DataDir != "" {
		c.dataDir = file.DataDir
	}
	return nil
}

// Host returns the SCRATCH API base URL.
func (c *EnvConfig) Host() string {
	return c.host
}

// Token returns the bearer token for the API, empty when auth is disabled.
func (c *EnvConfig) Token() string {
	return c.token
}

// LogLevel returns the log level (debug, info, warn, error).
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the directory holding local state.
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// HistoryDBPath returns the full path to the run-history database.
func (c *EnvConfig) HistoryDBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
