package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config is the tool configuration. Command-line flags override it.
type Config struct {
	Schemes    []string `yaml:"schemes"`
	MaxDepth   int      `yaml:"max_depth"`
	LogLevel   string   `yaml:"log_level"`
	Output     string   `yaml:"output"`
	Optical    bool     `yaml:"optical"`
	SectorSize uint32   `yaml:"sector_size"`
	MaxInflate int64    `yaml:"max_inflate"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:   "warning",
		Output:     "text",
		MaxInflate: 8 * gb,
	}
}

// defaultConfigPath is $XDG_CONFIG_HOME/dskpart/config.yaml, or the same
// under ~/.config.
func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dskpart", "config.yaml")
}

// readConfig loads path over the defaults. A missing file is not an error
// unless it was asked for explicitly.
func readConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "failed to read %q", path)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse %q", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %q", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return errors.Errorf("output must be text or json, not %q", c.Output)
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("max_depth %d is negative", c.MaxDepth)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// setupLogging applies the configured level; verbose forces debug.
func setupLogging(level string, verbose bool) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}
