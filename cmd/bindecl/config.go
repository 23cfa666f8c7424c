package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the bindecl configuration file (~/.config/bindecl/config.yaml). Values
// apply only when the matching flag was not set. Pointers tell "not set" from zero.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Format      string `yaml:"format"`
	MaxElements *int64 `yaml:"max_elements"`
	MaxDepth    *int64 `yaml:"max_depth"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bindecl", "config.yaml")
}

// LoadConfig reads the config file at path. With an empty path the default file is
// read if it exists.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("could not read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func applyLogConfig(c *cli.Command, cfg Config, o *logOptions) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		o.level = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		o.format = cfg.LogFormat
	}
}

func applyOutputConfig(c *cli.Command, cfg Config, o *outputOptions) {
	if cfg.Format != "" && !c.IsSet("format") {
		o.format = cfg.Format
	}
	if cfg.MaxElements != nil && !c.IsSet("max-elements") {
		o.maxElements = *cfg.MaxElements
	}
	if cfg.MaxDepth != nil && !c.IsSet("max-depth") {
		o.maxDepth = *cfg.MaxDepth
	}
}
