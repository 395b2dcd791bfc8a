package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig holds defaults read from the config file. Flags given on the
// command line win over file values.
type fileConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Cookies  string `yaml:"cookies"`
	System   string `yaml:"system"`
	Proxy    string `yaml:"proxy"`
	// Timeout is a time.ParseDuration string, e.g. "45s".
	Timeout     string `yaml:"timeout"`
	HistoryFile string `yaml:"history_file"`
}

func (c fileConfig) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "webscout", "config.yaml")
}

// loadConfig reads the config file at path. A missing file at the default
// location is not an error; an explicit --config that does not exist is.
func loadConfig(path string, explicit bool) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
