// Package config loads optional per-project defaults from .depwave.yaml in
// the working directory. Command-line flags override anything set here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = ".depwave.yaml"

// Config holds project-level defaults for the depwave CLI.
type Config struct {
	BdBin            string `yaml:"bd_bin"`
	DbPath           string `yaml:"db"`
	Model            string `yaml:"model"`
	MaxParallelFetch int    `yaml:"max_parallel_fetch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BdBin:            "bd",
		MaxParallelFetch: 4,
	}
}

// Load reads .depwave.yaml from dir. A missing file yields the defaults; a
// malformed file is an error.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.BdBin == "" {
		cfg.BdBin = "bd"
	}
	if cfg.MaxParallelFetch <= 0 {
		cfg.MaxParallelFetch = 4
	}
	return cfg, nil
}
