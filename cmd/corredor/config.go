// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds the CLI configuration, loaded from
// ~/.corredor/config.yaml with environment overrides.
type Config struct {
	// APIURL is the backend root, e.g. "http://localhost:8000".
	APIURL string `yaml:"api_url"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogDir receives the JSON log files. Empty disables file logs.
	LogDir string `yaml:"log_dir"`

	// DataDir holds the local badger store (tokens, preferences).
	DataDir string `yaml:"data_dir"`

	// RequestsPerSecond throttles the API client. Zero disables.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// corredorHome returns ~/.corredor, falling back to a relative
// directory when the home directory cannot be resolved.
func corredorHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".corredor"
	}
	return filepath.Join(home, ".corredor")
}

func defaultConfig() Config {
	home := corredorHome()
	return Config{
		APIURL:            "http://localhost:8000",
		LogLevel:          "info",
		LogDir:            filepath.Join(home, "logs"),
		DataDir:           filepath.Join(home, "data"),
		RequestsPerSecond: 0,
	}
}

// loadConfig reads ~/.corredor/config.yaml when present and applies
// environment and flag overrides. A missing file is not an error; the
// defaults stand.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path := filepath.Join(corredorHome(), "config.yaml")
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run, nothing to merge.
	case err != nil:
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if v := os.Getenv("CORREDOR_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}
	return cfg, nil
}
