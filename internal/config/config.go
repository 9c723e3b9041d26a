// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds `ctxforge query` flag defaults loadable from a YAML file via
// --config. Any flag explicitly passed on the command line still wins; a
// zero-value field here simply means "no override for this flag".
type Config struct {
	Budget        int      `yaml:"budget,omitempty"`
	Include       []string `yaml:"include,omitempty"`
	Exclude       []string `yaml:"exclude,omitempty"`
	Hybrid        bool     `yaml:"hybrid,omitempty"`
	FollowImports bool     `yaml:"follow_imports,omitempty"`
	ImportDepth   int      `yaml:"import_depth,omitempty"`
	Hyde          bool     `yaml:"hyde,omitempty"`
	SmartRerank   bool     `yaml:"smart_rerank,omitempty"`
	Format        string   `yaml:"format,omitempty"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
