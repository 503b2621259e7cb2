/*
Copyright 2025 Hare Krishna Rai

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads the .ctxcap.yml configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/ctxcap/ctxcap/pkg/triggers"
	"gopkg.in/yaml.v3"
)

// Config is the complete ctxcap configuration.
type Config struct {
	Version   string    `yaml:"version" json:"version"`
	Source    Source    `yaml:"source" json:"source"`
	Root      string    `yaml:"root" json:"root"`
	Triggers  Triggers  `yaml:"triggers,omitempty" json:"triggers,omitempty"`
	Overrides Overrides `yaml:"overrides,omitempty" json:"overrides,omitempty"`
	Output    Output    `yaml:"output" json:"output"`
}

// Source selects where the OpenAPI webhooks document comes from.
type Source struct {
	// Ref is the octokit/openapi-webhooks git ref to download (branch,
	// tag or commit SHA). Ignored when File is set.
	Ref string `yaml:"ref" json:"ref"`
	// File is a local copy of the document, for offline or pinned runs.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Triggers adjusts the built-in trigger table.
type Triggers struct {
	// Extra maps additional trigger events to their subevents.
	Extra map[string][]string `yaml:"extra,omitempty" json:"extra,omitempty"`
	// Disabled removes triggers from the run.
	Disabled []string `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Overrides configures the known-safe context lists.
type Overrides struct {
	// Files are additional override lists, applied after the default.
	Files []string `yaml:"files,omitempty" json:"files,omitempty"`
	// DisableDefault drops the embedded known-safe list.
	DisableDefault bool `yaml:"disable_default,omitempty" json:"disable_default,omitempty"`
}

// Output configuration.
type Output struct {
	Format string `yaml:"format" json:"format"` // "csv", "json", "cli"
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Source:  Source{Ref: "main"},
		Root:    "github.event",
		Output:  Output{Format: "csv"},
	}
}

// defaultConfigFiles are searched in order when no --config flag is given.
var defaultConfigFiles = []string{".ctxcap.yml", ".ctxcap.yaml"}

// LoadConfig loads configuration from the given path, or from the default
// config files in the working directory. A missing default file is fine;
// an explicitly named file must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		for _, candidate := range defaultConfigFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Root == "" {
		cfg.Root = "github.event"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "csv"
	}

	return cfg, nil
}

// ResolveTriggers applies the configured adjustments to the built-in
// trigger table. Disabling an unknown trigger is an error: it usually
// means a typo that would otherwise silently classify nothing.
func (c *Config) ResolveTriggers() (triggers.Table, error) {
	table := triggers.Default()

	for event, subevents := range c.Triggers.Extra {
		table[event] = subevents
	}
	for _, event := range c.Triggers.Disabled {
		if _, ok := table[event]; !ok {
			return nil, fmt.Errorf("cannot disable unknown trigger %q", event)
		}
		delete(table, event)
	}

	return table, nil
}
