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

package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctxcap/ctxcap/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Run from an empty directory so no default config file is found.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Source.Ref != "main" {
		t.Errorf("Default ref = %q, want main", cfg.Source.Ref)
	}
	if cfg.Root != "github.event" {
		t.Errorf("Default root = %q, want github.event", cfg.Root)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("Default output format = %q, want csv", cfg.Output.Format)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctxcap.yml")
	content := `version: "1"
source:
  ref: v2.1.0
root: github.event
triggers:
  extra:
    custom_event: [created, deleted]
  disabled: [gollum]
overrides:
  files: [extra-safe.txt]
output:
  format: json
  file: out.json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Source.Ref != "v2.1.0" {
		t.Errorf("Ref = %q, want v2.1.0", cfg.Source.Ref)
	}
	if cfg.Output.Format != "json" || cfg.Output.File != "out.json" {
		t.Errorf("Output = %+v, want json/out.json", cfg.Output)
	}
	if !reflect.DeepEqual(cfg.Overrides.Files, []string{"extra-safe.txt"}) {
		t.Errorf("Override files = %v", cfg.Overrides.Files)
	}

	table, err := cfg.ResolveTriggers()
	if err != nil {
		t.Fatalf("ResolveTriggers failed: %v", err)
	}
	if _, ok := table["gollum"]; ok {
		t.Error("gollum should be disabled")
	}
	if !reflect.DeepEqual(table["custom_event"], []string{"created", "deleted"}) {
		t.Errorf("custom_event = %v", table["custom_event"])
	}
}

func TestLoadConfigMissingExplicitFileFails(t *testing.T) {
	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("LoadConfig should fail for an explicitly named missing file")
	}
}

func TestResolveTriggersUnknownDisableFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Triggers.Disabled = []string{"not_a_trigger"}

	if _, err := cfg.ResolveTriggers(); err == nil {
		t.Fatal("Disabling an unknown trigger should fail")
	}
}
