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

package overrides_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctxcap/ctxcap/pkg/overrides"
)

func TestDefaultList(t *testing.T) {
	patterns := overrides.Default()
	if len(patterns) == 0 {
		t.Fatal("Default override list is empty")
	}

	for _, pattern := range patterns {
		if !strings.HasPrefix(pattern, "github.event") {
			t.Errorf("Override %q is not rooted at github.event", pattern)
		}
		if strings.HasPrefix(pattern, "#") || strings.TrimSpace(pattern) != pattern {
			t.Errorf("Override %q was not cleaned during parsing", pattern)
		}
	}

	found := false
	for _, pattern := range patterns {
		if pattern == "github.event.pull_request.head.sha" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected github.event.pull_request.head.sha in the default list")
	}
}

func TestLoadSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "safe.txt")
	content := `# header comment

github.event.custom.sha
  github.event.custom.id

# trailing comment
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	patterns, err := overrides.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"github.event.custom.sha", "github.event.custom.id"}
	if !reflect.DeepEqual(patterns, want) {
		t.Errorf("Load = %v, want %v", patterns, want)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := overrides.Load(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
}
