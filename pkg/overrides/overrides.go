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

// Package overrides loads curated lists of context patterns that are pinned
// to the fixed capability regardless of what the schema walk computed.
package overrides

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed known-safe-contexts.txt
var knownSafe string

// Default returns the built-in known-safe context list.
func Default() []string {
	patterns, err := parse(strings.NewReader(knownSafe))
	if err != nil {
		// The embedded list is part of the build; failing to scan it is a
		// programming error, not an input error.
		panic(fmt.Sprintf("embedded known-safe context list: %v", err))
	}
	return patterns
}

// Load reads additional override patterns from a file.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open override file: %w", err)
	}
	defer f.Close()

	patterns, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read override file %s: %w", path, err)
	}
	return patterns, nil
}

// parse reads one pattern per line, skipping blank lines and # comments.
func parse(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}
