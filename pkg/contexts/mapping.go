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

package contexts

import (
	"sort"

	"github.com/ctxcap/ctxcap/pkg/capability"
	"github.com/ctxcap/ctxcap/pkg/schema"
)

// Mapping accumulates the unified capability per context pattern across
// every schema that reaches it.
type Mapping map[string]capability.Capability

// Merge folds walked pairs into the mapping. A pattern already present
// keeps the most permissive of its old and new capabilities.
func (m Mapping) Merge(pairs []Pair) {
	for _, pair := range pairs {
		if existing, ok := m[pair.Pattern]; ok {
			m[pair.Pattern] = capability.Unify(existing, pair.Capability)
		} else {
			m[pair.Pattern] = pair.Capability
		}
	}
}

// Apply force-sets every override pattern to Fixed. Overrides are
// externally verified ground truth and overwrite whatever the walk
// computed, so they must be applied after all schemas are merged.
func (m Mapping) Apply(overrides []string) {
	for _, pattern := range overrides {
		m[pattern] = capability.Fixed
	}
}

// Patterns returns the mapped patterns in lexicographic order for
// deterministic serialization.
func (m Mapping) Patterns() []string {
	patterns := make([]string, 0, len(m))
	for pattern := range m {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}

// Aggregate walks every schema of every event, rooted at the same path
// root, into one mapping. Events are processed in sorted name order; the
// result is order-independent because Unify is commutative and associative.
func Aggregate(eventSchemas map[string][]*schema.Node, root string) Mapping {
	events := make([]string, 0, len(eventSchemas))
	for event := range eventSchemas {
		events = append(events, event)
	}
	sort.Strings(events)

	mapping := Mapping{}
	for _, event := range events {
		for _, node := range eventSchemas[event] {
			mapping.Merge(Walk(node, root))
		}
	}
	return mapping
}
