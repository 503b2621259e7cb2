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

// Package contexts walks parsed webhook payload schemas into context
// patterns and unifies the capability findings of all schemas that
// describe the same pattern.
//
// A pattern is a dotted path rooted at the event payload, with `*`
// standing for any array index, e.g. github.event.pull_request.title or
// github.event.commits.*.message.
package contexts

import (
	"github.com/ctxcap/ctxcap/pkg/capability"
	"github.com/ctxcap/ctxcap/pkg/schema"
)

// Pair is one walked leaf: a context pattern and the capability the
// contributing schema implies for it.
type Pair struct {
	Pattern    string
	Capability capability.Capability
}

// Walk produces every (pattern, capability) leaf reachable from node,
// rooted at the given path. It is a pure function of its inputs and
// returns a fresh slice per call.
func Walk(node *schema.Node, root string) []Pair {
	return walk(node, root, nil)
}

func walk(node *schema.Node, path string, pairs []Pair) []Pair {
	switch node.Kind {
	case schema.KindUnion:
		// Each type variant contributes leaves at the same path; the
		// aggregator unifies them into one capability per pattern.
		for _, variant := range node.Variants {
			pairs = walk(variant, path, pairs)
		}
		return pairs

	case schema.KindComposition:
		// Alternatives are never inlined as parent properties; each one
		// is an independent schema rooted at the current path.
		for _, alt := range node.Alternatives {
			pairs = walk(alt, path, pairs)
		}
		return pairs

	case schema.KindObject:
		if len(node.Properties) == 0 {
			// An object with no declared properties is open-ended: its
			// content is whatever the sender put there.
			pairs = append(pairs, Pair{path, capability.Arbitrary})
		} else {
			for _, prop := range node.Properties {
				pairs = walk(prop.Schema, path+"."+prop.Name, pairs)
			}
		}
		if node.AdditionalAny {
			pairs = append(pairs, Pair{path + ".*", capability.Arbitrary})
		}
		return pairs

	case schema.KindArray:
		return walk(node.Items, path+".*", pairs)

	default: // schema.KindScalar
		return append(pairs, Pair{path, scalarCapability(node)})
	}
}

// scalarCapability implements the fixed classification table for terminal
// values. The parse step already rejected every format outside this table.
func scalarCapability(node *schema.Node) capability.Capability {
	if node.Type != "string" {
		// booleans, integers, numbers and nulls carry no attacker text
		return capability.Fixed
	}

	switch node.Format {
	case "date-time":
		return capability.Fixed
	case "uri", "uri-template", "email":
		return capability.Structured
	default:
		if node.HasEnum {
			// closed value set
			return capability.Fixed
		}
		// No format and no enum: free text, assume the worst.
		return capability.Arbitrary
	}
}
