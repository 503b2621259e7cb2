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

// Package schema parses raw webhook payload schemas (JSON-decoded OpenAPI
// schema objects with all $refs already inlined) into a small closed set of
// node kinds. Anything outside that set is rejected at parse time: silently
// defaulting an unknown shape to "fixed" would hide attacker-controlled
// fields from the downstream analyzer, and defaulting to "arbitrary" would
// mask schema drift that operators want surfaced.
package schema

import (
	"fmt"
	"sort"
)

// Kind discriminates the node variants a parsed schema can contain.
type Kind int

const (
	// KindObject is a JSON object with declared properties.
	KindObject Kind = iota
	// KindArray is a homogeneous array described by an items schema.
	KindArray
	// KindScalar is a terminal value: boolean, integer, number, null or string.
	KindScalar
	// KindUnion is a schema whose type is a list of alternatives,
	// e.g. ["string", "null"].
	KindUnion
	// KindComposition is an allOf/anyOf/oneOf schema.
	KindComposition
)

// Node is one parsed schema node. Exactly the fields for its Kind are set;
// nodes are never mutated after Parse returns.
type Node struct {
	Kind Kind

	// KindObject
	Properties    []Property
	AdditionalAny bool // additionalProperties allows unconstrained extras

	// KindArray
	Items *Node

	// KindScalar
	Type    string // "boolean", "integer", "number", "null" or "string"
	Format  string // string formats only; empty when unset
	HasEnum bool   // string carries a closed enum value set

	// KindUnion
	Variants []*Node

	// KindComposition
	Alternatives []*Node
}

// Property is a declared object property and its schema.
type Property struct {
	Name   string
	Schema *Node
}

// Parse validates a raw schema node and converts it into a Node tree.
// The at argument locates the node inside the source document and is only
// used to make errors diagnosable.
func Parse(raw map[string]interface{}, at string) (*Node, error) {
	return parseNode(raw, at, nil)
}

// parseNode parses raw at the given document location. When forcedType is
// non-nil the node's own type declaration is ignored in its favor; this is
// how each branch of a type union is parsed from the same raw schema.
func parseNode(raw map[string]interface{}, at string, forcedType *string) (*Node, error) {
	typ := raw["type"]
	if forcedType != nil {
		typ = *forcedType
	}

	// A type like ["string", "null"] means the field is a string OR null.
	// Parse one variant per alternative so that every branch contributes
	// its capability to the same pattern during unification.
	if alternatives, ok := typ.([]interface{}); ok {
		if len(alternatives) == 0 {
			return nil, fmt.Errorf("%s: empty type list", at)
		}
		node := &Node{Kind: KindUnion}
		for i, alt := range alternatives {
			tag, ok := alt.(string)
			if !ok {
				return nil, fmt.Errorf("%s: type list entry %d is not a string: %v", at, i, alt)
			}
			variant, err := parseNode(raw, at, &tag)
			if err != nil {
				return nil, err
			}
			node.Variants = append(node.Variants, variant)
		}
		return node, nil
	}

	// allOf/anyOf/oneOf are all treated as "walk every alternative and
	// union the results". That over-approximates oneOf/anyOf, which is the
	// conservative direction for a security classifier. Only the first
	// composition key present is honored.
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		listed, ok := raw[key]
		if !ok {
			continue
		}
		entries, ok := listed.([]interface{})
		if !ok || len(entries) == 0 {
			return nil, fmt.Errorf("%s: %s must be a non-empty list", at, key)
		}
		node := &Node{Kind: KindComposition}
		for i, entry := range entries {
			sub, ok := entry.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %s entry %d is not a schema object", at, key, i)
			}
			alt, err := parseNode(sub, fmt.Sprintf("%s/%s/%d", at, key, i), nil)
			if err != nil {
				return nil, err
			}
			node.Alternatives = append(node.Alternatives, alt)
		}
		return node, nil
	}

	tag, ok := typ.(string)
	if !ok {
		return nil, fmt.Errorf("%s: missing or unsupported schema type: %v", at, typ)
	}

	switch tag {
	case "object":
		return parseObject(raw, at)
	case "array":
		return parseArray(raw, at)
	case "boolean", "integer", "number", "null":
		return &Node{Kind: KindScalar, Type: tag}, nil
	case "string":
		return parseString(raw, at)
	default:
		return nil, fmt.Errorf("%s: unknown schema type %q", at, tag)
	}
}

func parseObject(raw map[string]interface{}, at string) (*Node, error) {
	node := &Node{Kind: KindObject}

	if declared, ok := raw["properties"]; ok {
		props, ok := declared.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: properties is not an object", at)
		}
		// JSON decoding loses declaration order; sort for deterministic walks.
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sub, ok := props[name].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s/properties/%s: not a schema object", at, name)
			}
			child, err := parseNode(sub, fmt.Sprintf("%s/properties/%s", at, name), nil)
			if err != nil {
				return nil, err
			}
			node.Properties = append(node.Properties, Property{Name: name, Schema: child})
		}
	}

	switch extra := raw["additionalProperties"].(type) {
	case nil:
		// absent: no extra properties contribute patterns
	case bool:
		node.AdditionalAny = extra
	case map[string]interface{}:
		if len(extra) == 0 {
			// {} is equivalent to true: anything goes
			node.AdditionalAny = true
		} else {
			// A constraining sub-schema here would need real handling;
			// GitHub's webhook document doesn't use one today, so refuse
			// rather than under-approximate.
			return nil, fmt.Errorf("%s: unsupported additionalProperties schema: %v", at, extra)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported additionalProperties value: %v", at, extra)
	}

	return node, nil
}

func parseArray(raw map[string]interface{}, at string) (*Node, error) {
	items, ok := raw["items"].(map[string]interface{})
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%s: array schema with empty or missing items", at)
	}
	child, err := parseNode(items, at+"/items", nil)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindArray, Items: child}, nil
}

func parseString(raw map[string]interface{}, at string) (*Node, error) {
	node := &Node{Kind: KindScalar, Type: "string"}

	if declared, ok := raw["format"]; ok {
		format, ok := declared.(string)
		if !ok {
			return nil, fmt.Errorf("%s: format is not a string: %v", at, declared)
		}
		switch format {
		case "date-time", "uri", "uri-template", "email":
			node.Format = format
		default:
			return nil, fmt.Errorf("%s: unknown string format %q", at, format)
		}
	}

	_, node.HasEnum = raw["enum"]
	return node, nil
}
