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

package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ctxcap/ctxcap/pkg/schema"
	"github.com/xeipuuv/gojsonpointer"
)

// webhookPrefix selects the webhook payload schemas out of components.schemas;
// the document also describes REST responses we don't care about.
const webhookPrefix = "webhook-"

// Document is a decoded OpenAPI webhooks document.
type Document struct {
	raw map[string]interface{}
}

// ParseDocument decodes the raw JSON document.
func ParseDocument(data []byte) (*Document, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode OpenAPI document: %w", err)
	}
	return &Document{raw: raw}, nil
}

// LoadFile reads a previously downloaded OpenAPI document, for offline or
// pinned runs.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}
	return ParseDocument(data)
}

// WebhookSchemas resolves every internal $ref and parses each webhook
// payload schema, keyed by its component name (e.g.
// webhook-pull-request-opened). The returned schemas are fully inlined; the
// walker never sees a reference.
func (d *Document) WebhookSchemas() (map[string]*schema.Node, error) {
	components, err := d.lookup("/components/schemas")
	if err != nil {
		return nil, err
	}
	all, ok := components.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("components.schemas is not an object")
	}

	names := make([]string, 0, len(all))
	for name := range all {
		if strings.HasPrefix(name, webhookPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	byKey := make(map[string]*schema.Node, len(names))
	for _, name := range names {
		resolved, err := d.resolve(all[name], map[string]bool{})
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}
		raw, ok := resolved.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("schema %q is not an object", name)
		}
		node, err := schema.Parse(raw, name)
		if err != nil {
			return nil, err
		}
		byKey[name] = node
	}

	return byKey, nil
}

func (d *Document) lookup(pointer string) (interface{}, error) {
	ptr, err := gojsonpointer.NewJsonPointer(pointer)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON pointer %q: %w", pointer, err)
	}
	value, _, err := ptr.Get(d.raw)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", pointer, err)
	}
	return value, nil
}

// resolve deep-copies node with every internal $ref inlined. inFlight holds
// the refs on the current resolution chain; revisiting one means the
// document is cyclic, which we refuse rather than emit an infinite pattern
// space.
func (d *Document) resolve(node interface{}, inFlight map[string]bool) (interface{}, error) {
	switch typed := node.(type) {
	case map[string]interface{}:
		if ref, ok := typed["$ref"]; ok {
			target, ok := ref.(string)
			if !ok {
				return nil, fmt.Errorf("$ref is not a string: %v", ref)
			}
			if !strings.HasPrefix(target, "#") {
				return nil, fmt.Errorf("external $ref %q is not supported", target)
			}
			if inFlight[target] {
				return nil, fmt.Errorf("reference cycle through %q", target)
			}

			referenced, err := d.lookup(strings.TrimPrefix(target, "#"))
			if err != nil {
				return nil, err
			}

			inFlight[target] = true
			resolved, err := d.resolve(referenced, inFlight)
			delete(inFlight, target)
			return resolved, err
		}

		out := make(map[string]interface{}, len(typed))
		for key, value := range typed {
			resolved, err := d.resolve(value, inFlight)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil

	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, value := range typed {
			resolved, err := d.resolve(value, inFlight)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	default:
		return node, nil
	}
}
