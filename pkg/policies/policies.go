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

// Package policies validates a generated mapping against Rego policies.
// Operators use this to pin invariants across regenerations, e.g. "this
// pattern must stay fixed" or "touching this prefix needs review" — schema
// drift upstream then fails the run instead of silently changing the
// shipped data file.
package policies

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctxcap/ctxcap/pkg/contexts"
	"github.com/open-policy-agent/opa/v1/rego"
)

// Violation is one policy denial.
type Violation struct {
	ID          string
	Description string
	Pattern     string
	Policy      string
}

// PolicyEngine evaluates the generated mapping against Rego policies.
type PolicyEngine struct {
	policyFiles []string
}

// NewPolicyEngine creates a policy engine over the given policy files.
func NewPolicyEngine(policyFiles []string) *PolicyEngine {
	return &PolicyEngine{
		policyFiles: policyFiles,
	}
}

// EvaluateMapping runs every policy against the mapping. The input document
// is {"patterns": {pattern: capability}}; policies deny via
// data.ctxcap.deny[x].
func (e *PolicyEngine) EvaluateMapping(mapping contexts.Mapping) ([]Violation, error) {
	var violations []Violation

	if len(e.policyFiles) == 0 {
		return violations, nil
	}

	patterns := make(map[string]string, len(mapping))
	for pattern, c := range mapping {
		patterns[pattern] = c.String()
	}
	input := map[string]interface{}{
		"patterns": patterns,
	}

	for _, policyFile := range e.policyFiles {
		fileViolations, err := e.evaluatePolicyFile(policyFile, input)
		if err != nil {
			return nil, fmt.Errorf("policy evaluation error for %s: %w", policyFile, err)
		}
		violations = append(violations, fileViolations...)
	}

	return violations, nil
}

func (e *PolicyEngine) evaluatePolicyFile(policyFile string, input interface{}) ([]Violation, error) {
	var violations []Violation

	policyContent, err := os.ReadFile(policyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	ctx := context.Background()
	policyName := filepath.Base(policyFile)

	r := rego.New(
		rego.Query("data.ctxcap.deny[x]"),
		rego.Module(policyName, string(policyContent)),
		rego.Input(input),
	)

	rs, err := r.Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}

	for _, result := range rs {
		for _, expr := range result.Expressions {
			denial, ok := expr.Value.(map[string]interface{})
			if !ok {
				continue
			}
			violations = append(violations, convertDenial(denial, policyName))
		}
	}

	return violations, nil
}

func convertDenial(denial map[string]interface{}, policyName string) Violation {
	violation := Violation{
		ID:          "POLICY_VIOLATION",
		Description: "Policy violation detected",
		Policy:      policyName,
	}

	if id, ok := denial["id"].(string); ok {
		violation.ID = id
	}
	if description, ok := denial["description"].(string); ok {
		violation.Description = description
	}
	if pattern, ok := denial["pattern"].(string); ok {
		violation.Pattern = pattern
	}

	return violation
}

// LoadPolicyFiles loads policy file paths from a file or directory
func LoadPolicyFiles(policyPath string) ([]string, error) {
	var policyFiles []string

	fileInfo, err := os.Stat(policyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access policy path: %w", err)
	}

	if fileInfo.IsDir() {
		// Walk the directory to find .rego files
		err = filepath.Walk(policyPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == ".rego" {
				policyFiles = append(policyFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk policy directory: %w", err)
		}
	} else {
		// Single file
		if filepath.Ext(policyPath) == ".rego" {
			policyFiles = append(policyFiles, policyPath)
		} else {
			return nil, fmt.Errorf("policy file must have .rego extension")
		}
	}

	if len(policyFiles) == 0 {
		return nil, fmt.Errorf("no policy files found at %s", policyPath)
	}

	return policyFiles, nil
}

// CreateExamplePolicy creates an example policy file
func CreateExamplePolicy(filePath string) error {
	examplePolicy := `package ctxcap

# Fail if a pattern we interpolate into scripts ever becomes
# attacker-controllable.
deny contains violation if {
    some pattern in {"github.event.pull_request.base.ref", "github.event.workflow_run.head_branch"}
    input.patterns[pattern] == "arbitrary"

    violation := {
        "id": "POLICY_PINNED_PATTERN_DRIFT",
        "description": "A pinned pattern is now classified as arbitrary",
        "pattern": pattern,
    }
}

# Fail if the merge-base SHA stops being classified at all; consumers
# assume it is always present.
deny contains violation if {
    not input.patterns["github.event.pull_request.base.sha"]

    violation := {
        "id": "POLICY_MISSING_PATTERN",
        "description": "Expected pattern is missing from the mapping",
        "pattern": "github.event.pull_request.base.sha",
    }
}
`

	dir := filepath.Dir(filePath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create policy directory: %w", err)
		}
	}

	if err := os.WriteFile(filePath, []byte(examplePolicy), 0644); err != nil {
		return fmt.Errorf("failed to write example policy: %w", err)
	}

	return nil
}
