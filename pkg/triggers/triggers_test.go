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

package triggers_test

import (
	"strings"
	"testing"

	"github.com/ctxcap/ctxcap/pkg/schema"
	"github.com/ctxcap/ctxcap/pkg/triggers"
)

func TestSchemaKey(t *testing.T) {
	testCases := []struct {
		event    string
		subevent string
		want     string
	}{
		{"push", "", "webhook-push"},
		{"pull_request", "opened", "webhook-pull-request-opened"},
		{"pull_request_review_comment", "created", "webhook-pull-request-review-comment-created"},
		{"merge_group", "checks_requested", "webhook-merge-group-checks-requested"},
		{"repository_dispatch", "sample", "webhook-repository-dispatch-sample"},
	}

	for _, tc := range testCases {
		if got := triggers.SchemaKey(tc.event, tc.subevent); got != tc.want {
			t.Errorf("SchemaKey(%q, %q) = %q, want %q", tc.event, tc.subevent, got, tc.want)
		}
	}
}

func TestDefaultTableShape(t *testing.T) {
	table := triggers.Default()

	if len(table) == 0 {
		t.Fatal("Default trigger table is empty")
	}

	// Spot-check triggers with and without subevents.
	if subevents, ok := table["push"]; !ok || len(subevents) != 0 {
		t.Errorf("push should be present with no subevents, got %v", subevents)
	}
	if subevents := table["pull_request"]; len(subevents) == 0 {
		t.Error("pull_request should have subevents")
	}
	if subevents := table["issue_comment"]; len(subevents) != 3 {
		t.Errorf("issue_comment should have 3 subevents, got %d", len(subevents))
	}

	// Non-webhook triggers must not appear.
	for _, excluded := range []string{"schedule", "workflow_call", "pull_request_target"} {
		if _, ok := table[excluded]; ok {
			t.Errorf("Trigger %q is not a webhook and should not be in the table", excluded)
		}
	}
}

func TestBindSchemas(t *testing.T) {
	leaf := &schema.Node{Kind: schema.KindScalar, Type: "integer"}
	byKey := map[string]*schema.Node{
		"webhook-create":                leaf,
		"webhook-issue-comment-created": leaf,
		"webhook-issue-comment-edited":  leaf,
		"webhook-issue-comment-deleted": leaf,
	}

	bound, err := triggers.BindSchemas(triggers.Table{
		"create":        {},
		"issue_comment": {"created", "edited", "deleted"},
	}, byKey)
	if err != nil {
		t.Fatalf("BindSchemas failed: %v", err)
	}

	if len(bound["create"]) != 1 {
		t.Errorf("create should bind 1 schema, got %d", len(bound["create"]))
	}
	if len(bound["issue_comment"]) != 3 {
		t.Errorf("issue_comment should bind 3 schemas, got %d", len(bound["issue_comment"]))
	}
}

func TestBindSchemasMissingKeyFails(t *testing.T) {
	_, err := triggers.BindSchemas(triggers.Table{
		"issues": {"opened"},
	}, map[string]*schema.Node{})

	if err == nil {
		t.Fatal("BindSchemas should fail when a schema key is absent")
	}
	if !strings.Contains(err.Error(), "webhook-issues-opened") {
		t.Errorf("Error %q does not name the missing schema key", err.Error())
	}
}
