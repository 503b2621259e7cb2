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

// Package triggers maps workflow trigger events to the webhook payload
// schemas that describe them.
package triggers

import (
	"fmt"
	"strings"

	"github.com/ctxcap/ctxcap/pkg/schema"
)

// Table maps a workflow trigger event name to its subevent names. An empty
// list means the trigger has a single payload schema with no subevents.
type Table map[string][]string

// Default returns the workflow triggers that correspond to webhook payloads.
// Keep in sync with:
// https://docs.github.com/en/actions/writing-workflows/choosing-when-your-workflow-runs/events-that-trigger-workflows
//
// Triggers with no entry here either aren't webhooks (schedule,
// workflow_call), aren't real webhook payloads (pull_request_target reuses
// pull_request), or don't exist as distinct events (pull_request_comment).
func Default() Table {
	return Table{
		"branch_protection_rule": {"created", "edited", "deleted"},
		"check_run": {
			"created",
			"rerequested",
			"completed",
			"requested_action",
		},
		"check_suite": {
			"completed",
		},
		"create": {}, // no subevents
		"delete": {}, // no subevents
		// GitHub doesn't document the subevent for `deployment` or
		// `deployment_status`, but the docs imply it is `created`.
		"deployment":        {"created"},
		"deployment_status": {"created"},
		"discussion": {
			"created",
			"edited",
			"deleted",
			"transferred",
			"pinned",
			"unpinned",
			"labeled",
			"unlabeled",
			"locked",
			"unlocked",
			"category_changed",
			"answered",
			"unanswered",
		},
		"discussion_comment": {
			"created",
			"edited",
			"deleted",
		},
		"fork":   {}, // no subevents
		"gollum": {}, // no subevents
		"issue_comment": {
			"created",
			"edited",
			"deleted",
		},
		"issues": {
			"opened",
			"edited",
			"deleted",
			"transferred",
			"pinned",
			"unpinned",
			"closed",
			"reopened",
			"assigned",
			"unassigned",
			"labeled",
			"unlabeled",
			"locked",
			"unlocked",
			"milestoned",
			"demilestoned",
			"typed",
			"untyped",
		},
		"label": {
			"created",
			"edited",
			"deleted",
		},
		"merge_group": {"checks_requested"},
		"milestone": {
			"created",
			"closed",
			"opened",
			"edited",
			"deleted",
		},
		"page_build": {}, // no subevents
		"public":     {}, // no subevents
		"pull_request": {
			"assigned",
			"unassigned",
			"labeled",
			"unlabeled",
			"opened",
			"edited",
			"closed",
			"reopened",
			"synchronize",
			"converted_to_draft",
			"locked",
			"unlocked",
			"enqueued",
			"dequeued",
			"milestoned",
			"demilestoned",
			"ready_for_review",
			"review_requested",
			"review_request_removed",
			"auto_merge_enabled",
			"auto_merge_disabled",
		},
		"pull_request_review": {
			"submitted",
			"edited",
			"dismissed",
		},
		"pull_request_review_comment": {
			"created",
			"edited",
			"deleted",
		},
		"push": {}, // no subevents
		"registry_package": {
			"published",
			"updated",
		},
		"release": {
			"published",
			"unpublished",
			"created",
			"edited",
			"deleted",
			"prereleased",
			"released",
		},
		// GitHub's OpenAPI document uses `sample` as the example payload.
		"repository_dispatch": {"sample"},
		"status":              {}, // no subevents
		"watch":               {"started"},
		"workflow_dispatch":   {}, // no subevents
		"workflow_run": {
			"completed",
			"in_progress",
			"requested",
		},
	}
}

// SchemaKey names the webhook schema for an event/subevent pair the way
// GitHub's OpenAPI document does: webhook-<event>[-<subevent>], with
// underscores mapped to hyphens. Pass an empty subevent for triggers
// without subevents.
func SchemaKey(event, subevent string) string {
	key := "webhook-" + strings.ReplaceAll(event, "_", "-")
	if subevent != "" {
		key += "-" + strings.ReplaceAll(subevent, "_", "-")
	}
	return key
}

// BindSchemas resolves each trigger's schemas from the parsed webhook
// schema set. A trigger whose schema key is absent from the document is a
// hard error: silently skipping an event would leave its payload fields
// unclassified and indistinguishable from safe.
func BindSchemas(table Table, byKey map[string]*schema.Node) (map[string][]*schema.Node, error) {
	bound := make(map[string][]*schema.Node, len(table))

	for event, subevents := range table {
		keys := make([]string, 0, len(subevents)+1)
		if len(subevents) == 0 {
			keys = append(keys, SchemaKey(event, ""))
		}
		for _, subevent := range subevents {
			keys = append(keys, SchemaKey(event, subevent))
		}

		for _, key := range keys {
			node, ok := byKey[key]
			if !ok {
				return nil, fmt.Errorf("no webhook schema %q for trigger %q", key, event)
			}
			bound[event] = append(bound[event], node)
		}
	}

	return bound, nil
}
