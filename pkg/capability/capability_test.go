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

package capability_test

import (
	"testing"

	"github.com/ctxcap/ctxcap/pkg/capability"
)

func TestUnifyMostPermissiveWins(t *testing.T) {
	testCases := []struct {
		a, b, want capability.Capability
	}{
		{capability.Fixed, capability.Fixed, capability.Fixed},
		{capability.Fixed, capability.Structured, capability.Structured},
		{capability.Fixed, capability.Arbitrary, capability.Arbitrary},
		{capability.Structured, capability.Structured, capability.Structured},
		{capability.Structured, capability.Arbitrary, capability.Arbitrary},
		{capability.Arbitrary, capability.Arbitrary, capability.Arbitrary},
	}

	for _, tc := range testCases {
		if got := capability.Unify(tc.a, tc.b); got != tc.want {
			t.Errorf("Unify(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
		// Commutativity
		if got := capability.Unify(tc.b, tc.a); got != tc.want {
			t.Errorf("Unify(%s, %s) = %s, want %s", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestUnifyAssociative(t *testing.T) {
	caps := []capability.Capability{capability.Fixed, capability.Structured, capability.Arbitrary}

	for _, a := range caps {
		for _, b := range caps {
			for _, c := range caps {
				left := capability.Unify(capability.Unify(a, b), c)
				right := capability.Unify(a, capability.Unify(b, c))
				if left != right {
					t.Errorf("Unify not associative for (%s, %s, %s): %s != %s", a, b, c, left, right)
				}
			}
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, c := range []capability.Capability{capability.Fixed, capability.Structured, capability.Arbitrary} {
		parsed, err := capability.Parse(c.String())
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("Parse(%q) = %s, want %s", c.String(), parsed, c)
		}
	}

	if _, err := capability.Parse("unknown"); err == nil {
		t.Error("Parse should reject unknown capability tags")
	}
}
