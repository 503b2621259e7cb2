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

// Package capability defines the three-level classification of how much an
// external attacker can influence the value behind a webhook context pattern.
package capability

import "fmt"

// Capability classifies attacker influence over a context value.
// The numeric order encodes permissiveness: a higher value means the
// attacker has more control over the expanded content.
type Capability int

const (
	// Fixed values are drawn from a small set the attacker cannot influence:
	// booleans, numbers, timestamps and closed enumerations.
	Fixed Capability = iota
	// Structured values have a constrained shape (URIs, emails) that can
	// carry limited attacker-chosen content but not free text.
	Structured
	// Arbitrary values may contain unconstrained attacker-supplied text.
	Arbitrary
)

// String returns the literal tag used in serialized output.
func (c Capability) String() string {
	switch c {
	case Fixed:
		return "fixed"
	case Structured:
		return "structured"
	case Arbitrary:
		return "arbitrary"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Parse converts a literal tag back into a Capability.
func Parse(s string) (Capability, error) {
	switch s {
	case "fixed":
		return Fixed, nil
	case "structured":
		return Structured, nil
	case "arbitrary":
		return Arbitrary, nil
	default:
		return 0, fmt.Errorf("unknown capability %q", s)
	}
}

// Unify merges two capability findings for the same pattern in favor of the
// more permissive one. It is the join on the Fixed < Structured < Arbitrary
// order: commutative, associative and idempotent, so the order in which
// schemas contribute findings never changes the result.
func Unify(a, b Capability) Capability {
	if a > b {
		return a
	}
	return b
}
