// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"rivaas.dev/specrouter/schema"
)

// Entry pairs a status expression with its spec. A slice of entries keeps
// the declaration order of the rules.
type Entry struct {
	Status string `json:"status"`
	Spec   *Spec  `json:"spec"`
}

// Map is the unordered form used by declarative route files.
type Map map[string]Spec

// Entries returns the map as entries ordered by their lowest status code,
// then by expression. Since rules may not overlap, the order never changes
// which rule applies; it only makes construction and error messages
// deterministic.
func (m Map) Entries() []Entry {
	entries := make([]Entry, 0, len(m))
	for status, spec := range m {
		entries = append(entries, Entry{Status: status, Spec: &spec})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if la, lb := lowestCode(a.Status), lowestCode(b.Status); la != lb {
			return la - lb
		}
		return strings.Compare(a.Status, b.Status)
	})

	return entries
}

// lowestCode returns the smallest lower bound of expr, or a large sentinel
// for expressions that do not parse (those fail later in [New]).
func lowestCode(expr string) int {
	lowest := 1 << 30
	for token := range strings.SplitSeq(expr, ",") {
		r, err := ParseRange(strings.TrimSpace(token))
		if err == nil && r.Lower < lowest {
			lowest = r.Lower
		}
	}

	return lowest
}

// Validator validates responses of one route against its output rules.
// It is immutable once built and safe for concurrent use.
type Validator struct {
	rules []*Rule
}

// New builds one rule per entry, in order, then rejects any pair of rules
// whose ranges overlap.
//
// Example:
//
//	v, err := output.New([]output.Entry{
//		{Status: "200", Spec: &output.Spec{Body: `{"type":"object"}`}},
//		{Status: "201,202", Spec: &output.Spec{Headers: headerSchema}},
//		{Status: "203-599", Spec: &output.Spec{Body: errorSchema}},
//	}, schema.Default())
func New(entries []Entry, b schema.Builder) (*Validator, error) {
	rules := make([]*Rule, 0, len(entries))
	for _, e := range entries {
		rule, err := NewRule(e.Status, e.Spec, b)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if err := assertNoOverlap(rules); err != nil {
		return nil, err
	}

	return &Validator{rules: rules}, nil
}

// assertNoOverlap compares every pair of distinct rules.
func assertNoOverlap(rules []*Rule) error {
	for i := range rules {
		for j := i + 1; j < len(rules); j++ {
			if rules[i].Overlaps(rules[j]) {
				return fmt.Errorf("%w: %s <=> %s", ErrOverlap, rules[i], rules[j])
			}
		}
	}

	return nil
}

// Rules returns the rules in construction order.
func (v *Validator) Rules() []*Rule {
	return slices.Clone(v.rules)
}

// Validate applies the first rule matching resp.Status(). A response no rule
// matches passes through untouched.
func (v *Validator) Validate(ctx context.Context, resp Response) error {
	status := resp.Status()
	for _, rule := range v.rules {
		if rule.Matches(status) {
			return rule.Validate(ctx, resp)
		}
	}

	return nil
}
