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
	"strings"

	"rivaas.dev/specrouter/schema"
)

// Response is the view of an outgoing response that rules validate.
//
// Header names are lower case. SetHeader is called once per casted header
// value, because transports expose headers as a derived view that cannot be
// replaced as a whole.
type Response interface {
	Status() int
	Headers() map[string]any
	SetHeader(name string, value any)
	Body() any
	SetBody(body any)
}

// Spec declares the schemas of one rule. At least one of Body and Headers
// must be set. Definitions are compiled by the [schema.Builder] passed to
// [NewRule] or [New].
type Spec struct {
	Body    any `json:"body,omitempty"`
	Headers any `json:"headers,omitempty"`
}

// Rule validates responses whose status matches its expression.
type Rule struct {
	expr    string
	ranges  []Range
	body    schema.Validator
	headers schema.Validator
}

// NewRule builds a rule from a status expression such as "200,201" or
// "500-599" and the schemas in spec.
//
// Errors:
//   - [ErrInvalidRule]: empty expression, nil spec, no ranges or no schemas
//   - [ErrInvalidRange]: a malformed range token
//   - errors from b when a schema fails to compile
func NewRule(expr string, spec *Spec, b schema.Builder) (*Rule, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: status expression is empty", ErrInvalidRule)
	}
	if spec == nil {
		return nil, fmt.Errorf("%w: %s: missing spec", ErrInvalidRule, expr)
	}

	var ranges []Range
	for token := range strings.SplitSeq(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		r, err := ParseRange(token)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: %q has no status codes", ErrInvalidRule, expr)
	}
	if spec.Body == nil && spec.Headers == nil {
		return nil, fmt.Errorf("%w: %s: body or headers schema required", ErrInvalidRule, expr)
	}

	rule := &Rule{expr: expr, ranges: ranges}

	var err error
	if spec.Headers != nil {
		if rule.headers, err = b.Build(spec.Headers); err != nil {
			return nil, fmt.Errorf("%w: %s: headers: %w", ErrInvalidRule, expr, err)
		}
	}
	if spec.Body != nil {
		if rule.body, err = b.Build(spec.Body); err != nil {
			return nil, fmt.Errorf("%w: %s: body: %w", ErrInvalidRule, expr, err)
		}
	}

	return rule, nil
}

// Ranges returns a copy of the rule's status ranges.
func (r *Rule) Ranges() []Range {
	return append([]Range(nil), r.ranges...)
}

// Overlaps reports whether any range of r shares a status code with any range of other.
func (r *Rule) Overlaps(other *Rule) bool {
	for _, a := range r.ranges {
		for _, b := range other.ranges {
			if a.Overlaps(b) {
				return true
			}
		}
	}

	return false
}

// Matches reports whether status falls within any of the rule's ranges.
func (r *Rule) Matches(status int) bool {
	for _, rng := range r.ranges {
		if rng.Contains(status) {
			return true
		}
	}

	return false
}

// Validate checks resp against the rule's schemas. Headers are validated
// first; if they fail, the body is not checked. Casted values replace the
// originals only when a schema changed them; date and date-time strings
// are never turned into time values.
func (r *Rule) Validate(ctx context.Context, resp Response) error {
	ctx = schema.ForResponse(ctx)

	if r.headers != nil {
		casted, err := r.headers.Validate(ctx, resp.Headers())
		if err != nil {
			return err
		}

		values, err := schema.ToMap(casted)
		if err != nil {
			return err
		}
		for name, value := range values {
			resp.SetHeader(name, value)
		}
	}

	if r.body != nil {
		casted, err := r.body.Validate(ctx, resp.Body())
		if err != nil {
			return err
		}
		resp.SetBody(casted)
	}

	return nil
}

// String returns the status expression the rule was built from.
func (r *Rule) String() string {
	return r.expr
}
