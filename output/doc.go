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

// Package output validates outgoing responses against per-status rules.
//
// Rules are keyed by status expressions: a comma separated list of single
// codes ("200"), inclusive ranges ("500-502") or the wildcard "*". A
// [Validator] owns the rules of one route. Rule ranges may not overlap, and
// this is checked once when the validator is built, so exactly one rule
// can ever apply to a response.
//
// # Basic Usage
//
//	v, err := output.New([]output.Entry{
//		{Status: "200", Spec: &output.Spec{Body: bodySchema}},
//		{Status: "400-499", Spec: &output.Spec{Body: problemSchema}},
//	}, schema.Default())
//	if err != nil {
//		return err // bad expression, overlapping rules, missing schemas
//	}
//
//	// After the handler ran:
//	if err := v.Validate(ctx, resp); err != nil {
//		// the response does not match its rule
//	}
//
// Header schemas run before body schemas. Casted header values are written
// back one key at a time and a casted body replaces the response body.
package output
