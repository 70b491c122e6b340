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

// Package specrouter provides declarative, spec-driven HTTP routes with
// request and response validation.
//
// A route is described by a [Spec]: its methods, path, handlers and an
// optional [Validate] block. At request time every route runs the same
// pipeline:
//
//  1. the body parser reads the body as json, form, multipart or stream
//  2. header, query, params and body are validated, in that order, and
//     the casted values replace the raw ones
//  3. the handlers run
//  4. the response is validated against the first output rule whose
//     status range matches it
//
// # Errors
//
// Invalid specs are rejected when registered, with a [*ConfigError].
// At request time a [*ParseError] (400 or 413) or [*ValidationError]
// (Validate.Failure, default 400) ends the request, unless the route sets
// ContinueOnError, in which case errors are collected in
// [Context.Invalid] and the handlers decide. A response that fails output
// validation is replaced by a 500 error.
//
// # Output rules
//
// Output rules map status expressions to schemas:
//
//	Output: []output.Entry{
//		{Status: "200", Spec: &output.Spec{Body: userSchema}},
//		{Status: "400-499,503", Spec: &output.Spec{Body: errorSchema}},
//	}
//
// An expression is a comma separated list of codes ("201"), inclusive
// ranges ("500-599") or "*". Rules whose ranges overlap are rejected at
// registration.
//
// # Example
//
//	r := specrouter.MustNew(specrouter.WithLogger(slog.Default()))
//
//	r.MustRoute(specrouter.Spec{
//		Method: "get",
//		Path:   "/search",
//		Validate: &specrouter.Validate{
//			Query: `{"type":"object","properties":{"q":{"type":"number","minimum":5,"maximum":8}},"required":["q"]}`,
//		},
//		Handler: []specrouter.HandlerFunc{func(c *specrouter.Context) error {
//			return c.JSON(http.StatusOK, map[string]any{"q": c.Query()["q"]})
//		}},
//	})
//
//	http.ListenAndServe(":8080", r)
package specrouter
