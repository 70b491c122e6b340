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

// Package schema provides the schema capability used by specrouter to validate
// and cast request and response values.
//
// A schema definition is turned into a [Validator] by a [Builder]. Validators
// return the casted value alongside any error, so callers can write coerced
// values (numbers parsed from query strings, times parsed from RFC 3339
// strings) back into the request or response.
//
// # Definitions
//
// The builder returned by [Default] understands three kinds of definitions:
//
//  1. Literal validators - any [Validator] (including [Func] and [Struct]) is used as is
//  2. JSON Schema documents - map[string]any, JSON text (string or []byte)
//  3. YAML JSON Schema documents - wrap the source in [YAML]
//
// JSON Schema documents are compiled with santhosh-tekuri/jsonschema and cast
// according to their declared types before validation:
//
//	b := schema.Default()
//	v, err := b.Build(`{
//		"type": "object",
//		"properties": {"q": {"type": "number", "minimum": 5, "maximum": 8}}
//	}`)
//	casted, err := v.Validate(ctx, map[string]any{"q": "6"})
//	// casted == map[string]any{"q": float64(6)}
//
// Struct schemas decode the input with mapstructure and validate it with
// go-playground/validator tags:
//
//	type Search struct {
//		Q float64 `json:"q" validate:"min=5,max=8"`
//	}
//
//	v := schema.Struct[Search]()
//	casted, err := v.Validate(ctx, map[string]any{"q": "6"})
//	// casted == &Search{Q: 6}
//
// # Errors
//
// Validation failures are reported as [*Error], which lists [FieldError]
// values with a JSON path, a stable code and a message.
package schema
