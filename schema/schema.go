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

package schema

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// Validator validates a value and returns its casted form.
//
// Implementations must be safe for concurrent use: a Validator is built once
// when a route is registered and shared by every request served by that route.
type Validator interface {
	// Validate checks value and returns the value to use in its place.
	// The returned value is only meaningful when err is nil.
	Validate(ctx context.Context, value any) (any, error)
}

// Func adapts an ordinary function to the [Validator] interface.
//
// Example:
//
//	notEmpty := schema.Func(func(_ context.Context, v any) (any, error) {
//		if v == nil {
//			return nil, errors.New("value required")
//		}
//		return v, nil
//	})
type Func func(ctx context.Context, value any) (any, error)

// Validate calls f(ctx, value).
func (f Func) Validate(ctx context.Context, value any) (any, error) {
	return f(ctx, value)
}

// Identity is a [Validator] that accepts every value and returns it unchanged.
var Identity Validator = Func(func(_ context.Context, value any) (any, error) {
	return value, nil
})

// Builder compiles a schema definition into a [Validator].
// Builders are called at route registration time only.
type Builder interface {
	Build(def any) (Validator, error)
}

// BuilderFunc adapts an ordinary function to the [Builder] interface.
type BuilderFunc func(def any) (Validator, error)

// Build calls f(def).
func (f BuilderFunc) Build(def any) (Validator, error) {
	return f(def)
}

type responseKey struct{}

// ForResponse marks ctx as the validation of an outgoing response. JSON
// Schema validators then leave date and date-time strings as strings, so
// the response body is written the way the handler produced it.
func ForResponse(ctx context.Context) context.Context {
	return context.WithValue(ctx, responseKey{}, true)
}

// IsResponse reports whether ctx was marked with [ForResponse].
func IsResponse(ctx context.Context) bool {
	v, _ := ctx.Value(responseKey{}).(bool)
	return v
}

// YAML marks a schema definition written as a YAML JSON Schema document.
//
// Example:
//
//	v, err := schema.Default().Build(schema.YAML(`
//	type: object
//	properties:
//	  n: {type: number}
//	`))
type YAML string

// defaultBuilder dispatches on the definition kind.
type defaultBuilder struct {
	jsonSchema *JSONSchema
}

// Default returns the standard [Builder].
//
// It accepts literal validators ([Validator], [Func] or a plain
// func(context.Context, any) (any, error)), JSON Schema documents as
// map[string]any, string, []byte or json.RawMessage, and [YAML] documents.
// JSON Schema compilation is cached; options configure the underlying
// [JSONSchema] builder.
func Default(opts ...Option) Builder {
	return &defaultBuilder{jsonSchema: NewJSONSchema(opts...)}
}

// Build implements [Builder].
func (b *defaultBuilder) Build(def any) (Validator, error) {
	switch d := def.(type) {
	case nil:
		return nil, ErrNilSchema
	case Validator:
		return d, nil
	case func(context.Context, any) (any, error):
		return Func(d), nil
	case YAML:
		return b.jsonSchema.BuildYAML(string(d))
	case string, []byte, json.RawMessage, map[string]any:
		return b.jsonSchema.Build(d)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSchema, def)
	}
}

// IdentityBuilder returns a [Builder] that only accepts literal validators.
// Any other definition is rejected with [ErrUnsupportedSchema].
func IdentityBuilder() Builder {
	return BuilderFunc(func(def any) (Validator, error) {
		switch d := def.(type) {
		case nil:
			return nil, ErrNilSchema
		case Validator:
			return d, nil
		case func(context.Context, any) (any, error):
			return Func(d), nil
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedSchema, def)
		}
	})
}
