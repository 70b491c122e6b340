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
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var (
	tagValidator     *validator.Validate
	tagValidatorOnce sync.Once
)

// sharedTagValidator returns the process-wide go-playground validator.
// Field names in errors come from json tags.
func sharedTagValidator() *validator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = validator.New(validator.WithRequiredStructEnabled())
		tagValidator.RegisterTagNameFunc(jsonFieldName)
	})

	return tagValidator
}

// jsonFieldName returns the json tag name of a struct field, or the Go name.
func jsonFieldName(fld reflect.StructField) string {
	name := fld.Tag.Get("json")
	if name == "-" {
		return ""
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return fld.Name
	}

	return name
}

// StructValidator decodes values into T and validates them with struct tags.
type StructValidator[T any] struct {
	validate *validator.Validate
}

// Struct returns a [Validator] that weakly decodes its input into a new T
// using json tag names, then checks go-playground/validator `validate` tags.
// The casted value is *T.
//
// Weak decoding converts strings to numbers and booleans, single values to
// slices and RFC 3339 strings to time.Time, which is what query strings,
// headers and form bodies need.
//
// Example:
//
//	type Query struct {
//		Page  int       `json:"page" validate:"min=1"`
//		Since time.Time `json:"since"`
//	}
//
//	spec.Validate.Query = schema.Struct[Query]()
func Struct[T any]() *StructValidator[T] {
	return &StructValidator[T]{validate: sharedTagValidator()}
}

// Validate implements [Validator].
func (s *StructValidator[T]) Validate(ctx context.Context, value any) (any, error) {
	out := new(T)

	if value != nil {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           out,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToTimeHookFunc(time.RFC3339),
				mapstructure.StringToSliceHookFunc(","),
			),
		})
		if err != nil {
			return nil, fmt.Errorf("create decoder: %w", err)
		}

		if err := decoder.Decode(value); err != nil {
			return nil, errorOf("", "decode_error", err.Error())
		}
	}

	if err := s.validate.StructCtx(ctx, out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, formatTagErrors(verrs)
		}

		return nil, errorOf("", "validation_error", err.Error())
	}

	return out, nil
}

// formatTagErrors converts go-playground/validator errors into an [*Error] with stable codes.
func formatTagErrors(errs validator.ValidationErrors) error {
	var result Error

	for _, e := range errs {
		path := e.Namespace()
		// Strip top struct name
		if idx := strings.Index(path, "."); idx != -1 {
			path = path[idx+1:]
		}

		result.Add(path, "tag."+e.Tag(), tagErrorMessage(e), map[string]any{
			"tag":   e.Tag(),
			"param": e.Param(),
			"value": fmt.Sprint(e.Value()),
		})
	}

	result.Sort()
	return &result
}

// tagErrorMessage returns a human-readable error message for a tag error.
func tagErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min", "gte":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
