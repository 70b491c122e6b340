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
	"fmt"
	"reflect"
)

// ToMap returns v as a map keyed by field name, for callers that merge a
// casted value into a request or response key by key.
//
// Maps with string keys are copied; structs (or pointers to structs) are
// projected one level deep using json tag names, so typed field values such
// as time.Time survive unchanged. Other values are rejected.
func ToMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = e
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = e
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		projectStruct(rv, out)
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: cannot convert %T to a map", ErrUnsupportedSchema, v)
}

// projectStruct follows encoding/json field rules: exported fields of
// embedded structs are promoted even when the embedded type is unexported.
func projectStruct(rv reflect.Value, out map[string]any) {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)

		if field.Anonymous && field.Tag.Get("json") == "" {
			inner := rv.Field(i)
			if inner.Kind() == reflect.Pointer {
				if !field.IsExported() || inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				projectStruct(inner, out)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		if name == "" {
			continue
		}
		out[name] = rv.Field(i).Interface()
	}
}
