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
	"bytes"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// maxRecursionDepth limits recursion depth to prevent stack overflow from deeply nested structures.
const maxRecursionDepth = 100

// normalize converts value into the data model understood by the schema
// validator: map[string]any, []any, string, bool, nil and Go numbers.
// Integers keep their type so large values are not rounded through float64.
// Maps and slices are always copied so casting never mutates caller data.
func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, float64,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, nil
	case float32:
		return float64(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		return v.Float64()
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = e
		}
		return out, nil
	case []string:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var out any
		if err := dec.Decode(&out); err != nil {
			return nil, err
		}
		return normalize(out)
	}
}

// typesOf returns the "type" keyword of a schema object as a list.
func typesOf(s map[string]any) []string {
	switch t := s["type"].(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if name, ok := e.(string); ok {
				out = append(out, name)
			}
		}
		return out
	default:
		return nil
	}
}

// accepts reports whether a schema with the given types admits kind.
// An untyped schema admits everything.
func accepts(types []string, kind string) bool {
	return len(types) == 0 || slices.Contains(types, kind)
}

// coerce casts value towards the types declared by doc before validation.
func coerce(doc, value any, depth int) any {
	s, ok := doc.(map[string]any)
	if !ok || depth > maxRecursionDepth {
		return value
	}
	types := typesOf(s)

	switch v := value.(type) {
	case string:
		return coerceString(s, types, v, depth)
	case map[string]any:
		if !accepts(types, "object") {
			return v
		}
		return coerceObject(s, v, depth)
	case []any:
		if !accepts(types, "array") {
			return v
		}
		return coerceArray(s, v, depth)
	default:
		return value
	}
}

func coerceString(s map[string]any, types []string, v string, depth int) any {
	if len(types) == 0 || slices.Contains(types, "string") {
		return v
	}

	for _, t := range types {
		switch t {
		case "integer", "number":
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			if t == "integer" {
				if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
					return n
				}
			}
			f, err := cast.ToFloat64E(trimmed)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			return f
		case "boolean":
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		case "null":
			if v == "" {
				return nil
			}
		case "array":
			return coerceArray(s, []any{v}, depth)
		}
	}

	return v
}

func coerceObject(s, v map[string]any, depth int) map[string]any {
	props, _ := s["properties"].(map[string]any)

	for name, sub := range props {
		if e, ok := v[name]; ok {
			v[name] = coerce(sub, e, depth+1)
			continue
		}
		if subSchema, ok := sub.(map[string]any); ok {
			if def, ok := subSchema["default"]; ok {
				if d, err := normalize(def); err == nil {
					v[name] = d
				}
			}
		}
	}

	if additional, ok := s["additionalProperties"].(map[string]any); ok {
		for name, e := range v {
			if _, declared := props[name]; !declared {
				v[name] = coerce(additional, e, depth+1)
			}
		}
	}

	return v
}

func coerceArray(s map[string]any, v []any, depth int) []any {
	items := s["items"]
	for i, e := range v {
		v[i] = coerce(items, e, depth+1)
	}

	return v
}

// finish applies casts that only make sense after validation succeeded:
// whole numbers of integer schemas become int64 and, when dates is set,
// date-time / date formatted strings become time.Time.
func finish(doc, value any, dates bool, depth int) any {
	s, ok := doc.(map[string]any)
	if !ok || depth > maxRecursionDepth {
		return value
	}
	types := typesOf(s)

	switch v := value.(type) {
	case float64:
		if slices.Contains(types, "integer") && !slices.Contains(types, "number") &&
			v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v)
		}
	case string:
		if !dates {
			break
		}
		format, _ := s["format"].(string)
		switch format {
		case "date-time":
			if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return t
			}
		case "date":
			if t, err := time.Parse(time.DateOnly, v); err == nil {
				return t
			}
		}
	case map[string]any:
		props, _ := s["properties"].(map[string]any)
		additional, _ := s["additionalProperties"].(map[string]any)
		for name, e := range v {
			if sub, ok := props[name]; ok {
				v[name] = finish(sub, e, dates, depth+1)
			} else if additional != nil {
				v[name] = finish(additional, e, dates, depth+1)
			}
		}
	case []any:
		for i, e := range v {
			v[i] = finish(s["items"], e, dates, depth+1)
		}
	}

	return value
}
