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

package specrouter

import (
	"maps"
	"slices"

	"rivaas.dev/specrouter/output"
)

// clone returns a deep copy of the info. Schema definitions that are not
// plain data (validators, functions) are shared; they are immutable.
func (ri *RouteInfo) clone() *RouteInfo {
	if ri == nil {
		return nil
	}

	out := *ri
	out.Methods = slices.Clone(ri.Methods)
	out.Meta = cloneMap(ri.Meta)
	out.Validate = ri.Validate.clone()

	return &out
}

func (v *Validate) clone() *Validate {
	if v == nil {
		return nil
	}

	out := *v
	out.Header = cloneValue(v.Header)
	out.Query = cloneValue(v.Query)
	out.Params = cloneValue(v.Params)
	out.Body = cloneValue(v.Body)

	if v.Output != nil {
		out.Output = make([]output.Entry, len(v.Output))
		for i, e := range v.Output {
			out.Output[i] = output.Entry{Status: e.Status}
			if e.Spec != nil {
				out.Output[i].Spec = &output.Spec{
					Body:    cloneValue(e.Spec.Body),
					Headers: cloneValue(e.Spec.Headers),
				}
			}
		}
	}

	return &out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}

	return out
}

// cloneValue deep-copies the generic data model. Other values are returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	case []string:
		return slices.Clone(t)
	case []byte:
		return slices.Clone(t)
	default:
		return v
	}
}
