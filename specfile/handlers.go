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

package specfile

import (
	"fmt"
	"slices"
	"strings"

	"rivaas.dev/specrouter"
)

// Handlers resolves handler names used in route files.
type Handlers map[string]specrouter.HandlerFunc

// Names returns the registered names in sorted order.
func (h Handlers) Names() []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func (h Handlers) resolve(route string, names []string) ([]specrouter.HandlerFunc, error) {
	out := make([]specrouter.HandlerFunc, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		fn, ok := h[name]
		if !ok || fn == nil {
			return nil, fmt.Errorf("%w: %q (route %s)", ErrUnknownHandler, name, route)
		}
		out = append(out, fn)
	}

	return out, nil
}

// Specs builds one spec per route, in file order. Schemas are not
// compiled here; the router reports schema errors on registration.
func (f *File) Specs(h Handlers) ([]specrouter.Spec, error) {
	specs := make([]specrouter.Spec, 0, len(f.Routes))
	for i, rt := range f.Routes {
		label := rt.Name
		if label == "" {
			label = fmt.Sprintf("%d (%s %s)", i, rt.Method, rt.Path)
		}

		handlers, err := h.resolve(label, rt.Handler)
		if err != nil {
			return nil, err
		}
		pre, err := h.resolve(label, rt.Pre)
		if err != nil {
			return nil, err
		}

		specs = append(specs, specrouter.Spec{
			Name:     rt.Name,
			Method:   rt.Method,
			Path:     rt.Path,
			Handler:  handlers,
			Pre:      pre,
			Validate: rt.Validate.build(),
			Meta:     rt.Meta,
		})
	}

	return specs, nil
}

// Apply sets the file prefix on r and registers every route. Registration
// is all-or-nothing as for [specrouter.Router.Route].
func (f *File) Apply(r *specrouter.Router, h Handlers) error {
	specs, err := f.Specs(h)
	if err != nil {
		return err
	}

	if f.Prefix != "" {
		if err = r.Prefix(f.Prefix); err != nil {
			return err
		}
	}

	return r.Route(specs...)
}

func (v *Validate) build() *specrouter.Validate {
	if v == nil {
		return nil
	}

	out := &specrouter.Validate{
		Header:          v.Header,
		Query:           v.Query,
		Params:          v.Params,
		Body:            v.Body,
		Type:            specrouter.BodyType(v.Type),
		MaxBody:         v.MaxBody,
		MultipartMemory: v.MultipartMemory,
		Failure:         v.Failure,
		ContinueOnError: v.ContinueOnError,
	}
	if len(v.Output) > 0 {
		out.Output = v.Output.Entries()
	}

	return out
}
