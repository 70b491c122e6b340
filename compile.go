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
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"rivaas.dev/specrouter/output"
)

var (
	// reColonParam matches ":name" segments.
	reColonParam = regexp.MustCompile(`/:([A-Za-z_][A-Za-z0-9_]*)`)

	// reParamName matches the name of a "{name}" or "{name:regexp}" segment.
	reParamName = regexp.MustCompile(`\{([^}:]+)`)
)

// compile checks a spec and builds its route.
func (r *Router) compile(spec Spec) (*route, error) {
	methods, err := parseMethods(spec.Method)
	if err != nil {
		return nil, err
	}

	path, err := routePattern(spec.Path)
	if err != nil {
		return nil, err
	}

	if len(spec.Handler) == 0 {
		return nil, fmt.Errorf("%w: handler is required", ErrInvalidSpec)
	}
	isNil := func(h HandlerFunc) bool { return h == nil }
	if slices.ContainsFunc(spec.Handler, isNil) || slices.ContainsFunc(spec.Pre, isNil) {
		return nil, fmt.Errorf("%w: handlers may not be nil", ErrInvalidSpec)
	}

	rt := &route{
		methods:    methods,
		path:       path,
		paramNames: paramNames(path),
		pre:        slices.Clone(spec.Pre),
		handlers:   slices.Clone(spec.Handler),
		info: RouteInfo{
			Name:     spec.Name,
			Methods:  slices.Clone(methods),
			Path:     spec.Path,
			Validate: spec.Validate.clone(),
			Meta:     cloneMap(spec.Meta),
		},
	}

	if spec.Validate != nil {
		if err := r.compileValidate(rt, spec.Validate); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

// compileValidate checks the validate block and compiles its schemas.
func (r *Router) compileValidate(rt *route, in *Validate) error {
	v := *in
	v.Type = BodyType(strings.ToLower(string(v.Type)))

	switch v.Type {
	case "", BodyJSON, BodyForm, BodyMultipart, BodyStream:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedBodyType, in.Type)
	}

	if v.Body != nil && v.Type != BodyJSON && v.Type != BodyForm && v.Type != BodyMultipart {
		return fmt.Errorf("%w: validate.type must be declared when using validate.body", ErrInvalidSpec)
	}

	switch {
	case v.Failure == 0:
		v.Failure = http.StatusBadRequest
	case v.Failure < 100 || v.Failure > 599:
		return fmt.Errorf("%w: validate.failure %d is not a status code", ErrInvalidSpec, v.Failure)
	}

	if v.MaxBody < 0 || v.MultipartMemory < 0 {
		return fmt.Errorf("%w: body limits may not be negative", ErrInvalidSpec)
	}

	defs := [4]any{v.Header, v.Query, v.Params, v.Body}
	for i, def := range defs {
		if def == nil {
			continue
		}

		s, err := r.builder.Build(def)
		if err != nil {
			return fmt.Errorf("validate.%s: %w", categories[i], err)
		}
		rt.inputs[i] = s
	}

	if len(v.Output) > 0 {
		out, err := output.New(v.Output, r.builder)
		if err != nil {
			return err
		}
		rt.output = out
	}

	rt.validate = &v

	return nil
}

// routePattern converts ":name" parameters to chi syntax and checks that
// chi accepts the result.
func routePattern(path string) (pattern string, err error) {
	if path == "" {
		return "", fmt.Errorf("%w: path is required", ErrInvalidSpec)
	}
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: path %q must begin with /", ErrInvalidSpec, path)
	}

	pattern = reColonParam.ReplaceAllString(path, "/{$1}")

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidSpec, rec)
		}
	}()
	chi.NewRouter().Get(pattern, func(http.ResponseWriter, *http.Request) {})

	return pattern, nil
}

func paramNames(pattern string) []string {
	matches := reParamName.FindAllStringSubmatch(pattern, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}

	return names
}

// normalizePrefix trims a trailing slash; "" and "/" mean no prefix.
func normalizePrefix(prefix string) (string, error) {
	prefix = strings.TrimRight(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		return "", fmt.Errorf("%w: prefix %q must begin with /", ErrInvalidOption, prefix)
	}

	return prefix, nil
}

// specLabel names a spec in errors before it is compiled.
func specLabel(spec Spec) string {
	return strings.TrimSpace(strings.ToUpper(strings.Join(strings.Fields(spec.Method), " ")) + " " + spec.Path)
}
