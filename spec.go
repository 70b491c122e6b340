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
	"strings"

	"rivaas.dev/specrouter/output"
)

// HandlerFunc handles a request or acts as middleware. Returning an error
// stops the chain and the error becomes the response.
//
// Example:
//
//	func greet(c *specrouter.Context) error {
//		name := c.Query()["name"]
//		return c.String(http.StatusOK, fmt.Sprintf("hello %v", name))
//	}
type HandlerFunc func(*Context) error

// ParamFunc runs before the handlers of every route declaring the named
// path parameter. value is the raw, unvalidated parameter.
type ParamFunc func(c *Context, value string) error

// BodyType selects how the request body is parsed.
type BodyType string

// Body types.
const (
	BodyJSON      BodyType = "json"
	BodyForm      BodyType = "form"
	BodyMultipart BodyType = "multipart"
	BodyStream    BodyType = "stream"
)

// Spec declares one route.
//
// Example:
//
//	r.MustRoute(specrouter.Spec{
//		Method: "get",
//		Path:   "/search",
//		Validate: &specrouter.Validate{
//			Query: `{"type":"object","properties":{"q":{"type":"number","minimum":5,"maximum":8}}}`,
//		},
//		Handler: []specrouter.HandlerFunc{search},
//	})
type Spec struct {
	// Name is an optional identifier reported by [Router.Routes].
	Name string

	// Method is a space separated, case-insensitive list such as "get post".
	// "del" is accepted for DELETE.
	Method string

	// Path uses ":name" or "{name}" parameters.
	Path string

	// Handler runs after validation. At least one is required.
	Handler []HandlerFunc

	// Pre runs before body parsing and validation.
	Pre []HandlerFunc

	Validate *Validate

	// Meta is free-form data exposed through [RouteInfo].
	Meta map[string]any
}

// Validate declares how requests and responses of a route are checked.
// Schema fields accept any definition the router's schema.Builder supports.
type Validate struct {
	Header any
	Query  any
	Params any

	// Body requires Type to be json, form or multipart.
	Body any

	// Type selects the body parser. Empty disables parsing.
	Type BodyType

	// MaxBody limits the body size in bytes. Zero selects the parser default.
	MaxBody int64

	// MultipartMemory bounds the in-memory part of multipart payloads.
	MultipartMemory int64

	// Failure is the status used for input validation errors. Defaults to 400.
	Failure int

	// ContinueOnError records parse and input validation errors in
	// [Context.Invalid] instead of failing the request.
	ContinueOnError bool

	// Output validates responses by status code. Rules may not overlap.
	Output []output.Entry
}

// Config is the optional part of a route used by the verb shortcuts.
type Config struct {
	Name     string
	Validate *Validate
	Pre      []HandlerFunc
	Meta     map[string]any
}

// RouteInfo is a snapshot of a registered route. Modifying it does not
// affect the router.
type RouteInfo struct {
	Name    string
	Methods []string

	// Path is the path as declared.
	Path string

	// Pattern is the full routing pattern, including the router prefix.
	Pattern string

	Validate *Validate
	Meta     map[string]any
}

// verbs maps accepted method names to canonical HTTP methods.
var verbs = map[string]string{
	"get":     http.MethodGet,
	"head":    http.MethodHead,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
	"patch":   http.MethodPatch,
	"delete":  http.MethodDelete,
	"del":     http.MethodDelete,
	"options": http.MethodOptions,
	"trace":   http.MethodTrace,
	"connect": http.MethodConnect,
}

// parseMethods splits a method list and maps each entry through verbs.
// Duplicates are dropped, keeping the first occurrence.
func parseMethods(list string) ([]string, error) {
	fields := strings.Fields(list)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: method is required", ErrInvalidSpec)
	}

	methods := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		m, ok := verbs[strings.ToLower(f)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidSpec, f)
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		methods = append(methods, m)
	}

	return methods, nil
}
