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
	"errors"
	"fmt"
	"net/http"

	"rivaas.dev/specrouter/schema"
)

var (
	// ErrInvalidSpec indicates a route spec failed registration checks.
	ErrInvalidSpec = errors.New("invalid route spec")

	// ErrUnsupportedBodyType indicates validate.type names an unknown body type.
	ErrUnsupportedBodyType = errors.New("unsupported body type")

	// ErrDuplicateRoute indicates a method and path pair was registered twice.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrInvalidOption indicates a router option was given an unusable value.
	ErrInvalidOption = errors.New("invalid router option")
)

// ConfigError is returned when a route spec cannot be registered.
// It is never produced while serving requests.
type ConfigError struct {
	// Route identifies the spec, for example "GET POST /users".
	Route string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Route == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("route %s: %v", e.Route, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// HTTPStatus returns 500.
func (e *ConfigError) HTTPStatus() int { return http.StatusInternalServerError }

// Msg returns the underlying error message.
func (e *ConfigError) Msg() string { return e.Err.Error() }

// ParseError is returned when a request body cannot be read as the declared
// type: wrong content type or malformed payload (400), or a payload over
// the size limit (413).
type ParseError struct {
	Status  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HTTPStatus returns the status to respond with.
func (e *ParseError) HTTPStatus() int { return e.Status }

// Msg returns the client-facing message, such as "expected json".
func (e *ParseError) Msg() string { return e.Message }

// ValidationError is returned when a request part or the response fails its
// schema. Category is one of header, query, params, body or output.
type ValidationError struct {
	Category string
	Status   int
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// HTTPStatus returns the configured failure status, or 500 for output errors.
func (e *ValidationError) HTTPStatus() int { return e.Status }

// Msg returns the schema's message.
func (e *ValidationError) Msg() string { return e.Err.Error() }

// Details returns the field errors when the schema reported them.
func (e *ValidationError) Details() any {
	var verr *schema.Error
	if errors.As(e.Err, &verr) {
		return verr.Fields
	}

	return nil
}
