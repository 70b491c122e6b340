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

package httperror

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
)

// Formatter converts an error into HTTP response components.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// FormatterFunc adapts an ordinary function to the [Formatter] interface.
type FormatterFunc func(req *http.Request, err error) Response

// Format calls f(req, err).
func (f FormatterFunc) Format(req *http.Request, err error) Response {
	return f(req, err)
}

// Response is a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is marshaled to JSON by [Write].
	Body any

	// Headers are added to the response (optional).
	Headers http.Header
}

// ErrorType allows errors to declare their own HTTP status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorMessage allows errors to provide the message shown to clients.
type ErrorMessage interface {
	error
	Msg() string
}

// ErrorDetails allows errors to provide structured information.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// Status returns the status declared by err through [ErrorType], or 500.
func Status(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		if status := typed.HTTPStatus(); status > 0 {
			return status
		}
	}

	return http.StatusInternalServerError
}

// Message returns the client-facing message for err. Errors without a
// declared status are reported by status text only, so internal failures
// do not leak.
func Message(err error, status int) string {
	var msg ErrorMessage
	if errors.As(err, &msg) {
		return msg.Msg()
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return err.Error()
	}

	return http.StatusText(status)
}

// WithStatus wraps err with an explicit HTTP status code.
// If err is nil, the status text is used as the message.
//
// Example:
//
//	return httperror.WithStatus(err, http.StatusNotFound)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

// Write writes resp to w, encoding the body as JSON.
func Write(w http.ResponseWriter, resp Response) error {
	h := w.Header()
	for k, vals := range resp.Headers {
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	if resp.ContentType != "" {
		h.Set("Content-Type", resp.ContentType)
	}

	w.WriteHeader(resp.Status)
	if resp.Body == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(resp.Body)
}
