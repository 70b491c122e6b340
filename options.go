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
	"log/slog"
	"net/http"

	"rivaas.dev/specrouter/httperror"
	"rivaas.dev/specrouter/schema"
)

// Option configures a [Router].
type Option func(*Router)

// WithSchemaBuilder sets the builder that compiles schema definitions.
// Defaults to [schema.Default].
func WithSchemaBuilder(b schema.Builder) Option {
	return func(r *Router) {
		r.builder = b
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
//
// Example:
//
//	r := specrouter.MustNew(specrouter.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithErrorFormatter sets how terminal errors are rendered.
// Defaults to [httperror.Simple].
func WithErrorFormatter(f httperror.Formatter) Option {
	return func(r *Router) {
		r.formatter = f
	}
}

// WithRecorder sets the recorder for validation and request outcomes.
func WithRecorder(rec Recorder) Option {
	return func(r *Router) {
		r.recorder = rec
	}
}

// WithNotFound sets the handler for requests that match no route.
func WithNotFound(h http.Handler) Option {
	return func(r *Router) {
		r.notFound = h
	}
}

// WithPrefix sets the path prefix of every route. See [Router.Prefix].
func WithPrefix(prefix string) Option {
	return func(r *Router) {
		r.prefix = prefix
	}
}

func (r *Router) validate() error {
	switch {
	case r.builder == nil:
		return fmt.Errorf("%w: schema builder is nil", ErrInvalidOption)
	case r.logger == nil:
		return fmt.Errorf("%w: logger is nil", ErrInvalidOption)
	case r.formatter == nil:
		return fmt.Errorf("%w: error formatter is nil", ErrInvalidOption)
	case r.recorder == nil:
		return fmt.Errorf("%w: recorder is nil", ErrInvalidOption)
	}

	prefix, err := normalizePrefix(r.prefix)
	if err != nil {
		return err
	}
	r.prefix = prefix

	return nil
}
