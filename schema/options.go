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

import "golang.org/x/text/language"

// defaultMaxCachedSchemas is the default maximum number of compiled JSON schemas to cache.
// Override with [WithMaxCachedSchemas].
const defaultMaxCachedSchemas = 1024

// Option configures a [JSONSchema] builder.
type Option func(*config)

// config holds the JSON Schema builder settings.
type config struct {
	// maxCachedSchemas bounds the compile cache; the least recently used entry is evicted.
	maxCachedSchemas int

	// maxErrors stops error collection after this many field errors (0 = unlimited).
	maxErrors int

	// coerce enables type-driven casting of input values before validation.
	coerce bool

	// language selects the locale of error messages.
	language language.Tag
}

func newConfig() *config {
	return &config{
		maxCachedSchemas: defaultMaxCachedSchemas,
		coerce:           true,
		language:         language.English,
	}
}

// WithMaxCachedSchemas sets the maximum number of compiled schemas kept in memory.
// Values <= 0 restore the default.
func WithMaxCachedSchemas(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = defaultMaxCachedSchemas
		}
		c.maxCachedSchemas = n
	}
}

// WithMaxErrors limits the number of field errors reported per validation.
//
// Example:
//
//	b := schema.Default(schema.WithMaxErrors(5))
func WithMaxErrors(n int) Option {
	return func(c *config) {
		c.maxErrors = n
	}
}

// WithoutCoercion disables casting. Values are validated exactly as received,
// so query and header strings only satisfy "string" typed properties.
func WithoutCoercion() Option {
	return func(c *config) {
		c.coerce = false
	}
}

// WithLanguage sets the language used for schema error messages.
func WithLanguage(tag language.Tag) Option {
	return func(c *config) {
		c.language = tag
	}
}
