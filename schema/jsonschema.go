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
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/message"
)

// schemaURL is the resource location every document is registered under.
// Each document gets its own compiler, so the name never collides.
const schemaURL = "schema.json"

// JSONSchema compiles JSON Schema documents into casting validators.
//
// Compiled schemas are cached by their canonical JSON text, so registering
// many routes that share a schema compiles it once.
//
// Example:
//
//	js := schema.NewJSONSchema(schema.WithMaxErrors(10))
//	v, err := js.Build(map[string]any{"type": "integer"})
type JSONSchema struct {
	cfg     *config
	printer *message.Printer

	cacheMu sync.RWMutex
	cache   map[string]*schemaCacheEntry
}

// schemaCacheEntry is a compiled schema plus its last access time for eviction.
type schemaCacheEntry struct {
	validator  *jsonSchemaValidator
	lastAccess atomic.Int64
}

// NewJSONSchema creates a JSON Schema builder.
func NewJSONSchema(opts ...Option) *JSONSchema {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &JSONSchema{
		cfg:     cfg,
		printer: message.NewPrinter(cfg.language),
		cache:   make(map[string]*schemaCacheEntry),
	}
}

// Build implements [Builder]. def is a JSON document (string, []byte,
// json.RawMessage) or an already decoded document such as map[string]any.
func (j *JSONSchema) Build(def any) (Validator, error) {
	if def == nil {
		return nil, ErrNilSchema
	}

	raw, err := canonicalJSON(def)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	return j.getOrCompile(raw)
}

// BuildYAML compiles a JSON Schema document written in YAML.
func (j *JSONSchema) BuildYAML(src string) (Validator, error) {
	var doc any
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %w", ErrCompile, err)
	}
	if doc == nil {
		return nil, ErrNilSchema
	}

	return j.Build(doc)
}

// canonicalJSON returns the compact JSON text of def.
func canonicalJSON(def any) ([]byte, error) {
	var src []byte
	switch d := def.(type) {
	case string:
		src = []byte(d)
	case []byte:
		src = d
	case json.RawMessage:
		src = d
	default:
		return json.Marshal(def)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, src); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}

	return buf.Bytes(), nil
}

func (j *JSONSchema) getOrCompile(raw []byte) (*jsonSchemaValidator, error) {
	key := string(raw)
	now := time.Now().UnixNano()

	j.cacheMu.RLock()
	if entry, ok := j.cache[key]; ok {
		j.cacheMu.RUnlock()
		entry.lastAccess.Store(now)

		return entry.validator, nil
	}
	j.cacheMu.RUnlock()

	v, err := j.compile(raw)
	if err != nil {
		return nil, err
	}

	j.cacheMu.Lock()
	defer j.cacheMu.Unlock()

	if len(j.cache) >= j.cfg.maxCachedSchemas {
		var oldestKey string
		var oldestNano int64
		found := false

		for k, entry := range j.cache {
			entryNano := entry.lastAccess.Load()
			if !found || entryNano < oldestNano {
				oldestKey = k
				oldestNano = entryNano
				found = true
			}
		}

		if found {
			delete(j.cache, oldestKey)
		}
	}

	entry := &schemaCacheEntry{validator: v}
	entry.lastAccess.Store(now)
	j.cache[key] = entry

	return v, nil
}

func (j *JSONSchema) compile(raw []byte) (*jsonSchemaValidator, error) {
	compilerDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schema JSON: %w", ErrCompile, err)
	}

	// A second, plain decoding drives casting; its numbers are float64 so
	// defaults copied into values match what the body parser produces.
	var castDoc any
	if err := json.Unmarshal(raw, &castDoc); err != nil {
		return nil, fmt.Errorf("%w: invalid schema JSON: %w", ErrCompile, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	compiler.AssertContent()

	if err := compiler.AddResource(schemaURL, compilerDoc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	return &jsonSchemaValidator{
		schema:  compiled,
		doc:     castDoc,
		cfg:     j.cfg,
		printer: j.printer,
	}, nil
}

// jsonSchemaValidator validates values against one compiled document.
type jsonSchemaValidator struct {
	schema  *jsonschema.Schema
	doc     any
	cfg     *config
	printer *message.Printer
}

// Validate implements [Validator].
func (v *jsonSchemaValidator) Validate(ctx context.Context, value any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	instance, err := normalize(value)
	if err != nil {
		return nil, errorOf("", "schema.marshal_error", err.Error())
	}
	// normalize copies, so base stays untouched by casting.
	base, _ := normalize(value)

	if v.cfg.coerce {
		instance = coerce(v.doc, instance, 0)
	}

	if err := v.schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return nil, v.formatErrors(verr)
		}

		return nil, errorOf("", "schema.validation_error", err.Error())
	}

	if v.cfg.coerce {
		instance = finish(v.doc, instance, !IsResponse(ctx), 0)
	}

	// Nothing was cast: hand back the caller's value so its types, key
	// order and number precision are kept.
	if reflect.DeepEqual(base, instance) {
		return value, nil
	}

	return instance, nil
}

func (v *jsonSchemaValidator) formatErrors(verr *jsonschema.ValidationError) error {
	var result Error
	v.collect(verr, &result)
	if !result.HasErrors() {
		result.Add("", "schema.validation_error", verr.Error(), nil)
	}

	result.Sort()
	return &result
}

func (v *jsonSchemaValidator) collect(verr *jsonschema.ValidationError, result *Error) {
	if verr == nil {
		return
	}
	if v.cfg.maxErrors > 0 && len(result.Fields) >= v.cfg.maxErrors {
		result.Truncated = true
		return
	}

	if len(verr.Causes) == 0 && verr.ErrorKind != nil {
		keywords := verr.ErrorKind.KeywordPath()
		code := "schema"
		if len(keywords) > 0 {
			code = "schema." + keywords[len(keywords)-1]
		}

		result.Add(
			strings.Join(verr.InstanceLocation, "."),
			code,
			verr.ErrorKind.LocalizedString(v.printer),
			map[string]any{
				"keyword":    strings.Join(keywords, "/"),
				"schema_url": verr.SchemaURL,
			},
		)
	}

	for _, cause := range verr.Causes {
		v.collect(cause, result)
	}
}
