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
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is the sentinel wrapped by every [Error] and [FieldError].
var ErrValidation = errors.New("validation")

var (
	// ErrNilSchema is returned by builders for a nil definition.
	ErrNilSchema = errors.New("schema definition is nil")

	// ErrUnsupportedSchema is returned by builders for definitions they cannot compile.
	ErrUnsupportedSchema = errors.New("unsupported schema definition")

	// ErrCompile is wrapped by JSON Schema compilation failures.
	ErrCompile = errors.New("schema compilation failed")
)

// FieldError describes a single validation failure.
//
//	err := FieldError{
//	    Path:    "q",
//	    Code:    "schema.minimum",
//	    Message: "must be >= 5 but found 4",
//	}
type FieldError struct {
	Path    string         `json:"path"`           // JSON path (e.g., "items.2.price")
	Code    string         `json:"code"`           // Stable code (e.g., "tag.required", "schema.type")
	Message string         `json:"message"`        // Human-readable message
	Meta    map[string]any `json:"meta,omitempty"` // Additional metadata (tag, param, keyword)
}

// Error implements error.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns [ErrValidation].
func (e FieldError) Unwrap() error {
	return ErrValidation
}

// Error collects the field errors produced by one validation run.
//
//	var err *schema.Error
//	if errors.As(validationErr, &err) {
//	    for _, fieldErr := range err.Fields {
//	        fmt.Printf("%s: %s\n", fieldErr.Path, fieldErr.Message)
//	    }
//	}
//
//nolint:recvcheck // Error must use value receiver for error interface compatibility, mutating methods use pointer
type Error struct {
	Fields    []FieldError `json:"errors"`              // List of field errors
	Truncated bool         `json:"truncated,omitempty"` // True if errors were truncated due to maxErrors limit
}

// Error implements error.
func (v Error) Error() string {
	if len(v.Fields) == 0 {
		return "validation failed"
	}
	if len(v.Fields) == 1 {
		return v.Fields[0].Error()
	}

	suffix := ""
	if v.Truncated {
		suffix = " (truncated)"
	}

	msgs := make([]string, 0, len(v.Fields))
	for _, err := range v.Fields {
		msgs = append(msgs, err.Error())
	}

	return fmt.Sprintf("validation failed: %s%s", strings.Join(msgs, "; "), suffix)
}

// Unwrap returns [ErrValidation].
func (v Error) Unwrap() error {
	return ErrValidation
}

// Details returns the field errors for structured error responses.
func (v Error) Details() any {
	return v.Fields
}

// Code returns a stable machine-readable code.
func (v Error) Code() string {
	return "validation_error"
}

// Add appends a field error.
func (v *Error) Add(path, code, message string, meta map[string]any) {
	v.Fields = append(v.Fields, FieldError{
		Path:    path,
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// HasErrors reports whether any field error was recorded.
func (v Error) HasErrors() bool {
	return len(v.Fields) > 0
}

// HasCode reports whether any field error carries code.
func (v Error) HasCode(code string) bool {
	for _, f := range v.Fields {
		if f.Code == code {
			return true
		}
	}

	return false
}

// Sort orders field errors by path, then code.
func (v *Error) Sort() {
	sort.SliceStable(v.Fields, func(i, j int) bool {
		if v.Fields[i].Path != v.Fields[j].Path {
			return v.Fields[i].Path < v.Fields[j].Path
		}
		return v.Fields[i].Code < v.Fields[j].Code
	})
}

// errorOf wraps a single message into an [*Error].
func errorOf(path, code, message string) *Error {
	return &Error{Fields: []FieldError{{Path: path, Code: code, Message: message}}}
}
