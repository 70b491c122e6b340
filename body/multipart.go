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

package body

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
)

// MultipartResult holds a parsed multipart/form-data payload.
type MultipartResult struct {
	// Fields holds the non-file parts, shaped like [Form] output.
	Fields map[string]any

	// Files holds the file parts by field name.
	Files map[string][]*multipart.FileHeader

	form *multipart.Form
}

// RemoveAll removes temporary files created while parsing.
func (m *MultipartResult) RemoveAll() error {
	if m == nil || m.form == nil {
		return nil
	}

	return m.form.RemoveAll()
}

// Multipart parses a multipart/form-data body. Up to opts.MaxMemory bytes
// are kept in memory; larger file parts are stored in temporary files that
// [MultipartResult.RemoveAll] deletes.
func Multipart(r *http.Request, opts Options) (*MultipartResult, error) {
	lr, err := limit(r, opts.limit(DefaultMultipartLimit))
	if err != nil {
		return nil, err
	}

	if err := r.ParseMultipartForm(opts.maxMemory()); err != nil {
		if lr.exceeded || errors.Is(err, ErrTooLarge) {
			return nil, lr.err()
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	form := r.MultipartForm
	if form == nil {
		return &MultipartResult{Fields: map[string]any{}, Files: map[string][]*multipart.FileHeader{}}, nil
	}

	files := form.File
	if files == nil {
		files = map[string][]*multipart.FileHeader{}
	}

	return &MultipartResult{
		Fields: Values(form.Value),
		Files:  files,
		form:   form,
	}, nil
}

// Stream returns a reader over the parts of a multipart body without
// buffering them. Parts are consumed in order and at most once.
func Stream(r *http.Request) (*multipart.Reader, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, ErrNoBody
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return mr, nil
}
