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

import "errors"

var (
	// ErrUnknownFormat is returned for file extensions or formats without a decoder.
	ErrUnknownFormat = errors.New("unknown route file format")

	// ErrDecode wraps syntax and structure errors of a route file.
	ErrDecode = errors.New("cannot decode route file")

	// ErrUnknownHandler is returned when a route names a handler missing from [Handlers].
	ErrUnknownHandler = errors.New("unknown handler")
)
