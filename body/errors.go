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

import "errors"

var (
	// ErrTooLarge is returned when a payload exceeds its byte limit.
	ErrTooLarge = errors.New("request body too large")

	// ErrMalformed is returned when a payload cannot be decoded.
	ErrMalformed = errors.New("malformed request body")

	// ErrNoBody is returned by [Stream] when the request has no body.
	ErrNoBody = errors.New("request has no body")
)
