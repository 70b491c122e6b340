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

package output

import "errors"

var (
	// ErrInvalidRange is returned for malformed status range tokens.
	ErrInvalidRange = errors.New("invalid status code")

	// ErrInvalidRule is returned when a rule cannot be built from its expression and spec.
	ErrInvalidRule = errors.New("invalid output validation rule")

	// ErrOverlap is returned when two rules of one validator share a status code.
	ErrOverlap = errors.New("output validation rules may not overlap")
)
