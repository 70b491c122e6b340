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

// Package body decodes HTTP request payloads into the generic value model
// used by schema validators: maps, slices, strings, float64, bool and nil.
//
// Each decoder enforces a byte limit on what it reads. The limit is checked
// against Content-Length up front and against the bytes actually read, so a
// missing or wrong header cannot bypass it. Exceeding it yields an error
// wrapping [ErrTooLarge]; a payload that cannot be decoded yields an error
// wrapping [ErrMalformed].
//
// Decoders do not check the request's Content-Type. Use [Is] first:
//
//	if !body.Is(r, body.FamilyJSON) {
//		return errors.New("expected json")
//	}
//	payload, err := body.JSON(r, body.Options{Limit: 1 << 20})
package body
