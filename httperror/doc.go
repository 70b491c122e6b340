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

// Package httperror turns the terminal error of a request into an HTTP
// response.
//
// Errors control the response through optional interfaces:
//
//   - [ErrorType]: HTTPStatus() int selects the status code (default 500)
//   - [ErrorMessage]: Msg() string selects the client-facing message
//   - [ErrorDetails]: Details() any adds structured details, such as field errors
//   - [ErrorCode]: Code() string adds a machine-readable code
//
// Two formatters are provided. [Simple] renders {"status":400,"msg":"..."}
// and is the router default. [RFC9457] renders problem details with a
// correlation id.
//
// Example:
//
//	resp := httperror.NewSimple().Format(req, err)
//	_ = httperror.Write(w, resp)
package httperror
