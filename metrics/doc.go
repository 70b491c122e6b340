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

// Package metrics exports request and validation outcomes of a
// specrouter.Router as Prometheus metrics.
//
// Example:
//
//	rec := metrics.MustNew(metrics.WithNamespace("api"))
//	r := specrouter.MustNew(specrouter.WithRecorder(rec))
//	http.Handle("/metrics", rec.Handler())
//
// Exported series:
//
//	<ns>_validations_total{route, category, outcome}
//	<ns>_requests_total{route, method, code}
//	<ns>_request_duration_seconds{route, method}
//
// outcome is "valid" or "invalid"; category is type, header, query,
// params, body or output.
package metrics
