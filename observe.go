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

package specrouter

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/specrouter/httperror"
)

// Recorder receives validation and request outcomes, typically to export
// them as metrics. route is the routing pattern; category is one of type,
// header, query, params, body or output. err is nil on success.
type Recorder interface {
	RecordValidation(ctx context.Context, route, category string, err error)
	RecordRequest(ctx context.Context, route, method string, status int, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordValidation(context.Context, string, string, error) {}

func (noopRecorder) RecordRequest(context.Context, string, string, int, time.Duration) {}

// noopLogger discards all records.
var noopLogger = slog.New(slog.DiscardHandler)

// NoopLogger returns the logger used when none is configured.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// observeFailure logs, traces and records a failed parse or validation.
func (r *Router) observeFailure(c *Context, category string, err error) {
	ctx := c.Request.Context()
	status := httperror.Status(err)

	level := slog.LevelDebug
	if category == categoryOutput {
		level = slog.LevelWarn
	}
	c.Logger().Log(ctx, level, "validation failed",
		slog.String("category", category),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("validation.failed", trace.WithAttributes(
			attribute.String("validation.category", category),
			attribute.Int("http.response.status_code", status),
			attribute.String("validation.error", err.Error()),
		))
	}

	r.recorder.RecordValidation(ctx, c.binding.pattern, category, err)
}
