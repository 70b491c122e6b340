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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrInvalidConfig indicates an option was given an unusable value.
var ErrInvalidConfig = errors.New("invalid metrics configuration")

// Outcome labels.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Option configures a [Recorder].
type Option func(*Recorder)

// WithNamespace prefixes every metric name. Defaults to "specrouter".
func WithNamespace(ns string) Option {
	return func(r *Recorder) {
		r.namespace = ns
	}
}

// WithRegistry registers the metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		r.registry = reg
	}
}

// WithDurationBuckets sets the request duration histogram buckets, in seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.buckets = buckets
	}
}

// Recorder records router outcomes. It is safe for concurrent use.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	validations *prometheus.CounterVec
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	handler     http.Handler
}

// New creates a recorder and registers its metrics.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		namespace: "specrouter",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}

	if len(r.buckets) == 0 {
		return nil, fmt.Errorf("%w: duration buckets are empty", ErrInvalidConfig)
	}
	if r.registry == nil {
		// A private registry lets several recorders coexist in one process.
		r.registry = prometheus.NewRegistry()
	}

	r.validations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "validations_total",
		Help:      "Request and response validation outcomes by route and category.",
	}, []string{"route", "category", "outcome"})

	r.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "requests_total",
		Help:      "Requests served by route, method and status code.",
	}, []string{"route", "method", "code"})

	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "request_duration_seconds",
		Help:      "Request duration by route and method.",
		Buckets:   r.buckets,
	}, []string{"route", "method"})

	for _, c := range []prometheus.Collector{r.validations, r.requests, r.duration} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics.MustNew: %v", err))
	}

	return r
}

// RecordValidation counts one validation outcome.
func (r *Recorder) RecordValidation(_ context.Context, route, category string, err error) {
	outcome := OutcomeValid
	if err != nil {
		outcome = OutcomeInvalid
	}

	r.validations.WithLabelValues(route, category, outcome).Inc()
}

// RecordRequest counts one served request and observes its duration.
func (r *Recorder) RecordRequest(_ context.Context, route, method string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return r.handler
}
