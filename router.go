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
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"rivaas.dev/specrouter/httperror"
	"rivaas.dev/specrouter/output"
	"rivaas.dev/specrouter/schema"
)

// Router registers spec-driven routes and serves them.
//
// Every route runs the same chain: router middleware, parameter handlers,
// the spec's Pre handlers, the body parser, input validation, the spec's
// handlers and, once they return, output validation.
//
// Routes may be registered while the router is serving. The router is safe
// for concurrent use.
//
// Example:
//
//	r := specrouter.MustNew()
//	r.MustRoute(specrouter.Spec{
//		Method: "post",
//		Path:   "/users",
//		Validate: &specrouter.Validate{
//			Type: specrouter.BodyJSON,
//			Body: `{"type":"object","required":["name"]}`,
//		},
//		Handler: []specrouter.HandlerFunc{createUser},
//	})
//	http.ListenAndServe(":8080", r)
type Router struct {
	builder   schema.Builder
	logger    *slog.Logger
	formatter httperror.Formatter
	recorder  Recorder
	notFound  http.Handler

	mu         sync.RWMutex
	prefix     string
	middleware []HandlerFunc
	params     []paramHandler
	routes     []*route
	keys       map[string]bool

	mux atomic.Pointer[chi.Mux]
}

type paramHandler struct {
	name string
	fn   ParamFunc
}

// route is a compiled spec. It is immutable once registered.
type route struct {
	info       RouteInfo
	methods    []string
	path       string
	paramNames []string
	pre        []HandlerFunc
	handlers   []HandlerFunc
	validate   *Validate
	inputs     inputSchemas
	output     *output.Validator
}

// binding is a route as mounted on a mux: its full pattern and chain.
type binding struct {
	info    *RouteInfo
	pattern string
	chain   []HandlerFunc
}

// New creates a router.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		builder:   schema.Default(),
		logger:    NoopLogger(),
		formatter: httperror.NewSimple(),
		recorder:  noopRecorder{},
		keys:      make(map[string]bool),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("specrouter.MustNew: %v", err))
	}

	return r
}

// Route registers specs. Either all specs are registered or, on the first
// invalid one, none are and a [*ConfigError] is returned.
func (r *Router) Route(specs ...Spec) error {
	compiled := make([]*route, 0, len(specs))
	for _, spec := range specs {
		rt, err := r.compile(spec)
		if err != nil {
			return &ConfigError{Route: specLabel(spec), Err: err}
		}
		compiled = append(compiled, rt)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[string]bool)
	for _, rt := range compiled {
		for _, m := range rt.methods {
			key := m + " " + rt.path
			if r.keys[key] || pending[key] {
				return &ConfigError{
					Route: strings.Join(rt.methods, " ") + " " + rt.info.Path,
					Err:   fmt.Errorf("%w: %s", ErrDuplicateRoute, key),
				}
			}
			pending[key] = true
		}
	}

	for key := range pending {
		r.keys[key] = true
	}
	for _, rt := range compiled {
		r.routes = append(r.routes, rt)
		r.logger.Debug("route added",
			slog.String("method", strings.Join(rt.methods, ",")),
			slog.String("path", r.prefix+rt.path),
		)
	}
	r.mux.Store(nil)

	return nil
}

// MustRoute is like [Router.Route] but panics on error.
func (r *Router) MustRoute(specs ...Spec) {
	if err := r.Route(specs...); err != nil {
		panic(fmt.Sprintf("specrouter.MustRoute: %v", err))
	}
}

func (r *Router) handle(method, path string, cfg Config, handlers []HandlerFunc) error {
	return r.Route(Spec{
		Name:     cfg.Name,
		Method:   method,
		Path:     path,
		Handler:  handlers,
		Pre:      cfg.Pre,
		Validate: cfg.Validate,
		Meta:     cfg.Meta,
	})
}

// GET registers a GET route.
func (r *Router) GET(path string, cfg Config, handlers ...HandlerFunc) error {
	return r.handle(http.MethodGet, path, cfg, handlers)
}

// POST registers a POST route.
func (r *Router) POST(path string, cfg Config, handlers ...HandlerFunc) error {
	return r.handle(http.MethodPost, path, cfg, handlers)
}

// PUT registers a PUT route.
func (r *Router) PUT(path string, cfg Config, handlers ...HandlerFunc) error {
	return r.handle(http.MethodPut, path, cfg, handlers)
}

// PATCH registers a PATCH route.
func (r *Router) PATCH(path string, cfg Config, handlers ...HandlerFunc) error {
	return r.handle(http.MethodPatch, path, cfg, handlers)
}

// DELETE registers a DELETE route.
func (r *Router) DELETE(path string, cfg Config, handlers ...HandlerFunc) error {
	return r.handle(http.MethodDelete, path, cfg, handlers)
}

// OPTIONS registers an OPTIONS route.
func (r *Router) OPTIONS(path string, cfg Config, handlers ...HandlerFunc) error {
	return r.handle(http.MethodOptions, path, cfg, handlers)
}

// HEAD registers a HEAD route.
func (r *Router) HEAD(path string, cfg Config, handlers ...HandlerFunc) error {
	return r.handle(http.MethodHead, path, cfg, handlers)
}

// Prefix sets the path prefix of every route, including routes already
// registered.
func (r *Router) Prefix(prefix string) error {
	p, err := normalizePrefix(prefix)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.prefix = p
	r.mux.Store(nil)
	r.mu.Unlock()

	return nil
}

// Use adds middleware that runs first on every route.
func (r *Router) Use(middleware ...HandlerFunc) {
	r.mu.Lock()
	r.middleware = append(r.middleware, middleware...)
	r.mux.Store(nil)
	r.mu.Unlock()
}

// Param registers fn to run for every route declaring the path parameter
// name, before the route's Pre handlers.
//
// Example:
//
//	r.Param("id", func(c *specrouter.Context, id string) error {
//		if _, ok := users[id]; !ok {
//			return httperror.WithStatus(nil, http.StatusNotFound)
//		}
//		return nil
//	})
func (r *Router) Param(name string, fn ParamFunc) {
	r.mu.Lock()
	r.params = append(r.params, paramHandler{name: name, fn: fn})
	r.mux.Store(nil)
	r.mu.Unlock()
}

// Routes returns snapshots of the registered routes in registration order.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RouteInfo, 0, len(r.routes))
	for _, rt := range r.routes {
		info := rt.info.clone()
		info.Pattern = r.prefix + rt.path
		out = append(out, *info)
	}

	return out
}

// ServeHTTP dispatches the request to the matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	mux := r.mux.Load()
	if mux == nil {
		mux = r.buildMux()
	}

	mux.ServeHTTP(w, req)
}

// buildMux mounts every route on a new mux and caches it until the next
// registration.
func (r *Router) buildMux() *chi.Mux {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mux := r.mux.Load(); mux != nil {
		return mux
	}

	mux := chi.NewRouter()
	for _, rt := range r.routes {
		b := r.bind(rt)
		h := r.serve(b)
		for _, m := range rt.methods {
			mux.Method(m, b.pattern, h)
		}
	}
	if r.notFound != nil {
		mux.NotFound(r.notFound.ServeHTTP)
	}

	r.mux.Store(mux)

	return mux
}

func (r *Router) bind(rt *route) *binding {
	pattern := r.prefix + rt.path
	if pattern == "" {
		pattern = "/"
	}

	chain := slices.Clone(r.middleware)
	for _, p := range r.params {
		if slices.Contains(rt.paramNames, p.name) {
			chain = append(chain, paramStep(p))
		}
	}
	chain = append(chain, rt.pre...)
	if v := rt.validate; v != nil {
		if v.Type != "" {
			chain = append(chain, r.bodyParser(v))
		}
		chain = append(chain, r.validator(v, rt.inputs, rt.output))
	}
	chain = append(chain, rt.handlers...)

	info := rt.info.clone()
	info.Pattern = pattern

	return &binding{info: info, pattern: pattern, chain: chain}
}

func paramStep(p paramHandler) HandlerFunc {
	return func(c *Context) error {
		return p.fn(c, c.Param(p.name))
	}
}

// serve runs the chain of one route and writes the outcome.
func (r *Router) serve(b *binding) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}
		c := newContext(r, b, rw, req, routeParams(req))
		defer c.done()

		err := c.Next()
		if err == nil {
			err = c.render(rw)
		}
		if err != nil {
			r.writeError(c, rw, err)
		}

		r.recorder.RecordRequest(req.Context(), b.pattern, req.Method, rw.StatusCode(), time.Since(start))
	}
}

// writeError renders a terminal error unless the handler already wrote to
// the client.
func (r *Router) writeError(c *Context, rw *responseWriter, err error) {
	resp := r.formatter.Format(c.Request, err)

	if resp.Status >= http.StatusInternalServerError {
		c.Logger().Error("request failed", slog.Int("status", resp.Status), slog.String("error", err.Error()))
	} else {
		c.Logger().Debug("request rejected", slog.Int("status", resp.Status), slog.String("error", err.Error()))
	}

	if rw.written {
		return
	}
	if werr := httperror.Write(rw, resp); werr != nil {
		c.Logger().Debug("write error response", slog.String("error", werr.Error()))
	}
}

// routeParams copies the path parameters chi extracted.
func routeParams(req *http.Request) map[string]any {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		return map[string]any{}
	}

	params := make(map[string]any, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}

	return params
}
