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
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"rivaas.dev/specrouter/body"
)

// Context carries the state of one request through the handler chain.
//
// Header, query and path parameters are exposed as generic maps that input
// validation replaces with casted values. The response is buffered: handlers
// set a status, headers and a body, and the router writes them once the
// chain completes, after output validation.
//
// A Context is not safe for concurrent use and must not be retained after
// the handler chain returns.
type Context struct {
	// Request is the incoming request. Validated headers are written back
	// into Request.Header.
	Request *http.Request

	// Writer writes directly to the client, bypassing the buffered
	// response and output validation.
	Writer http.ResponseWriter

	// Body is the parsed, then validated, request body.
	Body any

	router   *Router
	binding  *binding
	handlers []HandlerFunc
	index    int
	aborted  bool

	header  map[string]any
	query   map[string]any
	params  map[string]any
	invalid map[string]error
	states  map[string]State
	files   map[string][]*multipart.FileHeader
	parts   *multipart.Reader
	logger  *slog.Logger
	cleanup []func()

	status     int
	respHeader http.Header
	respBody   any
}

func newContext(r *Router, b *binding, w *responseWriter, req *http.Request, params map[string]any) *Context {
	return &Context{
		Request:    req,
		Writer:     w,
		router:     r,
		binding:    b,
		handlers:   b.chain,
		index:      -1,
		header:     headerMap(req.Header),
		query:      body.Values(req.URL.Query()),
		params:     params,
		respHeader: make(http.Header),
	}
}

// Next runs the remaining handlers. It returns the first error a handler
// returns; the handlers after it do not run.
//
// Middleware calls Next to run code after the rest of the chain:
//
//	func timing(c *specrouter.Context) error {
//		start := time.Now()
//		err := c.Next()
//		c.Logger().Info("done", "took", time.Since(start))
//		return err
//	}
func (c *Context) Next() error {
	c.index++
	for c.index < len(c.handlers) {
		if c.aborted {
			return nil
		}
		if err := c.handlers[c.index](c); err != nil {
			c.aborted = true
			return err
		}
		c.index++
	}

	return nil
}

// Abort stops the chain after the current handler. The buffered response
// is still written.
func (c *Context) Abort() {
	c.aborted = true
}

// IsAborted reports whether the chain was stopped.
func (c *Context) IsAborted() bool {
	return c.aborted
}

// Header returns the request headers keyed by lower-case name. Single
// values are strings, repeated headers are []any.
func (c *Context) Header() map[string]any {
	return c.header
}

// Query returns the query parameters in the same shape as [Context.Header].
func (c *Context) Query() map[string]any {
	return c.query
}

// Params returns the path parameters.
func (c *Context) Params() map[string]any {
	return c.params
}

// Param returns a path parameter as a string, or "" if absent.
func (c *Context) Param(name string) string {
	v, ok := c.params[name]
	if !ok || v == nil {
		return ""
	}

	return stringify(v)
}

// Invalid returns the errors recorded by parsing and input validation when
// the route sets ContinueOnError. Keys are "type" for body parsing and the
// category name otherwise. It is nil when nothing failed.
func (c *Context) Invalid() map[string]error {
	return c.invalid
}

// State returns the validation state of a category.
func (c *Context) State(category string) State {
	if s, ok := c.states[category]; ok {
		return s
	}

	return StatePending
}

// Files returns the uploaded files of a multipart body.
func (c *Context) Files() map[string][]*multipart.FileHeader {
	return c.files
}

// Parts returns the part reader of a stream body. Parts are read lazily
// and at most once.
func (c *Context) Parts() *multipart.Reader {
	return c.parts
}

// Route returns a snapshot of the matched route.
func (c *Context) Route() *RouteInfo {
	return c.binding.info.clone()
}

// Logger returns the router logger annotated with the request method and
// route pattern.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		c.logger = c.router.logger.With(
			slog.String("method", c.Request.Method),
			slog.String("route", c.binding.pattern),
		)
	}

	return c.logger
}

// Status returns the response status set so far, or 0.
func (c *Context) Status() int {
	return c.status
}

// SetStatus sets the response status.
func (c *Context) SetStatus(code int) {
	c.status = code
}

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.respHeader.Set(key, value)
}

// ResponseHeader returns the buffered response headers.
func (c *Context) ResponseHeader() http.Header {
	return c.respHeader
}

// ResponseBody returns the buffered response body.
func (c *Context) ResponseBody() any {
	return c.respBody
}

// SetBody sets the response body. Strings render as text/plain, []byte and
// io.Reader as application/octet-stream and anything else as JSON.
func (c *Context) SetBody(v any) {
	c.respBody = v
}

// JSON sets the status and a body rendered as JSON.
func (c *Context) JSON(code int, v any) error {
	c.status = code
	c.respBody = v
	c.respHeader.Set("Content-Type", "application/json; charset=utf-8")

	return nil
}

// String sets the status and a plain text body.
func (c *Context) String(code int, s string) error {
	c.status = code
	c.respBody = s

	return nil
}

// OnDone registers fn to run after the response is written.
func (c *Context) OnDone(fn func()) {
	c.cleanup = append(c.cleanup, fn)
}

func (c *Context) done() {
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		c.cleanup[i]()
	}
}

// setHeader merges a casted header value into the request view and the
// request itself.
func (c *Context) setHeader(name string, value any) {
	name = strings.ToLower(name)
	c.header[name] = value

	c.Request.Header.Del(name)
	for _, s := range stringSlice(value) {
		c.Request.Header.Add(name, s)
	}
}

// recordInvalid stores err under key for handlers to inspect.
func (c *Context) recordInvalid(key string, err error) {
	if c.invalid == nil {
		c.invalid = make(map[string]error, 1)
	}
	c.invalid[key] = err
}

func (c *Context) setState(category string, s State) {
	if c.states == nil {
		c.states = make(map[string]State, 4)
	}
	c.states[category] = s
}

// headerMap converts request headers to the generic value model.
func headerMap(h http.Header) map[string]any {
	out := make(map[string]any, len(h))
	for k, vals := range h {
		k = strings.ToLower(k)
		switch len(vals) {
		case 0:
		case 1:
			out[k] = vals[0]
		default:
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			out[k] = list
		}
	}

	return out
}
