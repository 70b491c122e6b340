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
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var errNotHijacker = errors.New("response writer does not implement http.Hijacker")

// responseWriter records whether anything reached the client, so the
// buffered response is not written on top of a direct write.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	return n, err
}

// StatusCode returns the status sent to the client.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}

	return rw.statusCode
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		rw.written = true
		return hijacker.Hijack()
	}

	return nil, nil, errNotHijacker
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// effectiveStatus is the status the buffered response will be written with.
func (c *Context) effectiveStatus() int {
	switch {
	case c.status != 0:
		return c.status
	case c.respBody != nil:
		return http.StatusOK
	default:
		return http.StatusNotFound
	}
}

// render writes the buffered response. It returns an error only when the
// body cannot be encoded, in which case nothing has been written yet.
func (c *Context) render(w *responseWriter) error {
	if w.written {
		return nil
	}

	status := c.effectiveStatus()
	h := w.Header()
	for k, vals := range c.respHeader {
		h[k] = vals
	}

	setType := func(ct string) {
		if h.Get("Content-Type") == "" {
			h.Set("Content-Type", ct)
		}
	}

	switch b := c.respBody.(type) {
	case nil:
		if c.status == 0 {
			setType("text/plain; charset=utf-8")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, http.StatusText(status))
			return nil
		}
		w.WriteHeader(status)
	case string:
		setType("text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, b)
	case []byte:
		setType("application/octet-stream")
		w.WriteHeader(status)
		_, _ = w.Write(b)
	case io.Reader:
		if closer, ok := b.(io.Closer); ok {
			defer closer.Close()
		}
		setType("application/octet-stream")
		w.WriteHeader(status)
		_, _ = io.Copy(w, b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			for k := range c.respHeader {
				h.Del(k)
			}
			return fmt.Errorf("encode response body: %w", err)
		}
		setType("application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write(data)
	}

	return nil
}

// outputResponse exposes the buffered response to output validation.
type outputResponse struct {
	c *Context
}

func (r outputResponse) Status() int {
	return r.c.effectiveStatus()
}

func (r outputResponse) Headers() map[string]any {
	return headerMap(r.c.respHeader)
}

func (r outputResponse) SetHeader(name string, value any) {
	r.c.respHeader.Del(name)
	for _, s := range stringSlice(value) {
		r.c.respHeader.Add(name, s)
	}
}

func (r outputResponse) Body() any {
	return r.c.respBody
}

func (r outputResponse) SetBody(body any) {
	r.c.respBody = body
}

// stringify renders a casted value as header text.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}

	return fmt.Sprint(v)
}

// stringSlice renders a casted value as one or more header values.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = stringify(e)
		}
		return out
	}

	return []string{stringify(v)}
}
